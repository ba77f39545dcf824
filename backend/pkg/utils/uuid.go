package utils

import "github.com/google/uuid"

// NewUUID returns a time-ordered (v7) UUID string. IDs generated later sort
// after earlier ones, which keeps session listings in insertion order.
func NewUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("failed to generate UUID: " + err.Error())
	}

	return id.String()
}
