package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ExtraDataAfterJSONError is returned when a payload contains more than one
// JSON value.
type ExtraDataAfterJSONError struct{}

func (e *ExtraDataAfterJSONError) Error() string {
	return "extra data after JSON object"
}

// FromJSON decodes a single JSON value from data.
// Unknown fields and trailing data are rejected. Empty input yields the zero value.
//
//nolint:ireturn // Generic functions must return type parameter T
func FromJSON[T any](data []byte) (T, error) {
	var zero T

	if len(data) == 0 {
		return zero, nil
	}

	res, err := FromJSONStream[T](bytes.NewReader(data))
	if err != nil {
		return zero, err
	}

	return res, nil
}

// FromJSONStream decodes a single JSON value from r.
// Unknown fields and trailing data are rejected; trailing whitespace is fine.
//
//nolint:ireturn // Generic functions must return type parameter T
func FromJSONStream[T any](r io.Reader) (T, error) {
	var res T

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&res); err != nil {
		var zero T

		// Returned as-is so callers can match on the json package's error types.
		return zero, err
	}

	// Anything but EOF after the first value means a second JSON value follows.
	if dec.More() {
		var zero T

		return zero, &ExtraDataAfterJSONError{}
	}

	return res, nil
}

// ToJSON encodes v as compact JSON without HTML escaping.
func ToJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := ToJSONStream(&buf, v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ToJSONIndent encodes v as indented JSON without HTML escaping.
func ToJSONIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := ToJSONStreamIndent(&buf, v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ToJSONStream encodes v as compact JSON directly to w.
func ToJSONStream(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// ToJSONStreamIndent encodes v as indented JSON directly to w.
func ToJSONStreamIndent(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
