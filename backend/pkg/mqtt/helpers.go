package mqtt

import (
	"errors"
	"fmt"
	"strings"
)

// isValidParameterName reports whether name is a valid {param} identifier:
// it must start with a letter and contain only alphanumerics and underscores.
func isValidParameterName(name string) bool {
	if name == "" {
		return false
	}

	for i, c := range name {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'

		if i == 0 && !isLetter {
			return false
		}

		if !isLetter && !isDigit && c != '_' {
			return false
		}
	}

	return true
}

// validateTopicPattern validates an MQTT topic pattern with {param} placeholders.
// Valid patterns:
// - Parameters must be in {paramName} format (e.g., devices/{deviceID}/temperature)
// - Parameter names must start with a letter and contain only alphanumeric characters and underscores
// - Multi-level wildcards '#' are NOT supported for explicitness.
func validateTopicPattern(topic string) error {
	if topic == "" {
		return errors.New("topic cannot be empty")
	}

	if strings.HasPrefix(topic, "/") {
		return errors.New("leading slash is not allowed")
	}

	if strings.HasSuffix(topic, "/") {
		return errors.New("trailing slash is not allowed")
	}

	for segment := range strings.SplitSeq(topic, "/") {
		if segment == "" {
			return errors.New("empty segments are not allowed")
		}

		// Check for multi-level wildcard - not allowed
		if strings.Contains(segment, "#") {
			return errors.New("multi-level wildcard '#' is not supported - use explicit parameters {param} instead")
		}

		// Check for single-level wildcard - should use {param} instead
		if strings.Contains(segment, "+") {
			return errors.New("wildcard '+' is not supported - use parameter syntax {param} instead")
		}

		// Check for parameter syntax
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			paramName := segment[1 : len(segment)-1]
			if !isValidParameterName(paramName) {
				return fmt.Errorf("invalid parameter name '%s' - must start with a letter and contain only alphanumeric characters and underscores", paramName)
			}
		} else if strings.Contains(segment, "{") || strings.Contains(segment, "}") {
			return errors.New("invalid parameter syntax - use {paramName} format")
		}
	}

	return nil
}

// convertTopicToMQTT converts a parameterized topic (devices/{deviceID}/temperature)
// to an MQTT wildcard pattern (devices/+/temperature).
func convertTopicToMQTT(topic string) string {
	segments := strings.Split(topic, "/")
	for i, segment := range segments {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			segments[i] = "+"
		}
	}

	return strings.Join(segments, "/")
}

// extractTopicParams returns the {param} names of a topic pattern, in order.
func extractTopicParams(topic string) []string {
	var params []string

	for segment := range strings.SplitSeq(topic, "/") {
		if strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
			params = append(params, segment[1:len(segment)-1])
		}
	}

	return params
}

// validateQoS validates a QoS level.
func validateQoS(qos QoS) error {
	if qos != QoSAtMostOnce && qos != QoSAtLeastOnce && qos != QoSExactlyOnce {
		return errors.New("qos must be 0, 1, or 2")
	}

	return nil
}

// validateTopicParameters checks that documented parameters and the
// placeholders in the topic pattern match one-to-one.
func validateTopicParameters(topic string, topicParams []TopicParameter) error {
	inTopic := map[string]struct{}{}
	for _, name := range extractTopicParams(topic) {
		inTopic[name] = struct{}{}
	}

	documented := map[string]struct{}{}

	for _, paramSpec := range topicParams {
		if paramSpec.Name == "" {
			return fmt.Errorf("parameter name required for topic %s", topic)
		}

		if paramSpec.Description == "" {
			return fmt.Errorf("parameter Description required for topic %s", topic)
		}

		if _, exists := inTopic[paramSpec.Name]; !exists {
			return fmt.Errorf("documented parameter %s not found in topic", paramSpec.Name)
		}

		documented[paramSpec.Name] = struct{}{}
	}

	for name := range inTopic {
		if _, exists := documented[name]; !exists {
			return fmt.Errorf("topic parameter %s not documented", name)
		}
	}

	return nil
}

// validatePublicationSpec validates a publication specification.
func (mb *MQTTBuilder) validatePublicationSpec(spec PublicationSpec) error {
	if spec.OperationID == "" {
		return errors.New("operationID is required")
	}

	if spec.Summary == "" {
		return errors.New("summary is required")
	}

	if spec.Description == "" {
		return errors.New("description is required")
	}

	if spec.Group == "" {
		return errors.New("group is required")
	}

	return validateQoS(spec.QoS)
}

// validateSubscriptionSpec validates a subscription specification.
func (mb *MQTTBuilder) validateSubscriptionSpec(spec SubscriptionSpec) error {
	if spec.OperationID == "" {
		return errors.New("operationID is required")
	}

	if spec.Summary == "" {
		return errors.New("summary is required")
	}

	if spec.Description == "" {
		return errors.New("description is required")
	}

	if spec.Group == "" {
		return errors.New("group is required")
	}

	if spec.Handler == nil {
		return errors.New("handler is required")
	}

	return validateQoS(spec.QoS)
}
