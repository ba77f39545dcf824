package mqtt

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// QoS is the MQTT quality of service level.
type QoS byte

const (
	QoSAtMostOnce  QoS = 0
	QoSAtLeastOnce QoS = 1
	QoSExactlyOnce QoS = 2
)

// TopicParameter documents one {param} placeholder in a topic pattern.
type TopicParameter struct {
	Name        string
	Description string
}

// PublicationSpec describes an outgoing MQTT operation.
type PublicationSpec struct {
	OperationID     string
	Summary         string
	Description     string
	Group           string
	Deprecated      string
	TopicParameters []TopicParameter
	QoS             QoS
	Retained        bool

	// Topic is the registered {param} pattern and TopicMQTT its wildcard
	// form, both filled in during registration.
	Topic     string
	TopicMQTT string
}

// SubscriptionSpec describes an incoming MQTT operation.
type SubscriptionSpec struct {
	OperationID     string
	Summary         string
	Description     string
	Group           string
	Deprecated      string
	TopicParameters []TopicParameter
	QoS             QoS
	Handler         mqtt.MessageHandler

	// Topic is the registered {param} pattern and TopicMQTT its wildcard
	// form, both filled in during registration.
	Topic     string
	TopicMQTT string
}

// OperationInfo is one entry of the builder's operation inventory, served by
// the docs endpoint.
type OperationInfo struct {
	OperationID string           `json:"operationID"`
	Kind        string           `json:"kind"` // "publish" or "subscribe"
	Topic       string           `json:"topic"`
	TopicMQTT   string           `json:"topicMQTT"`
	Summary     string           `json:"summary"`
	Description string           `json:"description"`
	Group       string           `json:"group"`
	Deprecated  string           `json:"deprecated,omitempty"`
	QoS         byte             `json:"qos"`
	Retained    bool             `json:"retained,omitempty"`
	Parameters  []TopicParamInfo `json:"parameters,omitempty"`
}

// TopicParamInfo is the serializable form of a TopicParameter.
type TopicParamInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
