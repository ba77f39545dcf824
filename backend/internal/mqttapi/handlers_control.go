package mqttapi

import (
	"garden-hub/backend/internal/hub"
	"garden-hub/backend/pkg/mqtt"
)

// RegisterDeviceCommandPublish registers the device command publication operation.
func (h *Handler) RegisterDeviceCommandPublish(mb *mqtt.MQTTBuilder) {
	mb.MustRegisterPublish("devices/{deviceID}/commands", mqtt.PublicationSpec{
		OperationID: hub.OpPublishDeviceCommand,
		Summary:     "Publish device command",
		Description: "Flips an actuator (light, fan, pump, door) on or off. Retained so devices pick up the last commanded state after reconnecting.",
		Group:       "Control",
		TopicParameters: []mqtt.TopicParameter{
			{
				Name:        "deviceID",
				Description: "Unique identifier of the target actuator",
			},
		},
		QoS:      mqtt.QoSAtLeastOnce,
		Retained: true,
	})
}

// RegisterAlertPublish registers the alert event publication operation.
func (h *Handler) RegisterAlertPublish(mb *mqtt.MQTTBuilder) {
	mb.MustRegisterPublish("alerts/{kind}", mqtt.PublicationSpec{
		OperationID: hub.OpPublishAlert,
		Summary:     "Publish alert event",
		Description: "Pushes a fired threshold alert to dashboard clients, including the sound settings active at fire time. Retained so a late subscriber sees the most recent alert per kind.",
		Group:       "Alerts",
		TopicParameters: []mqtt.TopicParameter{
			{
				Name:        "kind",
				Description: "Alert kind (gas, temperature, fire, lowHumidity, highHumidity)",
			},
		},
		QoS:      mqtt.QoSAtLeastOnce,
		Retained: true,
	})
}
