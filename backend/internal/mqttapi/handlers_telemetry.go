package mqttapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"garden-hub/backend/internal/mqttapi/types"
	"garden-hub/backend/pkg/mqtt"
	"garden-hub/backend/pkg/utils"
)

// RegisterSensorTelemetrySubscribe registers the sensor telemetry subscription operation.
func (h *Handler) RegisterSensorTelemetrySubscribe(mb *mqtt.MQTTBuilder) {
	mb.MustRegisterSubscribe("devices/{deviceID}/sensors/{sensorType}", mqtt.SubscriptionSpec{
		OperationID: "subscribeSensorTelemetry",
		Summary:     "Subscribe to sensor telemetry",
		Description: "Receives sensor field updates from all devices. Each message refreshes one field of the latest sample and may fire threshold alerts.",
		Group:       "Telemetry",
		TopicParameters: []mqtt.TopicParameter{
			{
				Name:        "deviceID",
				Description: "Matches any device ID",
			},
			{
				Name:        "sensorType",
				Description: "Sensor field being updated (temperature, humidity, gas, soilMoisture, rain)",
			},
		},
		Handler: h.handleSensorTelemetry,
		QoS:     mqtt.QoSAtLeastOnce,
	})
}

// handleSensorTelemetry feeds one reading into the hub. Payload fields win;
// when the payload omits the device ID or sensor type they are taken from the
// topic path.
func (h *Handler) handleSensorTelemetry(_ pahomqtt.Client, msg pahomqtt.Message) {
	var reading types.SensorReading
	if err := json.Unmarshal(msg.Payload(), &reading); err != nil {
		h.l.Error("Failed to unmarshal sensor reading", slog.String("topic", msg.Topic()), utils.ErrAttr(err))

		return
	}

	deviceID, sensorType := telemetryTopicSegments(msg.Topic())

	if reading.DeviceID == "" {
		reading.DeviceID = deviceID
	}

	if reading.SensorType == "" {
		reading.SensorType = sensorType
	}

	alerts := h.svc.HandleSensorReading(context.Background(), reading.DeviceID, reading.SensorType, reading.Value)

	h.l.Debug("Processed sensor reading",
		slog.String("deviceID", reading.DeviceID),
		slog.String("sensorType", reading.SensorType),
		slog.Float64("value", reading.Value),
		slog.Int("alerts_fired", len(alerts)),
	)
}

// telemetryTopicSegments extracts the device ID and sensor type from a
// devices/{deviceID}/sensors/{sensorType} topic.
func telemetryTopicSegments(topic string) (deviceID, sensorType string) {
	parts := strings.Split(topic, "/")
	if len(parts) < 4 {
		return "", ""
	}

	return parts[1], parts[len(parts)-1]
}
