package mqtt

import (
	"io"
	"log/slog"
	"testing"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

func testBuilder(t *testing.T) *MQTTBuilder {
	t.Helper()

	mb, err := NewMQTTBuilder(slog.New(slog.NewTextHandler(io.Discard, nil)), MQTTClientOptions{
		BrokerURL: "tcp://localhost:1883",
		ClientID:  "test-client",
	})
	if err != nil {
		t.Fatalf("NewMQTTBuilder() error = %v", err)
	}

	return mb
}

func TestOperationsInventory(t *testing.T) {
	t.Parallel()

	mb := testBuilder(t)

	err := mb.RegisterPublish("devices/{deviceID}/commands", PublicationSpec{
		OperationID: "publishDeviceCommand",
		Summary:     "Publish a device command",
		Description: "Publishes an on/off command for a device.",
		Group:       "Devices",
		TopicParameters: []TopicParameter{
			{Name: "deviceID", Description: "Device identifier"},
		},
		QoS:      QoSAtLeastOnce,
		Retained: true,
	})
	if err != nil {
		t.Fatalf("RegisterPublish() error = %v", err)
	}

	err = mb.RegisterSubscribe("sensors/{sensorType}/readings", SubscriptionSpec{
		OperationID: "subscribeSensorReadings",
		Summary:     "Receive sensor readings",
		Description: "Consumes raw sensor telemetry.",
		Group:       "Sensors",
		TopicParameters: []TopicParameter{
			{Name: "sensorType", Description: "Sensor kind"},
		},
		QoS:     QoSAtMostOnce,
		Handler: func(_ mqtt.Client, _ mqtt.Message) {},
	})
	if err != nil {
		t.Fatalf("RegisterSubscribe() error = %v", err)
	}

	ops := mb.Operations()
	if len(ops) != 2 {
		t.Fatalf("Operations() returned %d entries, want 2", len(ops))
	}

	pub := ops[0]
	if pub.OperationID != "publishDeviceCommand" || pub.Kind != "publish" {
		t.Fatalf("first entry = %s/%s, want publishDeviceCommand/publish", pub.OperationID, pub.Kind)
	}

	if pub.Topic != "devices/{deviceID}/commands" {
		t.Errorf("publish Topic = %q, want the registered pattern", pub.Topic)
	}

	if pub.TopicMQTT != "devices/+/commands" {
		t.Errorf("publish TopicMQTT = %q, want devices/+/commands", pub.TopicMQTT)
	}

	if !pub.Retained || pub.QoS != 1 {
		t.Errorf("publish QoS/Retained = %d/%v, want 1/true", pub.QoS, pub.Retained)
	}

	sub := ops[1]
	if sub.OperationID != "subscribeSensorReadings" || sub.Kind != "subscribe" {
		t.Fatalf("second entry = %s/%s, want subscribeSensorReadings/subscribe", sub.OperationID, sub.Kind)
	}

	if sub.Topic != "sensors/{sensorType}/readings" {
		t.Errorf("subscribe Topic = %q, want the registered pattern", sub.Topic)
	}

	if sub.TopicMQTT != "sensors/+/readings" {
		t.Errorf("subscribe TopicMQTT = %q, want sensors/+/readings", sub.TopicMQTT)
	}

	if len(sub.Parameters) != 1 || sub.Parameters[0].Name != "sensorType" {
		t.Errorf("subscribe Parameters = %v, want [sensorType]", sub.Parameters)
	}
}

func TestRegisterRejectsDuplicateOperationID(t *testing.T) {
	t.Parallel()

	mb := testBuilder(t)

	spec := PublicationSpec{
		OperationID: "publishAlert",
		Summary:     "Publish an alert",
		Description: "Publishes a fired alert.",
		Group:       "Alerts",
	}

	if err := mb.RegisterPublish("alerts/gas", spec); err != nil {
		t.Fatalf("RegisterPublish() error = %v", err)
	}

	if err := mb.RegisterPublish("alerts/temperature", spec); err == nil {
		t.Error("RegisterPublish() should reject a duplicate operationID")
	}
}
