package sink

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 2 * time.Second

// Publisher is the part of mqtt.Client the sink needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

type mqttSink struct {
	client Publisher
	topic  string
	qos    byte
}

// MQTT publishes each frame as JSON to topic with QoS 0. Frames are
// superseded by the next one, so nothing is retained.
func MQTT(client Publisher, topic string) Sink {
	return &mqttSink{client: client, topic: topic}
}

func (m *mqttSink) Write(f Frame) error {
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	token := m.client.Publish(m.topic, m.qos, false, b)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish frame %d to %s: timed out", f.Seq, m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish frame %d to %s: %w", f.Seq, m.topic, err)
	}
	return nil
}

// Connect builds and connects a client for broker.
func Connect(broker, clientID string) (mqtt.Client, error) {
	options := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true)
	client := mqtt.NewClient(options)

	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect %s: timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", broker, err)
	}
	return client, nil
}
