package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/oshokin/alarm-clock/internal/config"
)

// mqttClient is the subset of mqtt.Client used by MQTTSink.
type mqttClient interface {
	Publish(topic string, qos byte, retained bool, payload any) mqtt.Token
	Disconnect(quiesce uint)
}

// disconnectQuiesce is how long Disconnect waits for in-flight work, in milliseconds.
const disconnectQuiesce = 250

// errMQTTTimeout is returned when the broker does not acknowledge in time.
var errMQTTTimeout = errors.New("mqtt operation timed out")

// MQTTSink publishes events as JSON to "<prefix>/events/<kind>".
type MQTTSink struct {
	client  mqttClient
	prefix  string
	qos     byte
	timeout time.Duration
}

// OpenMQTTSink connects to the broker from the settings.
func OpenMQTTSink(settings config.MQTT, timeout time.Duration) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(settings.Broker)
	opts.SetClientID(settings.ClientID)

	if settings.Username != "" {
		opts.SetUsername(settings.Username)
	}

	if settings.Password != "" {
		opts.SetPassword(settings.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(timeout)

	client := mqtt.NewClient(opts)

	token := client.Connect()
	if !token.WaitTimeout(timeout) {
		return nil, fmt.Errorf("connect to mqtt broker: %w", errMQTTTimeout)
	}

	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", err)
	}

	return newMQTTSink(client, settings.TopicPrefix, settings.QoS, timeout), nil
}

func newMQTTSink(client mqttClient, prefix string, qos byte, timeout time.Duration) *MQTTSink {
	return &MQTTSink{
		client:  client,
		prefix:  prefix,
		qos:     qos,
		timeout: timeout,
	}
}

// Topic returns the topic events of the kind are published to.
func (s *MQTTSink) Topic(kind Kind) string {
	return s.prefix + "/events/" + string(kind)
}

// Publish sends the event and waits for the broker acknowledgement.
func (s *MQTTSink) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	topic := s.Topic(event.Kind)

	token := s.client.Publish(topic, s.qos, false, payload)
	if !token.WaitTimeout(s.timeout) {
		return fmt.Errorf("publish to %s: %w", topic, errMQTTTimeout)
	}

	if err = token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	return nil
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() {
	s.client.Disconnect(disconnectQuiesce)
}
