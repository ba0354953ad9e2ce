package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// fakeToken is a completed or never-completing mqtt.Token.
type fakeToken struct {
	done     bool
	err      error
	finished chan struct{}
}

func newFakeToken(done bool, err error) *fakeToken {
	t := &fakeToken{done: done, err: err, finished: make(chan struct{})}
	if done {
		close(t.finished)
	}

	return t
}

func (t *fakeToken) Wait() bool                     { return t.done }
func (t *fakeToken) WaitTimeout(time.Duration) bool { return t.done }
func (t *fakeToken) Done() <-chan struct{}          { return t.finished }
func (t *fakeToken) Error() error                   { return t.err }

// published is one captured MQTT publish.
type published struct {
	topic   string
	qos     byte
	payload []byte
}

// fakeMQTT captures publishes and answers with a preset token.
type fakeMQTT struct {
	token        mqtt.Token
	messages     []published
	disconnected bool
}

func (f *fakeMQTT) Publish(topic string, qos byte, _ bool, payload any) mqtt.Token {
	data, _ := payload.([]byte)
	f.messages = append(f.messages, published{topic: topic, qos: qos, payload: data})

	return f.token
}

func (f *fakeMQTT) Disconnect(uint) {
	f.disconnected = true
}

// TestMQTTSink_Publish sends JSON to the kind topic.
func TestMQTTSink_Publish(t *testing.T) {
	t.Parallel()

	client := &fakeMQTT{token: newFakeToken(true, nil)}
	sink := newMQTTSink(client, "kitchen", 1, time.Second)

	event := NewEvent(KindSnoozed, time.Now(), domain.Alarm{ID: 7, Hour: 6, Minute: 5, Label: "bread"})
	require.NoError(t, sink.Publish(context.Background(), event))

	require.Len(t, client.messages, 1)
	require.Equal(t, "kitchen/events/snoozed", client.messages[0].topic)
	require.Equal(t, byte(1), client.messages[0].qos)

	var decoded Event
	require.NoError(t, json.Unmarshal(client.messages[0].payload, &decoded))
	require.Equal(t, event.ID, decoded.ID)
	require.Equal(t, "06:05", decoded.Alarm.Time)

	sink.Close()
	require.True(t, client.disconnected)
}

// TestMQTTSink_Failures maps timeouts and broker errors.
func TestMQTTSink_Failures(t *testing.T) {
	t.Parallel()

	event := NewEvent(KindTriggered, time.Now(), domain.Alarm{ID: 1})

	sink := newMQTTSink(&fakeMQTT{token: newFakeToken(false, nil)}, "p", 0, time.Millisecond)
	require.ErrorIs(t, sink.Publish(context.Background(), event), errMQTTTimeout)

	boom := errors.New("not authorized")
	sink = newMQTTSink(&fakeMQTT{token: newFakeToken(true, boom)}, "p", 0, time.Millisecond)
	require.ErrorIs(t, sink.Publish(context.Background(), event), boom)
}
