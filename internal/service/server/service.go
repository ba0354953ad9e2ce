package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/oshokin/alarm-clock/internal/clock"
	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/notify"
	"github.com/oshokin/alarm-clock/internal/repository/alarms"
	"github.com/oshokin/alarm-clock/internal/repository/kv"
	"github.com/oshokin/alarm-clock/internal/service/scheduler"
)

// service owns the scheduler together with its storage and event sinks.
// It is unexported to keep the transport decoupled from the implementation.
type service struct {
	// store is the key/value backend of the alarm repository.
	store kv.Store
	// manager is the alarm scheduler.
	manager *scheduler.Manager
	// dispatcher fans scheduler callbacks out to the sinks.
	dispatcher *notify.Dispatcher
	// mqtt is the optional MQTT sink, closed after the dispatcher drains.
	mqtt *notify.MQTTSink
}

// newService opens the configured storage, loads the alarms and hooks the event sinks.
func newService(ctx context.Context, settings *config.Config, clk clock.Clock) (*service, error) {
	store, err := kv.Open(ctx, settings.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	manager := scheduler.New(alarms.NewKVRepository(store), clk,
		scheduler.WithSnoozeMinutes(settings.Snooze.Minutes),
		scheduler.WithMaxSnoozeCount(*settings.Snooze.MaxCount),
	)

	if err = manager.Initialize(ctx); err != nil {
		_ = store.Close()

		return nil, fmt.Errorf("initialize alarms: %w", err)
	}

	s := &service{
		store:   store,
		manager: manager,
	}

	publishers := []notify.Publisher{notify.LogSink{}}

	if settings.MQTT.Broker != "" {
		s.mqtt, err = notify.OpenMQTTSink(settings.MQTT, settings.Timeout)
		if err != nil {
			// Events still reach the remaining sinks.
			logger.ErrorKV(ctx, "MQTT sink disabled", "broker", settings.MQTT.Broker, "error", err)
		} else {
			publishers = append(publishers, s.mqtt)
		}
	}

	if settings.Webhook.URL != "" {
		publishers = append(publishers, notify.NewWebhookSink(settings.Webhook.URL, settings.Webhook.Timeout))
	}

	s.dispatcher = notify.NewDispatcher(context.WithoutCancel(ctx), clk, notify.DefaultQueueSize, publishers...)

	manager.OnTriggered(s.dispatcher.Handler(notify.KindTriggered))
	manager.OnSnoozed(s.dispatcher.Handler(notify.KindSnoozed))
	manager.OnStopped(s.dispatcher.Handler(notify.KindStopped))

	logger.InfoKV(ctx, "Alarm service ready",
		"backend", settings.Storage.Backend,
		"namespace", settings.Storage.Namespace,
		"sinks", len(publishers))

	return s, nil
}

// close stops ringing alarms, persists them, drains pending events and releases the storage.
func (s *service) close(ctx context.Context) error {
	err := s.manager.Close(ctx)

	s.dispatcher.Close()

	if s.mqtt != nil {
		s.mqtt.Close()
	}

	if closeErr := s.store.Close(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("close storage: %w", closeErr))
	}

	return err
}
