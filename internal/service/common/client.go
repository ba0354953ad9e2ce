//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// Client wraps the gRPC AlarmService client with convenience helpers.
type Client struct {
	// conn is the underlying gRPC connection to the alarm server.
	conn *grpc.ClientConn
	// api is the AlarmService client.
	api *api.AlarmServiceClient

	// actor is sent with every call as "user@host".
	actor string
	// callTimeout is the default timeout for individual RPC calls.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for service calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor sets the actor reported to the server audit log.
func WithActor(actor string) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

// errAddressRequired is returned when a required address value is missing.
var errAddressRequired = errors.New("address must be provided")

// Dial establishes a gRPC connection to the alarm server.
// Note: this uses insecure transport credentials; deploy on a trusted network
// or terminate TLS in a proxy until native TLS is added.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial alarm server: %w", err)
	}

	return newClient(conn, api.NewAlarmServiceClient(conn), opts...), nil
}

func newClient(conn *grpc.ClientConn, svc *api.AlarmServiceClient, opts ...Option) *Client {
	client := &Client{
		conn:        conn,
		api:         svc,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// AddAlarm creates an alarm and returns its id.
func (c *Client) AddAlarm(ctx context.Context, spec domain.Spec) (int, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	id, err := c.api.AddAlarm(callCtx, spec)
	if err != nil {
		return 0, fmt.Errorf("add alarm: %w", err)
	}

	return id, nil
}

// ModifyAlarm replaces the user-editable fields of an alarm.
func (c *Client) ModifyAlarm(ctx context.Context, id int, spec domain.Spec) (bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	ok, err := c.api.ModifyAlarm(callCtx, id, spec)
	if err != nil {
		return false, fmt.Errorf("modify alarm: %w", err)
	}

	return ok, nil
}

// RemoveAlarm deletes an alarm.
func (c *Client) RemoveAlarm(ctx context.Context, id int) (bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	ok, err := c.api.RemoveAlarm(callCtx, id)
	if err != nil {
		return false, fmt.Errorf("remove alarm: %w", err)
	}

	return ok, nil
}

// EnableAlarm enables or disables an alarm and returns its resulting status.
func (c *Client) EnableAlarm(ctx context.Context, id int, enabled bool) (domain.Status, bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	state, ok, err := c.api.EnableAlarm(callCtx, id, enabled)
	if err != nil {
		return state, false, fmt.Errorf("enable alarm: %w", err)
	}

	return state, ok, nil
}

// GetAlarm fetches one alarm.
func (c *Client) GetAlarm(ctx context.Context, id int) (domain.Alarm, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	a, err := c.api.GetAlarm(callCtx, id)
	if err != nil {
		return domain.Alarm{}, fmt.Errorf("get alarm: %w", err)
	}

	return a, nil
}

// ListAlarms returns every alarm and the next-alarm description.
func (c *Client) ListAlarms(ctx context.Context) ([]domain.Alarm, string, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	alarms, next, err := c.api.ListAlarms(callCtx)
	if err != nil {
		return nil, "", fmt.Errorf("list alarms: %w", err)
	}

	return alarms, next, nil
}

// SnoozeAlarm snoozes the alarm, or the first ringing one when id is -1.
func (c *Client) SnoozeAlarm(ctx context.Context, id int) (int, bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	target, ok, err := c.api.SnoozeAlarm(callCtx, id)
	if err != nil {
		return 0, false, fmt.Errorf("snooze alarm: %w", err)
	}

	return target, ok, nil
}

// StopAlarm stops the alarm, or the first ringing one when id is -1.
func (c *Client) StopAlarm(ctx context.Context, id int) (int, bool, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	target, ok, err := c.api.StopAlarm(callCtx, id)
	if err != nil {
		return 0, false, fmt.Errorf("stop alarm: %w", err)
	}

	return target, ok, nil
}

// StopAllAlarms stops every ringing alarm.
func (c *Client) StopAllAlarms(ctx context.Context) (int, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	stopped, err := c.api.StopAllAlarms(callCtx)
	if err != nil {
		return 0, fmt.Errorf("stop all alarms: %w", err)
	}

	return stopped, nil
}

// NextAlarm reports the soonest enabled alarm.
func (c *Client) NextAlarm(ctx context.Context) (api.NextAlarmInfo, error) {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	info, err := c.api.NextAlarm(callCtx)
	if err != nil {
		return api.NextAlarmInfo{}, fmt.Errorf("next alarm: %w", err)
	}

	return info, nil
}

// callContext returns a context carrying the actor and the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = withActor(ctx, c.actor)

	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
