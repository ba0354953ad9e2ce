package ticker

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/oshokin/alarm-clock/internal/config"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Evaluator is the tick target, implemented by scheduler.Manager.
type Evaluator interface {
	Evaluate(ctx context.Context)
}

// Ticker runs Evaluate on a cron schedule. Overlapping ticks are skipped and panics recovered.
type Ticker struct {
	cron   *cron.Cron
	target Evaluator
	spec   string
}

// New parses the cron spec with config.ParseTick and binds it to the target.
// Schedules that leave a minute without a tick are rejected.
func New(ctx context.Context, spec string, target Evaluator) (*Ticker, error) {
	ctx = logger.WithName(ctx, "ticker")

	schedule, err := config.ParseTick(spec)
	if err != nil {
		return nil, err
	}

	var (
		log = cronLogger{ctx: ctx}
		c   = cron.New(
			cron.WithLogger(log),
			cron.WithChain(cron.Recover(log), cron.SkipIfStillRunning(log)),
		)
	)

	c.Schedule(schedule, cron.FuncJob(func() { target.Evaluate(ctx) }))

	return &Ticker{
		cron:   c,
		target: target,
		spec:   spec,
	}, nil
}

// Run evaluates once immediately, then on every scheduled tick until ctx is done.
// It returns after the running tick, if any, has finished.
func (t *Ticker) Run(ctx context.Context) error {
	logger.Infof(ctx, "Alarm ticker started with schedule %q", t.spec)

	t.target.Evaluate(ctx)
	t.cron.Start()

	<-ctx.Done()

	<-t.cron.Stop().Done()

	logger.Info(ctx, "Alarm ticker stopped")

	return nil
}

// cronLogger routes cron diagnostics to the zap logger.
type cronLogger struct {
	ctx context.Context
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	logger.DebugKV(l.ctx, msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logger.ErrorKV(l.ctx, msg, append(keysAndValues, "error", err)...)
}
