package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// coreWithLevel filters entries by its own level instead of the level of the wrapped core.
type coreWithLevel struct {
	zapcore.Core

	// level is the lowest level written through this core.
	level zapcore.Level
}

// Enabled reports whether entries at l pass the filter.
func (c *coreWithLevel) Enabled(l zapcore.Level) bool {
	return c.level.Enabled(l)
}

// Check adds the core to the entry when its level passes the filter.
//
//nolint:gocritic // AddCore requires ent to be passed by value.
func (c *coreWithLevel) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}

	return ce
}

// With keeps the filter on child loggers that carry extra fields.
//
//nolint:ireturn,nolintlint // Returning zapcore.Core is intended for zap integration.
func (c *coreWithLevel) With(fields []zapcore.Field) zapcore.Core {
	return &coreWithLevel{
		c.Core.With(fields),
		c.level,
	}
}

// WithLevel is a zap option that makes the logger write only entries at lvl and above,
// whatever the global level is.
//
//nolint:ireturn,nolintlint // Returning zap.Option is intended for zap integration.
func WithLevel(lvl zapcore.Level) zap.Option {
	return zap.WrapCore(
		func(core zapcore.Core) zapcore.Core {
			return &coreWithLevel{core, lvl}
		})
}

// WithMinLevel returns a context whose logger drops entries below lvl.
func WithMinLevel(ctx context.Context, lvl zapcore.Level) context.Context {
	return ToContext(ctx, FromContext(ctx).WithOptions(WithLevel(lvl)))
}

// ForCommand scopes the logger of a one-shot CLI command that prints its results to stdout:
// progress logs below warn stay hidden unless the configured level is debug.
func ForCommand(ctx context.Context) context.Context {
	level := Level()
	if level <= zapcore.DebugLevel {
		return ctx
	}

	return WithMinLevel(ctx, max(level, zapcore.WarnLevel))
}
