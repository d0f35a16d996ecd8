package telemetry

import "context"

// threadLogger decorates a Logger by injecting thread_id into every call,
// so operators can filter logs for a single conversation without
// threading the id through every log site by hand.
type threadLogger struct {
	Logger
	threadID string
}

// WithThreadID returns a Logger that injects "thread_id" into every log
// call's keyvals ahead of whatever the caller supplies.
func WithThreadID(l Logger, threadID string) Logger {
	if l == nil {
		l = NewNoopLogger()
	}
	return threadLogger{Logger: l, threadID: threadID}
}

func (t threadLogger) with(keyvals []any) []any {
	return append([]any{"thread_id", t.threadID}, keyvals...)
}

func (t threadLogger) Debug(ctx context.Context, msg string, keyvals ...any) {
	t.Logger.Debug(ctx, msg, t.with(keyvals)...)
}

func (t threadLogger) Info(ctx context.Context, msg string, keyvals ...any) {
	t.Logger.Info(ctx, msg, t.with(keyvals)...)
}

func (t threadLogger) Warn(ctx context.Context, msg string, keyvals ...any) {
	t.Logger.Warn(ctx, msg, t.with(keyvals)...)
}

func (t threadLogger) Error(ctx context.Context, msg string, keyvals ...any) {
	t.Logger.Error(ctx, msg, t.with(keyvals)...)
}
