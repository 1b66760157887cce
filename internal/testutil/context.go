package testutil

import (
	"context"
	"testing"
	"time"
)

// ContextWithTimeout возвращает context для прогона планировщика в тесте.
// Context отменяется по таймауту или в t.Cleanup, что наступит раньше.
func ContextWithTimeout(tb testing.TB, d time.Duration) context.Context {
	tb.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), d)
	tb.Cleanup(cancel)
	return ctx
}

// ContextWithCancel возвращает context, который тест отменяет сам,
// чтобы остановить Run. Cancel также вызывается в t.Cleanup.
func ContextWithCancel(tb testing.TB) (context.Context, context.CancelFunc) {
	tb.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	tb.Cleanup(cancel)
	return ctx, cancel
}
