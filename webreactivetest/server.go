// Package webreactivetest adapts the webreactive server and client to be more
// convenient for tests.
package webreactivetest

import (
	"net/http"
	"testing"

	"go.akshayshah.org/webreactive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// New constructs a [webreactive.Server] with defaults suitable for tests: it
// listens on a random loopback port, logs to the provided testing.TB, and it
// automatically shuts down the server when the test completes. Startup and
// shutdown errors fail the test.
//
// To customize the server, use any [webreactive.Option]. In particular, it may
// be necessary to customize the shutdown timeout with
// [webreactive.WithCleanupTimeout].
func New(tb testing.TB, h http.Handler, opts ...webreactive.Option) *webreactive.Server {
	tb.Helper()
	logger := zaptest.NewLogger(tb, zaptest.Level(zap.WarnLevel))
	s, err := webreactive.New(
		h,
		webreactive.WithLogger(logger),
		webreactive.WithOptions(opts...),
	)
	if err != nil {
		tb.Fatalf("start embedded HTTP server: %v", err)
	}
	tb.Cleanup(func() {
		if err := s.Cleanup(); err != nil {
			tb.Error(err)
		}
	})
	return s
}
