package webreactive

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"
)

type config struct {
	Address        string
	Memory         bool
	CleanupContext func() (context.Context, context.CancelFunc)
	ErrorLog       *log.Logger
	Logger         *zap.Logger
}

// An Option configures a Server.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(cfg *config) { f(cfg) }

// WithAddress sets the TCP address the server listens on. The default is
// "127.0.0.1:0", which lets the operating system pick a free port.
func WithAddress(addr string) Option {
	return optionFunc(func(cfg *config) {
		cfg.Address = addr
	})
}

// WithMemoryListener serves over in-memory pipes instead of TCP. Only clients
// built from the server's Transport can reach it.
func WithMemoryListener() Option {
	return optionFunc(func(cfg *config) {
		cfg.Memory = true
	})
}

// WithOptions composes multiple Options into one.
func WithOptions(opts ...Option) Option {
	return optionFunc(func(cfg *config) {
		for _, opt := range opts {
			opt.apply(cfg)
		}
	})
}

// WithCleanupTimeout customizes the default five-second timeout for the
// server's Cleanup method. It's most useful with the webreactivetest
// subpackage.
func WithCleanupTimeout(d time.Duration) Option {
	return optionFunc(func(cfg *config) {
		cfg.CleanupContext = func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), d)
		}
	})
}

// WithErrorLog sets [http.Server.ErrorLog]. It takes precedence over the
// logger set with WithLogger.
func WithErrorLog(l *log.Logger) Option {
	return optionFunc(func(cfg *config) {
		cfg.ErrorLog = l
	})
}

// WithLogger logs server lifecycle events to l. Unless WithErrorLog is also
// used, l receives the [http.Server] error log too.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(cfg *config) {
		cfg.Logger = l
	})
}
