package webreactivetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.akshayshah.org/attest"
	"go.akshayshah.org/webreactive/webclient"
)

// DefaultTimeout bounds how long a Subscriber waits for a terminal signal.
const DefaultTimeout = 5 * time.Second

type subscribeConfig struct {
	timeout time.Duration
}

// A SubscribeOption configures a Subscriber.
type SubscribeOption func(*subscribeConfig)

// WithTimeout replaces DefaultTimeout.
func WithTimeout(d time.Duration) SubscribeOption {
	return func(cfg *subscribeConfig) {
		cfg.timeout = d
	}
}

// A Subscriber records the signals of one subscription to a
// [webclient.Single] and asserts on them. Assertions fail the test
// immediately.
type Subscriber[T any] struct {
	tb       testing.TB
	timeout  time.Duration
	ctx      context.Context
	signals  <-chan webclient.Signal[T]
	awaited  bool
	timedOut bool

	values     []T
	err        error
	completed  bool
	afterFinal []webclient.Signal[T]
}

// Subscribe subscribes to s immediately. The subscription is cancelled when
// the timeout expires or the test ends, whichever comes first.
func Subscribe[T any](tb testing.TB, s *webclient.Single[T], opts ...SubscribeOption) *Subscriber[T] {
	tb.Helper()
	cfg := subscribeConfig{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	tb.Cleanup(cancel)
	return &Subscriber[T]{
		tb:      tb,
		timeout: cfg.timeout,
		ctx:     ctx,
		signals: s.Subscribe(ctx),
	}
}

// AwaitAndAssertNextValuesWith waits for the subscription to terminate, then
// asserts that it emitted one value per assertion and no error. Each assertion
// runs against the value in the same position.
func (s *Subscriber[T]) AwaitAndAssertNextValuesWith(assertions ...func(T)) *Subscriber[T] {
	s.tb.Helper()
	s.await()
	if s.err != nil {
		s.tb.Fatalf("expected %d value(s), got error: %v", len(assertions), s.err)
	}
	if len(s.values) != len(assertions) {
		s.tb.Fatalf("expected %d value(s), got %d: %v", len(assertions), len(s.values), s.values)
	}
	for i, assert := range assertions {
		assert(s.values[i])
	}
	return s
}

// AssertComplete waits for the subscription to terminate, then asserts that it
// completed normally with nothing emitted afterwards.
func (s *Subscriber[T]) AssertComplete() *Subscriber[T] {
	s.tb.Helper()
	s.await()
	if s.err != nil {
		s.tb.Fatalf("expected completion, got error: %v", s.err)
	}
	if !s.completed {
		s.tb.Fatalf("subscription terminated without completing")
	}
	attest.Equal(s.tb, len(s.afterFinal), 0)
	return s
}

// AssertError waits for the subscription to terminate, then asserts that it
// failed with an error matching target.
func (s *Subscriber[T]) AssertError(target error) *Subscriber[T] {
	s.tb.Helper()
	s.await()
	if s.err == nil {
		s.tb.Fatalf("expected error %v, got %d value(s) and completed=%v", target, len(s.values), s.completed)
	}
	if !errors.Is(s.err, target) {
		s.tb.Fatalf("expected error %v, got %v", target, s.err)
	}
	return s
}

// Values returns the values recorded so far, waiting for termination first.
func (s *Subscriber[T]) Values() []T {
	s.tb.Helper()
	s.await()
	return s.values
}

func (s *Subscriber[T]) await() {
	s.tb.Helper()
	if !s.awaited {
		s.awaited = true
		s.drain()
	}
	if s.timedOut {
		s.tb.Fatalf("no terminal signal within %v", s.timeout)
	}
}

func (s *Subscriber[T]) drain() {
	terminated := false
	for {
		select {
		case sig, ok := <-s.signals:
			if !ok {
				return
			}
			if terminated {
				s.afterFinal = append(s.afterFinal, sig)
				continue
			}
			switch sig.Kind {
			case webclient.KindNext:
				s.values = append(s.values, sig.Value)
			case webclient.KindComplete:
				s.completed, terminated = true, true
			case webclient.KindError:
				s.err, terminated = sig.Err, true
			}
		case <-s.ctx.Done():
			if !terminated {
				s.timedOut = true
			}
			return
		}
	}
}
