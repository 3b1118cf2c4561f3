package webreactivetest_test

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"

	"go.akshayshah.org/attest"
	"go.akshayshah.org/webreactive/webclient"
	"go.akshayshah.org/webreactive/webreactivetest"
)

// recordingTB records failures instead of reporting them, so we can test that
// the Subscriber's assertions fail when they should.
type recordingTB struct {
	testing.TB

	mu       sync.Mutex
	failures []string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Error(args ...any)                 { r.record(fmt.Sprint(args...)) }
func (r *recordingTB) Errorf(format string, args ...any) { r.record(fmt.Sprintf(format, args...)) }
func (r *recordingTB) Fail()                             { r.record("Fail") }

func (r *recordingTB) Fatal(args ...any) {
	r.record(fmt.Sprint(args...))
	runtime.Goexit()
}

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.record(fmt.Sprintf(format, args...))
	runtime.Goexit()
}

func (r *recordingTB) FailNow() {
	r.record("FailNow")
	runtime.Goexit()
}

func (r *recordingTB) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.failures) > 0
}

func (r *recordingTB) record(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, msg)
}

// failures runs fn on its own goroutine, so that fatal assertions can exit it,
// and returns the recorded failures.
func failures(t *testing.T, fn func(tb testing.TB)) []string {
	t.Helper()
	rec := &recordingTB{TB: t}
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn(rec)
	}()
	<-done
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.failures
}

func TestSubscriberSingleValue(t *testing.T) {
	t.Parallel()
	var got int
	webreactivetest.Subscribe(t, webclient.Just(42)).
		AwaitAndAssertNextValuesWith(func(v int) { got = v }).
		AssertComplete()
	attest.Equal(t, got, 42)
}

func TestSubscriberError(t *testing.T) {
	t.Parallel()
	errBoom := errors.New("boom")
	single := webclient.Fail[int](fmt.Errorf("wrapped: %w", errBoom))

	webreactivetest.Subscribe(t, single).AssertError(errBoom)

	msgs := failures(t, func(tb testing.TB) {
		webreactivetest.Subscribe(tb, single).AwaitAndAssertNextValuesWith(func(int) {})
	})
	attest.Equal(t, len(msgs), 1)

	msgs = failures(t, func(tb testing.TB) {
		webreactivetest.Subscribe(tb, single).AssertComplete()
	})
	attest.Equal(t, len(msgs), 1)
}

func TestSubscriberEmpty(t *testing.T) {
	t.Parallel()
	single := webclient.Empty[string]()

	webreactivetest.Subscribe(t, single).
		AwaitAndAssertNextValuesWith().
		AssertComplete()

	msgs := failures(t, func(tb testing.TB) {
		webreactivetest.Subscribe(tb, single).AwaitAndAssertNextValuesWith(func(string) {})
	})
	attest.Equal(t, len(msgs), 1)
}

func TestSubscriberTooManyAssertions(t *testing.T) {
	t.Parallel()
	msgs := failures(t, func(tb testing.TB) {
		webreactivetest.Subscribe(tb, webclient.Just("one")).
			AwaitAndAssertNextValuesWith(func(string) {}, func(string) {})
	})
	attest.Equal(t, len(msgs), 1)
}

func TestSubscriberAssertErrorOnSuccess(t *testing.T) {
	t.Parallel()
	msgs := failures(t, func(tb testing.TB) {
		webreactivetest.Subscribe(tb, webclient.Just(1)).AssertError(context.Canceled)
	})
	attest.Equal(t, len(msgs), 1)
}

func TestSubscriberTimeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	defer close(release)
	slow := webclient.Defer(func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})
	start := time.Now()
	msgs := failures(t, func(tb testing.TB) {
		webreactivetest.Subscribe(tb, slow, webreactivetest.WithTimeout(50*time.Millisecond)).
			AwaitAndAssertNextValuesWith(func(int) {})
	})
	attest.Equal(t, len(msgs), 1)
	attest.Equal(t, time.Since(start) < webreactivetest.DefaultTimeout, true)
}

func TestSubscriberValues(t *testing.T) {
	t.Parallel()
	single := webclient.Map(webclient.Just(2), func(v int) (int, error) {
		return v * 21, nil
	})
	attest.Equal(t, webreactivetest.Subscribe(t, single).Values(), []int{42})
}
