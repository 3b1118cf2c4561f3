package webclient

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoValue is returned by Block when a Single completes without a value.
// Sources return it to complete empty.
var ErrNoValue = errors.New("single completed without a value")

// SignalKind distinguishes the signals a Single emits.
type SignalKind int

const (
	KindNext SignalKind = iota + 1
	KindComplete
	KindError
)

func (k SignalKind) String() string {
	switch k {
	case KindNext:
		return "next"
	case KindComplete:
		return "complete"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("SignalKind(%d)", int(k))
	}
}

// A Signal is one notification from a subscription: a value, completion, or
// an error.
type Signal[T any] struct {
	Kind  SignalKind
	Value T
	Err   error
}

func (s Signal[T]) String() string {
	switch s.Kind {
	case KindNext:
		return fmt.Sprintf("next(%v)", s.Value)
	case KindError:
		return fmt.Sprintf("error(%v)", s.Err)
	default:
		return s.Kind.String()
	}
}

// A Single is a lazy asynchronous computation producing at most one value.
// Nothing runs until Subscribe or Block; every subscription runs the
// computation again.
//
// A successful subscription emits exactly one Next signal followed by
// Complete. A failed one emits exactly one Error signal. A source that returns
// ErrNoValue emits only Complete.
type Single[T any] struct {
	source func(context.Context) (T, error)
	// discard releases a value nobody will receive, such as one that arrives
	// after Block has given up.
	discard func(T)
}

// Defer builds a Single from a function. The function receives the
// subscription's context and should stop work when it's done.
func Defer[T any](fn func(context.Context) (T, error)) *Single[T] {
	return &Single[T]{source: fn}
}

// Just returns a Single that always emits v.
func Just[T any](v T) *Single[T] {
	return Defer(func(context.Context) (T, error) { return v, nil })
}

// Fail returns a Single that always emits err.
func Fail[T any](err error) *Single[T] {
	return Defer(func(context.Context) (T, error) {
		var zero T
		return zero, err
	})
}

// Empty returns a Single that completes without a value.
func Empty[T any]() *Single[T] {
	return Fail[T](ErrNoValue)
}

// Map returns a Single that applies fn to the value emitted by s. Errors from
// s skip fn.
func Map[T, U any](s *Single[T], fn func(T) (U, error)) *Single[U] {
	return Defer(func(ctx context.Context) (U, error) {
		v, err := s.run(ctx)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// Subscribe starts the computation. The returned channel receives the
// subscription's signals and is closed after the terminal one, so it never
// blocks the computation.
func (s *Single[T]) Subscribe(ctx context.Context) <-chan Signal[T] {
	signals := make(chan Signal[T], 2)
	go func() {
		defer close(signals)
		v, err := s.run(ctx)
		switch {
		case errors.Is(err, ErrNoValue):
			signals <- Signal[T]{Kind: KindComplete}
		case err != nil:
			signals <- Signal[T]{Kind: KindError, Err: err}
		default:
			signals <- Signal[T]{Kind: KindNext, Value: v}
			signals <- Signal[T]{Kind: KindComplete}
		}
	}()
	return signals
}

// Block subscribes and waits for the value. It returns ErrNoValue if the
// Single completes empty, and the context's error if ctx is done first.
func (s *Single[T]) Block(ctx context.Context) (T, error) {
	var (
		value T
		zero  T
		seen  bool
	)
	signals := s.Subscribe(ctx)
	for {
		select {
		case sig, ok := <-signals:
			if !ok || sig.Kind == KindComplete {
				if !seen {
					return zero, ErrNoValue
				}
				return value, nil
			}
			if sig.Kind == KindError {
				return zero, sig.Err
			}
			value, seen = sig.Value, true
		case <-ctx.Done():
			if seen && s.discard != nil {
				s.discard(value)
			}
			if s.discard != nil {
				go s.drain(signals)
			}
			return zero, ctx.Err()
		}
	}
}

func (s *Single[T]) drain(signals <-chan Signal[T]) {
	for sig := range signals {
		if sig.Kind == KindNext {
			s.discard(sig.Value)
		}
	}
}

func (s *Single[T]) run(ctx context.Context) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("single panicked: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return v, err
	}
	return s.source(ctx)
}
