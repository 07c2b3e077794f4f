// Package stream models the asynchronous contract every network-touching
// operation exposes: an ordered sequence of Loading followed by exactly one
// terminal Success or Error.
package stream

import "context"

// Phase identifies where an operation is in its lifecycle.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

// State is one observable emission of an operation.
type State[T any] struct {
	Phase Phase
	Value T
	Err   error
}

// Terminal reports whether the state ends the sequence.
func (s State[T]) Terminal() bool {
	return s.Phase == PhaseSuccess || s.Phase == PhaseError
}

func Loading[T any]() State[T] {
	return State[T]{Phase: PhaseLoading}
}

func Success[T any](value T) State[T] {
	return State[T]{Phase: PhaseSuccess, Value: value}
}

func Failure[T any](err error) State[T] {
	return State[T]{Phase: PhaseError, Err: err}
}

// Run executes fn and returns a channel that delivers Loading followed by
// exactly one terminal state, then closes. The channel is buffered so a
// caller that discards the subscription never blocks the producer. When ctx
// is cancelled before fn returns, the terminal state carries ctx.Err() and
// fn's eventual result is dropped without being applied anywhere.
func Run[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan State[T] {
	out := make(chan State[T], 2)
	out <- Loading[T]()

	go func() {
		defer close(out)

		done := make(chan State[T], 1)
		go func() {
			value, err := fn(ctx)
			if err != nil {
				done <- Failure[T](err)
				return
			}
			done <- Success(value)
		}()

		select {
		case terminal := <-done:
			out <- terminal
		case <-ctx.Done():
			out <- Failure[T](ctx.Err())
		}
	}()

	return out
}

// Await drains states until the terminal one and returns it. If the channel
// closes without a terminal state, the zero Loading state is returned.
func Await[T any](states <-chan State[T]) State[T] {
	var last State[T]
	for state := range states {
		last = state
		if state.Terminal() {
			break
		}
	}
	return last
}
