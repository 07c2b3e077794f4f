package stream

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunEmitsLoadingThenSuccess(t *testing.T) {
	t.Parallel()

	states := Run(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	first := <-states
	if first.Phase != PhaseLoading {
		t.Fatalf("expected loading first, got %s", first.Phase)
	}

	second := <-states
	if second.Phase != PhaseSuccess || second.Value != 42 {
		t.Fatalf("expected success(42), got %+v", second)
	}

	if _, open := <-states; open {
		t.Fatal("expected channel closed after terminal state")
	}
}

func TestRunEmitsSingleTerminalError(t *testing.T) {
	t.Parallel()

	boom := errors.New("submit failed")
	states := Run(context.Background(), func(ctx context.Context) (int, error) {
		return 0, boom
	})

	terminals := 0
	for state := range states {
		if state.Terminal() {
			terminals++
			if !errors.Is(state.Err, boom) {
				t.Fatalf("unexpected terminal error: %v", state.Err)
			}
		}
	}
	if terminals != 1 {
		t.Fatalf("expected exactly one terminal state, got %d", terminals)
	}
}

func TestRunCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	states := Run(ctx, func(ctx context.Context) (string, error) {
		<-release
		return "late", nil
	})

	if st := <-states; st.Phase != PhaseLoading {
		t.Fatalf("expected loading, got %s", st.Phase)
	}

	cancel()
	terminal := <-states
	if terminal.Phase != PhaseError || !errors.Is(terminal.Err, context.Canceled) {
		t.Fatalf("expected cancellation error, got %+v", terminal)
	}
	close(release)
}

func TestRunDiscardedSubscriberDoesNotBlock(t *testing.T) {
	t.Parallel()

	done := make(chan struct{})
	_ = Run(context.Background(), func(ctx context.Context) (int, error) {
		defer close(done)
		return 1, nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("producer blocked on discarded subscription")
	}
}

func TestAwaitReturnsTerminal(t *testing.T) {
	t.Parallel()

	states := Run(context.Background(), func(ctx context.Context) (int, error) {
		return 7, nil
	})
	terminal := Await(states)
	if terminal.Phase != PhaseSuccess || terminal.Value != 7 {
		t.Fatalf("unexpected terminal: %+v", terminal)
	}
}
