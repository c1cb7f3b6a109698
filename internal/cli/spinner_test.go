package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Connecting to Redis...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !strings.Contains(out.String(), "Connecting to Redis...") {
		t.Errorf("output %q does not contain the message", out.String())
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "first")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.SetMessage("second")
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if !strings.Contains(out.String(), "second") {
		t.Errorf("output %q does not contain the new message", out.String())
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinnerTo(ctx, &syncBuffer{}, "waiting")
	s.Start()
	cancel()
	time.Sleep(2 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation after its context ends")
	}
	s.Stop()
	if !s.Cancelled() {
		t.Error("Stop after cancellation should keep the cancelled state")
	}
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), spinnerInterval)
	defer cancel()

	s := newSpinnerTo(ctx, &syncBuffer{}, "waiting")
	s.Start()
	time.Sleep(3 * spinnerInterval)

	if !s.Cancelled() {
		t.Error("spinner should report cancellation after a timeout")
	}
}

func TestSpinnerStop(t *testing.T) {
	t.Run("idempotent", func(t *testing.T) {
		s := newSpinnerTo(context.Background(), &syncBuffer{}, "x")
		s.Start()
		s.Stop()
		s.Stop()
	})
	t.Run("before start", func(t *testing.T) {
		s := newSpinnerTo(context.Background(), &syncBuffer{}, "x")
		s.Stop()
	})
	t.Run("with status", func(t *testing.T) {
		s := newSpinner("x")
		s.Start()
		s.StopWithSuccess("done")
		e := newSpinner("y")
		e.Start()
		e.StopWithError("failed")
	})
}
