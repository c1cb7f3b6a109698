package cache

import (
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// ErrUnavailable is returned when a remote cache cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

// Backoff retries an operation with pauses that double up to Max.
type Backoff struct {
	Attempts int
	Initial  time.Duration
	Max      time.Duration
}

// connectBackoff covers a Redis that is still starting next to the server.
var connectBackoff = Backoff{Attempts: 3, Initial: time.Second, Max: 4 * time.Second}

// Do calls fn until it succeeds, retry rejects its error, the attempts run
// out or ctx ends. It returns the last error from fn, or ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error, retry func(error) bool) error {
	attempts := max(b.Attempts, 1)
	delay := b.Initial

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !retry(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if delay *= 2; b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
	return err
}

// transient reports whether err looks like a network failure worth
// retrying. Protocol and authentication errors are not.
func transient(err error) bool {
	var ne net.Error
	return errors.As(err, &ne) || errors.Is(err, io.EOF)
}
