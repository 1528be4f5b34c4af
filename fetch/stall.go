package fetch

import (
	"context"
	"io"
	"sync/atomic"
	"time"
)

// stallGuard cancels a download once no body bytes have arrived for timeout.
// A zero timeout never fires.
type stallGuard struct {
	timeout time.Duration
	cancel  context.CancelFunc
	timer   *time.Timer
	stalled atomic.Bool
}

func newStallGuard(timeout time.Duration, cancel context.CancelFunc) *stallGuard {
	g := &stallGuard{timeout: timeout, cancel: cancel}
	if timeout > 0 {
		g.timer = time.AfterFunc(timeout, func() {
			g.stalled.Store(true)
			g.cancel()
		})
	}
	return g
}

// reader wraps r so every read that yields bytes pushes the deadline back.
func (g *stallGuard) reader(r io.Reader) io.Reader {
	return readerFunc(func(p []byte) (int, error) {
		n, err := r.Read(p)
		if n > 0 && g.timer != nil && !g.stalled.Load() {
			g.timer.Reset(g.timeout)
		}
		return n, err
	})
}

func (g *stallGuard) stop() {
	if g.timer != nil {
		g.timer.Stop()
	}
}

// wrap turns err into ErrStalled when the guard caused it.
func (g *stallGuard) wrap(url string, err error) error {
	if g.stalled.Load() {
		return &StallError{URL: url, Timeout: g.timeout, Err: err}
	}
	return err
}

type readerFunc func(p []byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
