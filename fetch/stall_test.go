package fetch

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStallGuardCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := newStallGuard(20*time.Millisecond, cancel)
	defer g.stop()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("guard did not cancel the context")
	}

	err := g.wrap("http://example.test/a.zip", context.Canceled)
	assert.True(t, errors.Is(err, ErrStalled), "got %v", err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestStallGuardReadsPushDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := newStallGuard(200*time.Millisecond, cancel)
	defer g.stop()

	r := g.reader(strings.NewReader("abcdef"))
	buf := make([]byte, 1)
	for i := 0; i < 6; i++ {
		time.Sleep(50 * time.Millisecond)
		_, err := r.Read(buf)
		require.NoError(t, err)
	}
	assert.NoError(t, ctx.Err(), "steady reads should keep the download alive")

	_, err := r.Read(buf)
	assert.Equal(t, io.EOF, err)
}

func TestStallGuardStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := newStallGuard(20*time.Millisecond, cancel)
	g.stop()

	time.Sleep(60 * time.Millisecond)
	assert.NoError(t, ctx.Err())

	err := errors.New("boom")
	assert.Same(t, err, g.wrap("u", err))
}

func TestStallGuardZeroTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := newStallGuard(0, cancel)
	defer g.stop()

	data, err := io.ReadAll(g.reader(strings.NewReader("abc")))
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, ctx.Err())
}
