package sut

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestStartStop(t *testing.T) {
	var out syncBuffer
	l := zerolog.New(&out)

	d, err := Start(context.Background(), []string{"sh", "-c", "echo ready >&2; exec sleep 30"}, &l)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("ready"))
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, d.Stop())
	select {
	case <-d.Exited():
	default:
		t.Fatal("daemon still running after Stop")
	}
	assert.Contains(t, out.String(), "daemon stopped")

	require.NoError(t, d.Stop(), "Stop is idempotent")
}

func TestExitStatusReported(t *testing.T) {
	l := zerolog.Nop()

	d, err := Start(context.Background(), []string{"sh", "-c", "exit 3"}, &l)
	require.NoError(t, err)

	select {
	case <-d.Exited():
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not exit")
	}
	assert.Error(t, d.Err())
	assert.Error(t, d.Stop())
}

func TestStartErrors(t *testing.T) {
	l := zerolog.Nop()

	_, err := Start(context.Background(), nil, &l)
	assert.ErrorContains(t, err, "empty command")

	_, err = Start(context.Background(), []string{"/nonexistent/keyd"}, &l)
	assert.ErrorContains(t, err, "sut start")
}
