package watchdog

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type exitRecorder struct {
	mu    sync.Mutex
	codes []int
}

func (e *exitRecorder) exit(code int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.codes = append(e.codes, code)
}

func TestFiresCleanupInReverse(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	record := func(s string) func() {
		return func() {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, s)
		}
	}
	rec := &exitRecorder{}
	var logBuf bytes.Buffer
	l := zerolog.New(&logBuf)

	w := arm(5*time.Millisecond, &l, rec.exit, record("ungrab"), record("destroy"))

	select {
	case <-w.Fired():
	case <-time.After(time.Second):
		t.Fatal("watchdog did not fire")
	}

	mu.Lock()
	assert.Equal(t, []string{"destroy", "ungrab"}, order)
	mu.Unlock()
	assert.Contains(t, logBuf.String(), `"level":"error"`)
	assert.Contains(t, logBuf.String(), `"message":"test timed out"`)

	require.Eventually(t, func() bool {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return len(rec.codes) == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, []int{1}, rec.codes)
	assert.False(t, w.Stop())
}

func TestStopPreventsFire(t *testing.T) {
	rec := &exitRecorder{}
	l := zerolog.Nop()
	called := false

	w := arm(20*time.Millisecond, &l, rec.exit, func() { called = true })
	require.True(t, w.Stop())

	select {
	case <-w.Fired():
		t.Fatal("stopped watchdog fired")
	case <-time.After(50 * time.Millisecond):
	}
	assert.False(t, called)
	assert.Empty(t, rec.codes)
}
