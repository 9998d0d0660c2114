package tuning

import (
	"bytes"
	"errors"
	"runtime/debug"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestApplyDisablesGC(t *testing.T) {
	old := setpriority
	defer func() { setpriority = old }()
	var requested []int
	setpriority = func(prio int) error {
		requested = append(requested, prio)
		return nil
	}

	l := zerolog.Nop()
	st, restore := Apply(&l)

	assert.Equal(t, -1, debug.SetGCPercent(-1), "collector off while tuned")
	restore()
	assert.NotEqual(t, -1, debug.SetGCPercent(100))

	assert.Equal(t, []int{Niceness}, requested)
	assert.Positive(t, st.Threads)
}

func TestApplyRenicePermissionDenied(t *testing.T) {
	old := setpriority
	defer func() { setpriority = old }()
	setpriority = func(int) error { return errors.New("operation not permitted") }

	var buf bytes.Buffer
	l := zerolog.New(&buf)
	_, restore := Apply(&l)
	restore()

	assert.Contains(t, buf.String(), "could not raise priority")
	assert.Contains(t, buf.String(), "operation not permitted")
}
