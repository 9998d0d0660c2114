package remapcheck

import (
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchSet(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.t")
	b := filepath.Join(dir, "sub", "b.t")

	ws, err := newWatchSet([]string{a, b, a})
	require.NoError(t, err)
	assert.Equal(t, []string{dir, filepath.Join(dir, "sub")}, ws.dirs())

	p, ok := ws.match(fsnotify.Event{Name: a, Op: fsnotify.Write})
	assert.True(t, ok)
	assert.Equal(t, a, p)

	_, ok = ws.match(fsnotify.Event{Name: b, Op: fsnotify.Create})
	assert.True(t, ok)

	_, ok = ws.match(fsnotify.Event{Name: a, Op: fsnotify.Chmod})
	assert.False(t, ok, "metadata changes are ignored")

	_, ok = ws.match(fsnotify.Event{Name: filepath.Join(dir, "a.t.swp"), Op: fsnotify.Write})
	assert.False(t, ok, "unrelated files are ignored")
}
