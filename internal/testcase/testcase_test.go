package testcase

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/jetkvm/remapcheck/internal/keys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overloadTest = `capslock down
capslock up

esc down
esc up
`

func TestParse(t *testing.T) {
	tc, err := Parse("overload", overloadTest)
	require.NoError(t, err)

	assert.Equal(t, "overload", tc.Name)
	assert.Equal(t, []Action{
		{Kind: KeyTransition, Code: evdev.KEY_CAPSLOCK, Pressed: true},
		{Kind: KeyTransition, Code: evdev.KEY_CAPSLOCK, Pressed: false},
	}, tc.Actions)
	assert.Equal(t, []string{"esc down", "esc up"}, tc.Expected)
	assert.Equal(t, "capslock down\ncapslock up", tc.Script)
}

func TestParseTimedPause(t *testing.T) {
	tc, err := Parse("pause", "a down\n50ms\na up\n\na down\na up\n")
	require.NoError(t, err)

	require.Len(t, tc.Actions, 3)
	assert.Equal(t, TimedPause, tc.Actions[1].Kind)
	assert.Equal(t, 50*time.Millisecond, tc.Actions[1].Pause)
	assert.Equal(t, "50ms", tc.Actions[1].String())
	assert.Equal(t, "a up", tc.Actions[2].String())
}

func TestParseNormalizesExpected(t *testing.T) {
	tc, err := Parse("aliases", "control down\n\nshift down\nescape up\n")
	require.NoError(t, err)

	assert.Equal(t, keys.Code(evdev.KEY_LEFTCTRL), tc.Actions[0].Code)
	assert.Equal(t, []string{"leftshift down", "esc up"}, tc.Expected)
}

func TestParseCommentsAndWhitespace(t *testing.T) {
	text := "# hold a\n   a down\n\ta up  \n\n# nothing remapped\na down\na up\n"
	tc, err := Parse("comments", text)
	require.NoError(t, err)

	assert.Len(t, tc.Actions, 2)
	assert.Equal(t, []string{"a down", "a up"}, tc.Expected)
}

func TestParseEmptyExpectation(t *testing.T) {
	tc, err := Parse("swallowed", "a down\na up\n")
	require.NoError(t, err)
	assert.Len(t, tc.Actions, 2)
	assert.Empty(t, tc.Expected)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		msg  string
	}{
		{"unknown key", "a down\nnosuchkey down\n\na down\n", "errors:2"},
		{"bad state", "a pressed\n\na down\n", "invalid key state"},
		{"missing state", "a\n\na down\n", "expected"},
		{"malformed timeout", "a down\n50 ms\n\na down\n", "invalid key state"},
		{"negative timeout", "-5ms\n\n", "expected"},
		{"overlong timeout", "9223372036855ms\n\n", "out of range"},
		{"unrepresentable timeout", "99999999999999999999ms\n\n", "invalid timeout"},
		{"shifted name", "A down\n\n", "unknown key symbol"},
		{"bad expectation", "a down\n\na down\nb sideways\n", "errors:4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("errors", tt.text)
			require.ErrorIs(t, err, ErrParse)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}

func TestParseUnknownKeyWrapsSentinel(t *testing.T) {
	_, err := Parse("errors", "nosuchkey down\n\n")
	assert.ErrorIs(t, err, keys.ErrUnknownSymbol)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overload.t")
	require.NoError(t, os.WriteFile(path, []byte(overloadTest), 0o644))

	tc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, tc.Name)
	assert.Len(t, tc.Expected, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.t"))
	assert.Error(t, err)
}
