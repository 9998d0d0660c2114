package keys

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTiers(t *testing.T) {
	tests := []struct {
		name  string
		code  Code
		shift bool
		tier  string
	}{
		{"a", evdev.KEY_A, false, "primary"},
		{"esc", evdev.KEY_ESC, false, "primary"},
		{"escape", evdev.KEY_ESC, false, "alternate"},
		{"shift", evdev.KEY_LEFTSHIFT, false, "alternate"},
		{"altgr", evdev.KEY_RIGHTALT, false, "alternate"},
		{"A", evdev.KEY_A, true, "shifted"},
		{"!", evdev.KEY_1, true, "shifted"},
		{"~", evdev.KEY_GRAVE, true, "shifted"},
		{" ", evdev.KEY_SPACE, false, "alternate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Resolve(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, tt.shift, res.Shift)
			assert.Equal(t, tt.tier, res.Tier)
		})
	}
}

func TestResolvePrefersEarlierTier(t *testing.T) {
	// "-" is a primary name; it must not be shadowed by anything later.
	res, err := Resolve("-")
	require.NoError(t, err)
	assert.Equal(t, "primary", res.Tier)
}

func TestResolveUnknown(t *testing.T) {
	_, err := Resolve("nosuchkey")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
	assert.Contains(t, err.Error(), "nosuchkey")
}

func TestResolveKeyRejectsShifted(t *testing.T) {
	code, err := ResolveKey("control")
	require.NoError(t, err)
	assert.Equal(t, Code(evdev.KEY_LEFTCTRL), code)

	_, err = ResolveKey("A")
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestName(t *testing.T) {
	assert.Equal(t, "a", Name(evdev.KEY_A))
	assert.Equal(t, "leftshift", Name(evdev.KEY_LEFTSHIFT))
	assert.Equal(t, "esc", Name(evdev.KEY_ESC))
	assert.Equal(t, "leftmouse", Name(evdev.BTN_LEFT))
	assert.Equal(t, "code65000", Name(65000))
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "a down", Event{Code: evdev.KEY_A, Pressed: true}.String())
	assert.Equal(t, "leftcontrol up", Event{Code: evdev.KEY_LEFTCTRL}.String())
}

func TestCodesAndMouseButtons(t *testing.T) {
	codes := Default().Codes()
	require.NotEmpty(t, codes)
	for i := 1; i < len(codes); i++ {
		assert.Less(t, codes[i-1], codes[i])
	}

	assert.True(t, IsMouseButton(evdev.BTN_LEFT))
	assert.True(t, IsMouseButton(evdev.BTN_EXTRA))
	assert.False(t, IsMouseButton(evdev.KEY_A))
	assert.False(t, IsMouseButton(evdev.KEY_MICMUTE))
}
