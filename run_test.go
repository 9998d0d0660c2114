package remapcheck

import (
	"bytes"
	"context"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jetkvm/remapcheck/internal/keys"
	"github.com/jetkvm/remapcheck/internal/testcase"
)

// echoDaemon returns every emitted transition on the next drain, with a
// and b swapped.
type echoDaemon struct {
	pending []keys.Event
}

func (e *echoDaemon) Emit(code keys.Code, pressed bool) error {
	a, _ := keys.ResolveKey("a")
	b, _ := keys.ResolveKey("b")
	switch code {
	case a:
		code = b
	case b:
		code = a
	}
	e.pending = append(e.pending, keys.Event{Code: code, Pressed: pressed})
	return nil
}

func (e *echoDaemon) DrainAvailable() ([]keys.Event, error) {
	out := e.pending
	e.pending = nil
	return out, nil
}

func writeCase(t *testing.T, dir, name, text string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(text), 0o644))
	return p
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-v", "-e", "-timeout", "3s", "a.t", "b.t"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, o.verbose)
	assert.True(t, o.exitOnFail)
	assert.Equal(t, []string{"a.t", "b.t"}, o.files)

	cfg := DefaultConfig()
	o.apply(cfg)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.StopOnFailure)
	assert.Equal(t, 3*time.Second, cfg.Timing.Timeout)
	assert.Empty(t, cfg.MetricsTextfile, "unset flags leave config alone")
}

func TestParseFlagsLongForms(t *testing.T) {
	o, err := parseFlags([]string{"-verbose", "-exit-on-fail", "-sut", "keyd -d", "x.t"}, io.Discard)
	require.NoError(t, err)

	cfg := DefaultConfig()
	o.apply(cfg)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.StopOnFailure)
	assert.Equal(t, []string{"keyd", "-d"}, cfg.SUTCommand)
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "no test files given"},
		{[]string{"-monitor", "-watch", "a.t"}, "mutually exclusive"},
		{[]string{"-type", "hello", "a.t"}, "cannot be combined"},
	}
	for _, tt := range tests {
		_, err := parseFlags(tt.args, io.Discard)
		assert.ErrorContains(t, err, tt.want, "%v", tt.args)
	}

	_, err := parseFlags([]string{"-h"}, io.Discard)
	assert.ErrorIs(t, err, flag.ErrHelp)

	o, err := parseFlags([]string{"-monitor"}, io.Discard)
	require.NoError(t, err)
	assert.True(t, o.monitor)
}

func TestRunUsageErrors(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(nil, io.Discard, &stderr))
	assert.Contains(t, stderr.String(), "no test files given")

	assert.Equal(t, exitOK, run([]string{"-h"}, io.Discard, io.Discard))
}

func TestRunParseErrorIsFatal(t *testing.T) {
	bad := writeCase(t, t.TempDir(), "bad.t", "nosuchkey down\n\n")
	assert.Equal(t, exitFailure, run([]string{bad}, io.Discard, io.Discard))
}

func TestLoadCases(t *testing.T) {
	dir := t.TempDir()
	a := writeCase(t, dir, "a.t", "a down\na up\n\nb down\nb up\n")
	b := writeCase(t, dir, "b.t", "b down\n\na down\n")

	cases, err := loadCases([]string{a, b})
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, a, cases[0].Name)

	bad := writeCase(t, dir, "bad.t", "a sideways\n")
	_, err = loadCases([]string{a, bad})
	assert.ErrorIs(t, err, testcase.ErrParse)
}

func TestSessionRunCases(t *testing.T) {
	dir := t.TempDir()
	pass := writeCase(t, dir, "swap.t", "a down\na up\n\nb down\nb up\n")
	fail := writeCase(t, dir, "plain.t", "a down\n\na down\n")
	cases, err := loadCases([]string{pass, fail})
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Timing.Retry = time.Millisecond
	cfg.MetricsTextfile = filepath.Join(dir, "remapcheck.prom")

	d := &echoDaemon{}
	var out bytes.Buffer
	s := newSession(cfg, d, d, &out)
	sum, err := s.runCases(context.Background(), cases)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 1, sum.Failed)
	assert.False(t, sum.OK())
	assert.Contains(t, out.String(), pass+": PASSED\n")
	assert.Contains(t, out.String(), fail+": ERROR: mismatch at position 0: expected a down got b down\n")
	assert.Contains(t, out.String(), "1 passed, 1 failed\n")

	prom, err := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `remapcheck_cases_total{outcome="pass"} 1`)
}

func TestSessionStopOnFailure(t *testing.T) {
	first, err := testcase.Parse("first", "a down\n\na down\n")
	require.NoError(t, err)
	second, err := testcase.Parse("second", "b down\n\na down\n")
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.StopOnFailure = true
	d := &echoDaemon{}
	var out bytes.Buffer
	s := newSession(cfg, d, d, &out)
	sum, err := s.runCases(context.Background(), []*testcase.TestCase{first, second})
	require.NoError(t, err)

	assert.True(t, sum.Aborted)
	assert.Equal(t, 1, sum.Failed)
	assert.NotContains(t, out.String(), "second:")
	assert.Contains(t, out.String(), "0 passed, 1 failed (aborted)\n")
}
