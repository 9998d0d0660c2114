// Package testcase parses the two-block test file format: an action script,
// a blank line, then the expected output.
package testcase

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jetkvm/remapcheck/internal/keys"
)

var ErrParse = errors.New("parse error")

// ActionKind tags an Action.
type ActionKind int

const (
	KeyTransition ActionKind = iota
	TimedPause
)

// Action is one step of the stimulus script: either a key transition or
// a pause.
type Action struct {
	Kind    ActionKind
	Code    keys.Code
	Pressed bool
	Pause   time.Duration
}

func (a Action) String() string {
	if a.Kind == TimedPause {
		return fmt.Sprintf("%dms", a.Pause.Milliseconds())
	}
	return keys.Event{Code: a.Code, Pressed: a.Pressed}.String()
}

// TestCase is a parsed test file. It is not modified after parsing.
type TestCase struct {
	Name     string
	Script   string
	Actions  []Action
	Expected []string
}

var timeoutPattern = regexp.MustCompile(`^([0-9]+)ms$`)

// maxPauseMillis is the longest pause a time.Duration can hold.
const maxPauseMillis = math.MaxInt64 / int64(time.Millisecond)

// Load reads and parses a test file; the path becomes the test name.
func Load(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read test %s: %w", path, err)
	}
	return Parse(path, string(data))
}

// Parse parses the text of a test. Every symbol is resolved here so that
// running the test does no string work.
func Parse(name, text string) (*TestCase, error) {
	script, expected, _ := strings.Cut(text, "\n\n")
	tc := &TestCase{Name: name, Script: strings.TrimSpace(script)}

	err := eachLine(script, 0, func(ln int, line string) error {
		a, err := parseAction(line)
		if err != nil {
			return parseErr(name, ln, err)
		}
		tc.Actions = append(tc.Actions, a)
		return nil
	})
	if err != nil {
		return nil, err
	}

	offset := strings.Count(script, "\n") + 2
	err = eachLine(expected, offset, func(ln int, line string) error {
		ev, err := parseTransition(line)
		if err != nil {
			return parseErr(name, ln, err)
		}
		tc.Expected = append(tc.Expected, ev.String())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tc, nil
}

func parseErr(name string, ln int, err error) error {
	return fmt.Errorf("%w: %s:%d: %w", ErrParse, name, ln, err)
}

// eachLine calls fn for every non-blank, non-comment line. Line numbers
// are 1-based and shifted by offset.
func eachLine(block string, offset int, fn func(ln int, line string) error) error {
	sc := bufio.NewScanner(strings.NewReader(block))
	ln := offset
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(ln, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

func parseAction(line string) (Action, error) {
	if m := timeoutPattern.FindStringSubmatch(line); m != nil {
		ms, err := strconv.Atoi(m[1])
		if err != nil {
			return Action{}, fmt.Errorf("invalid timeout %q: %w", line, err)
		}
		if int64(ms) > maxPauseMillis {
			return Action{}, fmt.Errorf("timeout %q out of range", line)
		}
		return Action{Kind: TimedPause, Pause: time.Duration(ms) * time.Millisecond}, nil
	}

	ev, err := parseTransition(line)
	if err != nil {
		return Action{}, err
	}
	return Action{Kind: KeyTransition, Code: ev.Code, Pressed: ev.Pressed}, nil
}

// parseTransition parses "<symbol> <down|up>".
func parseTransition(line string) (keys.Event, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return keys.Event{}, fmt.Errorf("expected \"<key> <down|up>\", got %q", line)
	}

	var pressed bool
	switch fields[1] {
	case "down":
		pressed = true
	case "up":
	default:
		return keys.Event{}, fmt.Errorf("invalid key state %q", fields[1])
	}

	code, err := keys.ResolveKey(fields[0])
	if err != nil {
		return keys.Event{}, err
	}
	return keys.Event{Code: code, Pressed: pressed}, nil
}
