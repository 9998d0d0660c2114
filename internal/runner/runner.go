// Package runner replays test scripts against the virtual keyboard and
// checks what the daemon under test produces.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jetkvm/remapcheck/internal/keys"
	"github.com/jetkvm/remapcheck/internal/testcase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Keyboard receives the stimulus.
type Keyboard interface {
	Emit(code keys.Code, pressed bool) error
}

// Capture yields whatever the daemon has emitted so far.
type Capture interface {
	DrainAvailable() ([]keys.Event, error)
}

// Config holds the protocol timings and the failure policy.
type Config struct {
	// Settle is the wait between the last action and the first drain.
	Settle time.Duration
	// Retry is the wait before the single second drain when the first one
	// came up short.
	Retry time.Duration
	// StopOnFailure aborts RunAll after the first failing case.
	StopOnFailure bool
}

func DefaultConfig() Config {
	return Config{
		Settle: 30 * time.Microsecond,
		Retry:  50 * time.Millisecond,
	}
}

// Result is the verdict and evidence for one test case.
type Result struct {
	Case     *testcase.TestCase
	Captured []string
	Outcome  Outcome
	Retried  bool
	Elapsed  time.Duration
}

func (r *Result) Passed() bool {
	return r.Outcome.Kind == Pass
}

// Summary aggregates a RunAll.
type Summary struct {
	Passed  int
	Failed  int
	Aborted bool
}

func (s Summary) OK() bool {
	return s.Failed == 0 && !s.Aborted
}

type Runner struct {
	kbd     Keyboard
	src     Capture
	cfg     Config
	log     *zerolog.Logger
	metrics *metrics

	// pause runs the script's timed pauses; sleep runs the settle and
	// retry waits.
	pause func(time.Duration)
	sleep func(time.Duration)
}

var defaultLogger = zerolog.New(os.Stdout).With().Str("subsystem", "runner").Logger()

// New builds a runner. reg may be nil when metrics are not wanted.
func New(kbd Keyboard, src Capture, cfg Config, logger *zerolog.Logger, reg prometheus.Registerer) *Runner {
	if logger == nil {
		l := defaultLogger
		logger = &l
	}
	return &Runner{
		kbd:     kbd,
		src:     src,
		cfg:     cfg,
		log:     logger,
		metrics: newMetrics(reg),
		pause:   spin,
		sleep:   time.Sleep,
	}
}

// spin busy-waits for d. Scheduler sleeps are too coarse for tap/hold
// timing.
func spin(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}

// Run executes one test case. A returned error means the harness itself
// failed (device write or read) and the run cannot continue; a failing
// test is reported through Result.Outcome.
func (r *Runner) Run(tc *testcase.TestCase) (*Result, error) {
	start := time.Now()

	for _, a := range tc.Actions {
		if a.Kind == testcase.TimedPause {
			r.pause(a.Pause)
			continue
		}
		if err := r.kbd.Emit(a.Code, a.Pressed); err != nil {
			return nil, fmt.Errorf("%s: %w", tc.Name, err)
		}
	}

	r.sleep(r.cfg.Settle)
	events, err := r.src.DrainAvailable()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tc.Name, err)
	}

	res := &Result{Case: tc}
	if len(events) < len(tc.Expected) {
		r.log.Warn().
			Str("test", tc.Name).
			Int("captured", len(events)).
			Int("expected", len(tc.Expected)).
			Msg("Insufficient output, timing out one more time...")
		r.sleep(r.cfg.Retry)

		more, err := r.src.DrainAvailable()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tc.Name, err)
		}
		events = append(events, more...)
		res.Retried = true
	}

	res.Captured = make([]string, len(events))
	for i, ev := range events {
		res.Captured[i] = ev.String()
	}
	res.Outcome = Compare(tc.Expected, res.Captured)
	res.Elapsed = time.Since(start)

	r.metrics.observe(res)
	r.log.Debug().
		Str("test", tc.Name).
		Stringer("outcome", res.Outcome.Kind).
		Bool("retried", res.Retried).
		Dur("elapsed", res.Elapsed).
		Msg("test finished")
	return res, nil
}

// RunAll runs cases one after another, handing every result to report.
// It stops early when ctx is done, on a harness error, or after the first
// failure if StopOnFailure is set.
func (r *Runner) RunAll(ctx context.Context, cases []*testcase.TestCase, report func(*Result)) (Summary, error) {
	var sum Summary
	for _, tc := range cases {
		if err := ctx.Err(); err != nil {
			sum.Aborted = true
			return sum, err
		}

		res, err := r.Run(tc)
		if err != nil {
			sum.Aborted = true
			return sum, err
		}
		if report != nil {
			report(res)
		}

		if res.Passed() {
			sum.Passed++
			continue
		}
		sum.Failed++
		if r.cfg.StopOnFailure {
			sum.Aborted = true
			return sum, nil
		}
	}
	return sum, nil
}
