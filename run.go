package remapcheck

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jetkvm/remapcheck/internal/runner"
	"github.com/jetkvm/remapcheck/internal/testcase"
	"github.com/jetkvm/remapcheck/internal/tuning"
	"github.com/jetkvm/remapcheck/internal/utils"
	"github.com/jetkvm/remapcheck/internal/watchdog"
)

const progName = "remapcheck"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type options struct {
	verbose    bool
	exitOnFail bool
	configPath string
	timeout    time.Duration
	metrics    string
	watch      bool
	monitor    bool
	typeText   string
	sut        string

	files []string
	set   map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{set: map[string]bool{}}

	fs := flag.NewFlagSet(progName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <test file>...\n", progName)
		fs.PrintDefaults()
	}

	fs.BoolVar(&o.verbose, "v", false, "print the input and an expected/actual diff for failures")
	fs.BoolVar(&o.verbose, "verbose", false, "same as -v")
	fs.BoolVar(&o.exitOnFail, "e", false, "stop after the first failing test")
	fs.BoolVar(&o.exitOnFail, "exit-on-fail", false, "same as -e")
	fs.StringVar(&o.configPath, "config", "", "TOML configuration file")
	fs.DurationVar(&o.timeout, "timeout", 0, "abort the whole run after this long (default 20s)")
	fs.StringVar(&o.metrics, "metrics", "", "write Prometheus metrics to this textfile after the run")
	fs.BoolVar(&o.watch, "watch", false, "re-run test files whenever they change")
	fs.BoolVar(&o.monitor, "monitor", false, "print every event the capture device emits until interrupted")
	fs.StringVar(&o.typeText, "type", "", "type TEXT on the virtual keyboard and print what comes out")
	fs.StringVar(&o.sut, "sut", "", "command line of the daemon to start before testing")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	o.files = fs.Args()

	modes := 0
	for _, m := range []bool{o.monitor, o.typeText != "", o.watch} {
		if m {
			modes++
		}
	}
	switch {
	case modes > 1:
		return nil, errors.New("-monitor, -type and -watch are mutually exclusive")
	case (o.monitor || o.typeText != "") && len(o.files) > 0:
		return nil, errors.New("test files cannot be combined with -monitor or -type")
	case !o.monitor && o.typeText == "" && len(o.files) == 0:
		return nil, errors.New("no test files given")
	}
	return o, nil
}

// apply layers explicitly given flags over the loaded configuration.
func (o *options) apply(cfg *Config) {
	if o.set["v"] || o.set["verbose"] {
		cfg.Verbose = o.verbose
	}
	if o.set["e"] || o.set["exit-on-fail"] {
		cfg.StopOnFailure = o.exitOnFail
	}
	if o.set["timeout"] {
		cfg.Timing.Timeout = o.timeout
	}
	if o.set["metrics"] {
		cfg.MetricsTextfile = o.metrics
	}
	if o.set["sut"] {
		cfg.SUTCommand = strings.Fields(o.sut)
	}
}

// loadCases parses every file up front so that a broken file aborts the
// run before any device is touched.
func loadCases(paths []string) ([]*testcase.TestCase, error) {
	cases := make([]*testcase.TestCase, 0, len(paths))
	for _, p := range paths {
		tc, err := testcase.Load(p)
		if err != nil {
			return nil, err
		}
		cases = append(cases, tc)
	}
	return cases, nil
}

// session ties a runner to its reporter and metrics for the lifetime of
// the process. Watch mode reuses one session across runs.
type session struct {
	cfg      *Config
	runner   *runner.Runner
	reporter *runner.Reporter
	registry *prometheus.Registry
}

func newSession(cfg *Config, kbd runner.Keyboard, src runner.Capture, out io.Writer) *session {
	reg := prometheus.NewRegistry()
	return &session{
		cfg:      cfg,
		runner:   runner.New(kbd, src, cfg.runnerConfig(), runnerLogger, reg),
		reporter: runner.NewReporter(out, cfg.Verbose),
		registry: reg,
	}
}

func (s *session) runCases(ctx context.Context, cases []*testcase.TestCase) (runner.Summary, error) {
	done := 0
	utils.SetProcTitle(utils.ProgressTitle(progName, done, len(cases), ""))

	sum, err := s.runner.RunAll(ctx, cases, func(res *runner.Result) {
		done++
		utils.SetProcTitle(utils.ProgressTitle(progName, done, len(cases), res.Case.Name))
		s.reporter.Report(res)
	})
	s.reporter.Summary(sum)
	s.writeMetrics()
	return sum, err
}

func (s *session) writeMetrics() {
	if s.cfg.MetricsTextfile == "" {
		return
	}
	if err := prometheus.WriteToTextfile(s.cfg.MetricsTextfile, s.registry); err != nil {
		mainLogger.Warn().Err(err).Str("path", s.cfg.MetricsTextfile).Msg("failed to write metrics")
	}
}

// Main is the command entry point.
func Main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "%s: %v\n", progName, err)
		return exitUsage
	}

	cfg, err := LoadConfig(opts.configPath)
	if err != nil {
		mainLogger.Error().Err(err).Msg("invalid configuration")
		return exitFailure
	}
	opts.apply(cfg)
	setLogLevel(cfg.Verbose)

	var cases []*testcase.TestCase
	if len(opts.files) > 0 {
		if cases, err = loadCases(opts.files); err != nil {
			mainLogger.Error().Err(err).Msg("failed to load test cases")
			return exitFailure
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Everything below may be torn down by the watchdog from its own
	// goroutine.
	var held atomic.Pointer[devices]
	release := func() {
		if d := held.Load(); d != nil {
			d.close()
		}
	}

	if !opts.monitor && !opts.watch {
		wd := watchdog.Arm(cfg.Timing.Timeout, watchdogLogger, release)
		defer wd.Stop()
	}

	_, restore := tuning.Apply(mainLogger)
	defer restore()

	devs, err := initDevices(ctx, cfg)
	if err != nil {
		mainLogger.Error().Err(err).Msg("failed to set up devices")
		return exitFailure
	}
	held.Store(devs)
	defer release()

	switch {
	case opts.monitor:
		err = monitor(ctx, devs, stdout)
	case opts.typeText != "":
		err = typeText(devs, opts.typeText, cfg.Timing.Retry, stdout)
	case opts.watch:
		s := newSession(cfg, devs.kbd, devs.src, stdout)
		err = watchCases(ctx, s, opts.files, cases, release)
	default:
		var sum runner.Summary
		s := newSession(cfg, devs.kbd, devs.src, stdout)
		sum, err = s.runCases(ctx, cases)
		if err == nil && !sum.OK() {
			return exitFailure
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		mainLogger.Error().Err(err).Msg("run failed")
		return exitFailure
	}
	if ctx.Err() != nil && !opts.monitor && !opts.watch {
		return exitFailure
	}
	return exitOK
}

// monitor prints captured events until interrupted. A read blocked on an
// evdev node is not woken by closing it, so the interrupt path releases
// the devices and exits directly.
func monitor(ctx context.Context, devs *devices, w io.Writer) error {
	go func() {
		<-ctx.Done()
		devs.close()
		os.Exit(exitOK)
	}()

	info := devs.src.Info()
	mainLogger.Info().Str("path", info.Path).Str("name", info.Name).Msg("monitoring, press Ctrl-C to stop")
	for {
		ev, err := devs.src.NextBlocking()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, ev)
	}
}

// typeText sends s through the virtual keyboard and prints the daemon's
// response.
func typeText(devs *devices, s string, wait time.Duration, w io.Writer) error {
	if err := devs.kbd.SendText(s); err != nil {
		return err
	}
	time.Sleep(wait)

	evs, err := devs.src.DrainAvailable()
	if err != nil {
		return err
	}
	for _, ev := range evs {
		fmt.Fprintln(w, ev)
	}
	return nil
}
