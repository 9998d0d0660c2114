// Package watchdog bounds the wall-clock time of a whole run. A daemon that
// never produces output would otherwise leave blocking reads stuck forever.
package watchdog

import (
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Watchdog fires once unless stopped first.
type Watchdog struct {
	timer *time.Timer
	once  sync.Once
	fired chan struct{}

	cleanup []func()
	exit    func(code int)
	log     *zerolog.Logger
}

var defaultLogger = zerolog.New(os.Stderr).With().Str("subsystem", "watchdog").Logger()

// Arm starts the deadline. When it passes, every cleanup runs in reverse
// order of registration and the process exits with status 1.
func Arm(d time.Duration, logger *zerolog.Logger, cleanup ...func()) *Watchdog {
	return arm(d, logger, os.Exit, cleanup...)
}

func arm(d time.Duration, logger *zerolog.Logger, exit func(int), cleanup ...func()) *Watchdog {
	if logger == nil {
		l := defaultLogger
		logger = &l
	}
	w := &Watchdog{
		fired:   make(chan struct{}),
		cleanup: cleanup,
		exit:    exit,
		log:     logger,
	}
	w.timer = time.AfterFunc(d, w.fire)
	return w
}

func (w *Watchdog) fire() {
	w.once.Do(func() {
		w.log.Error().Msg("test timed out")
		for i := len(w.cleanup) - 1; i >= 0; i-- {
			w.cleanup[i]()
		}
		close(w.fired)
		w.exit(1)
	})
}

// Stop disarms the watchdog. It reports false if the deadline already
// passed.
func (w *Watchdog) Stop() bool {
	return w.timer.Stop()
}

// Fired is closed once the deadline has passed and cleanup has run.
func (w *Watchdog) Fired() <-chan struct{} {
	return w.fired
}
