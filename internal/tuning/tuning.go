// Package tuning prepares the process for timing-sensitive stimulus: no GC
// pauses and the highest scheduling priority available.
package tuning

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/prometheus/procfs"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Niceness requested for the run.
const Niceness = -20

// State is what the process ended up with after Apply.
type State struct {
	Nice    int
	Threads int
}

var setpriority = func(prio int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, 0, prio)
}

// Apply collects garbage once, disables the collector and renices the
// process. Failing to renice (e.g. without CAP_SYS_NICE) is logged and
// ignored. The returned function re-enables the collector.
func Apply(logger *zerolog.Logger) (State, func()) {
	runtime.GC()
	prev := debug.SetGCPercent(-1)
	restore := func() { debug.SetGCPercent(prev) }

	if err := setpriority(Niceness); err != nil {
		logger.Warn().Err(err).Int("nice", Niceness).Msg("could not raise priority, timing may be less precise")
	}

	st, err := current()
	if err != nil {
		logger.Debug().Err(err).Msg("could not read back process state")
		return State{}, restore
	}
	logger.Debug().Int("nice", st.Nice).Int("threads", st.Threads).Msg("process tuned")
	return st, restore
}

func current() (State, error) {
	p, err := procfs.Self()
	if err != nil {
		return State{}, fmt.Errorf("procfs self: %w", err)
	}
	stat, err := p.Stat()
	if err != nil {
		return State{}, fmt.Errorf("procfs stat: %w", err)
	}
	return State{Nice: stat.Nice, Threads: stat.NumThreads}, nil
}
