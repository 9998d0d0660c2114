package remapcheck

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

var runID = xid.New()

var rootLogger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.TimeOnly,
	NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
}).With().Timestamp().Str("run", runID.String()).Logger()

func subsystemLogger(name string) *zerolog.Logger {
	l := rootLogger.With().Str("subsystem", name).Logger()
	return &l
}

var (
	deviceLogger   = subsystemLogger("devices")
	runnerLogger   = subsystemLogger("runner")
	sutLogger      = subsystemLogger("sut")
	watchLogger    = subsystemLogger("watch")
	watchdogLogger = subsystemLogger("watchdog")
	mainLogger     = subsystemLogger("main")
)

// setLogLevel applies -v. The level is global so every subsystem logger,
// including those handed to internal packages, follows it.
func setLogLevel(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
