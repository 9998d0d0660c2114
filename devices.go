package remapcheck

import (
	"context"
	"fmt"
	"sync"

	"github.com/jetkvm/remapcheck/internal/evstream"
	"github.com/jetkvm/remapcheck/internal/sut"
	"github.com/jetkvm/remapcheck/internal/uinput"
)

// devices owns everything the run touches outside the process: the
// virtual keyboard, the grabbed capture node and, optionally, the daemon.
type devices struct {
	kbd    *uinput.Keyboard
	src    *evstream.Source
	daemon *sut.Daemon

	closeOnce sync.Once
}

// initDevices creates the virtual keyboard, starts the daemon when one is
// configured and binds the capture source with an exclusive grab. On
// failure everything acquired so far is released.
func initDevices(ctx context.Context, cfg *Config) (d *devices, err error) {
	d = &devices{}
	defer func() {
		if err != nil {
			d.close()
			d = nil
		}
	}()

	deviceLogger.Info().Str("name", cfg.Keyboard.Name).Msg("Initializing virtual keyboard")
	d.kbd, err = uinput.New(cfg.uinputConfig(), deviceLogger)
	if err != nil {
		return d, err
	}

	sel := cfg.selector()
	if len(cfg.SUTCommand) > 0 {
		d.daemon, err = sut.Start(ctx, cfg.SUTCommand, sutLogger)
		if err != nil {
			return d, err
		}

		waitCtx, cancel := context.WithTimeout(ctx, cfg.Target.WaitTimeout)
		defer cancel()
		d.src, err = evstream.OpenWait(waitCtx, sel, cfg.Target.WaitInterval, deviceLogger)
	} else {
		d.src, err = evstream.Open(sel, deviceLogger)
	}
	if err != nil {
		return d, fmt.Errorf("capture device %s: %w", sel, err)
	}

	if err := d.src.Grab(); err != nil {
		return d, err
	}
	return d, nil
}

// close releases the grab before the daemon goes away so that its output
// device is never left grabbed. Safe to call from the watchdog and from
// deferred cleanup at the same time.
func (d *devices) close() {
	d.closeOnce.Do(func() {
		if d.src != nil {
			if err := d.src.Close(); err != nil {
				deviceLogger.Warn().Err(err).Msg("failed to release capture device")
			}
		}
		if d.daemon != nil {
			if err := d.daemon.Stop(); err != nil {
				deviceLogger.Warn().Err(err).Msg("daemon exited with error")
			}
		}
		if d.kbd != nil {
			if err := d.kbd.Close(); err != nil {
				deviceLogger.Warn().Err(err).Msg("failed to destroy virtual keyboard")
			}
		}
		deviceLogger.Debug().Msg("devices released")
	})
}
