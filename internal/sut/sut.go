// Package sut supervises the daemon under test when the harness is asked
// to start it itself.
package sut

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

// stopGrace is how long the daemon gets to exit after SIGTERM.
const stopGrace = 2 * time.Second

// Daemon is a running daemon process.
type Daemon struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	log    *zerolog.Logger

	readerWG sync.WaitGroup
	exited   chan struct{}
	waitErr  error
	stopOnce sync.Once
}

var defaultLogger = zerolog.New(os.Stderr).With().Str("subsystem", "sut").Logger()

// Start launches argv and forwards its output to the log.
func Start(ctx context.Context, argv []string, logger *zerolog.Logger) (*Daemon, error) {
	if logger == nil {
		l := defaultLogger
		logger = &l
	}
	if len(argv) == 0 {
		return nil, errors.New("sut: empty command")
	}

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
	cmd.WaitDelay = stopGrace

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("sut stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("sut stderr pipe: %w", err)
	}

	scoped := logger.With().Str("sut", argv[0]).Logger()
	d := &Daemon{
		cmd:    cmd,
		cancel: cancel,
		log:    &scoped,
		exited: make(chan struct{}),
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("sut start %s: %w", argv[0], err)
	}
	d.log.Info().Int("pid", cmd.Process.Pid).Strs("argv", argv).Msg("daemon started")

	d.readerWG.Add(2)
	go d.pump(stdout, zerolog.DebugLevel)
	go d.pump(stderr, zerolog.InfoLevel)

	go func() {
		d.readerWG.Wait()
		d.waitErr = cmd.Wait()
		close(d.exited)
	}()

	return d, nil
}

func (d *Daemon) pump(r io.Reader, level zerolog.Level) {
	defer d.readerWG.Done()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		d.log.WithLevel(level).Msg(sc.Text())
	}
}

// Exited is closed when the process has terminated.
func (d *Daemon) Exited() <-chan struct{} {
	return d.exited
}

// Err is the process exit status; valid once Exited is closed.
func (d *Daemon) Err() error {
	return d.waitErr
}

// Stop terminates the daemon and waits for it. A daemon killed by Stop
// is not an error.
func (d *Daemon) Stop() error {
	d.stopOnce.Do(func() {
		select {
		case <-d.exited:
		default:
			d.cancel()
			<-d.exited
		}
		d.log.Info().Msg("daemon stopped")
	})

	var exitErr *exec.ExitError
	if errors.As(d.waitErr, &exitErr) && !exitErr.Exited() {
		return nil
	}
	if errors.Is(d.waitErr, context.Canceled) {
		return nil
	}
	return d.waitErr
}
