// Package evstream captures the key events a remapping daemon emits on its
// virtual output device.
package evstream

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/jetkvm/remapcheck/internal/keys"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

var eventSize = binary.Size(evdev.InputEvent{})

// drainBatch is how many events a single non-blocking read may return.
const drainBatch = 64

var defaultLogger = zerolog.New(os.Stdout).With().Str("subsystem", "evstream").Logger()

// Source is an opened, optionally grabbed, event device.
type Source struct {
	mu      sync.Mutex
	node    node
	info    DeviceInfo
	grabbed bool
	log     *zerolog.Logger
}

// ErrClosed is returned by reads and grabs after Close.
var ErrClosed = errors.New("capture device closed")

// Open binds to the first input device matching sel.
func Open(sel Selector, logger *zerolog.Logger) (*Source, error) {
	if logger == nil {
		l := defaultLogger
		logger = &l
	}
	info, err := find(evdevLister{log: logger}, sel)
	if err != nil {
		return nil, err
	}
	return openInfo(info, logger)
}

// OpenWait is Open for a device that may not exist yet, e.g. because the
// daemon is still starting.
func OpenWait(ctx context.Context, sel Selector, interval time.Duration, logger *zerolog.Logger) (*Source, error) {
	if logger == nil {
		l := defaultLogger
		logger = &l
	}
	info, err := waitFor(ctx, evdevLister{log: logger}, sel, interval)
	if err != nil {
		return nil, err
	}
	return openInfo(info, logger)
}

func openInfo(info DeviceInfo, logger *zerolog.Logger) (*Source, error) {
	n, err := openNode(info.Path)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("path", info.Path).
		Str("name", info.Name).
		Str("id", fmt.Sprintf("%04x:%04x", info.ID.Vendor, info.ID.Product)).
		Msg("capture device bound")
	return newSource(n, info, logger), nil
}

func newSource(n node, info DeviceInfo, logger *zerolog.Logger) *Source {
	return &Source{node: n, info: info, log: logger}
}

// Info describes the bound device.
func (s *Source) Info() DeviceInfo {
	return s.info
}

// Grab takes exclusive access so test traffic does not reach the desktop.
func (s *Source) Grab() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.node == nil {
		return ErrClosed
	}
	if err := s.node.Grab(true); err != nil {
		return err
	}
	s.grabbed = true
	return nil
}

// Ungrab releases exclusive access.
func (s *Source) Ungrab() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ungrab()
}

func (s *Source) ungrab() error {
	if !s.grabbed || s.node == nil {
		return nil
	}
	if err := s.node.Grab(false); err != nil {
		return err
	}
	s.grabbed = false
	return nil
}

// Close releases the grab, if held, and closes the device. It may be
// called more than once.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.node == nil {
		return nil
	}
	err := s.ungrab()
	err = errors.Join(err, s.node.Close())
	s.node = nil
	return err
}

// DrainAvailable returns every key event currently queued on the device
// without blocking. The device is back in blocking mode on return.
func (s *Source) DrainAvailable() (events []keys.Event, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.node == nil {
		return nil, ErrClosed
	}

	if err := s.node.SetNonblock(true); err != nil {
		return nil, fmt.Errorf("set nonblocking: %w", err)
	}
	defer func() {
		if rerr := s.node.SetNonblock(false); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore blocking: %w", rerr))
		}
	}()

	buf := make([]byte, eventSize*drainBatch)
	for {
		n, err := s.node.Read(buf)
		if errors.Is(err, unix.EAGAIN) {
			return events, nil
		}
		if err != nil {
			return events, fmt.Errorf("read %s: %w", s.info.Path, err)
		}
		if n == 0 {
			return events, nil
		}

		raw, err := decode(buf[:n])
		if err != nil {
			return events, err
		}
		for _, ev := range raw {
			if ev.Type != evdev.EV_KEY {
				continue
			}
			events = append(events, keys.Event{Code: ev.Code, Pressed: ev.Value != 0})
		}
	}
}

// NextBlocking waits for the next key event. Not used on the timed test
// path. The lock is not held across the read so that Close never waits
// on a device that stays silent.
func (s *Source) NextBlocking() (keys.Event, error) {
	buf := make([]byte, eventSize)
	for {
		s.mu.Lock()
		nd := s.node
		s.mu.Unlock()
		if nd == nil {
			return keys.Event{}, ErrClosed
		}

		n, err := nd.Read(buf)
		if err == nil && n == 0 {
			err = io.EOF
		}
		if err != nil {
			return keys.Event{}, fmt.Errorf("read %s: %w", s.info.Path, err)
		}
		raw, err := decode(buf[:n])
		if err != nil {
			return keys.Event{}, err
		}
		for _, ev := range raw {
			if ev.Type == evdev.EV_KEY {
				return keys.Event{Code: ev.Code, Pressed: ev.Value != 0}, nil
			}
		}
	}
}

// decode splits a read into input_event records.
func decode(b []byte) ([]evdev.InputEvent, error) {
	if len(b)%eventSize != 0 {
		return nil, fmt.Errorf("short read: %d bytes is not a multiple of %d", len(b), eventSize)
	}
	events := make([]evdev.InputEvent, len(b)/eventSize)
	if err := binary.Read(bytes.NewReader(b), binary.NativeEndian, events); err != nil {
		return nil, fmt.Errorf("decode input events: %w", err)
	}
	return events, nil
}
