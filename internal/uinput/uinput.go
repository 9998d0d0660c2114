package uinput

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/jetkvm/remapcheck/internal/keys"
	"github.com/rs/zerolog"
)

// Config describes the identity the virtual keyboard advertises.
type Config struct {
	Name    string
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16

	// Settle is how long to wait after creation before the device is
	// visible to the rest of the input stack.
	Settle time.Duration
}

// DefaultConfig matches the identity the daemon's test configuration
// expects to see.
func DefaultConfig() Config {
	return Config{
		Name:    "test keyboard",
		BusType: 0x03, // BUS_USB
		Vendor:  0x2fac,
		Product: 0x2ade,
		Settle:  300 * time.Millisecond,
	}
}

// eventWriter is the part of *evdev.InputDevice the keyboard writes to.
type eventWriter interface {
	WriteOne(ev *evdev.InputEvent) error
	Close() error
}

// Keyboard is a kernel virtual keyboard driven by the harness.
type Keyboard struct {
	mu    sync.Mutex
	dev   eventWriter
	table *keys.Table
	log   *zerolog.Logger
}

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("virtual keyboard closed")

var defaultLogger = zerolog.New(os.Stdout).With().Str("subsystem", "uinput").Logger()

// capabilities lists every key the table knows except pointer buttons.
// The kernel does not accept new capabilities once the device exists.
func capabilities(table *keys.Table) map[evdev.EvType][]evdev.EvCode {
	var codes []evdev.EvCode
	for _, code := range table.Codes() {
		if keys.IsMouseButton(code) {
			continue
		}
		codes = append(codes, code)
	}
	return map[evdev.EvType][]evdev.EvCode{
		evdev.EV_KEY: codes,
	}
}

// New creates and registers the virtual keyboard, then waits for it to
// propagate up the input stack.
func New(cfg Config, logger *zerolog.Logger) (*Keyboard, error) {
	if logger == nil {
		l := defaultLogger
		logger = &l
	}
	table := keys.Default()

	dev, err := evdev.CreateDevice(cfg.Name, evdev.InputID{
		BusType: cfg.BusType,
		Vendor:  cfg.Vendor,
		Product: cfg.Product,
		Version: cfg.Version,
	}, capabilities(table))
	if err != nil {
		return nil, fmt.Errorf("create uinput device %q failed: %w. Ensure 'modprobe uinput' and permissions", cfg.Name, err)
	}

	logger.Info().
		Str("name", cfg.Name).
		Str("id", fmt.Sprintf("%04x:%04x", cfg.Vendor, cfg.Product)).
		Dur("settle", cfg.Settle).
		Msg("virtual keyboard created")

	// Events written before the device has propagated are silently lost.
	time.Sleep(cfg.Settle)

	return newKeyboard(dev, table, logger), nil
}

func newKeyboard(dev eventWriter, table *keys.Table, logger *zerolog.Logger) *Keyboard {
	return &Keyboard{dev: dev, table: table, log: logger}
}

// Close destroys the virtual device.
func (k *Keyboard) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.dev == nil {
		return nil
	}
	err := k.dev.Close()
	k.dev = nil
	return err
}

func (k *Keyboard) writeEvent(typ evdev.EvType, code evdev.EvCode, val int32) error {
	return k.dev.WriteOne(&evdev.InputEvent{
		Time:  syscall.Timeval{Sec: 0, Usec: 0},
		Type:  typ,
		Code:  code,
		Value: val,
	})
}

// Emit writes a single key transition followed by a SYN_REPORT.
func (k *Keyboard) Emit(code keys.Code, pressed bool) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.dev == nil {
		return ErrClosed
	}

	val := int32(0)
	if pressed {
		val = 1
	}
	if err := k.writeEvent(evdev.EV_KEY, code, val); err != nil {
		return fmt.Errorf("write key %s: %w", k.table.Name(code), err)
	}
	if err := k.writeEvent(evdev.EV_SYN, evdev.SYN_REPORT, 0); err != nil {
		return fmt.Errorf("write sync: %w", err)
	}
	return nil
}

// SendSymbol resolves name and emits its transition. Names that only
// exist in the shifted tier are wrapped in shift: press sends shift
// first, release lets shift go last.
func (k *Keyboard) SendSymbol(name string, pressed bool) error {
	res, err := k.table.Resolve(name)
	if err != nil {
		return err
	}
	if !res.Shift {
		return k.Emit(res.Code, pressed)
	}

	if pressed {
		return k.emitAll(keys.Event{Code: keys.ShiftCode, Pressed: true}, keys.Event{Code: res.Code, Pressed: true})
	}
	return k.emitAll(keys.Event{Code: res.Code}, keys.Event{Code: keys.ShiftCode})
}

// SendText types s one character at a time, holding shift around
// characters that need it.
func (k *Keyboard) SendText(s string) error {
	for _, c := range s {
		res, err := k.table.Resolve(string(c))
		if err != nil {
			return err
		}

		seq := []keys.Event{
			{Code: res.Code, Pressed: true},
			{Code: res.Code, Pressed: false},
		}
		if res.Shift {
			seq = append([]keys.Event{{Code: keys.ShiftCode, Pressed: true}}, seq...)
			seq = append(seq, keys.Event{Code: keys.ShiftCode, Pressed: false})
		}

		k.log.Trace().Str("char", string(c)).Bool("shift", res.Shift).Msg("typing")
		if err := k.emitAll(seq...); err != nil {
			return err
		}
	}
	return nil
}

func (k *Keyboard) emitAll(events ...keys.Event) error {
	for _, ev := range events {
		if err := k.Emit(ev.Code, ev.Pressed); err != nil {
			return err
		}
	}
	return nil
}
