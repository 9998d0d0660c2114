package remapcheck

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jetkvm/remapcheck/internal/evstream"
	"github.com/jetkvm/remapcheck/internal/runner"
	"github.com/jetkvm/remapcheck/internal/uinput"
)

const envPrefix = "REMAPCHECK_"

// KeyboardConfig describes the virtual keyboard the harness types on.
type KeyboardConfig struct {
	Name    string        `toml:"name"`
	BusType uint16        `toml:"bus_type"`
	Vendor  uint16        `toml:"vendor"`
	Product uint16        `toml:"product"`
	Settle  time.Duration `toml:"settle"`
}

// TargetConfig selects the device the daemon under test writes to.
type TargetConfig struct {
	Name         string        `toml:"name"`
	Vendor       uint16        `toml:"vendor"`
	Product      uint16        `toml:"product"`
	WaitInterval time.Duration `toml:"wait_interval"`
	WaitTimeout  time.Duration `toml:"wait_timeout"`
}

// TimingConfig holds the capture protocol intervals.
type TimingConfig struct {
	Settle  time.Duration `toml:"settle"`
	Retry   time.Duration `toml:"retry"`
	Timeout time.Duration `toml:"timeout"`
}

type Config struct {
	Keyboard KeyboardConfig `toml:"keyboard"`
	Target   TargetConfig   `toml:"target"`
	Timing   TimingConfig   `toml:"timing"`

	StopOnFailure   bool     `toml:"exit_on_fail"`
	Verbose         bool     `toml:"verbose"`
	MetricsTextfile string   `toml:"metrics_textfile"`
	SUTCommand      []string `toml:"sut_command"`
}

var defaultConfig = &Config{
	Keyboard: KeyboardConfig{
		Name:    "test keyboard",
		BusType: 0x03, // BUS_USB
		Vendor:  0x2fac,
		Product: 0x2ade,
		Settle:  300 * time.Millisecond,
	},
	Target: TargetConfig{
		Name:         "keyd virtual keyboard",
		WaitInterval: 50 * time.Millisecond,
		WaitTimeout:  5 * time.Second,
	},
	Timing: TimingConfig{
		Settle:  30 * time.Microsecond,
		Retry:   50 * time.Millisecond,
		Timeout: 20 * time.Second,
	},
}

// DefaultConfig returns a fresh copy of the built-in configuration.
func DefaultConfig() *Config {
	c := *defaultConfig
	return &c
}

// LoadConfig builds the effective configuration: defaults, then the TOML
// file at path (if any), then REMAPCHECK_* environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("decode TOML: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) error {
	get := func(name string) string {
		return strings.TrimSpace(getenv(envPrefix + name))
	}

	if v := get("KEYBOARD_NAME"); v != "" {
		c.Keyboard.Name = v
	}
	if v := get("TARGET_NAME"); v != "" {
		c.Target.Name = v
	}
	if v := get("TARGET_ID"); v != "" {
		vendor, product, err := parseID(v)
		if err != nil {
			return fmt.Errorf("%sTARGET_ID: %w", envPrefix, err)
		}
		c.Target.Vendor, c.Target.Product = vendor, product
	}

	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"TIMEOUT", &c.Timing.Timeout},
		{"SETTLE", &c.Timing.Settle},
		{"RETRY", &c.Timing.Retry},
		{"WAIT_TIMEOUT", &c.Target.WaitTimeout},
	}
	for _, d := range durations {
		v := get(d.name)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", envPrefix, d.name, err)
		}
		*d.dst = parsed
	}

	if v := get("METRICS"); v != "" {
		c.MetricsTextfile = v
	}
	if v := get("SUT"); v != "" {
		c.SUTCommand = strings.Fields(v)
	}
	return nil
}

// parseID parses "vvvv:pppp" in hex.
func parseID(s string) (uint16, uint16, error) {
	vs, ps, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid device id %q, want vendor:product", s)
	}
	vendor, err := strconv.ParseUint(vs, 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid vendor in %q: %w", s, err)
	}
	product, err := strconv.ParseUint(ps, 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid product in %q: %w", s, err)
	}
	return uint16(vendor), uint16(product), nil
}

func (c *Config) Validate() error {
	if c.Keyboard.Name == "" {
		return errors.New("keyboard name must not be empty")
	}
	if c.Target.Name == "" && c.Target.Vendor == 0 && c.Target.Product == 0 {
		return errors.New("target needs a name or a vendor:product id")
	}
	if c.Timing.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timing.Timeout)
	}
	if c.Timing.Retry < 0 || c.Timing.Settle < 0 {
		return errors.New("settle and retry intervals must not be negative")
	}
	return nil
}

func (c *Config) uinputConfig() uinput.Config {
	u := uinput.DefaultConfig()
	u.Name = c.Keyboard.Name
	u.BusType = c.Keyboard.BusType
	u.Vendor = c.Keyboard.Vendor
	u.Product = c.Keyboard.Product
	u.Settle = c.Keyboard.Settle
	return u
}

func (c *Config) selector() evstream.Selector {
	return evstream.Selector{
		Name:    c.Target.Name,
		Vendor:  c.Target.Vendor,
		Product: c.Target.Product,
	}
}

func (c *Config) runnerConfig() runner.Config {
	return runner.Config{
		Settle:        c.Timing.Settle,
		Retry:         c.Timing.Retry,
		StopOnFailure: c.StopOnFailure,
	}
}
