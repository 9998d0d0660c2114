// Package keys maps between symbolic key names used in test scripts and
// the kernel key codes seen on the input event stream.
package keys

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// Code is a kernel key code, as carried by EV_KEY events.
type Code = evdev.EvCode

var ErrUnknownSymbol = errors.New("unknown key symbol")

// Tier is one namespace of symbolic names. Tiers are consulted in order
// until one of them knows the name.
type Tier struct {
	Name string
	// Shift is set on the tier whose names are only produced while shift
	// is held (e.g. "A" or "!").
	Shift bool

	codes map[string]Code
}

// Lookup returns the code registered under name in this tier.
func (t *Tier) Lookup(name string) (Code, bool) {
	c, ok := t.codes[name]
	return c, ok
}

// Resolution is the outcome of resolving a symbol through the tiers.
type Resolution struct {
	Code  Code
	Shift bool
	Tier  string
}

// Table is the prioritized chain of tiers plus the reverse code→name
// lookup.
type Table struct {
	tiers []*Tier
	names map[Code]string
	codes []Code
}

// Event is a single key transition observed on or written to a device.
type Event struct {
	Code    Code
	Pressed bool
}

// State renders the pressed flag the way test files spell it.
func State(pressed bool) string {
	if pressed {
		return "down"
	}
	return "up"
}

func (e Event) String() string {
	return Name(e.Code) + " " + State(e.Pressed)
}

// NewTable builds the table from the static keymap.
func NewTable() *Table {
	primary := &Tier{Name: "primary", codes: make(map[string]Code)}
	alternate := &Tier{Name: "alternate", codes: make(map[string]Code)}
	shifted := &Tier{Name: "shifted", Shift: true, codes: make(map[string]Code)}

	t := &Table{
		tiers: []*Tier{primary, alternate, shifted},
		names: make(map[Code]string, len(keymap)),
	}

	for _, e := range keymap {
		primary.codes[e.name] = e.code
		if e.alt != "" {
			alternate.codes[e.alt] = e.code
		}
		if e.shifted != "" {
			shifted.codes[e.shifted] = e.code
		}
		t.names[e.code] = e.name
		t.codes = append(t.codes, e.code)
	}
	for name, code := range modifierAliases {
		alternate.codes[name] = code
	}

	sort.Slice(t.codes, func(i, j int) bool { return t.codes[i] < t.codes[j] })
	return t
}

// Resolve walks every tier, including the shifted one.
func (t *Table) Resolve(name string) (Resolution, error) {
	return t.resolve(name, t.tiers)
}

// ResolveKey resolves a physical key name; shifted names are not keys and
// are rejected.
func (t *Table) ResolveKey(name string) (Code, error) {
	res, err := t.resolve(name, t.tiers[:2])
	if err != nil {
		return 0, err
	}
	return res.Code, nil
}

func (t *Table) resolve(name string, tiers []*Tier) (Resolution, error) {
	for _, tier := range tiers {
		if code, ok := tier.Lookup(name); ok {
			return Resolution{Code: code, Shift: tier.Shift, Tier: tier.Name}, nil
		}
	}
	return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
}

// Name returns the primary name of code. Codes outside the table fall back
// to the kernel constant name.
func (t *Table) Name(code Code) string {
	if name, ok := t.names[code]; ok {
		return name
	}
	if s, ok := evdev.KEYToString[code]; ok {
		return strings.ToLower(strings.TrimPrefix(s, "KEY_"))
	}
	return fmt.Sprintf("code%d", code)
}

// Codes returns every code the table knows, in ascending order.
func (t *Table) Codes() []Code {
	return append([]Code(nil), t.codes...)
}

var defaultTable = sync.OnceValue(NewTable)

// Default returns the shared table.
func Default() *Table {
	return defaultTable()
}

// Resolve resolves name through the default table.
func Resolve(name string) (Resolution, error) {
	return Default().Resolve(name)
}

// ResolveKey resolves a physical key name through the default table.
func ResolveKey(name string) (Code, error) {
	return Default().ResolveKey(name)
}

// Name is the reverse lookup on the default table.
func Name(code Code) string {
	return Default().Name(code)
}
