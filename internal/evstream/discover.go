package evstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"
)

var ErrDeviceNotFound = errors.New("input device not found")

// Selector picks the device to capture from. A non-empty Name matches the
// advertised name exactly; a non-zero Vendor/Product pair matches the
// device id. Either match is enough.
type Selector struct {
	Name    string
	Vendor  uint16
	Product uint16
}

func (s Selector) String() string {
	if s.Name != "" {
		return fmt.Sprintf("%q", s.Name)
	}
	return fmt.Sprintf("%04x:%04x", s.Vendor, s.Product)
}

// Matches reports whether a device with the given identity is selected.
func (s Selector) Matches(info DeviceInfo) bool {
	if s.Name != "" && info.Name == s.Name {
		return true
	}
	if s.Vendor == 0 && s.Product == 0 {
		return false
	}
	return info.ID.Vendor == s.Vendor && info.ID.Product == s.Product
}

// DeviceInfo is what discovery learns about one event node.
type DeviceInfo struct {
	Path string
	Name string
	ID   evdev.InputID
}

// lister enumerates input event nodes.
type lister interface {
	List() ([]DeviceInfo, error)
}

type evdevLister struct {
	log *zerolog.Logger
}

func (l evdevLister) List() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	infos := make([]DeviceInfo, 0, len(paths))
	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			l.log.Debug().Err(err).Str("path", p.Path).Msg("skipping unopenable device")
			continue
		}
		info := DeviceInfo{Path: p.Path}
		info.Name, _ = dev.Name()
		info.ID, err = dev.InputID()
		_ = dev.Close()
		if err != nil {
			l.log.Debug().Err(err).Str("path", p.Path).Msg("skipping device without id")
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// find returns the first listed device matching sel.
func find(l lister, sel Selector) (DeviceInfo, error) {
	infos, err := l.List()
	if err != nil {
		return DeviceInfo{}, err
	}
	for _, info := range infos {
		if sel.Matches(info) {
			return info, nil
		}
	}
	return DeviceInfo{}, fmt.Errorf("%w: %s", ErrDeviceNotFound, sel)
}

// waitFor polls until a device matching sel shows up or ctx is done.
func waitFor(ctx context.Context, l lister, sel Selector, interval time.Duration) (DeviceInfo, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		info, err := find(l, sel)
		if err == nil || !errors.Is(err, ErrDeviceNotFound) {
			return info, err
		}
		select {
		case <-ctx.Done():
			return DeviceInfo{}, fmt.Errorf("%w: %s: %w", ErrDeviceNotFound, sel, ctx.Err())
		case <-ticker.C:
		}
	}
}
