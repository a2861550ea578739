//go:build linux

package main

import (
	"errors"
	"fmt"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"
)

const (
	virtualDeviceName = "chordkb"
	uinputPath        = "/dev/uinput"

	// highest code the kernel accepts in an EV_KEY capability set
	keyMax = 0x2ff

	// time for the compositor to pick up the new virtual device
	settleDelay = 200 * time.Millisecond
)

var errNoKeyboards = errors.New("no keyboard devices found")

// keyboardDevice is a candidate physical keyboard.
type keyboardDevice struct {
	Path string
	Name string
}

// findKeyboards lists /dev/input event devices that can produce KEY_SPACE.
//
// Returns:
//   - []keyboardDevice: Candidates in device path order.
//   - error: Non-nil if the input devices cannot be listed.
func findKeyboards() ([]keyboardDevice, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}
	logger.Info("Scanning /dev/input/ for keyboards", "devices", len(paths))

	var keyboards []keyboardDevice
	for _, p := range paths {
		if p.Name == virtualDeviceName {
			continue
		}
		dev, err := evdev.Open(p.Path)
		if err != nil {
			logger.Debug("Skipping device", "path", p.Path, "err", err)
			continue
		}
		for _, c := range dev.CapableEvents(evdev.EV_KEY) {
			if c == evdev.KEY_SPACE {
				keyboards = append(keyboards, keyboardDevice{Path: p.Path, Name: p.Name})
				break
			}
		}
		dev.Close() //nolint:errcheck
	}
	return keyboards, nil
}

// InputDevice is an owned handle on a physical keyboard. Release undoes the
// grab and closes the device; it is safe to call more than once and from
// another goroutine, which unblocks a pending ReadBatch.
type InputDevice struct {
	dev  *evdev.InputDevice
	path string

	mu       sync.Mutex
	grabbed  bool
	released bool
}

// openInput opens the event device at path.
func openInput(path string) (*InputDevice, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &InputDevice{dev: dev, path: path}, nil
}

// Name returns the device name reported by the kernel.
func (d *InputDevice) Name() string {
	n, err := d.dev.Name()
	if err != nil {
		return d.path
	}
	return n
}

// Grab takes exclusive access so no other reader sees the raw events.
func (d *InputDevice) Grab() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return errors.New("device already released")
	}
	if err := d.dev.Grab(); err != nil {
		return fmt.Errorf("grab %s: %w", d.path, err)
	}
	d.grabbed = true
	logger.Info("Grabbed input device", "path", d.path)
	return nil
}

// Release ungrabs and closes the device.
func (d *InputDevice) Release() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return nil
	}
	d.released = true

	var errs []error
	if d.grabbed {
		if err := d.dev.Ungrab(); err != nil {
			errs = append(errs, fmt.Errorf("ungrab %s: %w", d.path, err))
		}
		d.grabbed = false
		logger.Info("Released input device", "path", d.path)
	}
	if err := d.dev.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s: %w", d.path, err))
	}
	return errors.Join(errs...)
}

// KeyCapabilities returns every key code the device can report.
func (d *InputDevice) KeyCapabilities() []KeyID {
	codes := d.dev.CapableEvents(evdev.EV_KEY)
	keys := make([]KeyID, 0, len(codes))
	for _, c := range codes {
		keys = append(keys, KeyID(c))
	}
	return keys
}

// ReadBatch blocks until the kernel completes a frame (SYN_REPORT) that
// carries at least one key event, and returns those key events in order.
func (d *InputDevice) ReadBatch() ([]KeyEvent, error) {
	var batch []KeyEvent
	for {
		ev, err := d.dev.ReadOne()
		if err != nil {
			return nil, err
		}
		switch ev.Type {
		case evdev.EV_KEY:
			batch = append(batch, KeyEvent{Key: KeyID(ev.Code), Transition: Transition(ev.Value)})
		case evdev.EV_SYN:
			switch ev.Code {
			case evdev.SYN_REPORT:
				if len(batch) > 0 {
					return batch, nil
				}
			case evdev.SYN_DROPPED:
				logger.Warn("Kernel dropped input events", "path", d.path)
			}
		}
	}
}

// OutputDevice is the uinput keyboard that receives synthesized events.
type OutputDevice struct {
	dev *evdev.InputDevice
}

// createOutput creates the virtual keyboard declaring keys as its key set.
//
// Parameters:
//   - keys: Every key that may be emitted; duplicates and EXIT are ignored.
//
// Returns:
//   - *OutputDevice: The created device, ready after a short settle delay.
//   - error: Non-nil if /dev/uinput is not writable or creation fails.
func createOutput(keys []KeyID) (*OutputDevice, error) {
	if err := unix.Access(uinputPath, unix.W_OK); err != nil {
		return nil, fmt.Errorf("%s not writable (need root or the uinput group): %w", uinputPath, err)
	}

	seen := make(map[KeyID]bool, len(keys))
	codes := make([]evdev.EvCode, 0, len(keys))
	for _, k := range keys {
		if k > keyMax || seen[k] {
			continue
		}
		seen[k] = true
		codes = append(codes, evdev.EvCode(k))
	}

	dev, err := evdev.CreateDevice(
		virtualDeviceName,
		evdev.InputID{
			BusType: 0x03, // BUS_USB
			Vendor:  0x4711,
			Product: 0x0816,
			Version: 1,
		},
		map[evdev.EvType][]evdev.EvCode{
			evdev.EV_KEY: codes,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("create virtual device: %w", err)
	}
	logger.Info("Created virtual device", "name", virtualDeviceName, "keys", len(codes))
	time.Sleep(settleDelay)
	return &OutputDevice{dev: dev}, nil
}

// Emit writes events in order, each followed by a SYN_REPORT.
func (o *OutputDevice) Emit(events []KeyEvent) error {
	for _, ev := range events {
		if err := o.dev.WriteOne(&evdev.InputEvent{
			Type:  evdev.EV_KEY,
			Code:  evdev.EvCode(ev.Key),
			Value: int32(ev.Transition),
		}); err != nil {
			return err
		}
		if err := o.dev.WriteOne(&evdev.InputEvent{
			Type: evdev.EV_SYN,
			Code: evdev.SYN_REPORT,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Close destroys the virtual device.
func (o *OutputDevice) Close() error {
	return o.dev.Close()
}
