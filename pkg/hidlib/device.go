// Package hidlib implements the wiimote.HidDevice / wiimote.HidEnumerator
// pair on top of github.com/karalabe/hid's hidapi cgo binding, for
// platforms where a Linux hidraw node isn't available.
package hidlib

import (
	"sync"

	"github.com/gowiimote/wiiuse"
	"github.com/karalabe/hid"
)

// VendorNintendo is the Nintendo Co., Ltd USB/Bluetooth vendor ID.
const VendorNintendo = 0x057e

// ProductWiimote and ProductWiimotePlus are the two HID product IDs a
// first or second generation Wii Remote reports.
const (
	ProductWiimote     = 0x0306
	ProductWiimotePlus = 0x0330
)

// readTimeoutMillis bounds a single ReadTimeout call so ReadInput always
// returns within an implementation-defined short interval.
const readTimeoutMillis = 100

// Device wraps a single open hid.Device.
type Device struct {
	path string
	dev  hid.Device

	mu     sync.Mutex
	closed bool
}

// Open connects to a previously enumerated hid.DeviceInfo.
func Open(info hid.DeviceInfo) (*Device, error) {
	dev, err := info.Open()
	if err != nil {
		return nil, err
	}
	return &Device{path: info.Path, dev: dev}, nil
}

// ReadInput implements wiimote.HidDevice.
func (d *Device) ReadInput() ([]byte, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, nil
	}
	dev := d.dev
	d.mu.Unlock()

	buf := make([]byte, 23)
	n, err := dev.ReadTimeout(buf, readTimeoutMillis)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return buf[:n], nil
}

// WriteOutput implements wiimote.HidDevice.
func (d *Device) WriteOutput(data []byte) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	dev := d.dev
	d.mu.Unlock()

	_, err := dev.Write(data)
	return err == nil
}

// IdentityEq implements wiimote.HidDevice by comparing hidapi device paths.
func (d *Device) IdentityEq(other wiimote.HidDevice) bool {
	o, ok := other.(*Device)
	return ok && o.path == d.path
}

// Close releases the underlying hidapi handle.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.dev.Close()
}

// Enumerator discovers Wii Remotes through hidapi's cross-platform
// enumeration, for use where /dev/hidraw isn't available (non-Linux, or
// a Linux system without permission to open the raw node directly).
type Enumerator struct {
	VendorID   uint16
	ProductIDs []uint16
}

// NewEnumerator returns an Enumerator preconfigured for Wii Remotes.
func NewEnumerator() *Enumerator {
	return &Enumerator{
		VendorID:   VendorNintendo,
		ProductIDs: []uint16{ProductWiimote, ProductWiimotePlus},
	}
}

// Enumerate implements wiimote.HidEnumerator.
func (e *Enumerator) Enumerate() ([]wiimote.HidDevice, error) {
	var out []wiimote.HidDevice
	for _, pid := range e.productIDs() {
		infos, err := hid.Enumerate(e.vendorID(), pid)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			dev, err := Open(info)
			if err != nil {
				continue
			}
			out = append(out, dev)
		}
	}
	return out, nil
}

func (e *Enumerator) vendorID() uint16 {
	if e.VendorID == 0 {
		return VendorNintendo
	}
	return e.VendorID
}

func (e *Enumerator) productIDs() []uint16 {
	if len(e.ProductIDs) == 0 {
		return []uint16{ProductWiimote, ProductWiimotePlus}
	}
	return e.ProductIDs
}
