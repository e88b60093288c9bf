// Package hidraw implements the production wiimote.HidDevice /
// wiimote.HidEnumerator pair on top of Linux's /dev/hidraw interface.
package hidraw

import (
	"fmt"
	"sync"

	"github.com/gowiimote/wiiuse"
	"golang.org/x/sys/unix"
)

// reportBufSize is large enough for the biggest input report this driver
// decodes (report.Ext21 carries 21 bytes plus the report ID).
const reportBufSize = 23

// Device is a single open /dev/hidraw* node.
type Device struct {
	path string
	fd   int
	poll *PollWaiter

	mu     sync.Mutex
	closed bool
}

// Open opens a hidraw node for non-blocking reads and writes.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("hidraw: open %s: %w", path, err)
	}
	return &Device{
		path: path,
		fd:   fd,
		poll: NewPollWaiter(fd),
	}, nil
}

// ReadInput implements wiimote.HidDevice. It blocks up to pollTimeout
// waiting for the device to become readable, then performs a single
// non-blocking read.
func (d *Device) ReadInput() ([]byte, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil, fmt.Errorf("hidraw: %s: closed", d.path)
	}
	fd := d.fd
	d.mu.Unlock()

	ready, timedOut, err := d.poll.Wait()
	if err != nil {
		return nil, err
	}
	if timedOut || !ready {
		return nil, nil
	}

	buf := make([]byte, reportBufSize)
	n, err := unix.Read(fd, buf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return nil, nil
		}
		return nil, fmt.Errorf("hidraw: %s: read: %w", d.path, err)
	}
	if n == 0 {
		return []byte{}, nil
	}
	return buf[:n], nil
}

// WriteOutput implements wiimote.HidDevice.
func (d *Device) WriteOutput(data []byte) bool {
	d.mu.Lock()
	fd, closed := d.fd, d.closed
	d.mu.Unlock()
	if closed {
		return false
	}
	_, err := unix.Write(fd, data)
	return err == nil
}

// IdentityEq implements wiimote.HidDevice by comparing the underlying
// hidraw node path.
func (d *Device) IdentityEq(other wiimote.HidDevice) bool {
	o, ok := other.(*Device)
	return ok && o.path == d.path
}

// Close releases the underlying file descriptor.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return unix.Close(d.fd)
}
