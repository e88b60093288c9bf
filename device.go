// Package wiimote implements the core of a Wii Remote host-side controller
// driver: a per-device protocol engine (report parsing/encoding, extension
// and IR lifecycle, calibration) and a concurrent supervisor that
// enumerates HID devices, drives a reader and a writer goroutine, and
// publishes per-device snapshots to consumers.
//
// The package never talks to a HID transport directly; it is driven
// through the HidDevice/HidEnumerator capabilities below. Concrete
// transports live in pkg/hidraw and pkg/hidlib.
package wiimote

import (
	"sync"
	"time"
)

// HidDevice is the minimal capability the Provider needs over a HID
// endpoint: blocking reads up to an implementation-defined short
// interval, best-effort writes, and identity comparison for
// deduplication across enumerations. A HidDevice is exclusively owned by
// at most one DeviceRecord at a time; it retains no per-report state of
// its own.
type HidDevice interface {
	// ReadInput blocks up to an implementation-defined short interval.
	// It returns (nil, nil) on timeout, a non-nil empty slice on a
	// benign empty read, and a non-nil error only for a failed read
	// that should mark the device disconnected.
	ReadInput() ([]byte, error)

	// WriteOutput writes one output report. It reports success, not
	// error detail; the caller marks the record disconnected on false.
	WriteOutput([]byte) bool

	// IdentityEq reports whether other names the same physical device,
	// used to avoid registering an already-owned device a second time
	// during enumeration.
	IdentityEq(other HidDevice) bool
}

// HidEnumerator discovers candidate Wiimote-class HID devices.
type HidEnumerator interface {
	Enumerate() ([]HidDevice, error)
}

// DefaultDataDelay is the default minimum spacing between successful
// outbound writes to a single device.
const DefaultDataDelay = 25 * time.Millisecond

// DeviceRecord is one discovered device, exclusively owned by the
// Provider's device vector. Index is a stable handle consumers use for
// every public Provider operation; it never changes once assigned, even
// if the underlying device disconnects and a different device later
// reclaims the slot.
type DeviceRecord struct {
	Index int

	handle HidDevice
	engine *Engine

	mu        sync.RWMutex
	connected bool
	state     Snapshot

	dataDelay  time.Duration
	lastWriteAt time.Time
}

func newDeviceRecord(index int, handle HidDevice, queuer Queuer) *DeviceRecord {
	return &DeviceRecord{
		Index:     index,
		handle:    handle,
		connected: true,
		dataDelay: DefaultDataDelay,
		engine:    NewEngine(index, queuer),
	}
}

// Connected reports whether the record's last read or write succeeded.
func (r *DeviceRecord) Connected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.connected
}

func (r *DeviceRecord) setConnected(v bool) {
	r.mu.Lock()
	r.connected = v
	r.mu.Unlock()
}

// Snapshot returns a copy of the record's published input state.
func (r *DeviceRecord) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *DeviceRecord) publish(s Snapshot) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// PacketDelay returns the current minimum inter-write spacing.
func (r *DeviceRecord) PacketDelay() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dataDelay
}

// SetPacketDelay changes the minimum inter-write spacing.
func (r *DeviceRecord) SetPacketDelay(d time.Duration) {
	r.mu.Lock()
	r.dataDelay = d
	r.mu.Unlock()
}
