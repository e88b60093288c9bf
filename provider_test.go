package wiimote

import (
	"sync"
	"testing"
	"time"
)

type fakeHidDevice struct {
	name string

	mu       sync.Mutex
	reads    [][]byte
	writeOK  bool
	writes   [][]byte
	writeAt  []time.Time
}

func newFakeHidDevice(name string) *fakeHidDevice {
	return &fakeHidDevice{name: name, writeOK: true}
}

func (d *fakeHidDevice) ReadInput() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.reads) == 0 {
		return nil, nil
	}
	r := d.reads[0]
	d.reads = d.reads[1:]
	return r, nil
}

func (d *fakeHidDevice) WriteOutput(data []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := append([]byte(nil), data...)
	d.writes = append(d.writes, cp)
	d.writeAt = append(d.writeAt, time.Now())
	return d.writeOK
}

func (d *fakeHidDevice) IdentityEq(other HidDevice) bool {
	o, ok := other.(*fakeHidDevice)
	return ok && o.name == d.name
}

type fakeEnumerator struct {
	mu      sync.Mutex
	devices []HidDevice
}

func (e *fakeEnumerator) Enumerate() ([]HidDevice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]HidDevice, len(e.devices))
	copy(out, e.devices)
	return out, nil
}

func TestProviderEnumerationAssignsStableIndex(t *testing.T) {
	dev := newFakeHidDevice("a")
	enum := &fakeEnumerator{devices: []HidDevice{dev}}
	p := &Provider{enumerator: enum, signal: make(chan struct{}, 1), stop: make(chan struct{})}

	p.enumerate()
	if len(p.devices) != 1 {
		t.Fatalf("expected 1 device, got %d", len(p.devices))
	}
	firstIndex := p.devices[0].Index

	p.enumerate()
	if len(p.devices) != 1 {
		t.Fatalf("expected enumeration to not duplicate an already-owned device, got %d", len(p.devices))
	}
	if p.devices[0].Index != firstIndex {
		t.Fatalf("index changed across enumeration: %d -> %d", firstIndex, p.devices[0].Index)
	}
}

func TestProviderReclaimsDisconnectedSlot(t *testing.T) {
	dev1 := newFakeHidDevice("a")
	enum := &fakeEnumerator{devices: []HidDevice{dev1}}
	p := &Provider{enumerator: enum, signal: make(chan struct{}, 1), stop: make(chan struct{})}
	p.enumerate()

	dev1.mu.Lock()
	dev1.writeOK = false
	dev1.mu.Unlock()

	dev2 := newFakeHidDevice("b")
	enum.mu.Lock()
	enum.devices = []HidDevice{dev2}
	enum.mu.Unlock()

	p.enumerate()

	if len(p.devices) != 1 {
		t.Fatalf("expected disconnected slot to be reclaimed in place, got %d devices", len(p.devices))
	}
	if p.devices[0].Index != 0 {
		t.Fatalf("expected reclaimed slot to keep index 0, got %d", p.devices[0].Index)
	}
}

func TestProviderSetLedEncoding(t *testing.T) {
	dev := newFakeHidDevice("a")
	enum := &fakeEnumerator{devices: []HidDevice{dev}}
	p := NewProvider(enum)
	defer p.Close()

	p.GetControllers()
	p.SetLed(0, 5)

	deadline := time.After(time.Second)
	for {
		dev.mu.Lock()
		n := 0
		for _, w := range dev.writes {
			if w[0] == 0x11 {
				n++
			}
		}
		dev.mu.Unlock()
		if n > 0 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for LED write")
		case <-time.After(time.Millisecond):
		}
	}

	dev.mu.Lock()
	defer dev.mu.Unlock()
	var led []byte
	for _, w := range dev.writes {
		if w[0] == 0x11 {
			led = w
		}
	}
	if led == nil {
		t.Fatal("no LED report observed")
	}
	if led[1] != 0x12 {
		t.Fatalf("LED flags = %#x, want 0x12", led[1])
	}
}

func TestProviderRateLimit(t *testing.T) {
	dev := newFakeHidDevice("a")
	enum := &fakeEnumerator{devices: []HidDevice{dev}}
	p := NewProvider(enum)
	defer p.Close()

	p.GetControllers()
	p.SetPacketDelay(0, 25*time.Millisecond)

	const ledMarker = 0xAB
	for i := 0; i < 5; i++ {
		p.Enqueue(0, []byte{0x11, ledMarker})
	}

	ledTimes := func() []time.Time {
		dev.mu.Lock()
		defer dev.mu.Unlock()
		var out []time.Time
		for i, w := range dev.writes {
			if len(w) == 2 && w[0] == 0x11 && w[1] == ledMarker {
				out = append(out, dev.writeAt[i])
			}
		}
		return out
	}

	deadline := time.After(2 * time.Second)
	for {
		if len(ledTimes()) >= 5 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timed out waiting for writes")
		case <-time.After(5 * time.Millisecond):
		}
	}

	times := ledTimes()
	for i := 1; i < len(times); i++ {
		if times[i].Sub(times[i-1]) < 20*time.Millisecond {
			t.Fatalf("writes %d and %d closer than rate limit: %v", i-1, i, times[i].Sub(times[i-1]))
		}
	}
}

func TestProviderConsumerMisuseIndex(t *testing.T) {
	enum := &fakeEnumerator{}
	p := NewProvider(enum)
	defer p.Close()

	if p.IsConnected(42) {
		t.Fatal("expected IsConnected(out-of-range) = false")
	}
	if got := p.GetState(42); got != (Snapshot{}) {
		t.Fatalf("expected zero Snapshot for out-of-range index, got %+v", got)
	}
	p.SetRumble(42, true)
	p.SetLed(42, 1)
}
