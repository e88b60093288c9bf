package wiimote

import (
	"log"
	"sync"
	"time"
)

const (
	enumerationInterval = 2 * time.Second
	writerPollInterval  = 250 * time.Millisecond
	idleSleep           = time.Millisecond
)

type writerEntry struct {
	index int
	data  []byte
}

// Provider is the concurrent supervisor (§4.D): it owns the device
// vector, a reader goroutine, a writer goroutine, and the writer queue.
// It is constructed with a HidEnumerator capability rather than reaching
// for a process-global device list, consistent with the Engine's Queuer
// capability already being injected rather than back-pointed (§9).
type Provider struct {
	enumerator HidEnumerator

	vecMu   sync.RWMutex
	devices []*DeviceRecord

	lastEnumeration time.Time

	queueMu sync.Mutex
	queue   []writerEntry
	signal  chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewProvider constructs a Provider and starts its reader and writer
// goroutines.
func NewProvider(enumerator HidEnumerator) *Provider {
	p := &Provider{
		enumerator: enumerator,
		signal:     make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}

	p.wg.Add(2)
	go p.readerLoop()
	go p.writerLoop()
	return p
}

// Close signals both goroutines to stop and joins them. Pending outbound
// packets are dropped; nothing is required to drain the queue (§5
// Cancellation).
func (p *Provider) Close() {
	p.stopOnce.Do(func() {
		close(p.stop)
	})
	p.wg.Wait()
}

// Enqueue implements Queuer for every Engine this Provider owns.
func (p *Provider) Enqueue(index int, data []byte) {
	p.queueMu.Lock()
	p.queue = append(p.queue, writerEntry{index: index, data: data})
	p.queueMu.Unlock()
	select {
	case p.signal <- struct{}{}:
	default:
	}
}

// GetControllers enumerates and returns the current stable device indices.
func (p *Provider) GetControllers() []int {
	p.enumerate()
	p.vecMu.RLock()
	defer p.vecMu.RUnlock()
	out := make([]int, len(p.devices))
	for i, d := range p.devices {
		out[i] = d.Index
	}
	return out
}

func (p *Provider) record(index int) (*DeviceRecord, bool) {
	p.vecMu.RLock()
	defer p.vecMu.RUnlock()
	return p.recordLocked(index)
}

// recordLocked is record's body for callers that already hold vecMu (either
// side of the shared-exclusive lock).
func (p *Provider) recordLocked(index int) (*DeviceRecord, bool) {
	if index < 0 || index >= len(p.devices) {
		return nil, false
	}
	return p.devices[index], true
}

// IsConnected reports whether the device at index is currently connected.
// An out-of-range index is consumer-misuse and returns false (§7).
func (p *Provider) IsConnected(index int) bool {
	rec, ok := p.record(index)
	if !ok {
		return false
	}
	return rec.Connected()
}

// IsRegisteredDevice reports whether index names a known slot at all,
// connected or not.
func (p *Provider) IsRegisteredDevice(index int) bool {
	_, ok := p.record(index)
	return ok
}

// SetRumble toggles the rumble motor for the device at index. A
// consumer-misuse index is silently ignored (§7).
func (p *Provider) SetRumble(index int, enable bool) {
	if rec, ok := p.record(index); ok {
		rec.engine.EnableRumble(enable)
	}
}

// SetLed encodes the player-index LED pattern directly (§4.D, S5) and
// sends it without going through Engine.SetLED's mask<<4 shift — see
// DESIGN.md's Open Question note on the LED encoding split.
func (p *Provider) SetLed(index, playerIndex int) {
	rec, ok := p.record(index)
	if !ok {
		return
	}
	flags := uint8(playerIndex/4)*0x10 | uint8(1<<uint(playerIndex%4))
	rec.engine.setLEDFlags(flags)
}

// GetPacketDelay returns the device's current minimum inter-write spacing.
func (p *Provider) GetPacketDelay(index int) time.Duration {
	rec, ok := p.record(index)
	if !ok {
		return 0
	}
	return rec.PacketDelay()
}

// SetPacketDelay changes the device's minimum inter-write spacing.
func (p *Provider) SetPacketDelay(index int, d time.Duration) {
	if rec, ok := p.record(index); ok {
		rec.SetPacketDelay(d)
	}
}

// GetState returns the published Snapshot for the device at index, or
// the zero Snapshot for an out-of-range index (§7 Consumer-misuse).
func (p *Provider) GetState(index int) Snapshot {
	rec, ok := p.record(index)
	if !ok {
		return Snapshot{}
	}
	return rec.Snapshot()
}

// SetIrCamera toggles the IR camera for the device at index.
func (p *Provider) SetIrCamera(index int, enable bool) {
	if rec, ok := p.record(index); ok {
		rec.engine.EnableIR(enable)
	}
}

// enumerate implements the enumeration algorithm (§4.D):
//  1. probe every existing record with a Status request; mark failures
//     disconnected and queue their slot for reclamation.
//  2. ask the HID layer for all candidate devices.
//  3. for each candidate, skip unless a test write succeeds and no
//     connected record already owns an identity-equal handle.
//  4. reclaim a disconnected slot if one is queued, else append.
func (p *Provider) enumerate() {
	p.vecMu.Lock()
	defer p.vecMu.Unlock()

	var reclaim []int
	for i, rec := range p.devices {
		ok := rec.handle.WriteOutput(statusProbe())
		rec.setConnected(ok)
		if !ok {
			reclaim = append(reclaim, i)
		}
	}

	candidates, err := p.enumerator.Enumerate()
	if err != nil {
		log.Printf("wiimote: enumerate: %v", err)
		return
	}

	for _, cand := range candidates {
		if !cand.WriteOutput(statusProbe()) {
			continue
		}
		owned := false
		for _, rec := range p.devices {
			if rec.Connected() && rec.handle.IdentityEq(cand) {
				owned = true
				break
			}
		}
		if owned {
			continue
		}
		if len(reclaim) > 0 {
			idx := reclaim[0]
			reclaim = reclaim[1:]
			p.devices[idx] = newDeviceRecord(idx, cand, p)
			continue
		}
		idx := len(p.devices)
		p.devices = append(p.devices, newDeviceRecord(idx, cand, p))
	}

	p.lastEnumeration = time.Now()
}

func statusProbe() []byte {
	return []byte{0x15, 0x00}
}

// readerLoop is the single long-running reader goroutine (§4.D, §5).
func (p *Provider) readerLoop() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stop:
			return
		default:
		}

		if time.Since(p.lastEnumeration) > enumerationInterval {
			p.enumerate()
		}

		// The shared lock is held across the read/parse/publish for every
		// record so an enumeration's exclusive lock (GetControllers ->
		// enumerate's probe write) can never touch a handle that is
		// mid-read (§5 Shared resources).
		gotData := false
		p.vecMu.RLock()
		for _, rec := range p.devices {
			if !rec.Connected() {
				continue
			}
			data, err := rec.handle.ReadInput()
			if err != nil {
				rec.setConnected(false)
				continue
			}
			if len(data) == 0 {
				continue
			}
			gotData = true
			rec.engine.Parse(data)
			snap := buildSnapshot(true, rec.engine.Snapshot(), rec.engine.Roll())
			rec.publish(snap)
		}
		p.vecMu.RUnlock()

		if !gotData {
			time.Sleep(idleSleep)
		}
	}
}

// writerLoop is the single long-running writer goroutine (§4.D, §5). It
// enforces per-device FIFO ordering and the per-device rate limit without
// ever promoting a later entry for the same device ahead of an earlier
// one (§4.D Ordering guarantee).
func (p *Provider) writerLoop() {
	defer p.wg.Done()
	for {
		p.queueMu.Lock()
		empty := len(p.queue) == 0
		p.queueMu.Unlock()
		if empty {
			select {
			case <-p.stop:
				return
			case <-p.signal:
			case <-time.After(writerPollInterval):
			}
			continue
		}

		select {
		case <-p.stop:
			return
		default:
		}

		entry, eligible := p.popEligibleEntry()
		if !eligible {
			time.Sleep(idleSleep)
			continue
		}

		// Resolve the record and issue the write under one shared lock so
		// an enumeration's exclusive lock (the probe write in enumerate)
		// excludes this write instead of racing it (§5 Shared resources).
		p.vecMu.RLock()
		rec, ok := p.recordLocked(entry.index)
		var success bool
		if ok {
			success = rec.handle.WriteOutput(entry.data)
		}
		p.vecMu.RUnlock()
		if !ok {
			continue
		}
		rec.setConnected(success)
		if success {
			rec.mu.Lock()
			rec.lastWriteAt = time.Now()
			rec.mu.Unlock()
		}
		time.Sleep(idleSleep)
	}
}

// popEligibleEntry scans the writer queue in FIFO order for the first
// entry whose device's rate-limit has elapsed, removes it, and returns
// it. Entries for devices still within their delay window are left in
// place so later entries for OTHER devices can still be picked, but a
// later entry for the SAME device is never promoted ahead of it.
func (p *Provider) popEligibleEntry() (writerEntry, bool) {
	p.queueMu.Lock()
	defer p.queueMu.Unlock()

	seen := map[int]bool{}
	for i, entry := range p.queue {
		if seen[entry.index] {
			continue
		}
		seen[entry.index] = true

		rec, ok := p.record(entry.index)
		if !ok {
			p.queue = append(p.queue[:i], p.queue[i+1:]...)
			return writerEntry{}, false
		}
		rec.mu.RLock()
		ready := time.Since(rec.lastWriteAt) >= rec.dataDelay
		rec.mu.RUnlock()
		if ready {
			p.queue = append(p.queue[:i], p.queue[i+1:]...)
			return entry, true
		}
	}
	return writerEntry{}, false
}
