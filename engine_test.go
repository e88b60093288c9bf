package wiimote

import (
	"bytes"
	"testing"

	"github.com/gowiimote/wiiuse/report"
)

type fakeQueuer struct {
	sent [][]byte
}

func (q *fakeQueuer) Enqueue(_ int, data []byte) {
	q.sent = append(q.sent, data)
}

func TestEngineBootSequence(t *testing.T) {
	q := &fakeQueuer{}
	NewEngine(0, q)

	if len(q.sent) != 1 {
		t.Fatalf("expected 1 enqueued report at construction, got %d", len(q.sent))
	}
	want := []byte{0x12, 0x04, 0x31}
	if !bytes.Equal(q.sent[0], want) {
		t.Fatalf("boot report = % x, want % x", q.sent[0], want)
	}
}

func TestEngineStatusMaskAndExtensionProbe(t *testing.T) {
	q := &fakeQueuer{}
	e := NewEngine(0, q)
	q.sent = nil

	ok := e.Parse([]byte{0x20, 0x00, 0x0F, 0x02, 0x00, 0x00, 0xC8})
	if !ok {
		t.Fatal("Parse() = false")
	}

	st := e.Snapshot()
	if st.Buttons != 0x000F {
		t.Fatalf("Buttons = %#x, want 0x000f", st.Buttons)
	}
	if !st.ExtensionConnected {
		t.Fatal("expected ExtensionConnected = true")
	}
	if st.Battery != 0xC8 {
		t.Fatalf("Battery = %#x, want 0xc8", st.Battery)
	}

	wantSeq := [][]byte{
		report.EncodeWriteByte(report.RegExtInit1, 0x55),
		report.EncodeWriteByte(report.RegExtInit2, 0x00),
		report.EncodeReadMemory(report.RegExtType, 6),
	}
	if len(q.sent) != len(wantSeq) {
		t.Fatalf("expected %d enqueued reports, got %d", len(wantSeq), len(q.sent))
	}
	for i, want := range wantSeq {
		if !bytes.Equal(q.sent[i], want) {
			t.Fatalf("report %d = % x, want % x", i, q.sent[i], want)
		}
	}
}

func TestEngineAccelZero(t *testing.T) {
	q := &fakeQueuer{}
	e := NewEngine(0, q)

	ok := e.Parse([]byte{0x31, 0x00, 0x00, 128, 128, 128})
	if !ok {
		t.Fatal("Parse() = false")
	}
	acc := e.Snapshot().Acceleration
	if acc.X != 0 || acc.Y != 0 || acc.Z != 0 {
		t.Fatalf("Acceleration = %+v, want (0,0,0)", acc)
	}
}

func TestEngineEnableIRSequence(t *testing.T) {
	q := &fakeQueuer{}
	e := NewEngine(0, q)
	q.sent = nil

	e.EnableIR(true)

	wantSeq := [][]byte{
		report.EncodeIRPixelClock(true),
		report.EncodeIREnable(true),
		report.EncodeWriteByte(report.RegIREnable, 0x01),
		report.EncodeWriteMemory(report.RegIRSensBlock1, report.IRSensBlock1[:]),
		report.EncodeWriteMemory(report.RegIRSensBlock2, report.IRSensBlock2[:]),
		report.EncodeWriteByte(report.RegIRMode, 0x03),
		report.EncodeWriteByte(report.RegIREnable, 0x08),
		report.EncodeReportMode(report.CoreAccIR12, true),
	}
	if len(q.sent) != len(wantSeq) {
		t.Fatalf("expected %d enqueued reports, got %d", len(wantSeq), len(q.sent))
	}
	for i, want := range wantSeq {
		if !bytes.Equal(q.sent[i], want) {
			t.Fatalf("report %d = % x, want % x", i, q.sent[i], want)
		}
	}
}

func TestEngineRumbleBitSetOnSubsequentSends(t *testing.T) {
	q := &fakeQueuer{}
	e := NewEngine(0, q)
	e.EnableRumble(true)

	last := q.sent[len(q.sent)-1]
	if last[1]&0x01 == 0 {
		t.Fatalf("expected rumble bit set in % x", last)
	}
}

func TestButtonMaskProperty(t *testing.T) {
	q := &fakeQueuer{}
	e := NewEngine(0, q)
	e.Parse([]byte{0x30, 0xFF, 0xFF})
	if e.Snapshot().Buttons&^report.ButtonMask != 0 {
		t.Fatalf("Buttons = %#x has bits outside mask %#x", e.Snapshot().Buttons, report.ButtonMask)
	}
}

func TestParseRejectsShortBuffer(t *testing.T) {
	q := &fakeQueuer{}
	e := NewEngine(0, q)
	if e.Parse([]byte{0x20}) {
		t.Fatal("Parse() with 1-byte buffer should return false")
	}
}

func TestParseRejectsUnknownReportID(t *testing.T) {
	q := &fakeQueuer{}
	e := NewEngine(0, q)
	if e.Parse([]byte{0xFF, 0x00}) {
		t.Fatal("Parse() with unknown report id should return false")
	}
}
