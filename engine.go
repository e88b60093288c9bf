package wiimote

import (
	"math"

	"github.com/gowiimote/wiiuse/report"
)

// Queuer is the narrow capability an Engine uses to send outbound bytes
// without holding a back-pointer to the full Provider. It mirrors the
// original source's WiimoteHandler::Queuer design note (§9): the Engine
// only ever needs "enqueue these bytes for my device index", never the
// rest of the Provider's surface.
type Queuer interface {
	Enqueue(index int, data []byte)
}

// ExtensionState is the extension lifecycle state machine (§4.B).
type ExtensionState int

const (
	ExtNone ExtensionState = iota
	ExtProbing
	ExtIdentified
	ExtCalibrationRead
	ExtReady
)

// ExtensionKind identifies the kind of extension once Identified.
type ExtensionKind int

const (
	ExtKindNone ExtensionKind = iota
	ExtKindNunchuk
	ExtKindClassic
	ExtKindMotionPlus
	ExtKindMotionPlusNunchuk
	ExtKindMotionPlusClassic
	ExtKindUnknown
)

// Calibration holds the per-axis reference levels raw accel is normalized
// against.
type Calibration struct {
	Zero, Gravity Vec3
}

// DefaultCalibration matches the Wiimote's documented out-of-box values.
var DefaultCalibration = Calibration{
	Zero:    Vec3{X: 512, Y: 512, Z: 512},
	Gravity: Vec3{X: 576, Y: 576, Z: 576},
}

// Vec2 and Vec3 are plain float32 vectors, shared by acceleration and IR math.
type Vec2 struct{ X, Y float32 }
type Vec3 struct{ X, Y, Z float32 }

// State is the Protocol Engine's per-device state (§3).
type State struct {
	ExtensionConnected bool
	Rumble             bool
	IR                 bool
	Battery            uint8
	Buttons            uint16

	Acceleration     Vec3
	AccelerationPrev Vec3
	Calibration      Calibration

	DataReportID report.InputID

	ExtensionState ExtensionState
	ExtensionKind  ExtensionKind

	NunchukCalib report.NunchukCalibration
	NunchukData  NunchukData

	ClassicData ClassicData

	MotionPlus      MotionPlusState
	HasMotionPlus   bool
	MotionPlusCalib report.MotionPlusCalibration

	IRCamera IRCamera
}

// NunchukData is the latest decoded Nunchuk extension frame.
type NunchukData struct {
	Stick        Vec2
	Acceleration Vec3
	C, Z         bool
}

// ClassicData is the latest decoded Classic Controller extension frame.
type ClassicData struct {
	LeftStick, RightStick Vec2
	LeftTrigger, RightTrigger uint8
	Buttons                   uint16
}

// MotionPlusState is the latest decoded MotionPlus gyroscope frame.
type MotionPlusState struct {
	Yaw, Roll, Pitch            uint16
	YawSlow, RollSlow, PitchSlow bool
}

// Engine is the per-device Wiimote protocol engine (§4.B). One instance
// lives per DeviceRecord; it owns no transport and never blocks — it
// composes requests and hands them to a Queuer.
type Engine struct {
	index  int
	queuer Queuer
	state  State
	ir     irTracker
}

// NewEngine constructs an Engine with default calibration and immediately
// requests continuous CoreAcc reporting (§4.B, S1).
func NewEngine(index int, queuer Queuer) *Engine {
	e := &Engine{
		index:  index,
		queuer: queuer,
	}
	e.state.Calibration = DefaultCalibration
	e.state.DataReportID = report.CoreAcc
	e.setReportMode(report.CoreAcc, true)
	return e
}

func (e *Engine) send(data []byte) {
	data[1] |= boolByte(e.state.Rumble)
	e.queuer.Enqueue(e.index, data)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Snapshot clones the current state.
func (e *Engine) Snapshot() State {
	return e.state
}

// SetLED sends the LED output report with mask shifted into the high
// nibble (§4.B). For the Supervisor's player-index encoding (§4.D, S5),
// see Provider.SetLed, which composes the wire byte itself and bypasses
// this shift — see DESIGN.md's Open Question note on the LED encoding
// split.
func (e *Engine) SetLED(mask uint8) {
	e.setLEDFlags(mask << 4)
}

func (e *Engine) setLEDFlags(flags uint8) {
	e.send(report.EncodeLED(flags))
}

// EnableRumble updates the rumble bit and forces a transmission that
// carries it; any request will do, so a Status request is used.
func (e *Engine) EnableRumble(enable bool) {
	e.state.Rumble = enable
	e.send(report.EncodeStatusRequest())
}

// EnableIR executes the canonical IR boot sequence (§4.B, S4).
func (e *Engine) EnableIR(enable bool) {
	e.state.IR = enable
	e.send(report.EncodeIRPixelClock(enable))
	e.send(report.EncodeIREnable(enable))
	if !enable {
		e.refreshReportMode()
		return
	}
	e.send(report.EncodeWriteByte(report.RegIREnable, 0x01))
	e.send(report.EncodeWriteMemory(report.RegIRSensBlock1, report.IRSensBlock1[:]))
	e.send(report.EncodeWriteMemory(report.RegIRSensBlock2, report.IRSensBlock2[:]))
	if e.state.ExtensionConnected {
		e.send(report.EncodeWriteByte(report.RegIRMode, 0x01))
	} else {
		e.send(report.EncodeWriteByte(report.RegIRMode, 0x03))
	}
	e.send(report.EncodeWriteByte(report.RegIREnable, 0x08))
	e.refreshReportMode()
}

// SetReportMode sends ReportMode directly, bypassing the engine's own
// report-mode selection policy. Most callers should prefer the state
// changes (EnableIR, extension transitions) that call refreshReportMode.
func (e *Engine) SetReportMode(id report.InputID, continuous bool) {
	e.setReportMode(id, continuous)
}

func (e *Engine) setReportMode(id report.InputID, continuous bool) {
	e.state.DataReportID = id
	e.send(report.EncodeReportMode(id, continuous))
}

// refreshReportMode picks the narrowest report that covers the
// currently-enabled features (§4.B Report-mode selection policy).
func (e *Engine) refreshReportMode() {
	ext := e.state.ExtensionState == ExtReady
	switch {
	case e.state.IR && ext:
		e.setReportMode(report.CoreAccIR10Ext6, true)
	case e.state.IR:
		e.setReportMode(report.CoreAccIR12, true)
	case ext:
		e.setReportMode(report.CoreAccExt16, true)
	default:
		e.setReportMode(report.CoreAcc, true)
	}
}

// Parse interprets one HID input report (§4.B). It returns false when the
// buffer is too short or the report id is outside the documented range;
// the buffer is discarded in that case with no state change.
func (e *Engine) Parse(data []byte) bool {
	if len(data) < 2 {
		return false
	}
	id := report.InputID(data[0])
	body := data[1:]
	switch id {
	case report.Status:
		return e.parseStatus(body)
	case report.MemoryRead:
		return e.parseMemoryRead(body)
	case report.Acknowledge:
		_, ok := report.DecodeAck(body)
		return ok
	default:
		layout, ok := report.LayoutFor(id)
		if !ok {
			return false
		}
		return e.parseData(id, layout, body)
	}
}

func (e *Engine) parseStatus(body []byte) bool {
	st, ok := report.DecodeStatus(body)
	if !ok {
		return false
	}
	e.handleButtons(st.Core)
	e.state.Battery = st.BatteryLevel
	extConnected := st.Flags&report.FlagExtension != 0
	if extConnected != e.state.ExtensionConnected {
		e.state.ExtensionConnected = extConnected
		e.beginExtensionProbe()
	}
	return true
}

func (e *Engine) parseMemoryRead(body []byte) bool {
	mr, ok := report.DecodeMemoryRead(body)
	if !ok {
		return false
	}
	e.handleButtons(mr.Core)
	e.handleExtensionMemoryRead(mr)
	return true
}

func (e *Engine) parseData(id report.InputID, layout report.Layout, body []byte) bool {
	core, tail, ok := report.CoreAndBody(body)
	if !ok {
		return false
	}
	e.handleButtons(core)

	if layout.HasAccel {
		if len(tail) < 3 {
			return false
		}
		e.handleAccel(core, tail[0], tail[1], tail[2])
		tail = tail[3:]
	}
	if layout.IRLen > 0 {
		if len(tail) < layout.IRLen {
			return false
		}
		e.handleIR(id, tail[:layout.IRLen])
		tail = tail[layout.IRLen:]
	}
	if layout.ExtLen > 0 {
		if len(tail) < layout.ExtLen {
			return false
		}
		e.handleExtensionData(tail[:layout.ExtLen])
	}
	return true
}

func (e *Engine) handleButtons(core uint16) {
	e.state.Buttons = core & report.ButtonMask
}

func (e *Engine) handleAccel(core uint16, x, y, z uint8) {
	e.state.AccelerationPrev = e.state.Acceleration
	raw := report.DecodeAccel(core, x, y, z)
	zero, gravity := e.state.Calibration.Zero, e.state.Calibration.Gravity
	e.state.Acceleration = Vec3{
		X: (float32(raw.X) - zero.X) / (gravity.X - zero.X),
		Y: (float32(raw.Y) - zero.Y) / (gravity.Y - zero.Y),
		Z: (float32(raw.Z) - zero.Z) / (gravity.Z - zero.Z),
	}
}

// Roll derives the supervisor-level roll angle from the current
// acceleration sample (§4.B Roll derivation).
func (e *Engine) Roll() float32 {
	a := e.state.Acceleration
	return float32(math.Atan2(float64(a.Z), float64(a.X))) - math.Pi/2
}
