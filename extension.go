package wiimote

import (
	"bytes"

	"github.com/gowiimote/wiiuse/report"
)

// beginExtensionProbe starts the extension lifecycle state machine
// (§4.B/§9): writes the documented unencrypted-mode init sequence, then
// reads the 6-byte identifier.
func (e *Engine) beginExtensionProbe() {
	e.state.ExtensionState = ExtProbing
	e.send(report.EncodeWriteByte(report.RegExtInit1, 0x55))
	e.send(report.EncodeWriteByte(report.RegExtInit2, 0x00))
	e.send(report.EncodeReadMemory(report.RegExtType, 6))
}

// RequestExtension is the public equivalent of beginExtensionProbe,
// exposed per §4.B's contract operation list.
func (e *Engine) RequestExtension() {
	e.beginExtensionProbe()
}

// handleExtensionMemoryRead dispatches a MemoryRead response according to
// where the extension state machine currently sits: the 6-byte type read
// moves Probing -> Identified and kicks off the calibration read; the
// 16-byte calibration read moves Identified -> CalibrationRead -> Ready.
func (e *Engine) handleExtensionMemoryRead(mr report.MemoryReadBody) {
	switch e.state.ExtensionState {
	case ExtProbing:
		e.identifyExtension(mr.Data[:6])
	case ExtIdentified:
		e.readExtensionCalibration(mr.Data[:])
	}
}

func (e *Engine) identifyExtension(id []byte) {
	switch {
	case bytes.Equal(id, report.ExtIDNunchuk[:]):
		e.state.ExtensionKind = ExtKindNunchuk
	case bytes.Equal(id, report.ExtIDClassic[:]):
		e.state.ExtensionKind = ExtKindClassic
	case bytes.Equal(id, report.ExtIDMotionPlus[:]):
		e.state.ExtensionKind = ExtKindMotionPlus
	case bytes.Equal(id, report.ExtIDMotionPlusNunchuk[:]):
		e.state.ExtensionKind = ExtKindMotionPlusNunchuk
	case bytes.Equal(id, report.ExtIDMotionPlusClassic[:]):
		e.state.ExtensionKind = ExtKindMotionPlusClassic
	default:
		e.state.ExtensionKind = ExtKindUnknown
	}
	e.state.ExtensionState = ExtIdentified
	e.send(report.EncodeReadMemory(report.RegExtCalibration, 16))
}

func (e *Engine) readExtensionCalibration(data []byte) {
	e.state.ExtensionState = ExtCalibrationRead
	switch e.state.ExtensionKind {
	case ExtKindNunchuk:
		if calib, ok := report.DecodeNunchukCalibration(data); ok {
			e.state.NunchukCalib = calib
		}
	case ExtKindMotionPlus, ExtKindMotionPlusNunchuk, ExtKindMotionPlusClassic:
		if calib, ok := report.DecodeMotionPlusCalibration(data); ok {
			e.state.MotionPlusCalib = calib
			e.state.HasMotionPlus = true
		}
	}
	e.state.ExtensionState = ExtReady
	e.refreshReportMode()
}

// handleExtensionData decodes a continuous-report extension payload
// according to the identified extension kind.
func (e *Engine) handleExtensionData(data []byte) {
	switch e.state.ExtensionKind {
	case ExtKindNunchuk:
		n, ok := report.DecodeNunchuk(data)
		if !ok {
			return
		}
		e.state.NunchukData = NunchukData{
			Stick:        normalizeNunchukStick(n, e.state.NunchukCalib),
			Acceleration: normalizeNunchukAccel(n, e.state.NunchukCalib),
			C:            n.C,
			Z:            n.Z,
		}
	case ExtKindClassic:
		c, ok := report.DecodeClassic(data)
		if !ok {
			return
		}
		e.state.ClassicData = ClassicData{
			LeftStick:    Vec2{X: float32(c.LX), Y: float32(c.LY)},
			RightStick:   Vec2{X: float32(c.RX), Y: float32(c.RY)},
			LeftTrigger:  c.LT,
			RightTrigger: c.RT,
			Buttons:      c.Buttons,
		}
	case ExtKindMotionPlus, ExtKindMotionPlusNunchuk, ExtKindMotionPlusClassic:
		mp, ok := report.DecodeMotionPlus(data)
		if !ok {
			return
		}
		e.state.MotionPlus = MotionPlusState{
			Yaw: mp.Yaw, Roll: mp.Roll, Pitch: mp.Pitch,
			YawSlow: mp.YawSlow, RollSlow: mp.RollSlow, PitchSlow: mp.PitchSlow,
		}
	}
}

func normalizeNunchukStick(n report.Nunchuk, calib report.NunchukCalibration) Vec2 {
	return Vec2{
		X: normalizeStickAxis(n.StickX, calib.StickX),
		Y: normalizeStickAxis(n.StickY, calib.StickY),
	}
}

func normalizeStickAxis(v uint8, b report.StickBounds) float32 {
	if b.Max == b.Min {
		return 0
	}
	span := float32(b.Max) - float32(b.Min)
	return (float32(v) - float32(b.Center)) / (span / 2)
}

func normalizeNunchukAccel(n report.Nunchuk, calib report.NunchukCalibration) Vec3 {
	zero, scale := calib.Zero, calib.Scale
	denom := func(s, z uint16) float32 {
		if s == z {
			return 1
		}
		return float32(s) - float32(z)
	}
	return Vec3{
		X: (float32(n.AccX) - float32(zero.X)) / denom(scale.X, zero.X),
		Y: (float32(n.AccY) - float32(zero.Y)) / denom(scale.Y, zero.Y),
		Z: (float32(n.AccZ) - float32(zero.Z)) / denom(scale.Z, zero.Z),
	}
}
