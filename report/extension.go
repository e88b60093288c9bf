package report

// Nunchuk is the decoded 6-byte Nunchuk extension payload. C and Z are
// already inverted from their active-low wire encoding.
type Nunchuk struct {
	StickX, StickY uint8
	AccX, AccY, AccZ uint16
	C, Z             bool
}

// DecodeNunchuk decodes the 6-byte Nunchuk body: stickX, stickY, accX,
// accY, accZ, then a packed byte (accZ_low:2, accY_low:2, accX_low:2,
// C:1, Z:1) with C/Z active-low on the wire.
func DecodeNunchuk(b []byte) (Nunchuk, bool) {
	if len(b) < 6 {
		return Nunchuk{}, false
	}
	packed := b[5]
	return Nunchuk{
		StickX: b[0],
		StickY: b[1],
		AccX:   uint16(b[2])<<2 | uint16(packed>>2)&0x3,
		AccY:   uint16(b[3])<<2 | uint16(packed>>4)&0x3,
		AccZ:   uint16(b[4])<<2 | uint16(packed>>6)&0x3,
		C:      packed&0x2 == 0,
		Z:      packed&0x1 == 0,
	}, true
}

// Classic is the decoded 9-byte Classic Controller extension payload.
// Buttons are already inverted from their active-low wire encoding.
type Classic struct {
	LX, RX, LY, RY uint8
	LT, RT         uint8
	Buttons        uint16
}

// DecodeClassic decodes the 9-byte Classic body: lx, rx, ly, ry, a packed
// byte of low stick bits, lt, rt, then 16 bits of active-low buttons.
func DecodeClassic(b []byte) (Classic, bool) {
	if len(b) < 9 {
		return Classic{}, false
	}
	return Classic{
		LX:      b[0],
		RX:      b[1],
		LY:      b[2],
		RY:      b[3],
		LT:      b[5],
		RT:      b[6],
		Buttons: ^BigEndian16(b[7], b[8]) & 0xFFFF,
	}, true
}

// BigEndian16 assembles two bytes into a big-endian uint16. Exposed for use
// by the decoders above without importing encoding/binary for a pair.
func BigEndian16(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

// BasicIRDot is one of the two dots carried by a BasicIR payload.
type BasicIRDot struct {
	X, Y uint16
}

// DecodeBasicIR decodes the 5-byte two-dot IR payload: full-byte X/Y per
// dot, plus a shared byte carrying the upper 2 bits of each X and Y.
func DecodeBasicIR(b []byte) ([2]BasicIRDot, bool) {
	if len(b) < 5 {
		return [2]BasicIRDot{}, false
	}
	shared := b[2]
	return [2]BasicIRDot{
		{
			X: uint16(b[0]) | uint16((shared>>4)&0x3)<<8,
			Y: uint16(b[1]) | uint16((shared>>6)&0x3)<<8,
		},
		{
			X: uint16(b[3]) | uint16(shared&0x3)<<8,
			Y: uint16(b[4]) | uint16((shared>>2)&0x3)<<8,
		},
	}, true
}

// ExtendedIRDot is a single dot from an ExtendedIR payload, with a 4-bit size.
type ExtendedIRDot struct {
	X, Y uint16
	Size uint8
}

// DecodeExtendedIR decodes the 3-byte single-dot payload: X, Y, and a byte
// packing (size:4, x_high:2, y_high:2) from the low bit up: size in bits
// 0-3, x_high in bits 4-5, y_high in bits 6-7.
func DecodeExtendedIR(b []byte) (ExtendedIRDot, bool) {
	if len(b) < 3 {
		return ExtendedIRDot{}, false
	}
	packed := b[2]
	return ExtendedIRDot{
		X:    uint16(b[0]) | uint16((packed>>4)&0x3)<<8,
		Y:    uint16(b[1]) | uint16((packed>>6)&0x3)<<8,
		Size: packed & 0x0F,
	}, true
}

// MotionPlus is the decoded 6-byte MotionPlus gyroscope payload.
type MotionPlus struct {
	Yaw, Roll, Pitch               uint16
	YawSlow, RollSlow, PitchSlow   bool
	ExtensionConnected, IsMPData   bool
}

// DecodeMotionPlus decodes the 6-byte MotionPlus body: three low bytes
// (yaw/roll/pitch), then three bytes carrying the high 6 bits of yaw, roll
// and pitch in their upper bits. The low bits of the yaw and roll bytes hold
// the slow-mode flags and an extension-connected bit; bit 1 of the final
// (pitch) byte marks the frame as MotionPlus data rather than passthrough.
func DecodeMotionPlus(b []byte) (MotionPlus, bool) {
	if len(b) < 6 {
		return MotionPlus{}, false
	}
	return MotionPlus{
		Yaw:                uint16(b[3]>>2)<<8 | uint16(b[0]),
		Roll:               uint16(b[4]>>2)<<8 | uint16(b[1]),
		Pitch:              uint16(b[5]>>2)<<8 | uint16(b[2]),
		PitchSlow:          b[3]&0x1 != 0,
		YawSlow:            b[3]&0x2 != 0,
		ExtensionConnected: b[4]&0x1 != 0,
		RollSlow:           b[4]&0x2 != 0,
		IsMPData:           b[5]&0x2 != 0,
	}, true
}
