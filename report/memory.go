package report

import "encoding/binary"

// Register addresses in the 24-bit Wiimote address space. The top byte is
// the space tag: 0x00 selects EEPROM, 0x04 selects registers.
const (
	RegIRSensBlock1   uint32 = 0x04B00000
	RegIRSensBlock2   uint32 = 0x04B0001A
	RegIREnable       uint32 = 0x04B00030
	RegIRMode         uint32 = 0x04B00033
	RegExtInit1       uint32 = 0x04A400F0
	RegExtInit2       uint32 = 0x04A400FB
	RegExtType        uint32 = 0x04A400FA
	RegExtCalibration uint32 = 0x04A40020
	RegMPInit         uint32 = 0x04A600F0
	RegMPEnable       uint32 = 0x04A600FE
	RegMPProbe        uint32 = 0x04A600FA
)

// Extension identifier signatures read from RegExtType (6 bytes).
var (
	ExtIDNunchuk           = [6]byte{0x00, 0x00, 0xA4, 0x20, 0x00, 0x00}
	ExtIDClassic           = [6]byte{0x00, 0x00, 0xA4, 0x20, 0x01, 0x01}
	ExtIDMotionPlus        = [6]byte{0x00, 0x00, 0xA4, 0x20, 0x04, 0x05}
	ExtIDMotionPlusNunchuk = [6]byte{0x00, 0x00, 0xA4, 0x20, 0x05, 0x05}
	ExtIDMotionPlusClassic = [6]byte{0x00, 0x00, 0xA4, 0x20, 0x07, 0x05}
)

// AccelCalibBlock is the 4-byte zero/gravity accelerometer calibration
// record shared by the Wiimote and Nunchuk calibration blocks: three
// 8-bit reference bytes plus a packed byte of 2 low bits per axis.
type AccelCalibBlock struct {
	X, Y, Z uint16
}

func decodeAccelCalibBlock(b []byte) AccelCalibBlock {
	packed := b[3]
	return AccelCalibBlock{
		X: uint16(b[0])<<2 | uint16(packed>>2)&0x3,
		Y: uint16(b[1])<<2 | uint16(packed>>4)&0x3,
		Z: uint16(b[2])<<2 | uint16(packed>>6)&0x3,
	}
}

// WiimoteCalibration is the 10-byte calibration block read from EEPROM.
type WiimoteCalibration struct {
	Zero, Scale AccelCalibBlock
}

// DecodeWiimoteCalibration decodes the 10-byte accelerometer calibration block.
func DecodeWiimoteCalibration(b []byte) (WiimoteCalibration, bool) {
	if len(b) < 10 {
		return WiimoteCalibration{}, false
	}
	return WiimoteCalibration{
		Zero:  decodeAccelCalibBlock(b[0:4]),
		Scale: decodeAccelCalibBlock(b[4:8]),
	}, true
}

// StickBounds is a single-axis stick calibration (max, min, center).
type StickBounds struct {
	Max, Min, Center uint8
}

// NunchukCalibration is the 16-byte calibration block read at RegExtCalibration.
type NunchukCalibration struct {
	Zero, Scale AccelCalibBlock
	StickX      StickBounds
	StickY      StickBounds
}

// DecodeNunchukCalibration decodes zero/scale accel blocks (8B) followed by
// per-axis stick bounds (3B each).
func DecodeNunchukCalibration(b []byte) (NunchukCalibration, bool) {
	if len(b) < 14 {
		return NunchukCalibration{}, false
	}
	return NunchukCalibration{
		Zero:   decodeAccelCalibBlock(b[0:4]),
		Scale:  decodeAccelCalibBlock(b[4:8]),
		StickX: StickBounds{Max: b[8], Min: b[9], Center: b[10]},
		StickY: StickBounds{Max: b[11], Min: b[12], Center: b[13]},
	}, true
}

// MotionPlusCalibration is the 16-byte MotionPlus gyroscope calibration block.
type MotionPlusCalibration struct {
	YawZero, RollZero, PitchZero    uint16
	YawScale, RollScale, PitchScale uint16
	DegreesDiv6                     uint8
	UID                             uint8
}

// DecodeMotionPlusCalibration decodes the 16-byte MotionPlus calibration
// block: six big-endian u16 zero/scale values, a degrees-per-6 byte, a
// uid byte, a crc (ignored by this codec).
func DecodeMotionPlusCalibration(b []byte) (MotionPlusCalibration, bool) {
	if len(b) < 16 {
		return MotionPlusCalibration{}, false
	}
	return MotionPlusCalibration{
		YawZero:     binary.BigEndian.Uint16(b[0:2]),
		RollZero:    binary.BigEndian.Uint16(b[2:4]),
		PitchZero:   binary.BigEndian.Uint16(b[4:6]),
		YawScale:    binary.BigEndian.Uint16(b[6:8]),
		RollScale:   binary.BigEndian.Uint16(b[8:10]),
		PitchScale:  binary.BigEndian.Uint16(b[10:12]),
		DegreesDiv6: b[12],
		UID:         b[13],
	}, true
}
