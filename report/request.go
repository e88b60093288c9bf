package report

// Requests composing the canonical IR boot sequence (§4.B enable_ir).
var (
	IRSensBlock1 = [9]byte{0x02, 0x00, 0x00, 0x71, 0x01, 0x00, 0xaa, 0x00, 0x64}
	IRSensBlock2 = [2]byte{0x63, 0x03}
)

// EncodeLED builds the 2-byte LED output report with the given flags byte
// verbatim; bit 0 of byte index 1 (the rumble bit) is OR-ed in by the
// caller at send time, matching every other request in this file.
func EncodeLED(flags uint8) []byte {
	return []byte{byte(LED), flags}
}

// EncodeReportMode builds the ReportMode output report. Bit 2 of the flags
// byte means continuous reporting.
func EncodeReportMode(id InputID, continuous bool) []byte {
	flags := uint8(0)
	if continuous {
		flags = 0x04
	}
	return []byte{byte(ReportMode), flags, byte(id)}
}

// EncodeStatusRequest builds the 2-byte Status request.
func EncodeStatusRequest() []byte {
	return []byte{byte(StatusReq), 0x00}
}

// EncodeRumble builds the 2-byte Rumble output report.
func EncodeRumble(enable bool) []byte {
	v := uint8(0)
	if enable {
		v = 0x01
	}
	return []byte{byte(Rumble), v}
}

// EncodeIRPixelClock builds the IR pixel-clock/logic enable toggle, report id 0x13.
func EncodeIRPixelClock(enable bool) []byte {
	v := uint8(0)
	if enable {
		v = 0x04
	}
	return []byte{byte(IRPixelClock), v}
}

// EncodeIREnable builds the IR enable toggle, report id 0x1a.
func EncodeIREnable(enable bool) []byte {
	v := uint8(0)
	if enable {
		v = 0x04
	}
	return []byte{byte(IREnable), v}
}

// EncodeReadMemory builds the 7-byte memory-read request: report id,
// big-endian 4-byte address (top byte is the address-space tag), big-endian
// 2-byte size.
func EncodeReadMemory(addr uint32, size uint16) []byte {
	out := make([]byte, 7)
	out[0] = byte(ReadMemory)
	out[1] = byte(addr >> 24)
	out[2] = byte(addr >> 16)
	out[3] = byte(addr >> 8)
	out[4] = byte(addr)
	out[5] = byte(size >> 8)
	out[6] = byte(size)
	return out
}

// EncodeWriteMemory builds the 22-byte memory-write request: report id,
// big-endian 4-byte address, size byte, 16 bytes of data (zero-padded).
// data must be 16 bytes or fewer.
func EncodeWriteMemory(addr uint32, data []byte) []byte {
	out := make([]byte, 22)
	out[0] = byte(WriteMemory)
	out[1] = byte(addr >> 24)
	out[2] = byte(addr >> 16)
	out[3] = byte(addr >> 8)
	out[4] = byte(addr)
	out[5] = byte(len(data))
	copy(out[6:22], data)
	return out
}

// EncodeWriteByte builds a single-byte memory write.
func EncodeWriteByte(addr uint32, b byte) []byte {
	return EncodeWriteMemory(addr, []byte{b})
}
