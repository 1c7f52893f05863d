// Package proto defines the payload layouts carried by kernel messages.
package proto

import "encoding/binary"

// PointerPayload encodes a MsgPointer payload.
//
// Layout (little-endian):
//   - i16: dx
//   - i16: dy
//   - u8:  button mask
//
// Deltas beyond the int16 range are saturated.
func PointerPayload(dx, dy int, buttons uint8) []byte {
	buf := make([]byte, 5)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(saturate16(dx)))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(saturate16(dy)))
	buf[4] = buttons
	return buf
}

// DecodePointerPayload decodes a PointerPayload.
func DecodePointerPayload(b []byte) (dx, dy int, buttons uint8, ok bool) {
	if len(b) < 5 {
		return 0, 0, 0, false
	}
	dx = int(int16(binary.LittleEndian.Uint16(b[0:2])))
	dy = int(int16(binary.LittleEndian.Uint16(b[2:4])))
	return dx, dy, b[4], true
}

// KeyPayload encodes a MsgKey payload.
//
// Layout (little-endian):
//   - u16: key code
//   - u8:  1 on press, 0 on release
//   - i32: rune (0 for non-printing keys)
func KeyPayload(code uint16, press bool, r rune) []byte {
	buf := make([]byte, 7)
	binary.LittleEndian.PutUint16(buf[0:2], code)
	if press {
		buf[2] = 1
	}
	binary.LittleEndian.PutUint32(buf[3:7], uint32(r))
	return buf
}

// DecodeKeyPayload decodes a KeyPayload.
func DecodeKeyPayload(b []byte) (code uint16, press bool, r rune, ok bool) {
	if len(b) < 7 {
		return 0, false, 0, false
	}
	code = binary.LittleEndian.Uint16(b[0:2])
	press = b[2] != 0
	r = rune(int32(binary.LittleEndian.Uint32(b[3:7])))
	return code, press, r, true
}

// TimerPayload encodes the data byte a timer delivers on expiry.
func TimerPayload(data uint8) []byte { return []byte{data} }

// DecodeTimerPayload decodes a TimerPayload.
func DecodeTimerPayload(b []byte) (data uint8, ok bool) {
	if len(b) != 1 {
		return 0, false
	}
	return b[0], true
}

func saturate16(v int) int16 {
	switch {
	case v > 1<<15-1:
		return 1<<15 - 1
	case v < -1<<15:
		return -1 << 15
	}
	return int16(v)
}
