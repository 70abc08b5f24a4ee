// Package endian selects the byte order of the fixed-width fields in a blob
// header.
//
// The wire stream itself is byte-order free: atom lengths and back-reference
// distances are always big-endian. Only the header's integer fields follow the
// order recorded in its flag, so a producer can write its native order and a
// consumer on any platform can still read it:
//
//	engine := endian.GetBigEndianEngine()
//	buf = engine.AppendUint64(buf, checksum)
//
// The returned engines are the stateless binary.LittleEndian and
// binary.BigEndian values and are safe for concurrent use.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// EndianEngine combines binary.ByteOrder and binary.AppendByteOrder.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness reports the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100: the first byte in memory is 0x01 only on a big-endian host.
	var i uint16 = 0x0100
	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeLittleEndian() bool {
	return CheckEndianness() == binary.LittleEndian
}

// GetNativeEngine returns the engine matching the host's byte order.
func GetNativeEngine() EndianEngine {
	if IsNativeLittleEndian() {
		return binary.LittleEndian
	}

	return binary.BigEndian
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// IsBigEndian reports whether engine writes the most significant byte first.
func IsBigEndian(engine EndianEngine) bool {
	return engine == binary.BigEndian
}
