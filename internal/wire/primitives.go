package wire

import (
	"encoding/binary"
	"math"
)

// Boolean is one byte: 0x01 for true, 0x00 for false. Any other value
// is ErrNonBoolValue.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Type:Boolean
type Boolean bool

func (b Boolean) ToBytes() (ByteArray, error) {
	if b {
		return ByteArray{0x01}, nil
	}
	return ByteArray{0x00}, nil
}

func (b *Boolean) FromBytes(data ByteArray) (int, error) {
	if len(data) < 1 {
		return 0, ErrInsufficientData
	}
	switch data[0] {
	case 0x00:
		*b = false
	case 0x01:
		*b = true
	default:
		return 0, ErrNonBoolValue
	}
	return 1, nil
}

// Byte is -128..127.
type Byte int8

func (v Byte) ToBytes() (ByteArray, error) { return ByteArray{byte(v)}, nil }
func (v *Byte) FromBytes(data ByteArray) (int, error) {
	if len(data) < 1 {
		return 0, ErrInsufficientData
	}
	*v = Byte(int8(data[0]))
	return 1, nil
}

// UnsignedByte is 0..255.
type UnsignedByte uint8

func (v UnsignedByte) ToBytes() (ByteArray, error) { return ByteArray{byte(v)}, nil }
func (v *UnsignedByte) FromBytes(data ByteArray) (int, error) {
	if len(data) < 1 {
		return 0, ErrInsufficientData
	}
	*v = UnsignedByte(data[0])
	return 1, nil
}

// Short is -32768..32767.
type Short int16

func (v Short) ToBytes() (ByteArray, error) {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(v))
	return out, nil
}
func (v *Short) FromBytes(data ByteArray) (int, error) {
	if len(data) < 2 {
		return 0, ErrInsufficientData
	}
	*v = Short(int16(binary.BigEndian.Uint16(data)))
	return 2, nil
}

// UnsignedShort is 0..65535.
type UnsignedShort uint16

func (v UnsignedShort) ToBytes() (ByteArray, error) {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, uint16(v))
	return out, nil
}
func (v *UnsignedShort) FromBytes(data ByteArray) (int, error) {
	if len(data) < 2 {
		return 0, ErrInsufficientData
	}
	*v = UnsignedShort(binary.BigEndian.Uint16(data))
	return 2, nil
}

// Int is a 32-bit big-endian signed integer.
type Int int32

func (v Int) ToBytes() (ByteArray, error) {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, uint32(v))
	return out, nil
}
func (v *Int) FromBytes(data ByteArray) (int, error) {
	if len(data) < 4 {
		return 0, ErrInsufficientData
	}
	*v = Int(int32(binary.BigEndian.Uint32(data)))
	return 4, nil
}

// Long is a 64-bit big-endian signed integer.
type Long int64

func (v Long) ToBytes() (ByteArray, error) {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(v))
	return out, nil
}
func (v *Long) FromBytes(data ByteArray) (int, error) {
	if len(data) < 8 {
		return 0, ErrInsufficientData
	}
	*v = Long(int64(binary.BigEndian.Uint64(data)))
	return 8, nil
}

// UnsignedLong is used where the protocol specifies an unsigned 64-bit
// quantity (e.g. KeepAlive ids) carried over Long's wire shape.
type UnsignedLong uint64

func (v UnsignedLong) ToBytes() (ByteArray, error) {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, uint64(v))
	return out, nil
}
func (v *UnsignedLong) FromBytes(data ByteArray) (int, error) {
	if len(data) < 8 {
		return 0, ErrInsufficientData
	}
	*v = UnsignedLong(binary.BigEndian.Uint64(data))
	return 8, nil
}

// Float is an IEEE-754 32-bit float.
type Float float32

func (v Float) ToBytes() (ByteArray, error) {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, math.Float32bits(float32(v)))
	return out, nil
}
func (v *Float) FromBytes(data ByteArray) (int, error) {
	if len(data) < 4 {
		return 0, ErrInsufficientData
	}
	*v = Float(math.Float32frombits(binary.BigEndian.Uint32(data)))
	return 4, nil
}

// Double is an IEEE-754 64-bit float.
type Double float64

func (v Double) ToBytes() (ByteArray, error) {
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, math.Float64bits(float64(v)))
	return out, nil
}
func (v *Double) FromBytes(data ByteArray) (int, error) {
	if len(data) < 8 {
		return 0, ErrInsufficientData
	}
	*v = Double(math.Float64frombits(binary.BigEndian.Uint64(data)))
	return 8, nil
}
