// All data sent over the network (except VarInt and VarLong) is
// big-endian: bytes are sent from most significant to least
// significant.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Data_types
package wire

import "errors"

// ErrInsufficientData is returned by FromBytes implementations when
// the input is shorter than the field requires.
var ErrInsufficientData = errors.New("wire: insufficient data")

// ByteArray is a sequence of bytes whose length is known from context
// (no length prefix of its own).
type ByteArray []byte

func (b ByteArray) ToBytes() (ByteArray, error) {
	return b, nil
}

func (b *ByteArray) FromBytes(data ByteArray) (int, error) {
	dst := make(ByteArray, len(data))
	copy(dst, data)
	*b = dst
	return len(data), nil
}

// PrefixedByteArray is a byte array prefixed with a VarInt length.
type PrefixedByteArray []byte

func (p PrefixedByteArray) ToBytes() (ByteArray, error) {
	lengthBytes, err := VarInt(len(p)).ToBytes()
	if err != nil {
		return nil, err
	}
	out := make(ByteArray, 0, len(lengthBytes)+len(p))
	out = append(out, lengthBytes...)
	out = append(out, p...)
	return out, nil
}

func (p *PrefixedByteArray) FromBytes(data ByteArray) (int, error) {
	var length VarInt
	off, err := length.FromBytes(data)
	if err != nil {
		return 0, err
	}
	if int(length) < 0 || len(data) < off+int(length) {
		return 0, ErrInsufficientData
	}
	dst := make([]byte, int(length))
	copy(dst, data[off:off+int(length)])
	*p = dst
	return off + int(length), nil
}

// FixedByteArray is a byte array of a compile-time-unknown but
// context-declared fixed length. Length must be set before FromBytes
// is called; no `mc` tag option sets it.
type FixedByteArray struct {
	Length int
	Data   []byte
}

func (f FixedByteArray) ToBytes() (ByteArray, error) {
	out := make([]byte, f.Length)
	copy(out, f.Data)
	return out, nil
}

func (f *FixedByteArray) FromBytes(data ByteArray) (int, error) {
	if len(data) < f.Length {
		return 0, ErrInsufficientData
	}
	f.Data = make([]byte, f.Length)
	copy(f.Data, data[:f.Length])
	return f.Length, nil
}
