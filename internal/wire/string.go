package wire

import "unicode/utf8"

// DefaultMaxStringLength is the default byte-length bound for plain
// strings per §4.B (32,768 bytes) when no narrower `mc:"maxlen:N"` tag
// applies.
const DefaultMaxStringLength = 32768

// String is a UTF-8 string prefixed with its byte length as a VarInt.
// ToBytes never checks a bound (the bound is a decode-time guard, per
// the protocol: a well-behaved encoder never needs it); FromBytes
// enforces DefaultMaxStringLength. Use BoundedString for a
// context-specific maximum.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Type:String
type String string

func (s String) ToBytes() (ByteArray, error) {
	raw := []byte(s)
	lengthBytes, err := VarInt(len(raw)).ToBytes()
	if err != nil {
		return nil, err
	}
	return append(lengthBytes, raw...), nil
}

func (s *String) FromBytes(data ByteArray) (int, error) {
	return decodeString((*string)(s), data, DefaultMaxStringLength)
}

// BoundedString is a String with a maximum byte length fixed by the
// packet field (e.g. 255 for Handshake.server_addr, 16 for a
// username, 36 for a hyphenated UUID). Field definitions set MaxLength
// before decoding via the `mc:"maxlen:N"` tag (see marshal.go).
type BoundedString struct {
	MaxLength int
	Value     string
}

func (s BoundedString) ToBytes() (ByteArray, error) {
	return String(s.Value).ToBytes()
}

func (s *BoundedString) FromBytes(data ByteArray) (int, error) {
	max := s.MaxLength
	if max <= 0 {
		max = DefaultMaxStringLength
	}
	return decodeString(&s.Value, data, max)
}

func decodeString(dst *string, data ByteArray, maxLength int) (int, error) {
	var length VarInt
	prefixBytes, err := length.FromBytes(data)
	if err != nil {
		return 0, err
	}
	if int(length) < 0 {
		return 0, ErrInsufficientData
	}
	if int(length) > maxLength {
		return 0, &StringTooLongError{Length: int(length), MaxLength: maxLength}
	}
	if len(data) < prefixBytes+int(length) {
		return 0, ErrInsufficientData
	}
	raw := data[prefixBytes : prefixBytes+int(length)]
	if !utf8.Valid(raw) {
		return 0, ErrInvalidUTF8
	}
	*dst = string(raw)
	return prefixBytes + int(length), nil
}

// ErrInvalidUTF8 is returned when a decoded string field is not valid UTF-8.
var ErrInvalidUTF8 = errUTF8{}

type errUTF8 struct{}

func (errUTF8) Error() string { return "wire: invalid UTF-8 in string field" }

// Identifier is a namespaced string, e.g. "minecraft:stone".
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Type:Identifier
type Identifier string

func (id Identifier) ToBytes() (ByteArray, error) { return String(id).ToBytes() }
func (id *Identifier) FromBytes(data ByteArray) (int, error) {
	var s String
	n, err := s.FromBytes(data)
	if err != nil {
		return 0, err
	}
	*id = Identifier(s)
	return n, nil
}

// Rest reads every remaining byte in the current packet cursor (used
// for fields the spec marks "data: rest", e.g. LoginPluginResponse's
// trailing payload).
type Rest []byte

func (r Rest) ToBytes() (ByteArray, error) { return ByteArray(r), nil }
func (r *Rest) FromBytes(data ByteArray) (int, error) {
	dst := make([]byte, len(data))
	copy(dst, data)
	*r = dst
	return len(data), nil
}
