package wire

import (
	"github.com/google/uuid"
)

// UUID is the wire type for Minecraft's 128-bit player/resource-pack
// identifiers: 16 raw bytes, big-endian, no separators. Built on
// google/uuid rather than a hand-rolled parser.
//
// https://minecraft.wiki/w/Java_Edition_protocol/Packets#Type:UUID
type UUID uuid.UUID

func (u UUID) ToBytes() (ByteArray, error) {
	raw := uuid.UUID(u)
	out := make([]byte, 16)
	copy(out, raw[:])
	return out, nil
}

func (u *UUID) FromBytes(data ByteArray) (int, error) {
	if len(data) < 16 {
		return 0, ErrInsufficientData
	}
	var raw [16]byte
	copy(raw[:], data[:16])
	*u = UUID(raw)
	return 16, nil
}

func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// HyphenatedUUID is the hyphenated-string form used by LoginStart,
// bounded to 36 bytes per §4.B.
type HyphenatedUUID struct {
	Value uuid.UUID
}

func (h HyphenatedUUID) ToBytes() (ByteArray, error) {
	return String(h.Value.String()).ToBytes()
}

func (h *HyphenatedUUID) FromBytes(data ByteArray) (int, error) {
	var s BoundedString
	s.MaxLength = 36
	n, err := s.FromBytes(data)
	if err != nil {
		return 0, err
	}
	parsed, err := uuid.Parse(s.Value)
	if err != nil {
		return 0, err
	}
	h.Value = parsed
	return n, nil
}
