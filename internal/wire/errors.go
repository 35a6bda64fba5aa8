package wire

import "errors"

// Sentinel errors for the field and packet codecs, matching the
// taxonomy of decode failures the proxy must distinguish (§7):
// unknown packet types, oversized strings, malformed booleans, and
// packets observed while the session codec is in the wrong state.
var (
	ErrNonBoolValue            = errors.New("wire: byte is not a valid Boolean (0x00/0x01)")
	ErrStringTooLong           = errors.New("wire: string exceeds max length")
	ErrUnknownPacketType       = errors.New("wire: unknown packet type for state/direction")
	ErrInvalidPacketLength     = errors.New("wire: invalid packet length")
	ErrDataSentDuringHandshake = errors.New("wire: data received from server while state is Handshake")
)

// StringTooLongError carries the offending length and bound, per §4.B's
// StringTooLong{length, max_length}.
type StringTooLongError struct {
	Length    int
	MaxLength int
}

func (e *StringTooLongError) Error() string {
	return "wire: string too long"
}

func (e *StringTooLongError) Unwrap() error { return ErrStringTooLong }

// VarIntTooLongError carries the byte-width bound that was exceeded.
type VarIntTooLongError struct {
	MaxBytes int
}

func (e *VarIntTooLongError) Error() string { return "wire: VarInt too long" }
func (e *VarIntTooLongError) Unwrap() error { return ErrVarIntTooLong }

// UnknownPacketTypeError names the offending type id.
type UnknownPacketTypeError struct {
	TypeID int32
}

func (e *UnknownPacketTypeError) Error() string { return "wire: unknown packet type" }
func (e *UnknownPacketTypeError) Unwrap() error { return ErrUnknownPacketType }
