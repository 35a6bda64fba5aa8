package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoundedStringTooLong(t *testing.T) {
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	lengthPrefix, err := VarInt(len(long)).ToBytes()
	require.NoError(t, err)
	data := append(ByteArray{}, lengthPrefix...)
	data = append(data, long...)

	var s BoundedString
	s.MaxLength = 255
	_, err = s.FromBytes(data)
	require.Error(t, err)
	var tooLong *StringTooLongError
	require.ErrorAs(t, err, &tooLong)
	require.Equal(t, 255, tooLong.MaxLength)
}

func TestStringRoundTrip(t *testing.T) {
	s := String("localhost")
	encoded, err := s.ToBytes()
	require.NoError(t, err)

	var decoded String
	n, err := decoded.FromBytes(encoded)
	require.NoError(t, err)
	require.Equal(t, len(encoded), n)
	require.Equal(t, s, decoded)
}
