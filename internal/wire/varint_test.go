package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 127, 128, 255, 2097151, -2147483648, 2147483647}
	for _, v := range values {
		encoded, err := VarInt(v).ToBytes()
		require.NoError(t, err)
		require.LessOrEqual(t, len(encoded), 5)
		require.GreaterOrEqual(t, len(encoded), 1)

		var decoded VarInt
		n, err := decoded.FromBytes(encoded)
		require.NoError(t, err)
		require.Equal(t, len(encoded), n)
		require.Equal(t, v, int32(decoded))
	}
}

func TestVarIntTooLong(t *testing.T) {
	allContinuation := ByteArray{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	var v VarInt
	_, err := v.FromBytes(allContinuation)
	require.ErrorIs(t, err, ErrVarIntTooLong)
}

func TestVarIntShortRead(t *testing.T) {
	var v VarInt
	_, err := v.FromBytes(ByteArray{0x80, 0x80})
	require.ErrorIs(t, err, ErrShortRead)
}
