package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFramingRoundTripNoCompressionNoEncryption(t *testing.T) {
	codec := NewFramingCodec()
	frame := &Frame{PacketID: 0x01, Data: ByteArray("hello")}

	encoded, err := codec.Encode(frame)
	require.NoError(t, err)

	codec.Accept(encoded)
	got, err := codec.NextPacket()
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, frame.PacketID, got.PacketID)
	require.Equal(t, frame.Data, got.Data)

	// buffer left empty
	require.Empty(t, codec.buf)
}

func TestFramingPartialFrameYieldsNoPacket(t *testing.T) {
	codec := NewFramingCodec()
	frame := &Frame{PacketID: 0x02, Data: ByteArray("partial-body")}
	encoded, err := codec.Encode(frame)
	require.NoError(t, err)

	codec.Accept(encoded[:len(encoded)-2])
	got, err := codec.NextPacket()
	require.NoError(t, err)
	require.Nil(t, got)

	codec.Accept(encoded[len(encoded)-2:])
	got, err = codec.NextPacket()
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, frame.Data, got.Data)
}

func TestFramingCompressionBelowThreshold(t *testing.T) {
	codec := NewFramingCodec()
	codec.SetCompressionThreshold(256)
	frame := &Frame{PacketID: 0x03, Data: ByteArray("short")}

	encoded, err := codec.Encode(frame)
	require.NoError(t, err)

	codec.Accept(encoded)
	got, err := codec.NextPacket()
	require.NoError(t, err)
	require.Equal(t, frame.Data, got.Data)
}

func TestFramingCompressionAboveThreshold(t *testing.T) {
	codec := NewFramingCodec()
	codec.SetCompressionThreshold(8)
	body := make([]byte, 512)
	for i := range body {
		body[i] = byte(i)
	}
	frame := &Frame{PacketID: 0x04, Data: ByteArray(body)}

	encoded, err := codec.Encode(frame)
	require.NoError(t, err)

	codec.Accept(encoded)
	got, err := codec.NextPacket()
	require.NoError(t, err)
	require.Equal(t, frame.Data, got.Data)
}

func TestFramingEncryptionRoundTrip(t *testing.T) {
	key := make([]byte, 16)
	for i := range key {
		key[i] = byte(i + 1)
	}

	sender := NewFramingCodec()
	require.NoError(t, sender.EnableEncryption(key))
	frame := &Frame{PacketID: 0x05, Data: ByteArray("encrypted payload")}
	ciphertext, err := sender.Encode(frame)
	require.NoError(t, err)

	receiver := NewFramingCodec()
	require.NoError(t, receiver.EnableEncryption(key))
	receiver.Accept(ciphertext)
	got, err := receiver.NextPacket()
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, frame.Data, got.Data)
}

func TestNextRawFrameReturnsExactOnWireBytes(t *testing.T) {
	codec := NewFramingCodec()
	frame := &Frame{PacketID: 0x06, Data: ByteArray("payload")}
	encoded, err := codec.Encode(frame)
	require.NoError(t, err)

	codec.Accept(encoded)
	raw, got, err := codec.NextRawFrame()
	require.NoError(t, err)
	require.Equal(t, encoded, raw)
	require.Equal(t, frame.PacketID, got.PacketID)
	require.Equal(t, frame.Data, got.Data)
	require.Empty(t, codec.buf)
}

func TestNextRawFramePartialYieldsNilRaw(t *testing.T) {
	codec := NewFramingCodec()
	frame := &Frame{PacketID: 0x07, Data: ByteArray("partial-raw-body")}
	encoded, err := codec.Encode(frame)
	require.NoError(t, err)

	codec.Accept(encoded[:len(encoded)-3])
	raw, got, err := codec.NextRawFrame()
	require.NoError(t, err)
	require.Nil(t, raw)
	require.Nil(t, got)

	codec.Accept(encoded[len(encoded)-3:])
	raw, got, err = codec.NextRawFrame()
	require.NoError(t, err)
	require.Equal(t, encoded, raw)
	require.Equal(t, frame.Data, got.Data)
}

func TestBufferedReturnsUnconsumedBytes(t *testing.T) {
	codec := NewFramingCodec()
	frame := &Frame{PacketID: 0x08, Data: ByteArray("x")}
	encoded, err := codec.Encode(frame)
	require.NoError(t, err)

	extra := []byte{0x01, 0x02, 0x03}
	codec.Accept(append(append([]byte{}, encoded...), extra...))

	_, _, err = codec.NextRawFrame()
	require.NoError(t, err)
	require.Equal(t, extra, codec.Buffered())
}
