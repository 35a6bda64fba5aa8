package wire

import (
	"bytes"

	"github.com/basileia/proxy/internal/nbt"
)

// CompoundTag carries an NBT compound tag field (e.g.
// RegistryData.data). Decoding is delegated entirely to the
// self-delimited black-box nbt.Reader per the proxy's scope: the
// proxy never inspects registry contents, only needs to know where
// the tag ends so any following fields (or the frame boundary) can be
// located.
type CompoundTag struct {
	Raw nbt.Tag
}

func (c CompoundTag) ToBytes() (ByteArray, error) {
	if c.Raw == nil {
		// TagEnd alone, matching the teacher net_structures.NBT's
		// "single 0x00 byte means empty" convention.
		return ByteArray{0x00}, nil
	}
	out, err := nbt.EncodeNetwork(c.Raw)
	if err != nil {
		return nil, err
	}
	return ByteArray(out), nil
}

func (c *CompoundTag) FromBytes(data ByteArray) (int, error) {
	if len(data) > 0 && data[0] == nbt.TagEnd {
		c.Raw = nil
		return 1, nil
	}
	r := nbt.NewReaderFrom(bytes.NewReader(data))
	tag, _, err := r.ReadTag(true)
	if err != nil {
		return 0, err
	}
	c.Raw = tag
	return int(r.Consumed()), nil
}
