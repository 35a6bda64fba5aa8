package proxy

import (
	"net"

	"github.com/basileia/proxy/internal/wire"
)

// rawFrame pairs a decoded frame with the exact bytes it came from,
// the shape both the pre-login reader and the proxy loop's relayers
// need (§4.F: decode is passive, forwarding must use the original
// bytes).
type rawFrame struct {
	raw   []byte
	frame *wire.Frame
}

// frameReader pulls one frame at a time off a net.Conn before the
// protocol state has had a chance to diverge from "no compression, no
// encryption" (true for every packet read ahead of the proxy loop:
// Handshake, Status's two packets, and LoginStart all arrive before
// SetCompression can be sent).
type frameReader struct {
	conn  net.Conn
	codec *wire.FramingCodec
}

func newFrameReader(conn net.Conn) *frameReader {
	return &frameReader{conn: conn, codec: wire.NewFramingCodec()}
}

// readOne blocks until one full frame is available or the connection
// fails.
func (r *frameReader) readOne() (rawFrame, error) {
	buf := make([]byte, 4096)
	for {
		raw, frame, err := r.codec.NextRawFrame()
		if err != nil {
			return rawFrame{}, err
		}
		if frame != nil {
			return rawFrame{raw: raw, frame: frame}, nil
		}
		n, err := r.conn.Read(buf)
		if n > 0 {
			r.codec.Accept(buf[:n])
		}
		if err != nil {
			return rawFrame{}, err
		}
	}
}

// leftover returns bytes already read from the socket past the
// frames readOne has handed out, so a caller switching to a different
// codec (the proxy loop's session) doesn't drop them.
func (r *frameReader) leftover() []byte {
	return r.codec.Buffered()
}
