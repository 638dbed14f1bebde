package mp3parser

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// encodeHeader packs h back into its 32-bit wire form. The private bit is 0.
func encodeHeader(h FrameHeader) [4]byte {
	var v uint32 = syncWord << 21
	v |= uint32(h.Version.Bits()) << 19
	v |= uint32(h.Layer.Bits()) << 17
	if !h.HasCRC {
		v |= 1 << 16
	}
	v |= uint32(h.BitrateIndex&0xF) << 12
	for i, r := range sampleRates[h.Version] {
		if r == h.SampleRate {
			v |= uint32(i) << 10
		}
	}
	if h.HasPadding {
		v |= 1 << 9
	}
	v |= uint32(h.ChannelMode.Bits()&0b11) << 6
	v |= uint32(h.ModeExtension.Bits()&0b11) << 4
	if h.IsCopyrighted {
		v |= 1 << 3
	}
	if h.IsOriginal {
		v |= 1 << 2
	}
	v |= uint32(h.Emphasis & 0b11)

	var out [4]byte
	binary.BigEndian.PutUint32(out[:], v)
	return out
}

// mpeg1Layer3 is FF FB 90 44: 128 kbps, 44.1 kHz, joint stereo, 417 bytes.
var mpeg1Layer3 = [4]byte{0xFF, 0xFB, 0x90, 0x44}

// buildFrame returns a complete frame for header with a zero payload.
func buildFrame(t *testing.T, header [4]byte) []byte {
	t.Helper()
	h, err := ParseFrameHeader(header)
	require.NoError(t, err)
	length, err := h.FrameLength()
	require.NoError(t, err)

	frame := make([]byte, length)
	copy(frame, header[:])
	return frame
}

func synchsafe(n uint32) []byte {
	return []byte{byte(n >> 21 & 0x7F), byte(n >> 14 & 0x7F), byte(n >> 7 & 0x7F), byte(n & 0x7F)}
}

// buildMetadataFrame encodes an ID3v2.3 sub-frame.
func buildMetadataFrame(id string, flags uint16, data []byte) []byte {
	b := make([]byte, MetadataFrameHeaderSize, MetadataFrameHeaderSize+len(data))
	copy(b, id)
	binary.BigEndian.PutUint32(b[4:8], uint32(len(data)))
	binary.BigEndian.PutUint16(b[8:10], flags)
	return append(b, data...)
}

// buildTag wraps body in an ID3v2 tag header.
func buildTag(version, flags byte, body []byte) []byte {
	b := append([]byte("ID3"), version, 0, flags)
	b = append(b, synchsafe(uint32(len(body)))...)
	return append(b, body...)
}

type bitWriter struct {
	data []byte
	pos  int
}

func (w *bitWriter) write(v uint32, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.pos/8 >= len(w.data) {
			w.data = append(w.data, 0)
		}
		if v>>uint(i)&1 == 1 {
			w.data[w.pos/8] |= 1 << (7 - uint(w.pos%8))
		}
		w.pos++
	}
}
