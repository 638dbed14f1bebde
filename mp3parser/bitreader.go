package mp3parser

import (
	"fmt"
	"io"
)

// BitReader reads big-endian bit fields, most significant bit first.
type BitReader struct {
	data []byte
	pos  int // bit position
}

func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data}
}

func (br *BitReader) ReadBits(n int) (uint32, error) {
	if n <= 0 || n > 32 {
		return 0, fmt.Errorf("invalid bit count: %d", n)
	}
	if br.Remaining() < n {
		return 0, io.ErrUnexpectedEOF
	}
	var val uint32
	for range n {
		bytePos := br.pos / 8
		bitPos := 7 - (br.pos % 8)
		bit := (br.data[bytePos] >> bitPos) & 1
		val = (val << 1) | uint32(bit)
		br.pos++
	}
	return val, nil
}

func (br *BitReader) ReadFlag() (bool, error) {
	v, err := br.ReadBits(1)
	return v == 1, err
}

func (br *BitReader) Skip(n int) error {
	if n < 0 || br.Remaining() < n {
		return io.ErrUnexpectedEOF
	}
	br.pos += n
	return nil
}

// Remaining returns the number of unread bits.
func (br *BitReader) Remaining() int {
	return len(br.data)*8 - br.pos
}

// Position returns the number of bits consumed so far.
func (br *BitReader) Position() int {
	return br.pos
}
