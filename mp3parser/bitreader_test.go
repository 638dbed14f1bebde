package mp3parser

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitReader_ReadBits(t *testing.T) {
	br := NewBitReader([]byte{0xAB, 0xCD})

	v, err := br.ReadBits(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xA), v)

	v, err = br.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xBC), v)

	flag, err := br.ReadFlag()
	require.NoError(t, err)
	assert.True(t, flag)

	assert.Equal(t, 3, br.Remaining())
	assert.Equal(t, 13, br.Position())

	_, err = br.ReadBits(4)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, 13, br.Position())
}

func TestBitReader_InvalidCount(t *testing.T) {
	br := NewBitReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	_, err := br.ReadBits(0)
	assert.Error(t, err)
	_, err = br.ReadBits(33)
	assert.Error(t, err)

	v, err := br.ReadBits(32)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xFFFFFFFF), v)
}

func TestBitReader_Skip(t *testing.T) {
	br := NewBitReader([]byte{0x0F})
	require.NoError(t, br.Skip(4))
	v, err := br.ReadBits(4)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xF), v)
	assert.ErrorIs(t, br.Skip(1), io.ErrUnexpectedEOF)
}
