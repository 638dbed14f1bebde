package mp3parser

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkFrames(t *testing.T) {
	padded := [4]byte{0xFF, 0xFB, 0x92, 0x44}
	mono := [4]byte{0xFF, 0xFB, 0x50, 0xC4}

	var buf []byte
	buf = append(buf, buildFrame(t, mpeg1Layer3)...)
	buf = append(buf, buildFrame(t, padded)...)
	buf = append(buf, buildFrame(t, mono)...)

	frames, err := WalkFrames(buf)
	require.NoError(t, err)
	require.Len(t, frames, 3)

	assert.Equal(t, 0, frames[0].Offset)
	assert.Equal(t, 417, frames[0].Length)
	assert.Equal(t, 417, frames[1].Offset)
	assert.Equal(t, 418, frames[1].Length)
	assert.True(t, frames[1].Header.HasPadding)
	assert.Equal(t, 835, frames[2].Offset)
	assert.Equal(t, SingleChannel, frames[2].Header.ChannelMode)

	consumed := 0
	for _, f := range frames {
		assert.Len(t, f.Data, f.Length-FrameHeaderSize)
		assert.False(t, f.Truncated)
		consumed += f.Length
	}
	assert.Equal(t, len(buf), consumed)
}

func TestWalkFrames_PayloadIsView(t *testing.T) {
	buf := buildFrame(t, mpeg1Layer3)
	frames, err := WalkFrames(buf)
	require.NoError(t, err)
	require.Len(t, frames, 1)

	buf[FrameHeaderSize] = 0xAA
	assert.Equal(t, byte(0xAA), frames[0].Data[0])
}

func TestWalkFrames_TruncatedLastFrame(t *testing.T) {
	buf := []byte{0xFF, 0xFA, 0x90, 0x64, 0x00, 0x00, 0x00, 0x00}

	frames, err := WalkFrames(buf)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Header.HasCRC)
	assert.Equal(t, 417, frames[0].Length)
	assert.True(t, frames[0].Truncated)
	assert.Len(t, frames[0].Data, 4)
}

func TestWalkFrames_Empty(t *testing.T) {
	frames, err := WalkFrames(nil)
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestWalkFrames_Errors(t *testing.T) {
	good := buildFrame(t, mpeg1Layer3)

	tests := []struct {
		name    string
		buf     []byte
		wantErr error
		offset  int
	}{
		{
			name:    "garbage after first frame",
			buf:     append(append([]byte{}, good...), 0x00, 0x00, 0x00, 0x00),
			wantErr: ErrInvalidSyncWord,
			offset:  417,
		},
		{
			name:    "free format bitrate",
			buf:     []byte{0xFF, 0xFB, 0x00, 0x44, 0x00, 0x00},
			wantErr: ErrMissingBitrate,
			offset:  0,
		},
		{
			name:    "bad bitrate index in second frame",
			buf:     append(append([]byte{}, good...), 0xFF, 0xFB, 0xF0, 0x44),
			wantErr: ErrMissingBitrate,
			offset:  417,
		},
		{
			name:    "trailing bytes shorter than a header",
			buf:     append(append([]byte{}, good...), 0xFF, 0xFB),
			wantErr: ErrTruncatedFrameHeader,
			offset:  417,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames, err := WalkFrames(tt.buf)
			require.Error(t, err)
			assert.Nil(t, frames)
			assert.ErrorIs(t, err, tt.wantErr)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.offset, de.Offset)
		})
	}
}

func TestWalkFrames_TerminatesOnArbitraryInput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		buf := make([]byte, rng.Intn(4096))
		rng.Read(buf)
		// bias towards plausible headers so the walk gets past the first frame
		for j := 0; j+1 < len(buf); j += 1 + rng.Intn(400) {
			buf[j], buf[j+1] = 0xFF, 0xFB
		}

		frames, err := WalkFrames(buf)
		if err != nil {
			assert.Nil(t, frames)
			continue
		}
		consumed := 0
		for _, f := range frames {
			require.Greater(t, f.Length, FrameHeaderSize)
			consumed += f.Length
			assert.LessOrEqual(t, f.Offset+FrameHeaderSize+len(f.Data), len(buf))
		}
		assert.GreaterOrEqual(t, consumed, len(buf))
	}
}

func TestParseAudioFrame_OffsetOutOfRange(t *testing.T) {
	_, err := ParseAudioFrame([]byte{0xFF}, 5)
	assert.ErrorIs(t, err, ErrFrameOverrunsBuffer)
}

func TestAudioFrame_String(t *testing.T) {
	frames, err := WalkFrames(buildFrame(t, mpeg1Layer3))
	require.NoError(t, err)
	assert.Contains(t, frames[0].String(), "128000 bps")
}

func TestCheckFrameLength(t *testing.T) {
	for _, length := range []int{0, 1, FrameHeaderSize} {
		err := checkFrameLength(length, 417)
		require.ErrorIs(t, err, ErrInvalidFrameLength, "length %d", length)

		var de *DecodeError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, 417, de.Offset)
		assert.Equal(t, uint32(length), de.Raw)
	}

	assert.NoError(t, checkFrameLength(FrameHeaderSize+1, 0))
	assert.NoError(t, checkFrameLength(417, 0))
}
