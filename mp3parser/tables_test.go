package mp3parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitrate(t *testing.T) {
	tests := []struct {
		version MPEGVersion
		layer   Layer
		index   uint8
		want    uint32
	}{
		{MPEG1, Layer1, 1, 32000},
		{MPEG1, Layer1, 3, 96000},
		{MPEG1, Layer1, 14, 448000},
		{MPEG1, Layer2, 14, 384000},
		{MPEG1, Layer3, 9, 128000},
		{MPEG1, Layer3, 14, 320000},
		{MPEG2, Layer1, 14, 256000},
		{MPEG2, Layer2, 1, 8000},
		{MPEG2, Layer3, 14, 160000},
		{MPEG25, Layer1, 9, 144000},
		{MPEG25, Layer3, 8, 64000},
	}

	for _, tt := range tests {
		got, ok := Bitrate(tt.version, tt.layer, tt.index)
		require.True(t, ok)
		assert.Equal(t, tt.want, got, "%s %s index %d", tt.version, tt.layer, tt.index)
	}
}

func TestBitrate_FreeAndBad(t *testing.T) {
	for _, index := range []uint8{0, 15} {
		bps, ok := Bitrate(MPEG1, Layer3, index)
		assert.False(t, ok)
		assert.Zero(t, bps)
	}
}

func TestBitrate_Deterministic(t *testing.T) {
	for _, v := range []MPEGVersion{MPEG1, MPEG2, MPEG25} {
		for _, l := range []Layer{Layer1, Layer2, Layer3} {
			for index := uint8(0); index < 16; index++ {
				a, okA := Bitrate(v, l, index)
				b, okB := Bitrate(v, l, index)
				assert.Equal(t, a, b)
				assert.Equal(t, okA, okB)
			}
		}
	}
}

func TestSampleRate(t *testing.T) {
	want := map[MPEGVersion][3]uint32{
		MPEG1:  {44100, 48000, 32000},
		MPEG2:  {22050, 24000, 16000},
		MPEG25: {11025, 12000, 8000},
	}
	for v, rates := range want {
		for i, r := range rates {
			got, err := SampleRate(v, uint8(i))
			require.NoError(t, err)
			assert.Equal(t, r, got)
		}
		_, err := SampleRate(v, 3)
		assert.ErrorIs(t, err, ErrInvalidSampleRateIndex)
	}
}
