package mp3parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGranuleChannel writes one MPEG-1 granule/channel block (59 bits).
func writeGranuleChannel(w *bitWriter, part23, bigValues, gain uint32, blockType uint32) {
	w.write(part23, 12)
	w.write(bigValues, 9)
	w.write(gain, 8)
	w.write(0, 4) // scalefac_compress
	if blockType != 0 {
		w.write(1, 1)
		w.write(blockType, 2)
		w.write(0, 1+10+9)
	} else {
		w.write(0, 1)
		w.write(0, 15+4+3)
	}
	w.write(0, 3)
}

func TestAudioFrame_SideInfo(t *testing.T) {
	for _, withCRC := range []bool{false, true} {
		header := mpeg1Layer3
		if withCRC {
			header[1] = 0xFA
		}
		buf := buildFrame(t, header)

		w := &bitWriter{}
		w.write(300, 9) // main_data_begin
		w.write(0, 3)   // private bits
		w.write(0, 8)   // scfsi
		for gr := range 2 {
			for ch := range 2 {
				blockType := uint32(0)
				if gr == 1 && ch == 1 {
					blockType = 2
				}
				writeGranuleChannel(w, uint32(100*(gr*2+ch+1)), 200, 150, blockType)
			}
		}
		require.Len(t, w.data, 32)

		start := FrameHeaderSize
		if withCRC {
			start += 2
		}
		copy(buf[start:], w.data)

		frames, err := WalkFrames(buf)
		require.NoError(t, err)
		info, err := frames[0].SideInfo()
		require.NoError(t, err)

		assert.Equal(t, uint32(300), info.MainDataBegin)
		require.Len(t, info.Granules, 2)
		require.Len(t, info.Granules[0], 2)
		assert.Equal(t, uint32(100), info.Granules[0][0].Part23Length)
		assert.Equal(t, uint32(400), info.Granules[1][1].Part23Length)
		assert.Equal(t, uint32(200), info.Granules[1][0].BigValues)
		assert.Equal(t, uint32(150), info.Granules[0][1].GlobalGain)
		assert.True(t, info.Granules[1][1].WindowSwitching)
		assert.Equal(t, uint32(2), info.Granules[1][1].BlockType)
		assert.Equal(t, 125, info.MainDataBytes())
	}
}

func TestSideInfoSize(t *testing.T) {
	tests := []struct {
		header [4]byte
		want   int
	}{
		{[4]byte{0xFF, 0xFB, 0x90, 0x44}, 32}, // MPEG-1 joint stereo
		{[4]byte{0xFF, 0xFB, 0x90, 0xC4}, 17}, // MPEG-1 mono
		{[4]byte{0xFF, 0xF3, 0x90, 0x44}, 17}, // MPEG-2 joint stereo
		{[4]byte{0xFF, 0xF3, 0x90, 0xC4}, 9},  // MPEG-2 mono
	}
	for _, tt := range tests {
		h, err := ParseFrameHeader(tt.header)
		require.NoError(t, err)
		assert.Equal(t, tt.want, SideInfoSize(h))
	}
}

func TestAudioFrame_SideInfoMPEG2Mono(t *testing.T) {
	buf := buildFrame(t, [4]byte{0xFF, 0xF3, 0x90, 0xC4})

	w := &bitWriter{}
	w.write(17, 8) // main_data_begin
	w.write(0, 1)  // private bit
	w.write(640, 12)
	w.write(10, 9)
	w.write(99, 8)
	w.write(0, 9+1+22+2)
	require.Len(t, w.data, 9)
	copy(buf[FrameHeaderSize:], w.data)

	frames, err := WalkFrames(buf)
	require.NoError(t, err)
	info, err := frames[0].SideInfo()
	require.NoError(t, err)
	assert.Equal(t, uint32(17), info.MainDataBegin)
	require.Len(t, info.Granules, 1)
	require.Len(t, info.Granules[0], 1)
	assert.Equal(t, uint32(640), info.Granules[0][0].Part23Length)
	assert.Equal(t, uint32(99), info.Granules[0][0].GlobalGain)
	assert.Equal(t, 80, info.MainDataBytes())
}

func TestAudioFrame_SideInfoErrors(t *testing.T) {
	frames, err := WalkFrames(buildFrame(t, [4]byte{0xFF, 0xFF, 0xE4, 0x03}))
	require.NoError(t, err)
	_, err = frames[0].SideInfo()
	assert.Error(t, err)

	frames, err = WalkFrames([]byte{0xFF, 0xFB, 0x90, 0x44, 0x00, 0x00})
	require.NoError(t, err)
	_, err = frames[0].SideInfo()
	assert.Error(t, err)
}
