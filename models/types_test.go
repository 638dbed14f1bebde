package models

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mp3inspect/mp3parser"
)

func metadataFrame(id string, data []byte) []byte {
	b := make([]byte, 10, 10+len(data))
	copy(b, id)
	binary.BigEndian.PutUint32(b[4:8], uint32(len(data)))
	return append(b, data...)
}

func sampleFile(t *testing.T, frames int) []byte {
	t.Helper()
	var body []byte
	body = append(body, metadataFrame("TIT2", []byte("\x00Song"))...)
	body = append(body, metadataFrame("COMM", []byte("\x00engdesc\x00nice"))...)
	body = append(body, metadataFrame("APIC", []byte{0, 1, 2})...)
	body = append(body, make([]byte, 8)...)

	n := uint32(len(body))
	buf := []byte{'I', 'D', '3', 3, 0, 0, byte(n >> 21 & 0x7F), byte(n >> 14 & 0x7F), byte(n >> 7 & 0x7F), byte(n & 0x7F)}
	buf = append(buf, body...)
	for range frames {
		frame := make([]byte, 417)
		copy(frame, []byte{0xFF, 0xFB, 0x90, 0x44})
		buf = append(buf, frame...)
	}
	return buf
}

func TestNewInspectResponse(t *testing.T) {
	file, err := mp3parser.ParseFile(sampleFile(t, 3))
	require.NoError(t, err)

	resp := NewInspectResponse(file, 2)
	assert.True(t, resp.Success)
	assert.Equal(t, file.AudioOffset, resp.AudioOffset)
	assert.Nil(t, resp.ID3v1)

	require.NotNil(t, resp.Tag)
	assert.Equal(t, "2.3.0", resp.Tag.Version)
	assert.Equal(t, uint32(8), resp.Tag.PaddingSize)
	require.Len(t, resp.Tag.Frames, 3)
	assert.Equal(t, MetadataFrameInfo{ID: "TIT2", Name: "Title", Size: 15, Text: "Song"}, resp.Tag.Frames[0])
	assert.Equal(t, "nice", resp.Tag.Frames[1].Text)
	assert.Equal(t, "Custom", resp.Tag.Frames[2].Name)
	assert.Empty(t, resp.Tag.Frames[2].Text)

	assert.Equal(t, 3, resp.Summary.FrameCount)
	assert.Equal(t, "MPEG-1", resp.Summary.Version)
	assert.Equal(t, "Layer III", resp.Summary.Layer)
	assert.Equal(t, uint32(128000), resp.Summary.AverageBitrate)

	require.Len(t, resp.Frames, 2)
	assert.Equal(t, 2, resp.FramesListed)
	assert.Equal(t, file.AudioOffset+417, resp.Frames[1].Offset)
	assert.Equal(t, "Joint Stereo", resp.Frames[0].ChannelMode)
	assert.True(t, resp.Frames[0].IsOriginal)
}

func TestNewInspectResponse_NoAudio(t *testing.T) {
	file, err := mp3parser.ParseFile(sampleFile(t, 0))
	require.NoError(t, err)

	resp := NewInspectResponse(file, 10)
	assert.Empty(t, resp.Frames)
	assert.NotNil(t, resp.Frames)
	assert.Zero(t, resp.Summary.FrameCount)
	assert.Empty(t, resp.Summary.Version)
}
