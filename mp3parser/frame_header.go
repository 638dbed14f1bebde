package mp3parser

import (
	"fmt"
	"time"
)

const (
	FrameHeaderSize = 4
	syncWord        = 0x7FF
)

// FrameHeader is the decoded form of the 32-bit header that starts every MPEG
// audio frame.
type FrameHeader struct {
	Version       MPEGVersion
	Layer         Layer
	HasCRC        bool
	BitrateIndex  uint8
	Bitrate       uint32 // bits per second, 0 for free format or a bad index
	SampleRate    uint32 // Hz
	HasPadding    bool
	ChannelMode   ChannelMode
	ModeExtension ModeExtension // only meaningful for JointStereo
	IsCopyrighted bool
	IsOriginal    bool
	Emphasis      uint8
}

// ParseFrameHeader decodes the four header bytes. Any invalid field fails the
// whole header.
func ParseFrameHeader(b [4]byte) (FrameHeader, error) {
	var h FrameHeader
	br := NewBitReader(b[:])

	sync, _ := br.ReadBits(11)
	if sync&syncWord != syncWord {
		return h, newDecodeError(ErrInvalidSyncWord, 0, sync, 11)
	}

	bits, _ := br.ReadBits(2)
	version, err := MPEGVersionFromBits(uint8(bits))
	if err != nil {
		return h, err
	}

	bits, _ = br.ReadBits(2)
	layer, err := LayerFromBits(uint8(bits))
	if err != nil {
		return h, err
	}

	// protection bit is inverted: 0 means a CRC follows the header
	protected, _ := br.ReadFlag()

	bitrateIndex, _ := br.ReadBits(4)
	bitrate, _ := Bitrate(version, layer, uint8(bitrateIndex))

	bits, _ = br.ReadBits(2)
	sampleRate, err := SampleRate(version, uint8(bits))
	if err != nil {
		return h, err
	}

	padding, _ := br.ReadFlag()
	_ = br.Skip(1) // private bit

	bits, _ = br.ReadBits(2)
	channelMode, err := ChannelModeFromBits(uint8(bits))
	if err != nil {
		return h, err
	}

	bits, _ = br.ReadBits(2)
	modeExtension, err := ModeExtensionFromBits(uint8(bits))
	if err != nil {
		return h, err
	}

	copyrighted, _ := br.ReadFlag()
	original, _ := br.ReadFlag()
	emphasis, _ := br.ReadBits(2)

	return FrameHeader{
		Version:       version,
		Layer:         layer,
		HasCRC:        !protected,
		BitrateIndex:  uint8(bitrateIndex),
		Bitrate:       bitrate,
		SampleRate:    sampleRate,
		HasPadding:    padding,
		ChannelMode:   channelMode,
		ModeExtension: modeExtension,
		IsCopyrighted: copyrighted,
		IsOriginal:    original,
		Emphasis:      uint8(emphasis),
	}, nil
}

// ParseFrameHeaderBytes decodes a header from the first four bytes of b.
func ParseFrameHeaderBytes(b []byte) (FrameHeader, error) {
	if len(b) < FrameHeaderSize {
		return FrameHeader{}, &DecodeError{
			Kind:   ErrTruncatedFrameHeader,
			Detail: fmt.Sprintf("need %d bytes, have %d", FrameHeaderSize, len(b)),
		}
	}
	return ParseFrameHeader([4]byte(b[:FrameHeaderSize]))
}

// FreeFormat reports whether the bitrate could not be resolved from the table.
func (h FrameHeader) FreeFormat() bool {
	return h.Bitrate == 0
}

// DurationSeconds is samples-per-frame divided by the sample rate.
func (h FrameHeader) DurationSeconds() float64 {
	if h.SampleRate == 0 {
		return 0
	}
	return float64(h.Layer.SamplesPerFrame()) / float64(h.SampleRate)
}

func (h FrameHeader) Duration() time.Duration {
	return time.Duration(h.DurationSeconds() * float64(time.Second))
}

// FrameLength returns the total frame size in bytes, header included:
// samples-per-frame/8 * bitrate / sample-rate, plus one byte of padding.
func (h FrameHeader) FrameLength() (int, error) {
	if h.Bitrate == 0 {
		return 0, newDecodeError(ErrMissingBitrate, 0, uint32(h.BitrateIndex), 4)
	}
	if h.SampleRate == 0 {
		return 0, newDecodeError(ErrInvalidSampleRateIndex, 0, 0, 0)
	}
	spf := uint64(h.Layer.SamplesPerFrame())
	length := spf * uint64(h.Bitrate) / (8 * uint64(h.SampleRate))
	if h.HasPadding {
		length++
	}
	return int(length), nil
}
