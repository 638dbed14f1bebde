// Package mp3parser decodes ID3v2 tags and MPEG audio frame headers from an
// in-memory buffer.
package mp3parser

import "fmt"

// MPEGVersion is the audio version id carried in bits 20-19 of a frame header.
type MPEGVersion int

const (
	MPEG1 MPEGVersion = iota + 1
	MPEG2
	MPEG25
)

func MPEGVersionFromBits(bits uint8) (MPEGVersion, error) {
	switch bits {
	case 0b00:
		return MPEG25, nil
	case 0b10:
		return MPEG2, nil
	case 0b11:
		return MPEG1, nil
	}
	// 0b01 is reserved
	return 0, newDecodeError(ErrInvalidVersion, 0, uint32(bits), 2)
}

func (v MPEGVersion) Bits() uint8 {
	switch v {
	case MPEG25:
		return 0b00
	case MPEG2:
		return 0b10
	case MPEG1:
		return 0b11
	}
	return 0b01
}

func (v MPEGVersion) String() string {
	switch v {
	case MPEG1:
		return "MPEG-1"
	case MPEG2:
		return "MPEG-2"
	case MPEG25:
		return "MPEG-2.5"
	}
	return fmt.Sprintf("MPEGVersion(%d)", int(v))
}

type Layer int

const (
	Layer1 Layer = iota + 1
	Layer2
	Layer3
)

func LayerFromBits(bits uint8) (Layer, error) {
	switch bits {
	case 0b01:
		return Layer3, nil
	case 0b10:
		return Layer2, nil
	case 0b11:
		return Layer1, nil
	}
	return 0, newDecodeError(ErrInvalidLayer, 0, uint32(bits), 2)
}

func (l Layer) Bits() uint8 {
	switch l {
	case Layer3:
		return 0b01
	case Layer2:
		return 0b10
	case Layer1:
		return 0b11
	}
	return 0b00
}

// SamplesPerFrame is 384 for Layer I and 1152 for the other layers.
func (l Layer) SamplesPerFrame() int {
	if l == Layer1 {
		return 384
	}
	return 1152
}

func (l Layer) String() string {
	switch l {
	case Layer1:
		return "Layer I"
	case Layer2:
		return "Layer II"
	case Layer3:
		return "Layer III"
	}
	return fmt.Sprintf("Layer(%d)", int(l))
}

type ChannelMode int

const (
	Stereo ChannelMode = iota
	JointStereo
	DualChannel
	SingleChannel
)

func ChannelModeFromBits(bits uint8) (ChannelMode, error) {
	if bits > 0b11 {
		return 0, newDecodeError(ErrInvalidChannelMode, 0, uint32(bits), 2)
	}
	return ChannelMode(bits), nil
}

func (m ChannelMode) Bits() uint8 {
	return uint8(m)
}

// Channels returns 1 for single channel streams and 2 otherwise.
func (m ChannelMode) Channels() int {
	if m == SingleChannel {
		return 1
	}
	return 2
}

func (m ChannelMode) String() string {
	switch m {
	case Stereo:
		return "Stereo"
	case JointStereo:
		return "Joint Stereo"
	case DualChannel:
		return "Dual Channel"
	case SingleChannel:
		return "Single Channel"
	}
	return fmt.Sprintf("ChannelMode(%d)", int(m))
}

// ModeExtension selects intensity and M/S stereo. It only carries meaning when
// the channel mode is JointStereo.
type ModeExtension int

const (
	Mode1 ModeExtension = iota // intensity off, M/S off
	Mode2                      // intensity on, M/S off
	Mode3                      // intensity off, M/S on
	Mode4                      // intensity on, M/S on
)

func ModeExtensionFromBits(bits uint8) (ModeExtension, error) {
	if bits > 0b11 {
		return 0, newDecodeError(ErrInvalidModeExtension, 0, uint32(bits), 2)
	}
	return ModeExtension(bits), nil
}

func (e ModeExtension) Bits() uint8 {
	return uint8(e)
}

func (e ModeExtension) String() string {
	if e < Mode1 || e > Mode4 {
		return fmt.Sprintf("ModeExtension(%d)", int(e))
	}
	return fmt.Sprintf("Mode%d", int(e)+1)
}
