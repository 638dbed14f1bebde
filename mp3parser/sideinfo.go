package mp3parser

import (
	"fmt"
)

// GranuleChannelInfo is the part of the Layer III side information needed to
// locate the main data of one granule/channel pair.
type GranuleChannelInfo struct {
	Part23Length     uint32
	BigValues        uint32
	GlobalGain       uint32
	ScalefacCompress uint32
	WindowSwitching  bool
	BlockType        uint32
}

// SideInfo is the Layer III side information that follows the frame header
// (and the CRC, if present).
type SideInfo struct {
	MainDataBegin uint32 // back pointer into the bit reservoir, in bytes
	Granules      [][]GranuleChannelInfo
}

// SideInfoSize is the number of side information bytes for a Layer III frame.
func SideInfoSize(h FrameHeader) int {
	mono := h.ChannelMode == SingleChannel
	if h.Version == MPEG1 {
		if mono {
			return 17
		}
		return 32
	}
	if mono {
		return 9
	}
	return 17
}

// MainDataBytes sums part2_3_length over every granule and channel.
func (s *SideInfo) MainDataBytes() int {
	bits := 0
	for _, gr := range s.Granules {
		for _, ch := range gr {
			bits += int(ch.Part23Length)
		}
	}
	return (bits + 7) / 8
}

// SideInfo decodes the Layer III side information of the frame.
func (f AudioFrame) SideInfo() (*SideInfo, error) {
	h := f.Header
	if h.Layer != Layer3 {
		return nil, fmt.Errorf("side information is only defined for Layer III, got %s", h.Layer)
	}

	data := f.Data
	if h.HasCRC {
		if len(data) < 2 {
			return nil, fmt.Errorf("frame at offset %d too short for CRC", f.Offset)
		}
		data = data[2:]
	}
	size := SideInfoSize(h)
	if len(data) < size {
		return nil, fmt.Errorf("frame at offset %d too short for side info: need %d bytes, have %d",
			f.Offset, size, len(data))
	}

	br := NewBitReader(data[:size])
	mpeg1 := h.Version == MPEG1
	channels := h.ChannelMode.Channels()

	info := &SideInfo{}
	var err error
	if mpeg1 {
		info.MainDataBegin, err = br.ReadBits(9)
	} else {
		info.MainDataBegin, err = br.ReadBits(8)
	}
	if err != nil {
		return nil, err
	}

	// private bits, then scfsi (MPEG-1 only)
	var privateBits int
	switch {
	case mpeg1 && channels == 1:
		privateBits = 5
	case mpeg1:
		privateBits = 3
	case channels == 1:
		privateBits = 1
	default:
		privateBits = 2
	}
	if err := br.Skip(privateBits); err != nil {
		return nil, err
	}
	granules := 1
	if mpeg1 {
		granules = 2
		if err := br.Skip(4 * channels); err != nil {
			return nil, err
		}
	}

	info.Granules = make([][]GranuleChannelInfo, granules)
	for gr := range granules {
		info.Granules[gr] = make([]GranuleChannelInfo, channels)
		for ch := range channels {
			gc, err := readGranuleChannel(br, mpeg1)
			if err != nil {
				return nil, fmt.Errorf("granule %d channel %d: %w", gr, ch, err)
			}
			info.Granules[gr][ch] = gc
		}
	}
	return info, nil
}

func readGranuleChannel(br *BitReader, mpeg1 bool) (GranuleChannelInfo, error) {
	var gc GranuleChannelInfo
	var err error
	read := func(n int) uint32 {
		if err != nil {
			return 0
		}
		var v uint32
		v, err = br.ReadBits(n)
		return v
	}

	gc.Part23Length = read(12)
	gc.BigValues = read(9)
	gc.GlobalGain = read(8)
	if mpeg1 {
		gc.ScalefacCompress = read(4)
	} else {
		gc.ScalefacCompress = read(9)
	}
	gc.WindowSwitching = read(1) == 1
	if gc.WindowSwitching {
		gc.BlockType = read(2)
		read(1)  // mixed block flag
		read(10) // 2 table selects
		read(9)  // 3 subblock gains
	} else {
		read(15) // 3 table selects
		read(4)  // region0_count
		read(3)  // region1_count
	}
	if mpeg1 {
		read(1) // preflag
	}
	read(1) // scalefac_scale
	read(1) // count1table_select
	return gc, err
}
