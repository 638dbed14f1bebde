package mp3parser

// Bitrates in kbps for bitrate index 1..14. Index 0 (free) and 15 (bad) have no
// entry.
var (
	bitratesV1L1 = [14]uint32{32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448}
	bitratesV1L2 = [14]uint32{32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384}
	bitratesV1L3 = [14]uint32{32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320}
	bitratesV2L1 = [14]uint32{32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256}
	bitratesV2L2 = [14]uint32{8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160}
)

var sampleRates = map[MPEGVersion][3]uint32{
	MPEG1:  {44100, 48000, 32000},
	MPEG2:  {22050, 24000, 16000},
	MPEG25: {11025, 12000, 8000},
}

func bitrateTable(version MPEGVersion, layer Layer) *[14]uint32 {
	if version == MPEG1 {
		switch layer {
		case Layer1:
			return &bitratesV1L1
		case Layer2:
			return &bitratesV1L2
		default:
			return &bitratesV1L3
		}
	}
	// MPEG-2 and MPEG-2.5 share their tables
	if layer == Layer1 {
		return &bitratesV2L1
	}
	return &bitratesV2L2
}

// Bitrate resolves a 4-bit bitrate index to bits per second. ok is false for the
// free format index (0) and the bad index (15).
func Bitrate(version MPEGVersion, layer Layer, index uint8) (bps uint32, ok bool) {
	if index == 0 || index >= 15 {
		return 0, false
	}
	return bitrateTable(version, layer)[index-1] * 1000, true
}

// SampleRate resolves a 2-bit sample rate index to Hertz.
func SampleRate(version MPEGVersion, index uint8) (uint32, error) {
	rates, ok := sampleRates[version]
	if !ok {
		return 0, newDecodeError(ErrInvalidVersion, 0, uint32(version.Bits()), 2)
	}
	if index > 2 {
		return 0, newDecodeError(ErrInvalidSampleRateIndex, 0, uint32(index), 2)
	}
	return rates[index], nil
}
