package mp3parser

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// AudioFrame is one MPEG audio frame located inside the walked buffer. Data is
// a sub-slice of that buffer, so the buffer must stay alive and unmodified for
// as long as the frame is used.
type AudioFrame struct {
	Header    FrameHeader
	Offset    int  // position of the header in the walked buffer
	Length    int  // total frame length in bytes, header included
	Data      []byte
	Truncated bool // the buffer ended before Length bytes were available
}

// ParseAudioFrame decodes the frame whose header starts at buf[offset].
func ParseAudioFrame(buf []byte, offset int) (AudioFrame, error) {
	if offset < 0 || offset > len(buf) {
		return AudioFrame{}, &DecodeError{Kind: ErrFrameOverrunsBuffer, Offset: offset}
	}

	header, err := ParseFrameHeaderBytes(buf[offset:])
	if err != nil {
		return AudioFrame{}, withOffset(err, offset)
	}

	length, err := header.FrameLength()
	if err != nil {
		return AudioFrame{}, withOffset(err, offset)
	}
	if err := checkFrameLength(length, offset); err != nil {
		return AudioFrame{}, err
	}

	end := offset + length
	truncated := false
	if end > len(buf) {
		end = len(buf)
		truncated = true
	}

	return AudioFrame{
		Header:    header,
		Offset:    offset,
		Length:    length,
		Data:      buf[offset+FrameHeaderSize : end : end],
		Truncated: truncated,
	}, nil
}

// WalkFrames decodes consecutive frames from the start of buf until the end of
// the buffer. The first failing frame aborts the walk.
func (p *Parser) WalkFrames(buf []byte) ([]AudioFrame, error) {
	var frames []AudioFrame
	offset := 0

	for offset < len(buf) {
		frame, err := ParseAudioFrame(buf, offset)
		if err != nil {
			p.log.WithFields(logrus.Fields{
				"offset": offset,
				"frames": len(frames),
			}).WithError(err).Debug("audio frame walk aborted")
			return nil, err
		}

		frames = append(frames, frame)
		offset += frame.Length
	}

	p.log.WithFields(logrus.Fields{
		"frames": len(frames),
		"bytes":  len(buf),
	}).Debug("audio frame walk finished")

	return frames, nil
}

// WalkFrames walks buf with the default parser.
func WalkFrames(buf []byte) ([]AudioFrame, error) {
	return defaultParser.WalkFrames(buf)
}

func (f AudioFrame) String() string {
	return fmt.Sprintf("AudioFrame{offset: %d, length: %d, %s %s, %d bps, %d Hz, %s}",
		f.Offset, f.Length, f.Header.Version, f.Header.Layer,
		f.Header.Bitrate, f.Header.SampleRate, f.Header.ChannelMode)
}

// checkFrameLength rejects lengths that would not move the walk past the
// header. The bitrate and sample rate tables never produce one (the shortest
// frame is 64 bytes); the guard keeps WalkFrames terminating regardless.
func checkFrameLength(length, offset int) error {
	if length <= FrameHeaderSize {
		return &DecodeError{
			Kind:   ErrInvalidFrameLength,
			Offset: offset,
			Raw:    uint32(length),
			Detail: fmt.Sprintf("%d bytes", length),
		}
	}
	return nil
}
