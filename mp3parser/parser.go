package mp3parser

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Parser holds the decoding options. The zero value is not usable; build one
// with NewParser.
type Parser struct {
	log *logrus.Entry
}

type Option func(*Parser)

// WithLogger routes decode tracing to entry. Tracing is discarded by default.
func WithLogger(entry *logrus.Entry) Option {
	return func(p *Parser) {
		if entry != nil {
			p.log = entry
		}
	}
}

func NewParser(opts ...Option) *Parser {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Parser{log: logrus.NewEntry(discard)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// File is a fully decoded MP3 buffer.
type File struct {
	Tag         *TagHeader // nil when the buffer has no ID3v2 tag
	AudioOffset int
	ID3v1       *ID3v1Tag // nil when there is no trailer
	Frames      []AudioFrame
	Summary     Summary
}

type Summary struct {
	FrameCount     int
	AudioBytes     int
	Duration       time.Duration
	AverageBitrate uint32 // bits per second
	VBR            bool
	Version        MPEGVersion
	Layer          Layer
	SampleRate     uint32
	ChannelMode    ChannelMode
}

// ParseFile decodes the ID3v2 tag (if any), skips an ID3v1 trailer (if any) and
// walks every audio frame in between. Frame offsets are relative to buf.
func (p *Parser) ParseFile(buf []byte) (*File, error) {
	file := &File{}

	tag, err := p.ParseTag(buf)
	switch {
	case err == nil:
		file.Tag = tag
		file.AudioOffset = int(tag.Size)
	case errors.Is(err, ErrMissingTagMarker):
		p.log.Debug("no ID3v2 tag, audio starts at offset 0")
	default:
		return nil, fmt.Errorf("failed to parse ID3v2 tag: %w", err)
	}

	end := len(buf)
	if v1, ok := ParseID3v1(buf[file.AudioOffset:]); ok {
		file.ID3v1 = v1
		end -= ID3v1Size
	}

	frames, err := p.WalkFrames(buf[file.AudioOffset:end])
	if err != nil {
		return nil, fmt.Errorf("failed to walk audio frames: %w", withOffset(err, file.AudioOffset))
	}
	for i := range frames {
		frames[i].Offset += file.AudioOffset
	}
	file.Frames = frames
	file.Summary = Summarize(frames)

	p.log.WithFields(logrus.Fields{
		"frames":   file.Summary.FrameCount,
		"duration": file.Summary.Duration.String(),
		"vbr":      file.Summary.VBR,
	}).Info("parsed MP3 file")

	return file, nil
}

// ParseFile decodes buf with the default parser.
func ParseFile(buf []byte) (*File, error) {
	return defaultParser.ParseFile(buf)
}

// Summarize aggregates per-frame values over frames.
func Summarize(frames []AudioFrame) Summary {
	var s Summary
	if len(frames) == 0 {
		return s
	}

	first := frames[0].Header
	s.Version = first.Version
	s.Layer = first.Layer
	s.SampleRate = first.SampleRate
	s.ChannelMode = first.ChannelMode
	s.FrameCount = len(frames)

	var seconds float64
	var bitrateSum uint64
	for _, f := range frames {
		seconds += f.Header.DurationSeconds()
		bitrateSum += uint64(f.Header.Bitrate)
		s.AudioBytes += FrameHeaderSize + len(f.Data)
		if f.Header.Bitrate != first.Bitrate {
			s.VBR = true
		}
	}
	s.Duration = time.Duration(seconds * float64(time.Second))
	s.AverageBitrate = uint32(bitrateSum / uint64(len(frames)))
	return s
}
