package mp3parser

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	TagHeaderSize = 10

	flagUnsynchronisation = 0x80
	flagExtendedHeader    = 0x40
	flagExperimental      = 0x20
)

var tagMarker = []byte("ID3")

// TagHeader is a decoded ID3v2 tag: the 10 byte header plus its sub-frames in
// stream order.
type TagHeader struct {
	Version  byte // major version, 3 for ID3v2.3
	Revision byte
	Flags    byte

	// MetadataSize excludes the 10 byte tag header.
	MetadataSize uint32
	// Size is MetadataSize plus the tag header, i.e. the offset of the audio.
	Size uint32

	ExtendedHeaderSize uint32
	PaddingSize        uint32

	Frames []MetadataFrame
}

func (t *TagHeader) HasExtendedHeader() bool {
	return t.Flags&flagExtendedHeader != 0
}

func (t *TagHeader) Unsynchronised() bool {
	return t.Flags&flagUnsynchronisation != 0
}

func (t *TagHeader) Experimental() bool {
	return t.Flags&flagExperimental != 0
}

// Frame returns the first sub-frame with the given id.
func (t *TagHeader) Frame(id FrameID) (MetadataFrame, bool) {
	for _, f := range t.Frames {
		if f.ID == id {
			return f, true
		}
	}
	return MetadataFrame{}, false
}

// HasTagMarker reports whether buf starts with an ID3v2 tag header.
func HasTagMarker(buf []byte) bool {
	return len(buf) >= TagHeaderSize && bytes.Equal(buf[:3], tagMarker)
}

// synchsafeSize joins four 7-bit groups into a 28-bit integer. The top bit of
// each byte is reserved and ignored.
func synchsafeSize(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// ParseTag decodes the ID3v2 tag at the start of buf. ErrMissingTagMarker means
// the buffer carries no tag, which callers usually treat as "tag absent".
func (p *Parser) ParseTag(buf []byte) (*TagHeader, error) {
	if !HasTagMarker(buf) {
		var raw uint32
		n := min(len(buf), 3)
		for _, b := range buf[:n] {
			raw = raw<<8 | uint32(b)
		}
		return nil, newDecodeError(ErrMissingTagMarker, 0, raw, n*8)
	}

	tag := &TagHeader{
		Version:      buf[3],
		Revision:     buf[4],
		Flags:        buf[5],
		MetadataSize: synchsafeSize(buf[6:10]),
	}
	tag.Size = tag.MetadataSize + TagHeaderSize

	log := p.log.WithFields(logrus.Fields{
		"version": fmt.Sprintf("2.%d.%d", tag.Version, tag.Revision),
		"size":    tag.Size,
	})

	if uint64(tag.Size) > uint64(len(buf)) {
		return nil, &DecodeError{
			Kind:   ErrFrameOverrunsBuffer,
			Offset: 6,
			Raw:    tag.Size,
			Detail: fmt.Sprintf("tag declares %d bytes, buffer has %d", tag.Size, len(buf)),
		}
	}

	body := buf[TagHeaderSize:tag.Size]
	start := 0

	if tag.HasExtendedHeader() {
		// ID3v2.3 layout: 4 byte size that does not count itself
		if len(body) < 4 {
			return nil, &DecodeError{Kind: ErrTruncatedFrameHeader, Offset: TagHeaderSize, Detail: "extended header"}
		}
		extSize := uint64(binary.BigEndian.Uint32(body[:4])) + 4
		if extSize > uint64(len(body)) {
			return nil, &DecodeError{
				Kind:   ErrFrameOverrunsBuffer,
				Offset: TagHeaderSize,
				Raw:    uint32(extSize - 4),
				Detail: "extended header",
			}
		}
		tag.ExtendedHeaderSize = uint32(extSize)
		start = int(extSize)
		log.WithField("extended_header_size", extSize).Debug("skipping extended header")
	}

	frames, padding, err := p.parseMetadataFrames(body[start:], tag.Version)
	if err != nil {
		return nil, withOffset(err, TagHeaderSize+start)
	}
	tag.Frames = frames
	tag.PaddingSize = padding

	log.WithFields(logrus.Fields{
		"frames":  len(frames),
		"padding": padding,
	}).Debug("parsed ID3v2 tag")

	return tag, nil
}

// ParseTag decodes the tag at the start of buf with the default parser.
func ParseTag(buf []byte) (*TagHeader, error) {
	return defaultParser.ParseTag(buf)
}

// parseMetadataFrames decodes sub-frames until the end of body. A zero byte
// where a frame id should start marks the padding that fills the rest of the
// tag; its length is returned. Any other version than 2.3 fails at the first
// sub-frame position, padding included.
func (p *Parser) parseMetadataFrames(body []byte, version byte) ([]MetadataFrame, uint32, error) {
	if len(body) > 0 && version != supportedTagVersion {
		return nil, 0, newDecodeError(ErrUnsupportedTagVersion, 0, uint32(version), 8)
	}

	var frames []MetadataFrame
	offset := 0

	for offset < len(body) {
		if body[offset] == 0 {
			return frames, uint32(len(body) - offset), nil
		}

		frame, err := ParseMetadataFrame(body[offset:], version)
		if err != nil {
			return nil, 0, withOffset(err, offset)
		}
		p.log.WithFields(logrus.Fields{
			"id":   string(frame.ID),
			"size": frame.Size,
		}).Trace("metadata frame")

		frames = append(frames, frame)
		offset += int(frame.Size)
	}

	return frames, 0, nil
}
