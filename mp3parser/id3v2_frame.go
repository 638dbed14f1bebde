package mp3parser

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	MetadataFrameHeaderSize = 10
	supportedTagVersion     = 3
)

// FrameID is the four character identifier of an ID3v2 sub-frame. Identifiers
// outside the known set are kept verbatim.
type FrameID string

const (
	FrameTitle       FrameID = "TIT2"
	FrameArtist      FrameID = "TPE1"
	FrameAlbum       FrameID = "TALB"
	FrameYear        FrameID = "TYER"
	FrameComment     FrameID = "COMM"
	FrameTrackNumber FrameID = "TRCK"
	FrameGenre       FrameID = "TCON"
	FrameTxxx        FrameID = "TXXX"
)

var frameNames = map[FrameID]string{
	FrameTitle:       "Title",
	FrameArtist:      "Artist",
	FrameAlbum:       "Album",
	FrameYear:        "Year",
	FrameComment:     "Comment",
	FrameTrackNumber: "TrackNumber",
	FrameGenre:       "Genre",
	FrameTxxx:        "Txxx",
}

func FrameIDFromBytes(b []byte) FrameID {
	return FrameID(b)
}

// Known reports whether id is one of the named identifiers; everything else
// is a custom frame.
func (id FrameID) Known() bool {
	_, ok := frameNames[id]
	return ok
}

// Name is the symbolic name of a known identifier, "Custom" otherwise.
func (id FrameID) Name() string {
	if name, ok := frameNames[id]; ok {
		return name
	}
	return "Custom"
}

func (id FrameID) Bytes() []byte {
	return []byte(id)
}

// MetadataFrame is one ID3v2 sub-frame. Data aliases the tag buffer.
type MetadataFrame struct {
	ID       FrameID
	DataSize uint32
	Size     uint32 // DataSize plus the 10 byte sub-frame header
	Flags    uint16
	Data     []byte
}

// ParseMetadataFrame decodes the sub-frame at the start of b. Only ID3v2.3
// size fields are understood: a plain big-endian uint32, unlike the synchsafe
// size of the enclosing tag header.
func ParseMetadataFrame(b []byte, version byte) (MetadataFrame, error) {
	if len(b) < MetadataFrameHeaderSize {
		return MetadataFrame{}, &DecodeError{
			Kind:   ErrTruncatedFrameHeader,
			Detail: fmt.Sprintf("need %d bytes, have %d", MetadataFrameHeaderSize, len(b)),
		}
	}

	id := FrameIDFromBytes(b[:4])

	if version != supportedTagVersion {
		return MetadataFrame{}, &DecodeError{
			Kind:   ErrUnsupportedTagVersion,
			Raw:    uint32(version),
			Width:  8,
			Detail: "only ID3v2.3 frames are supported",
		}
	}

	dataSize := binary.BigEndian.Uint32(b[4:8])
	size := uint64(dataSize) + MetadataFrameHeaderSize
	if size > uint64(len(b)) {
		return MetadataFrame{}, &DecodeError{
			Kind:   ErrFrameOverrunsBuffer,
			Raw:    dataSize,
			Detail: fmt.Sprintf("frame %q needs %d bytes, %d left", string(id), size, len(b)),
		}
	}

	return MetadataFrame{
		ID:       id,
		DataSize: dataSize,
		Size:     uint32(size),
		Flags:    binary.BigEndian.Uint16(b[8:10]),
		Data:     b[MetadataFrameHeaderSize:size:size],
	}, nil
}

// IsText reports whether the frame is a T*** text information frame.
func (f MetadataFrame) IsText() bool {
	return strings.HasPrefix(string(f.ID), "T")
}

// Text decodes a text information frame. TXXX frames return "description=value".
func (f MetadataFrame) Text() (string, error) {
	if !f.IsText() {
		return "", fmt.Errorf("frame %s is not a text frame", f.ID)
	}
	if len(f.Data) == 0 {
		return "", nil
	}
	enc := f.Data[0]
	if f.ID == FrameTxxx {
		desc, value, err := splitTerminated(enc, f.Data[1:])
		if err != nil {
			return "", err
		}
		d, err := decodeText(enc, desc)
		if err != nil {
			return "", err
		}
		v, err := decodeText(enc, value)
		if err != nil {
			return "", err
		}
		return d + "=" + v, nil
	}
	return decodeText(enc, f.Data[1:])
}

// Comment decodes a COMM frame into its language, short description and text.
func (f MetadataFrame) Comment() (lang, desc, text string, err error) {
	if f.ID != FrameComment {
		return "", "", "", fmt.Errorf("frame %s is not a comment frame", f.ID)
	}
	if len(f.Data) < 4 {
		return "", "", "", fmt.Errorf("comment frame too short: %d bytes", len(f.Data))
	}
	enc := f.Data[0]
	lang = string(f.Data[1:4])
	rawDesc, rawText, err := splitTerminated(enc, f.Data[4:])
	if err != nil {
		return "", "", "", err
	}
	if desc, err = decodeText(enc, rawDesc); err != nil {
		return "", "", "", err
	}
	if text, err = decodeText(enc, rawText); err != nil {
		return "", "", "", err
	}
	return lang, desc, text, nil
}

func textDecoder(enc byte) (*encoding.Decoder, error) {
	switch enc {
	case 0:
		return charmap.ISO8859_1.NewDecoder(), nil
	case 1:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(), nil
	case 2:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), nil
	case 3:
		return unicode.UTF8.NewDecoder(), nil
	}
	return nil, fmt.Errorf("unknown text encoding 0x%02X", enc)
}

func decodeText(enc byte, b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	dec, err := textDecoder(enc)
	if err != nil {
		return "", err
	}
	out, err := dec.Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return strings.TrimRight(string(out), "\x00"), nil
}

// splitTerminated cuts b at the first string terminator for the encoding: one
// NUL byte for single byte encodings, an aligned NUL pair for UTF-16.
func splitTerminated(enc byte, b []byte) (head, tail []byte, err error) {
	if enc == 1 || enc == 2 {
		for i := 0; i+1 < len(b); i += 2 {
			if b[i] == 0 && b[i+1] == 0 {
				return b[:i], b[i+2:], nil
			}
		}
		return nil, nil, fmt.Errorf("missing UTF-16 terminator")
	}
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return nil, nil, fmt.Errorf("missing string terminator")
	}
	return b[:i], b[i+1:], nil
}
