package mp3parser

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

const ID3v1Size = 128

// ID3v1Tag is the fixed 128 byte trailer some files carry after the last
// audio frame.
type ID3v1Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Track   byte // 0 when the comment uses all 30 bytes (ID3v1.0)
	Genre   byte
}

// ParseID3v1 looks for an ID3v1 trailer in the last 128 bytes of buf.
func ParseID3v1(buf []byte) (*ID3v1Tag, bool) {
	if len(buf) < ID3v1Size {
		return nil, false
	}
	b := buf[len(buf)-ID3v1Size:]
	if string(b[:3]) != "TAG" {
		return nil, false
	}

	tag := &ID3v1Tag{
		Title:   trimField(b[3:33]),
		Artist:  trimField(b[33:63]),
		Album:   trimField(b[63:93]),
		Year:    trimField(b[93:97]),
		Comment: trimField(b[97:127]),
		Genre:   b[127],
	}
	// ID3v1.1 stores the track in the last comment byte behind a zero byte
	if b[125] == 0 && b[126] != 0 {
		tag.Comment = trimField(b[97:125])
		tag.Track = b[126]
	}
	return tag, true
}

func trimField(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		s = b
	}
	return strings.TrimRight(string(s), " ")
}
