// Package models contain the API payloads
package models

import (
	"fmt"

	"mp3inspect/mp3parser"
)

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Kind      string `json:"kind,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// InspectResponse is the decoded structure of one uploaded file
type InspectResponse struct {
	Success      bool        `json:"success"`
	RequestID    string      `json:"request_id"`
	SHA256       string      `json:"sha256"`
	Cached       bool        `json:"cached"`
	Tag          *TagInfo    `json:"tag,omitempty"`
	ID3v1        *ID3v1Info  `json:"id3v1,omitempty"`
	AudioOffset  int         `json:"audio_offset"`
	Summary      SummaryInfo `json:"summary"`
	Frames       []FrameInfo `json:"frames"`
	FramesListed int         `json:"frames_listed"`
}

type TagInfo struct {
	Version            string              `json:"version"`
	Flags              uint8               `json:"flags"`
	Size               uint32              `json:"size"`
	MetadataSize       uint32              `json:"metadata_size"`
	ExtendedHeaderSize uint32              `json:"extended_header_size,omitempty"`
	PaddingSize        uint32              `json:"padding_size"`
	Frames             []MetadataFrameInfo `json:"frames"`
}

type MetadataFrameInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Size  uint32 `json:"size"`
	Flags uint16 `json:"flags"`
	Text  string `json:"text,omitempty"`
}

type ID3v1Info struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Album   string `json:"album"`
	Year    string `json:"year"`
	Comment string `json:"comment"`
	Track   int    `json:"track,omitempty"`
	Genre   int    `json:"genre"`
}

type FrameInfo struct {
	Offset        int    `json:"offset"`
	Length        int    `json:"length"`
	Version       string `json:"version"`
	Layer         string `json:"layer"`
	Bitrate       uint32 `json:"bitrate"`
	SampleRate    uint32 `json:"sample_rate"`
	ChannelMode   string `json:"channel_mode"`
	ModeExtension string `json:"mode_extension"`
	HasCRC        bool   `json:"has_crc"`
	HasPadding    bool   `json:"has_padding"`
	IsCopyrighted bool   `json:"is_copyrighted"`
	IsOriginal    bool   `json:"is_original"`
	Emphasis      uint8  `json:"emphasis"`
	Truncated     bool   `json:"truncated,omitempty"`
}

type SummaryInfo struct {
	FrameCount      int     `json:"frame_count"`
	AudioBytes      int     `json:"audio_bytes"`
	DurationSeconds float64 `json:"duration_seconds"`
	AverageBitrate  uint32  `json:"average_bitrate"`
	VBR             bool    `json:"vbr"`
	Version         string  `json:"version,omitempty"`
	Layer           string  `json:"layer,omitempty"`
	SampleRate      uint32  `json:"sample_rate,omitempty"`
	ChannelMode     string  `json:"channel_mode,omitempty"`
}

// CrossCheckResponse compares the structural decode with independent decoders
type CrossCheckResponse struct {
	Success   bool              `json:"success"`
	RequestID string            `json:"request_id"`
	Match     bool              `json:"match"`
	Checks    []CrossCheckField `json:"checks"`
}

type CrossCheckField struct {
	Field    string `json:"field"`
	Parsed   string `json:"parsed"`
	Expected string `json:"expected"`
	Match    bool   `json:"match"`
}

// AudioMetadata represents metadata about decoded PCM audio
type AudioMetadata struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   float64
	TotalBytes int
}

// NewInspectResponse converts a parsed file, listing at most maxFrames frames.
func NewInspectResponse(file *mp3parser.File, maxFrames int) *InspectResponse {
	resp := &InspectResponse{
		Success:     true,
		AudioOffset: file.AudioOffset,
		Summary:     NewSummaryInfo(file.Summary),
	}

	if file.Tag != nil {
		resp.Tag = NewTagInfo(file.Tag)
	}

	if v1 := file.ID3v1; v1 != nil {
		resp.ID3v1 = &ID3v1Info{
			Title:   v1.Title,
			Artist:  v1.Artist,
			Album:   v1.Album,
			Year:    v1.Year,
			Comment: v1.Comment,
			Track:   int(v1.Track),
			Genre:   int(v1.Genre),
		}
	}

	n := min(len(file.Frames), maxFrames)
	resp.Frames = make([]FrameInfo, 0, n)
	for _, f := range file.Frames[:n] {
		resp.Frames = append(resp.Frames, NewFrameInfo(f))
	}
	resp.FramesListed = n

	return resp
}

func NewTagInfo(tag *mp3parser.TagHeader) *TagInfo {
	info := &TagInfo{
		Version:            fmt.Sprintf("2.%d.%d", tag.Version, tag.Revision),
		Flags:              tag.Flags,
		Size:               tag.Size,
		MetadataSize:       tag.MetadataSize,
		ExtendedHeaderSize: tag.ExtendedHeaderSize,
		PaddingSize:        tag.PaddingSize,
		Frames:             make([]MetadataFrameInfo, 0, len(tag.Frames)),
	}
	for _, f := range tag.Frames {
		info.Frames = append(info.Frames, NewMetadataFrameInfo(f))
	}
	return info
}

// NewMetadataFrameInfo decodes the text of text and comment frames. Frames
// whose text cannot be decoded are listed without it.
func NewMetadataFrameInfo(f mp3parser.MetadataFrame) MetadataFrameInfo {
	info := MetadataFrameInfo{
		ID:    string(f.ID),
		Name:  f.ID.Name(),
		Size:  f.Size,
		Flags: f.Flags,
	}
	switch {
	case f.IsText():
		if text, err := f.Text(); err == nil {
			info.Text = text
		}
	case f.ID == mp3parser.FrameComment:
		if _, _, text, err := f.Comment(); err == nil {
			info.Text = text
		}
	}
	return info
}

func NewFrameInfo(f mp3parser.AudioFrame) FrameInfo {
	h := f.Header
	return FrameInfo{
		Offset:        f.Offset,
		Length:        f.Length,
		Version:       h.Version.String(),
		Layer:         h.Layer.String(),
		Bitrate:       h.Bitrate,
		SampleRate:    h.SampleRate,
		ChannelMode:   h.ChannelMode.String(),
		ModeExtension: h.ModeExtension.String(),
		HasCRC:        h.HasCRC,
		HasPadding:    h.HasPadding,
		IsCopyrighted: h.IsCopyrighted,
		IsOriginal:    h.IsOriginal,
		Emphasis:      h.Emphasis,
		Truncated:     f.Truncated,
	}
}

func NewSummaryInfo(s mp3parser.Summary) SummaryInfo {
	info := SummaryInfo{
		FrameCount:      s.FrameCount,
		AudioBytes:      s.AudioBytes,
		DurationSeconds: s.Duration.Seconds(),
		AverageBitrate:  s.AverageBitrate,
		VBR:             s.VBR,
	}
	if s.FrameCount > 0 {
		info.Version = s.Version.String()
		info.Layer = s.Layer.String()
		info.SampleRate = s.SampleRate
		info.ChannelMode = s.ChannelMode.String()
	}
	return info
}
