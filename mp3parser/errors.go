package mp3parser

import (
	"errors"
	"fmt"
)

// Decode error kinds. Match them with errors.Is.
var (
	ErrInvalidSyncWord        = errors.New("invalid sync word")
	ErrInvalidVersion         = errors.New("invalid MPEG version")
	ErrInvalidLayer           = errors.New("invalid layer")
	ErrInvalidSampleRateIndex = errors.New("invalid sample rate index")
	ErrInvalidChannelMode     = errors.New("invalid channel mode")
	ErrInvalidModeExtension   = errors.New("invalid mode extension")
	ErrMissingBitrate         = errors.New("missing bitrate")
	ErrInvalidFrameLength     = errors.New("invalid frame length")
	ErrMissingTagMarker       = errors.New("missing ID3 tag marker")
	ErrUnsupportedTagVersion  = errors.New("unsupported tag version")
	ErrTruncatedFrameHeader   = errors.New("truncated frame header")
	ErrFrameOverrunsBuffer    = errors.New("frame overruns buffer")
)

// DecodeError carries the failing kind together with where it happened and the
// raw value that was rejected.
type DecodeError struct {
	Kind   error
	Offset int
	Raw    uint32
	Width  int // number of significant bits in Raw, 0 when Raw is not meaningful
	Detail string
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
	if e.Width > 0 {
		msg += fmt.Sprintf(": got %0*b", e.Width, e.Raw)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func newDecodeError(kind error, offset int, raw uint32, width int) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Raw: raw, Width: width}
}

// withOffset shifts the offset of a DecodeError by base so errors raised while
// decoding a sub-slice point into the caller's buffer.
func withOffset(err error, base int) error {
	var de *DecodeError
	if errors.As(err, &de) {
		shifted := *de
		shifted.Offset += base
		return &shifted
	}
	return err
}

// KindName returns a stable identifier for the decode error kind wrapped by err,
// or "unknown" when err is not a decode error.
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrInvalidSyncWord):
		return "invalid_sync_word"
	case errors.Is(err, ErrInvalidVersion):
		return "invalid_version"
	case errors.Is(err, ErrInvalidLayer):
		return "invalid_layer"
	case errors.Is(err, ErrInvalidSampleRateIndex):
		return "invalid_sample_rate_index"
	case errors.Is(err, ErrInvalidChannelMode):
		return "invalid_channel_mode"
	case errors.Is(err, ErrInvalidModeExtension):
		return "invalid_mode_extension"
	case errors.Is(err, ErrMissingBitrate):
		return "missing_bitrate"
	case errors.Is(err, ErrInvalidFrameLength):
		return "invalid_frame_length"
	case errors.Is(err, ErrMissingTagMarker):
		return "missing_tag_marker"
	case errors.Is(err, ErrUnsupportedTagVersion):
		return "unsupported_tag_version"
	case errors.Is(err, ErrTruncatedFrameHeader):
		return "truncated_frame_header"
	case errors.Is(err, ErrFrameOverrunsBuffer):
		return "frame_overruns_buffer"
	}
	return "unknown"
}
