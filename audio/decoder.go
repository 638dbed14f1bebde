// Package audio cross-checks the structural decode against real decoders and
// renders frame excerpts as WAV.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/bogem/id3v2"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
	"github.com/tosone/minimp3"

	"mp3inspect/models"
	"mp3inspect/mp3parser"
)

const BitDepth = 16

var ErrInvalidRange = errors.New("invalid frame range")

type AudioDecoder struct {
	log *logrus.Entry
}

func NewAudioDecoder(log *logrus.Entry) *AudioDecoder {
	return &AudioDecoder{log: log}
}

// DecodeMP3 decodes mp3Data to interleaved little-endian 16-bit PCM.
func (ad *AudioDecoder) DecodeMP3(mp3Data []byte) ([]byte, *models.AudioMetadata, error) {
	decoder, data, err := minimp3.DecodeFull(mp3Data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode MP3: %w", err)
	}
	defer decoder.Close()

	if decoder.Channels == 0 || decoder.SampleRate == 0 {
		return nil, nil, fmt.Errorf("failed to decode MP3: no audio frames recognised")
	}

	totalBytes := len(data)
	samplesPerChannel := totalBytes / 2 / decoder.Channels // 2 bytes per 16-bit sample
	duration := float64(samplesPerChannel) / float64(decoder.SampleRate)

	metadata := &models.AudioMetadata{
		SampleRate: decoder.SampleRate,
		Channels:   decoder.Channels,
		BitDepth:   BitDepth,
		Duration:   duration,
		TotalBytes: totalBytes,
	}

	return data, metadata, nil
}

func (ad *AudioDecoder) EncodePCMToWAV(pcmData []byte, metadata *models.AudioMetadata) ([]byte, error) {
	if len(pcmData)%2 != 0 {
		return nil, fmt.Errorf("PCM data length must be even for 16-bit samples")
	}

	sampleCount := len(pcmData) / 2
	samples := make([]int, sampleCount)
	for i := range sampleCount {
		samples[i] = int(int16(binary.LittleEndian.Uint16(pcmData[i*2:])))
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: metadata.Channels,
			SampleRate:  metadata.SampleRate,
		},
		Data:           samples,
		SourceBitDepth: metadata.BitDepth,
	}

	// wav.NewEncoder needs an io.WriteSeeker
	tempFile, err := os.CreateTemp("", "excerpt_*.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())
	defer tempFile.Close()

	encoder := wav.NewEncoder(tempFile, metadata.SampleRate, metadata.BitDepth, metadata.Channels, 1)

	if err := encoder.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode WAV: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to close WAV encoder: %w", err)
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind WAV file: %w", err)
	}
	wavData, err := io.ReadAll(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV data: %w", err)
	}

	return wavData, nil
}

// ExcerptRange returns the byte span of buf covered by frames
// [start, start+count).
func ExcerptRange(frames []mp3parser.AudioFrame, start, count int) (int, int, error) {
	if start < 0 || count <= 0 || start >= len(frames) {
		return 0, 0, fmt.Errorf("%w: start %d count %d, file has %d frames", ErrInvalidRange, start, count, len(frames))
	}
	last := min(start+count, len(frames)) - 1
	lo := frames[start].Offset
	hi := frames[last].Offset + mp3parser.FrameHeaderSize + len(frames[last].Data)
	return lo, hi, nil
}

// Excerpt decodes frames [start, start+count) of the parsed file and returns
// them as a 16-bit WAV file.
func (ad *AudioDecoder) Excerpt(file *mp3parser.File, buf []byte, start, count int) ([]byte, *models.AudioMetadata, error) {
	lo, hi, err := ExcerptRange(file.Frames, start, count)
	if err != nil {
		return nil, nil, err
	}

	pcm, metadata, err := ad.DecodeMP3(buf[lo:hi])
	if err != nil {
		return nil, nil, err
	}

	wavData, err := ad.EncodePCMToWAV(pcm, metadata)
	if err != nil {
		return nil, nil, err
	}

	ad.log.WithFields(logrus.Fields{
		"start":    start,
		"count":    count,
		"bytes":    hi - lo,
		"duration": metadata.Duration,
	}).Debug("Rendered WAV excerpt")

	return wavData, metadata, nil
}

// CrossCheck decodes buf with minimp3 and bogem/id3v2 and compares what they
// report with the structural decode in file.
func (ad *AudioDecoder) CrossCheck(file *mp3parser.File, buf []byte) ([]models.CrossCheckField, error) {
	var checks []models.CrossCheckField

	if file.Summary.FrameCount > 0 {
		audioEnd := file.Frames[len(file.Frames)-1]
		_, metadata, err := ad.DecodeMP3(buf[file.AudioOffset : audioEnd.Offset+mp3parser.FrameHeaderSize+len(audioEnd.Data)])
		if err != nil {
			return nil, err
		}
		checks = append(checks, CompareStream(file.Summary, metadata)...)
	}

	if file.Tag != nil {
		tagChecks, err := CompareTag(file.Tag, buf)
		if err != nil {
			ad.log.WithError(err).Warn("Could not parse tag with id3v2 library")
		} else {
			checks = append(checks, tagChecks...)
		}
	}

	return checks, nil
}

// CompareStream checks the stream parameters of the first frame against the
// decoder output.
func CompareStream(summary mp3parser.Summary, metadata *models.AudioMetadata) []models.CrossCheckField {
	return []models.CrossCheckField{
		compareField("sample_rate", strconv.FormatUint(uint64(summary.SampleRate), 10), strconv.Itoa(metadata.SampleRate)),
		compareField("channels", strconv.Itoa(summary.ChannelMode.Channels()), strconv.Itoa(metadata.Channels)),
	}
}

// CompareTag reads the tag at the start of buf with bogem/id3v2 and compares
// title, artist and album with the decoded sub-frames.
func CompareTag(tag *mp3parser.TagHeader, buf []byte) ([]models.CrossCheckField, error) {
	ref, err := id3v2.ParseReader(bytes.NewReader(buf[:tag.Size]), id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("failed to parse tag: %w", err)
	}
	defer ref.Close()

	fields := []struct {
		name string
		id   mp3parser.FrameID
		want string
	}{
		{"title", mp3parser.FrameTitle, ref.Title()},
		{"artist", mp3parser.FrameArtist, ref.Artist()},
		{"album", mp3parser.FrameAlbum, ref.Album()},
	}

	checks := make([]models.CrossCheckField, 0, len(fields))
	for _, f := range fields {
		var parsed string
		if frame, ok := tag.Frame(f.id); ok {
			if parsed, err = frame.Text(); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", f.id, err)
			}
		}
		checks = append(checks, compareField(f.name, parsed, f.want))
	}
	return checks, nil
}

func compareField(name, parsed, expected string) models.CrossCheckField {
	return models.CrossCheckField{
		Field:    name,
		Parsed:   parsed,
		Expected: expected,
		Match:    parsed == expected,
	}
}
