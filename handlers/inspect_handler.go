// Package handlers is made to handle inspection requests
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"mp3inspect/audio"
	"mp3inspect/cache"
	"mp3inspect/config"
	"mp3inspect/metrics"
	"mp3inspect/models"
	"mp3inspect/mp3parser"
)

const (
	audioFileField = "audio_file"
	// multipart framing on top of the file itself
	formOverheadBytes = 1 << 20
)

// ResultCache stores inspection responses by content hash.
type ResultCache interface {
	Get(ctx context.Context, key string) (*models.InspectResponse, bool, error)
	Set(ctx context.Context, key string, resp *models.InspectResponse) error
}

type InspectHandler struct {
	audioDecoder     *audio.AudioDecoder
	cache            ResultCache
	log              *logrus.Entry
	maxUploadBytes   int64
	maxFrames        int
	maxExcerptFrames int
}

// NewInspectHandler builds the handler. resultCache may be nil.
func NewInspectHandler(cfg *config.Config, log *logrus.Entry, resultCache ResultCache) *InspectHandler {
	return &InspectHandler{
		audioDecoder:     audio.NewAudioDecoder(log),
		cache:            resultCache,
		log:              log,
		maxUploadBytes:   cfg.Server.MaxUploadBytes,
		maxFrames:        cfg.Inspect.MaxFrames,
		maxExcerptFrames: cfg.Inspect.MaxExcerptFrames,
	}
}

func (h *InspectHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "MP3 inspection API is running",
		"version": "1.0.0",
		"cache":   h.cache != nil,
	})
}

// Inspect decodes the uploaded file and returns its structure as JSON.
func (h *InspectHandler) Inspect(c *gin.Context) {
	requestID := RequestIDFrom(c)
	log := h.requestLogger(c)

	data, ok := h.readUpload(c)
	if !ok {
		return
	}
	key := cache.Key(data)

	if h.cache != nil {
		cached, hit, err := h.cache.Get(c.Request.Context(), key)
		switch {
		case err != nil:
			log.WithError(err).Warn("Cache lookup failed")
		case hit:
			metrics.RecordCacheHit()
			cached.RequestID = requestID
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		default:
			metrics.RecordCacheMiss()
		}
	}

	file, ok := h.parse(c, data)
	if !ok {
		return
	}

	resp := models.NewInspectResponse(file, h.maxFrames)
	resp.SHA256 = key

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), key, resp); err != nil {
			log.WithError(err).Warn("Failed to cache inspection result")
		}
	}

	resp.RequestID = requestID
	c.JSON(http.StatusOK, resp)
}

// CrossCheck compares the structural decode with minimp3 and id3v2.
func (h *InspectHandler) CrossCheck(c *gin.Context) {
	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	file, ok := h.parse(c, data)
	if !ok {
		return
	}

	checks, err := h.audioDecoder.CrossCheck(file, data)
	if err != nil {
		h.fail(c, http.StatusUnprocessableEntity, fmt.Sprintf("Failed to cross-check file: %v", err), "")
		return
	}

	match := true
	for _, check := range checks {
		match = match && check.Match
	}

	c.JSON(http.StatusOK, models.CrossCheckResponse{
		Success:   true,
		RequestID: RequestIDFrom(c),
		Match:     match,
		Checks:    checks,
	})
}

// Excerpt returns frames [start, start+count) decoded to WAV.
func (h *InspectHandler) Excerpt(c *gin.Context) {
	start, err := strconv.Atoi(c.DefaultQuery("start", "0"))
	if err != nil || start < 0 {
		h.fail(c, http.StatusBadRequest, "start must be a non-negative integer", "")
		return
	}

	count, err := strconv.Atoi(c.DefaultQuery("count", "10"))
	if err != nil || count < 1 || count > h.maxExcerptFrames {
		h.fail(c, http.StatusBadRequest, fmt.Sprintf("count must be between 1 and %d", h.maxExcerptFrames), "")
		return
	}

	data, ok := h.readUpload(c)
	if !ok {
		return
	}

	file, ok := h.parse(c, data)
	if !ok {
		return
	}

	wavData, metadata, err := h.audioDecoder.Excerpt(file, data, start, count)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, audio.ErrInvalidRange) {
			status = http.StatusBadRequest
		}
		h.fail(c, status, fmt.Sprintf("Failed to render excerpt: %v", err), "")
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=excerpt_%d_%d.wav", start, count))
	c.Header("X-Excerpt-Duration", strconv.FormatFloat(metadata.Duration, 'f', 3, 64))
	c.Header("X-Excerpt-Sample-Rate", strconv.Itoa(metadata.SampleRate))

	c.Data(http.StatusOK, "audio/wav", wavData)
}

// readUpload reads the multipart audio file, writing the error response itself
// when it returns false.
func (h *InspectHandler) readUpload(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+formOverheadBytes)

	audioFile, audioHeader, err := c.Request.FormFile(audioFileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", h.maxUploadBytes), "")
			return nil, false
		}
		h.fail(c, http.StatusBadRequest, "Audio file is required", "")
		return nil, false
	}
	defer audioFile.Close()

	if !isValidMP3File(audioHeader.Filename) {
		h.fail(c, http.StatusBadRequest, "Invalid audio file format. Only MP3 files are supported", "")
		return nil, false
	}

	if audioHeader.Size > h.maxUploadBytes {
		h.fail(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("Upload exceeds %d bytes", h.maxUploadBytes), "")
		return nil, false
	}

	data, err := io.ReadAll(audioFile)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, fmt.Sprintf("Failed to read audio file: %v", err), "")
		return nil, false
	}

	return data, true
}

// parse decodes data, writing a 422 with the decode error kind on failure.
func (h *InspectHandler) parse(c *gin.Context, data []byte) (*mp3parser.File, bool) {
	log := h.requestLogger(c)
	parser := mp3parser.NewParser(mp3parser.WithLogger(log))

	started := time.Now()
	file, err := parser.ParseFile(data)
	if err != nil {
		kind := mp3parser.KindName(err)
		metrics.RecordDecodeError(kind)
		log.WithFields(logrus.Fields{
			"kind":  kind,
			"bytes": len(data),
		}).WithError(err).Warn("Failed to decode upload")
		h.fail(c, http.StatusUnprocessableEntity, fmt.Sprintf("Failed to decode MP3 file: %v", err), kind)
		return nil, false
	}

	tagFrames := 0
	if file.Tag != nil {
		tagFrames = len(file.Tag.Frames)
	}
	metrics.RecordInspection(len(file.Frames), tagFrames, time.Since(started).Seconds())

	return file, true
}

func (h *InspectHandler) fail(c *gin.Context, status int, message, kind string) {
	c.JSON(status, models.ErrorResponse{
		Success:   false,
		Message:   message,
		Kind:      kind,
		RequestID: RequestIDFrom(c),
	})
}

func (h *InspectHandler) requestLogger(c *gin.Context) *logrus.Entry {
	return h.log.WithField("request_id", RequestIDFrom(c))
}

func isValidMP3File(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".mp3"
}
