// Package receipt turns receipt photos and voice transcripts into pre-filled
// transaction drafts.
package receipt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zombor/expense-tracker/internal/extraction"
	"github.com/zombor/expense-tracker/internal/scanning"
)

var (
	// ErrInvalidImage is returned when the uploaded payload is not usable image data
	ErrInvalidImage = scanning.ErrInvalidImage
	// ErrOCRUnavailable is returned when the OCR capability fails or reads no text
	ErrOCRUnavailable = errors.New("could not read receipt")
	// ErrEmptyTranscript is returned when dictation produced no words
	ErrEmptyTranscript = errors.New("empty transcript")
)

// Scan is the outcome of a successful receipt extraction
type Scan struct {
	Text   string            `json:"extracted_text"`
	Fields extraction.Fields `json:"details"`
}

// Draft is a partially filled transaction produced from voice dictation
type Draft struct {
	Description string `json:"description"`
}

// Service extracts transaction fields from receipt images
type Service struct {
	recognizer scanning.Recognizer
	language   string
}

// NewService creates a new Service using recognizer for OCR. language is the
// OCR language code; empty means scanning.DefaultLanguage.
func NewService(recognizer scanning.Recognizer, language string) *Service {
	if language == "" {
		language = scanning.DefaultLanguage
	}
	return &Service{
		recognizer: recognizer,
		language:   language,
	}
}

// Extract decodes a base64 image, or a data URL carrying one, and extracts
// transaction fields from the text found on it.
func (s *Service) Extract(ctx context.Context, encoded string) (*Scan, error) {
	img, err := scanning.DecodeImage(encoded)
	if err != nil {
		return nil, err
	}
	return s.ExtractImage(ctx, img.Data, img.ContentType)
}

// ExtractImage runs OCR over raw image bytes and extracts transaction fields.
// The extractors only run once real text has been recognized.
func (s *Service) ExtractImage(ctx context.Context, data []byte, contentType string) (*Scan, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no image data provided", ErrInvalidImage)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	text, err := s.recognizer.Recognize(ctx, scanning.Image{
		Data:        data,
		ContentType: contentType,
		Language:    s.language,
	})
	if err != nil {
		slog.Error("Failed to recognize receipt text",
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("%w: %w", ErrOCRUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: %w", ErrOCRUnavailable, scanning.ErrNoText)
	}

	fields := extraction.Extract(text)
	slog.Debug("Extracted receipt fields",
		"lines", len(extraction.SplitLines(text)),
		"amount", fields.Amount,
		"description", fields.Description,
	)

	return &Scan{Text: text, Fields: fields}, nil
}

// Dictate builds a draft from a speech-to-text transcript
func (s *Service) Dictate(transcript string) (*Draft, error) {
	transcript = strings.Join(strings.Fields(transcript), " ")
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}
	return &Draft{Description: transcript}, nil
}
