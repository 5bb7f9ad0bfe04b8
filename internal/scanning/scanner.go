package scanning

import (
	"context"
	"errors"
)

// DefaultLanguage is the OCR language used when an Image does not set one
const DefaultLanguage = "eng"

// ErrNoText is returned when a recognizer completes but finds no text
var ErrNoText = errors.New("no text recognized")

// Image is a receipt image handed to a Recognizer
type Image struct {
	Data        []byte
	ContentType string
	Language    string
}

// Recognizer turns an image into the raw text printed on it
type Recognizer interface {
	// Recognize returns the text found in the image. An error means the
	// OCR capability failed, not that the text was unhelpful.
	Recognize(ctx context.Context, img Image) (string, error)
	// Close releases resources held by the recognizer
	Close() error
}

func language(img Image) string {
	if img.Language == "" {
		return DefaultLanguage
	}
	return img.Language
}
