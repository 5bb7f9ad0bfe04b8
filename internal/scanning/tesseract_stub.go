//go:build !tesseract

package scanning

import (
	"context"
	"errors"
)

// ErrTesseractUnavailable is returned when the binary was built without the tesseract tag
var ErrTesseractUnavailable = errors.New("tesseract support not compiled in; rebuild with -tags tesseract")

// Tesseract is a placeholder used when Tesseract support is not compiled in
type Tesseract struct{}

// NewTesseract always fails without the tesseract build tag
func NewTesseract(dataPath string) (*Tesseract, error) {
	return nil, ErrTesseractUnavailable
}

// Recognize always fails without the tesseract build tag
func (t *Tesseract) Recognize(ctx context.Context, img Image) (string, error) {
	return "", ErrTesseractUnavailable
}

// Close is a no-op
func (t *Tesseract) Close() error {
	return nil
}
