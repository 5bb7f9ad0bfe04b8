//go:build tesseract

package scanning

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract implements the Recognizer interface using a local Tesseract install
type Tesseract struct {
	dataPath string
}

// NewTesseract creates a new Tesseract Recognizer instance. dataPath may be
// empty to use the TESSDATA_PREFIX Tesseract was built with.
func NewTesseract(dataPath string) (*Tesseract, error) {
	return &Tesseract{dataPath: dataPath}, nil
}

// Recognize runs Tesseract over the image. ctx is only checked before starting;
// gosseract calls cannot be interrupted.
func (t *Tesseract) Recognize(ctx context.Context, img Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prepared, _, err := prepareImageData(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.dataPath != "" {
		client.SetTessdataPrefix(t.dataPath)
	}
	if err := client.SetLanguage(language(img)); err != nil {
		return "", fmt.Errorf("setting language: %w", err)
	}
	if err := client.SetImageFromBytes(prepared.Data); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("extracting text: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

// Close is a no-op; a gosseract client is created per call
func (t *Tesseract) Close() error {
	return nil
}
