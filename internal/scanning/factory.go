package scanning

import (
	"fmt"
	"time"
)

// Config selects and configures a Recognizer. Credentials are passed in by
// the caller; nothing here reads the environment.
type Config struct {
	Provider string

	OCRSpaceURL string
	OCRSpaceKey string

	GeminiKey   string
	GeminiModel string

	OllamaURL   string
	OllamaModel string

	TessdataPath string

	Timeout time.Duration
}

// Providers lists the recognizer names understood by New
var Providers = []string{"ocrspace", "gemini", "ollama", "tesseract"}

// New builds the Recognizer named by cfg.Provider
func New(cfg Config) (Recognizer, error) {
	var (
		r   Recognizer
		err error
	)
	switch cfg.Provider {
	case "", "ocrspace":
		r, err = asRecognizer(NewOCRSpace(cfg.OCRSpaceURL, cfg.OCRSpaceKey, cfg.Timeout))
	case "gemini":
		r, err = asRecognizer(NewGemini(cfg.GeminiKey, cfg.GeminiModel))
	case "ollama":
		r, err = asRecognizer(NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.Timeout))
	case "tesseract":
		r, err = asRecognizer(NewTesseract(cfg.TessdataPath))
	default:
		return nil, fmt.Errorf("unknown ocr provider %q (valid: %v)", cfg.Provider, Providers)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// asRecognizer keeps a failed constructor's typed nil pointer out of the interface
func asRecognizer(r Recognizer, err error) (Recognizer, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}
