package scanning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultOCRSpaceURL is the public OCR.space parse endpoint
const DefaultOCRSpaceURL = "https://api.ocr.space/parse/image"

// OCRSpace implements the Recognizer interface using the OCR.space API
type OCRSpace struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewOCRSpace creates a new OCR.space Recognizer instance
func NewOCRSpace(endpoint string, apiKey string, timeout time.Duration) (*OCRSpace, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ocr.space api key is required")
	}
	if endpoint == "" {
		endpoint = DefaultOCRSpaceURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &OCRSpace{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type ocrSpaceResponse struct {
	ParsedResults []struct {
		ParsedText        string          `json:"ParsedText"`
		FileParseExitCode int             `json:"FileParseExitCode"`
		ErrorMessage      json.RawMessage `json:"ErrorMessage"`
	} `json:"ParsedResults"`
	OCRExitCode           int             `json:"OCRExitCode"`
	IsErroredOnProcessing bool            `json:"IsErroredOnProcessing"`
	ErrorMessage          json.RawMessage `json:"ErrorMessage"`
}

// Recognize uploads the image to OCR.space and returns the parsed text of the first result
func (o *OCRSpace) Recognize(ctx context.Context, img Image) (string, error) {
	prepared, _, err := prepareImageData(img)
	if err != nil {
		return "", err
	}

	body, contentType, err := o.encodeForm(prepared, language(img))
	if err != nil {
		return "", fmt.Errorf("encoding form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ocr.space API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ocr.space API error (status %d): %s", resp.StatusCode, string(msg))
	}

	var result ocrSpaceResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	if result.IsErroredOnProcessing {
		return "", fmt.Errorf("ocr.space processing failed: %s", errorMessage(result.ErrorMessage))
	}
	if len(result.ParsedResults) == 0 {
		return "", ErrNoText
	}

	text := strings.TrimSpace(result.ParsedResults[0].ParsedText)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

func (o *OCRSpace) encodeForm(img Image, lang string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"apikey", o.apiKey},
		{"language", lang},
		{"isOverlayRequired", "false"},
		{"filetype", "PNG"},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	part, err := w.CreateFormFile("file", "receipt.png")
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// errorMessage flattens OCR.space's ErrorMessage, which is either a string or a list of strings
func errorMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "unknown error"
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return strings.Join(list, "; ")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single
	}
	return "unknown error"
}

// Close is a no-op for the HTTP client
func (o *OCRSpace) Close() error {
	return nil
}
