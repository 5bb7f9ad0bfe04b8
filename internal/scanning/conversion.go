package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// transcriptionPrompt is shared by the LLM-backed recognizers
const transcriptionPrompt = `You are an OCR engine. Transcribe all text printed on this receipt exactly as it appears.

Rules:
- Keep the original line breaks, one printed line per output line
- Keep prices, currency symbols and punctuation exactly as printed
- Do not summarize, translate, correct or reorder anything
- Do not add commentary, headings or markdown code blocks
- If there is no readable text, return an empty response`

// renderPDF rasterizes the first page of a PDF; receipts are almost always a single page
func renderPDF(data []byte) (image.Image, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	img, err := doc.Image(0)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF page: %w", err)
	}
	return img, nil
}

// decodeImage decodes JPEG, PNG, GIF and HEIC/HEIF data
func decodeImage(data []byte, mimeType string) (image.Image, error) {
	// Go's image package has no HEIC support; iPhones upload HEIC by default
	if isHEICFormat(data) || isHEICMimeType(mimeType) {
		img, err := heic.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
		return img, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if msg := err.Error(); strings.Contains(msg, "unknown format") || strings.Contains(msg, "unsupported") {
			return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF. Error: %w", err)
		}
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// isHEICFormat checks for an ftyp box with a HEIC-family brand at offset 4
func isHEICFormat(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// prepareImageData normalizes an image to PNG so every recognizer sees the same input.
// PNG input is passed through untouched. The returned bool reports whether a conversion happened.
func prepareImageData(img Image) (Image, bool, error) {
	mimeType := strings.ToLower(strings.TrimSpace(img.ContentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	if mimeType == "image/png" && !isHEICFormat(img.Data) {
		img.ContentType = mimeType
		return img, false, nil
	}

	var (
		decoded image.Image
		err     error
	)
	if mimeType == "application/pdf" {
		decoded, err = renderPDF(img.Data)
		if err != nil {
			return Image{}, false, fmt.Errorf("converting PDF to image: %w", err)
		}
	} else {
		decoded, err = decodeImage(img.Data, mimeType)
		if err != nil {
			return Image{}, false, fmt.Errorf("converting image to PNG: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, decoded); err != nil {
		return Image{}, false, fmt.Errorf("encoding PNG: %w", err)
	}

	return Image{Data: buf.Bytes(), ContentType: "image/png", Language: img.Language}, true, nil
}

// cleanTranscription strips the markdown fences LLMs tend to wrap around plain text
func cleanTranscription(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if nl := strings.IndexByte(text, '\n'); nl != -1 {
			text = text[nl+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}
