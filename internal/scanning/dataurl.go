package scanning

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrInvalidImage is returned when an encoded payload is not usable image data
var ErrInvalidImage = errors.New("invalid image data")

// DecodeImage accepts plain base64 or a data URL ("data:image/jpeg;base64,...").
// The content type comes from the data URL when present and is sniffed otherwise.
func DecodeImage(encoded string) (Image, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return Image{}, fmt.Errorf("%w: no image data provided", ErrInvalidImage)
	}

	var contentType string
	if rest, ok := strings.CutPrefix(encoded, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return Image{}, fmt.Errorf("%w: malformed data URL", ErrInvalidImage)
		}
		mediaType, _, _ := strings.Cut(header, ";")
		contentType = strings.ToLower(strings.TrimSpace(mediaType))
		encoded = payload
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		// Some clients strip padding
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(encoded, "="))
		if err != nil {
			return Image{}, fmt.Errorf("%w: %w", ErrInvalidImage, err)
		}
	}
	if len(data) == 0 {
		return Image{}, fmt.Errorf("%w: no image data provided", ErrInvalidImage)
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return Image{Data: data, ContentType: contentType}, nil
}

// Extension returns a file extension for the image's content type
func Extension(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/heic":
		return ".heic"
	case "image/heif":
		return ".heif"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
