package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"strings"
)

// DecodeSource decodes an image from a tool argument. The source may be:
//
//   - a data URI ("data:image/png;base64,....")
//   - a raw base64 payload
//   - a path to a local image file
//
// It returns the decoded image and the detected format name ("png",
// "jpeg", "gif").
func DecodeSource(source string) (image.Image, string, error) {
	if source == "" {
		return nil, "", fmt.Errorf("empty image source")
	}

	if strings.HasPrefix(source, "data:") {
		idx := strings.Index(source, "base64,")
		if idx < 0 {
			return nil, "", fmt.Errorf("data URI is not base64-encoded")
		}
		return decodeBase64(source[idx+len("base64,"):])
	}

	// A payload that decodes as base64 into a known image format wins over
	// path interpretation; real paths rarely form valid base64 image data.
	if img, format, err := decodeBase64(source); err == nil {
		return img, format, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

func decodeBase64(payload string) (image.Image, string, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, "", fmt.Errorf("invalid base64 payload: %w", err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image data: %w", err)
	}
	return img, format, nil
}
