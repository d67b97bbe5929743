package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Result contains a processed image encoded as base64 together with its
// dimensions and MIME type.
type Result struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Filter names accepted by ApplyFilter.
const (
	FilterGrayscale = "grayscale"
	FilterSepia     = "sepia"
	FilterInvert    = "invert"
	FilterBlur      = "blur"
	FilterSharpen   = "sharpen"
	FilterEdge      = "edge"
)

// Resize scales an image to the given dimensions using Lanczos resampling
// and returns it as base64 PNG.
func Resize(img image.Image, width, height int) (*Result, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	return Encode(resized, "png")
}

// Rotate rotates an image counter-clockwise by the given angle in degrees.
// Regions uncovered by the rotated image are filled with transparent black.
func Rotate(img image.Image, angle float64) (*Result, error) {
	rotated := imaging.Rotate(img, angle, color.NRGBA{0, 0, 0, 0})
	return Encode(rotated, "png")
}

// ApplyFilter runs a named pixel filter over the image and returns the
// filtered image as base64 PNG.
func ApplyFilter(img image.Image, name string) (*Result, error) {
	var filtered image.Image
	switch name {
	case FilterGrayscale:
		filtered = effect.Grayscale(img)
	case FilterSepia:
		filtered = effect.Sepia(img)
	case FilterInvert:
		filtered = effect.Invert(img)
	case FilterBlur:
		filtered = blur.Gaussian(img, 3.0)
	case FilterSharpen:
		filtered = effect.Sharpen(img)
	case FilterEdge:
		filtered = effect.EdgeDetection(img, 1.0)
	default:
		return nil, fmt.Errorf("unknown filter: %s", name)
	}
	return Encode(filtered, "png")
}

// Encode serializes an image in the requested output format ("png", "jpg",
// "jpeg", "gif") and wraps it as a base64 Result.
func Encode(img image.Image, format string) (*Result, error) {
	var buf bytes.Buffer
	var mime string

	switch format {
	case "png":
		mime = "image/png"
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
	case "jpg", "jpeg":
		mime = "image/jpeg"
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("failed to encode jpeg: %w", err)
		}
	case "gif":
		mime = "image/gif"
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("failed to encode gif: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}

	bounds := img.Bounds()
	return &Result{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    mime,
	}, nil
}
