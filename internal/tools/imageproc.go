package tools

import (
	"context"

	"github.com/modelbridge/toolserve/internal/imaging"
	"github.com/modelbridge/toolserve/internal/mcp"
)

// ImageResult wraps a processed image with the action that produced it.
type ImageResult struct {
	Action string `json:"action"`
	imaging.Result
}

// ImageProcessing returns the image manipulation tool descriptor.
func ImageProcessing() mcp.Descriptor {
	return mcp.Descriptor{
		Name:        "imageprocessing",
		Description: "Process an image: resize, convert format, rotate, or apply a filter.",
		Schema: mcp.ToolSchema{
			{Name: "action", Kind: mcp.KindEnum, Required: true,
				AllowedValues: []string{"resize", "convert", "rotate", "filter"},
				Description:   "Processing action to perform"},
			{Name: "source", Kind: mcp.KindString, Required: true,
				Description: "Base64-encoded image payload, data URI, or local file path"},
			{Name: "width", Kind: mcp.KindInteger, Default: 800, Description: "Target width in pixels (resize)"},
			{Name: "height", Kind: mcp.KindInteger, Default: 600, Description: "Target height in pixels (resize)"},
			{Name: "format", Kind: mcp.KindEnum, Default: "png",
				AllowedValues: []string{"jpg", "png", "gif"},
				Description:   "Output format (convert)"},
			{Name: "angle", Kind: mcp.KindFloat, Default: 90.0, Description: "Rotation angle in degrees, counter-clockwise (rotate)"},
			{Name: "filter_name", Kind: mcp.KindEnum, Default: "grayscale",
				AllowedValues: []string{"grayscale", "sepia", "invert", "blur", "sharpen", "edge"},
				Description:   "Filter to apply (filter)"},
		},
		Handler: processImage,
	}
}

func processImage(_ context.Context, args map[string]any) (any, error) {
	action := args["action"].(string)

	img, _, err := imaging.DecodeSource(args["source"].(string))
	if err != nil {
		return nil, mcp.WrapToolError(err, "cannot read image source")
	}

	var res *imaging.Result
	switch action {
	case "resize":
		res, err = imaging.Resize(img, args["width"].(int), args["height"].(int))
	case "convert":
		res, err = imaging.Encode(img, args["format"].(string))
	case "rotate":
		res, err = imaging.Rotate(img, args["angle"].(float64))
	case "filter":
		res, err = imaging.ApplyFilter(img, args["filter_name"].(string))
	}
	if err != nil {
		return nil, mcp.WrapToolError(err, "image processing failed")
	}

	return &ImageResult{Action: action, Result: *res}, nil
}
