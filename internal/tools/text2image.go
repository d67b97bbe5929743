package tools

import (
	"context"

	"github.com/modelbridge/toolserve/internal/mcp"
	"github.com/modelbridge/toolserve/internal/textimg"
)

// Text2Image returns the text rendering tool descriptor.
func Text2Image() mcp.Descriptor {
	return mcp.Descriptor{
		Name:        "text2image",
		Description: "Render text content into one or more PNG page images.",
		Schema: mcp.ToolSchema{
			{Name: "content", Kind: mcp.KindString, Required: true, Description: "Text content to render"},
			{Name: "title", Kind: mcp.KindString, Default: "", Description: "Optional title drawn above the content"},
			{Name: "width", Kind: mcp.KindInteger, Default: 800, Description: "Page width in pixels"},
			{Name: "chars_per_line", Kind: mcp.KindInteger, Default: 25, Description: "Characters per wrapped line"},
			{Name: "lines_per_page", Kind: mcp.KindInteger, Default: 25, Description: "Lines per rendered page"},
			{Name: "background", Kind: mcp.KindString, Default: "#FFFFFF", Description: "Background color as hex"},
			{Name: "foreground", Kind: mcp.KindString, Default: "#1A1A1A", Description: "Text color as hex"},
		},
		Handler: renderText,
	}
}

func renderText(_ context.Context, args map[string]any) (any, error) {
	res, err := textimg.Render(textimg.Options{
		Title:        args["title"].(string),
		Content:      args["content"].(string),
		Width:        args["width"].(int),
		CharsPerLine: args["chars_per_line"].(int),
		LinesPerPage: args["lines_per_page"].(int),
		Background:   args["background"].(string),
		Foreground:   args["foreground"].(string),
	})
	if err != nil {
		return nil, mcp.WrapToolError(err, "text rendering failed")
	}
	return res, nil
}
