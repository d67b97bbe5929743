// Package textimg renders text content into paginated PNG images for the
// text2image tool. Long content is wrapped to a fixed number of characters
// per line and split across pages, mirroring printed-page layout.
package textimg

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	margin     = 24
	lineHeight = 16
	titleGap   = 12
)

// Options controls one render. Zero-valued fields are rejected by Render;
// the tool layer fills them from schema defaults.
type Options struct {
	Title        string
	Content      string
	Width        int
	CharsPerLine int
	LinesPerPage int
	Background   string // hex color, e.g. "#FFFFFF"
	Foreground   string // hex color, e.g. "#1A1A1A"
}

// Page is a single rendered page image.
type Page struct {
	Page        int    `json:"page"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Result is the outcome of one render: a generated identifier plus the
// rendered pages in order.
type Result struct {
	ID         string `json:"id"`
	PageCount  int    `json:"page_count"`
	TotalLines int    `json:"total_lines"`
	Pages      []Page `json:"pages"`
}

// Render wraps content into lines, splits the lines into pages, and draws
// each page as a PNG image.
func Render(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.Content) == "" {
		return nil, fmt.Errorf("empty content")
	}
	if opts.Width <= 0 {
		return nil, fmt.Errorf("invalid width %d", opts.Width)
	}
	if opts.CharsPerLine <= 0 || opts.LinesPerPage <= 0 {
		return nil, fmt.Errorf("invalid page geometry %dx%d", opts.CharsPerLine, opts.LinesPerPage)
	}

	bg, err := colorful.Hex(opts.Background)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %w", opts.Background, err)
	}
	fg, err := colorful.Hex(opts.Foreground)
	if err != nil {
		return nil, fmt.Errorf("invalid foreground color %q: %w", opts.Foreground, err)
	}

	lines := WrapLines(opts.Content, opts.CharsPerLine)
	pages := paginate(lines, opts.LinesPerPage)

	result := &Result{
		ID:         uuid.NewString(),
		PageCount:  len(pages),
		TotalLines: len(lines),
		Pages:      make([]Page, 0, len(pages)),
	}

	for i, pageLines := range pages {
		img, err := drawPage(opts, pageLines, i+1, len(pages), bg, fg)
		if err != nil {
			return nil, err
		}
		result.Pages = append(result.Pages, *img)
	}
	return result, nil
}

// WrapLines splits content on existing newlines and wraps each line to at
// most charsPerLine runes. Wrapping is rune-based so wide scripts count one
// glyph per cell.
func WrapLines(content string, charsPerLine int) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		runes := []rune(line)
		if len(runes) == 0 {
			out = append(out, "")
			continue
		}
		for start := 0; start < len(runes); start += charsPerLine {
			end := start + charsPerLine
			if end > len(runes) {
				end = len(runes)
			}
			out = append(out, string(runes[start:end]))
		}
	}
	return out
}

func paginate(lines []string, linesPerPage int) [][]string {
	var pages [][]string
	for start := 0; start < len(lines); start += linesPerPage {
		end := start + linesPerPage
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	if len(pages) == 0 {
		pages = [][]string{{}}
	}
	return pages
}

func drawPage(opts Options, lines []string, pageNum, pageCount int, bg, fg colorful.Color) (*Page, error) {
	height := margin*2 + opts.LinesPerPage*lineHeight + lineHeight // footer row
	if opts.Title != "" {
		height += lineHeight + titleGap
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	y := margin + lineHeight
	if opts.Title != "" {
		drawText(img, margin, y, opts.Title, fg)
		y += lineHeight + titleGap
	}

	for _, line := range lines {
		drawText(img, margin, y, line, fg)
		y += lineHeight
	}

	// Muted footer derived from the page colors.
	footerColor := fg.BlendLab(bg, 0.5)
	footer := fmt.Sprintf("%d / %d", pageNum, pageCount)
	drawText(img, opts.Width-margin-len(footer)*basicfont.Face7x13.Advance, height-margin/2, footer, footerColor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode page %d: %w", pageNum, err)
	}

	return &Page{
		Page:        pageNum,
		Width:       opts.Width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// drawText draws one line of text at the given baseline position.
func drawText(img *image.RGBA, x, y int, text string, col colorful.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
