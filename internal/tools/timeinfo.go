package tools

import (
	"context"
	"time"

	"github.com/modelbridge/toolserve/internal/mcp"
)

// TimeBreakdown is the structured payload returned for format "full".
type TimeBreakdown struct {
	ISO       string `json:"iso"`
	Timestamp int64  `json:"timestamp"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	Day       int    `json:"day"`
	Hour      int    `json:"hour"`
	Minute    int    `json:"minute"`
	Second    int    `json:"second"`
	Weekday   string `json:"weekday"`
}

// Overridable clock for tests.
var timeNow = time.Now

// Time returns the current-time tool descriptor.
func Time() mcp.Descriptor {
	return mcp.Descriptor{
		Name:        "time",
		Description: "Report the current time in a chosen format.",
		Schema: mcp.ToolSchema{
			{Name: "format", Kind: mcp.KindEnum, Default: "iso",
				AllowedValues: []string{"iso", "human", "timestamp", "full"},
				Description:   "Output format"},
		},
		Handler: currentTime,
	}
}

func currentTime(_ context.Context, args map[string]any) (any, error) {
	now := timeNow()

	switch args["format"].(string) {
	case "human":
		return now.Format("2006-01-02 15:04:05"), nil
	case "timestamp":
		return now.Unix(), nil
	case "full":
		return &TimeBreakdown{
			ISO:       now.Format(time.RFC3339),
			Timestamp: now.Unix(),
			Year:      now.Year(),
			Month:     int(now.Month()),
			Day:       now.Day(),
			Hour:      now.Hour(),
			Minute:    now.Minute(),
			Second:    now.Second(),
			Weekday:   now.Weekday().String(),
		}, nil
	default: // "iso"
		return now.Format(time.RFC3339), nil
	}
}
