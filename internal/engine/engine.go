// Package engine defines the boundary to the external stamping engine: the
// request/result/progress wire types, the Engine interface the coordinator
// drives, and a subprocess-backed client. The engine itself is opaque; this
// package never inspects or re-implements its pixel-level work.
package engine

import (
	"context"

	"github.com/RepentanceHeaven/CornerBrand/internal/settings"
)

// Settings is the engine-visible snapshot of stamping parameters. It carries
// the margin in addition to the persisted preferences; margin is an
// engine-side concern and is not part of the persisted Settings record.
type Settings struct {
	Position      settings.Position `json:"position"`
	SizePercent   int               `json:"sizePercent"`
	MarginPercent float64           `json:"marginPercent"`
}

// Margin bounds and default for the engine snapshot.
const (
	MinMarginPercent     = 0.0
	MaxMarginPercent     = 20.0
	DefaultMarginPercent = 2.0
)

// ClampMarginPercent clamps a margin percentage into the engine's accepted range.
func ClampMarginPercent(pct float64) float64 {
	if pct < MinMarginPercent {
		return MinMarginPercent
	}
	if pct > MaxMarginPercent {
		return MaxMarginPercent
	}
	return pct
}

// Request is one batch stamping request. RequestID correlates progress events
// and cancellation with this request; a new request invalidates correlation
// for any prior in-flight one.
type Request struct {
	RequestID         string         `json:"requestId"`
	Paths             []string       `json:"paths"`
	Settings          Settings       `json:"settings"`
	SizePercentByPath map[string]int `json:"sizePercentByPath,omitempty"`
	OutputDir         string         `json:"outputDir,omitempty"`
	LogoPath          string         `json:"logoPath,omitempty"`
}

// FileResult is the engine's verdict for one input path. Only the engine
// produces ok=true results; the orchestration core never synthesizes them.
type FileResult struct {
	InputPath  string `json:"inputPath"`
	OK         bool   `json:"ok"`
	OutputPath string `json:"outputPath,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Progress is an out-of-band advisory event emitted while a request runs.
// The authoritative result list comes only from Stamp's return value.
type Progress struct {
	RequestID string `json:"requestId"`
	Total     int    `json:"total"`
	Done      int    `json:"done"`
	InputPath string `json:"inputPath"`
	OK        bool   `json:"ok"`
}

// Engine is the external stamping backend. Stamp blocks until the batch
// resolves; Cancel signals cooperative cancellation for an in-flight request
// and reports whether the request was known to the engine.
type Engine interface {
	Stamp(ctx context.Context, req Request) ([]FileResult, error)
	Cancel(requestID string) bool
}
