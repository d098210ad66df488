// Package settings holds the persisted stamping preferences and the sanitizer
// that every raw settings record must pass through before use.
//
// The persisted record has gone through two schema generations. Early builds
// clamped sizePercent to [1,50] and carried update-check scheduling fields;
// the current schema widens the clamp to [1,300] and drops the update-check
// fields entirely. Sanitize migrates both generations forward: legacy records
// load cleanly because unknown fields are dropped and out-of-range values are
// clamped, never rejected.
package settings

import (
	"encoding/json"
	"math"
	"strconv"
)

// Position is a corner placement anchor for the logo overlay.
type Position string

// The four accepted corner positions. Any other persisted value falls back
// to DefaultPosition during sanitization.
const (
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

// DefaultPosition is used when the persisted position is missing or unrecognized.
const DefaultPosition = PositionBottomRight

// Bounds and defaults for the logo size, expressed as a percentage of the
// shorter side of the target raster.
const (
	MinSizePercent     = 1
	MaxSizePercent     = 300
	DefaultSizePercent = 30
)

// Legacy size presets from the retired three-valued selector. A record that
// carries a preset instead of a numeric sizePercent migrates to the preset's
// equivalent percentage.
var legacyPresetPercent = map[string]int{
	"small":  8,
	"medium": 12,
	"large":  16,
}

// Settings is a fully sanitized preferences record. Values are always within
// bounds; construct one through Sanitize or Default, never by hand from
// untrusted input.
type Settings struct {
	Position    Position `json:"position"`
	SizePercent int      `json:"sizePercent"`
}

// Default returns the settings used when nothing valid has been persisted.
func Default() Settings {
	return Settings{
		Position:    DefaultPosition,
		SizePercent: DefaultSizePercent,
	}
}

// Sanitize converts an arbitrary decoded settings record into a valid
// Settings value. It is total: any input, including nil, yields a usable
// result. Unrecognized fields are dropped, invalid positions fall back to
// the default corner, and sizePercent is rounded and clamped into
// [MinSizePercent, MaxSizePercent] with legacy preset migration as the
// fallback for missing or non-finite values.
func Sanitize(raw map[string]any) Settings {
	out := Default()

	if pos, ok := raw["position"].(string); ok {
		switch Position(pos) {
		case PositionTopLeft, PositionTopRight, PositionBottomLeft, PositionBottomRight:
			out.Position = Position(pos)
		}
	}

	if n, ok := finiteNumber(raw["sizePercent"]); ok {
		out.SizePercent = ClampSizePercent(int(math.Round(n)))
	} else if preset, ok := raw["sizePreset"].(string); ok {
		if pct, ok := legacyPresetPercent[preset]; ok {
			out.SizePercent = pct
		}
	}

	return out
}

// ClampSizePercent clamps a size percentage into the valid range. Per-path
// overrides pass through this as well, so an oversized override behaves the
// same as an oversized global setting.
func ClampSizePercent(pct int) int {
	if pct < MinSizePercent {
		return MinSizePercent
	}
	if pct > MaxSizePercent {
		return MaxSizePercent
	}
	return pct
}

// finiteNumber extracts a finite float64 from the loosely typed values a
// JSON decode can produce. NaN and infinities are treated as absent so the
// preset fallback applies.
func finiteNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case json.Number:
		parsed, err := strconv.ParseFloat(t.String(), 64)
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}

	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
