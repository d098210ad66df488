// Package preview renders a local approximation of the stamped result so the
// operator can judge settings changes without waiting on the stamping engine.
package preview

import (
	"math"

	"github.com/RepentanceHeaven/CornerBrand/internal/settings"
)

// MaxPreviewDimension caps the preview's longer side to bound rendering cost.
const MaxPreviewDimension = 1600

// Placement is the resolved geometry for one composite: the downscaled
// preview canvas, the scaled logo size, and the corner origin.
type Placement struct {
	PreviewWidth  int
	PreviewHeight int
	LogoWidth     int
	LogoHeight    int
	OriginX       int
	OriginY       int
}

// Geometry computes the placement for a source raster of srcW x srcH and a
// logo of logoW x logoH. The source's longer side is clamped to
// MaxPreviewDimension; the logo's longer side targets sizePercent of the
// preview's shorter side, floored at one pixel per axis; the corner origin is
// clamped so it is never negative even when the logo exceeds the canvas.
func Geometry(srcW, srcH, logoW, logoH int, pos settings.Position, sizePercent int) Placement {
	scale := 1.0
	if longer := max(srcW, srcH); longer > MaxPreviewDimension {
		scale = float64(MaxPreviewDimension) / float64(longer)
	}

	previewW := max(1, int(math.Round(float64(srcW)*scale)))
	previewH := max(1, int(math.Round(float64(srcH)*scale)))

	shortSide := min(previewW, previewH)
	targetMax := math.Round(float64(shortSide) * float64(sizePercent) / 100)

	logoScale := targetMax / float64(max(logoW, logoH))
	scaledLogoW := max(1, int(math.Round(float64(logoW)*logoScale)))
	scaledLogoH := max(1, int(math.Round(float64(logoH)*logoScale)))

	var originX, originY int
	switch pos {
	case settings.PositionTopLeft:
		originX, originY = 0, 0
	case settings.PositionTopRight:
		originX, originY = previewW-scaledLogoW, 0
	case settings.PositionBottomLeft:
		originX, originY = 0, previewH-scaledLogoH
	default: // bottom-right
		originX, originY = previewW-scaledLogoW, previewH-scaledLogoH
	}

	return Placement{
		PreviewWidth:  previewW,
		PreviewHeight: previewH,
		LogoWidth:     scaledLogoW,
		LogoHeight:    scaledLogoH,
		OriginX:       max(0, originX),
		OriginY:       max(0, originY),
	}
}
