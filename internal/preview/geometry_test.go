package preview

import (
	"testing"

	"github.com/RepentanceHeaven/CornerBrand/internal/settings"
)

func TestGeometryCorners(t *testing.T) {
	// 1000x500 source, square logo, 10% of the 500px short side -> 50px logo.
	tests := []struct {
		name  string
		pos   settings.Position
		wantX int
		wantY int
	}{
		{"Top left", settings.PositionTopLeft, 0, 0},
		{"Top right", settings.PositionTopRight, 950, 0},
		{"Bottom left", settings.PositionBottomLeft, 0, 450},
		{"Bottom right", settings.PositionBottomRight, 950, 450},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Geometry(1000, 500, 200, 200, tt.pos, 10)
			if p.LogoWidth != 50 || p.LogoHeight != 50 {
				t.Fatalf("logo = %dx%d, want 50x50", p.LogoWidth, p.LogoHeight)
			}
			if p.OriginX != tt.wantX || p.OriginY != tt.wantY {
				t.Errorf("origin = (%d,%d), want (%d,%d)", p.OriginX, p.OriginY, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestGeometryClampsLongSide(t *testing.T) {
	p := Geometry(3200, 1600, 100, 100, settings.PositionBottomRight, 10)
	if p.PreviewWidth != MaxPreviewDimension {
		t.Errorf("preview width = %d, want %d", p.PreviewWidth, MaxPreviewDimension)
	}
	if p.PreviewHeight != 800 {
		t.Errorf("preview height = %d, want 800 (aspect preserved)", p.PreviewHeight)
	}
}

func TestGeometryNeverUpscalesSource(t *testing.T) {
	p := Geometry(320, 240, 100, 100, settings.PositionTopLeft, 10)
	if p.PreviewWidth != 320 || p.PreviewHeight != 240 {
		t.Errorf("preview = %dx%d, small sources must keep their size", p.PreviewWidth, p.PreviewHeight)
	}
}

func TestGeometryNonSquareLogoScalesByLongerSide(t *testing.T) {
	// Logo 400x100 targeting 50px max dimension -> 50x13.
	p := Geometry(1000, 500, 400, 100, settings.PositionBottomRight, 10)
	if p.LogoWidth != 50 {
		t.Errorf("logo width = %d, want 50", p.LogoWidth)
	}
	if p.LogoHeight != 13 {
		t.Errorf("logo height = %d, want 13", p.LogoHeight)
	}
}

func TestGeometryOriginNeverNegative(t *testing.T) {
	// 300% of a 40px short side asks for a 120px logo on a 40x40 canvas.
	p := Geometry(40, 40, 100, 100, settings.PositionBottomRight, 300)
	if p.LogoWidth <= p.PreviewWidth {
		t.Fatalf("test premise broken: logo %d not larger than canvas %d", p.LogoWidth, p.PreviewWidth)
	}
	if p.OriginX != 0 || p.OriginY != 0 {
		t.Errorf("origin = (%d,%d), want (0,0) when the logo exceeds the canvas", p.OriginX, p.OriginY)
	}
}

func TestGeometryLogoFlooredAtOnePixel(t *testing.T) {
	p := Geometry(100, 100, 1000, 10, settings.PositionTopLeft, 1)
	if p.LogoWidth < 1 || p.LogoHeight < 1 {
		t.Errorf("logo = %dx%d, each axis must be at least one pixel", p.LogoWidth, p.LogoHeight)
	}
}
