package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/chai2010/webp"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	"github.com/RepentanceHeaven/CornerBrand/internal/settings"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrPreviewUnavailable marks a recoverable preview failure (decode or render
// problem). Callers degrade to an open-externally affordance instead of
// propagating it further.
var ErrPreviewUnavailable = errors.New("preview unavailable")

// Composite draws the scaled source raster and then the scaled logo at the
// resolved corner into a fresh preview canvas.
func Composite(src, logo image.Image, pos settings.Position, sizePercent int) (*image.RGBA, error) {
	if src == nil || logo == nil {
		return nil, ErrPreviewUnavailable
	}

	srcBounds := src.Bounds()
	logoBounds := logo.Bounds()
	if srcBounds.Empty() || logoBounds.Empty() {
		return nil, ErrPreviewUnavailable
	}

	p := Geometry(srcBounds.Dx(), srcBounds.Dy(), logoBounds.Dx(), logoBounds.Dy(), pos, sizePercent)

	canvas := image.NewRGBA(image.Rect(0, 0, p.PreviewWidth, p.PreviewHeight))
	draw.CatmullRom.Scale(canvas, canvas.Bounds(), src, srcBounds, draw.Src, nil)

	logoRect := image.Rect(p.OriginX, p.OriginY, p.OriginX+p.LogoWidth, p.OriginY+p.LogoHeight)
	draw.CatmullRom.Scale(canvas, logoRect, logo, logoBounds, draw.Over, nil)

	return canvas, nil
}

// DecodeFile decodes a jpeg, png, or webp raster from disk. Any failure maps
// to ErrPreviewUnavailable so callers can fall back uniformly.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Cannot open preview source")
		return nil, fmt.Errorf("%w: %s", ErrPreviewUnavailable, path)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Cannot decode preview source")
		return nil, fmt.Errorf("%w: %s", ErrPreviewUnavailable, path)
	}
	return img, nil
}

// EncodeWebP encodes a composed preview as WebP, the format preview
// artifacts are stored in.
func EncodeWebP(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	if buf.Len() == 0 {
		return nil, fmt.Errorf("preview encoding produced no data")
	}
	return buf.Bytes(), nil
}
