package intake

import (
	"os"
	"time"

	"github.com/evanoberholster/imagemeta"
	"github.com/rs/zerolog/log"
)

// ImageMeta carries display metadata for an accepted image input. All fields
// are optional; absence of metadata never blocks intake.
type ImageMeta struct {
	Width   int
	Height  int
	TakenAt time.Time
}

// EnrichMetadata populates f.Meta for image inputs using the imagemeta
// library. It is best-effort: extraction failures are logged at debug level
// and leave the record unchanged. PDF inputs are ignored.
func EnrichMetadata(f *InputFile) {
	if f == nil || f.Kind != KindImage {
		return
	}

	file, err := os.Open(f.Path)
	if err != nil {
		log.Debug().Err(err).Str("path", f.Path).Msg("Cannot open file for metadata")
		return
	}
	defer file.Close()

	exifData, err := imagemeta.Decode(file)
	if err != nil {
		log.Debug().Err(err).Str("path", f.Path).Msg("No extractable image metadata")
		return
	}

	meta := &ImageMeta{
		Width:  int(exifData.ImageWidth),
		Height: int(exifData.ImageHeight),
	}
	if !exifData.DateTimeOriginal().IsZero() {
		meta.TakenAt = exifData.DateTimeOriginal()
	}

	f.Meta = meta

	log.Debug().
		Str("path", f.Path).
		Int("width", meta.Width).
		Int("height", meta.Height).
		Msg("Image metadata extracted")
}
