package preview

import (
	"image"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/RepentanceHeaven/CornerBrand/internal/settings"
)

// Result is one finished recompute. Err is ErrPreviewUnavailable (wrapped)
// when the preview could not be produced; Image is nil in that case.
type Result struct {
	Seq   uint64
	Image *image.RGBA
	Err   error
}

// Renderer serializes preview recomputation with last-writer-wins semantics.
// Every recompute gets a monotonically increasing sequence number; only the
// result matching the latest sequence is committed, so a slow composite that
// finishes after a newer request is silently discarded. This counter is the
// only concurrency control the preview needs.
type Renderer struct {
	seq    atomic.Uint64
	mu     sync.Mutex
	commit func(Result)
}

// NewRenderer creates a Renderer that delivers committed results to commit.
// The callback runs with the renderer's internal lock held, so consecutive
// commits are ordered.
func NewRenderer(commit func(Result)) *Renderer {
	return &Renderer{commit: commit}
}

// Render recomputes the preview for a source and logo file asynchronously.
// Decode failures surface through the committed Result, never as a panic.
func (r *Renderer) Render(srcPath, logoPath string, pos settings.Position, sizePercent int) {
	seq := r.begin()

	go func() {
		src, err := DecodeFile(srcPath)
		if err != nil {
			r.finish(seq, Result{Seq: seq, Err: err})
			return
		}

		logo, err := DecodeFile(logoPath)
		if err != nil {
			r.finish(seq, Result{Seq: seq, Err: err})
			return
		}

		img, err := Composite(src, logo, pos, sizePercent)
		r.finish(seq, Result{Seq: seq, Image: img, Err: err})
	}()
}

// begin allocates the next sequence number and marks it as the latest.
func (r *Renderer) begin() uint64 {
	return r.seq.Add(1)
}

// finish commits a result if it still matches the latest sequence. Returns
// false when the result was superseded and discarded.
func (r *Renderer) finish(seq uint64, res Result) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if seq != r.seq.Load() {
		log.Debug().
			Uint64("seq", seq).
			Uint64("latest", r.seq.Load()).
			Msg("Discarding superseded preview result")
		return false
	}

	if r.commit != nil {
		r.commit(res)
	}
	return true
}
