// Package batch coordinates one stamping run at a time against the external
// engine: request issuance, progress correlation, cooperative cancellation,
// and reconciliation of results into the per-path result map.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/RepentanceHeaven/CornerBrand/internal/engine"
	"github.com/RepentanceHeaven/CornerBrand/internal/eventbus"
	"github.com/RepentanceHeaven/CornerBrand/internal/intake"
	"github.com/RepentanceHeaven/CornerBrand/internal/pathpolicy"
	"github.com/RepentanceHeaven/CornerBrand/internal/settings"
)

var (
	// ErrNoFiles rejects a run with an empty path list.
	ErrNoFiles = errors.New("no input files")
	// ErrRunActive rejects a run while another one is in flight.
	ErrRunActive = errors.New("a batch run is already active")
)

// Progress is the display-oriented progress update handed to the UI callback.
// It is advisory only; the authoritative outcome is Run's return value.
type Progress struct {
	RequestID string
	Total     int
	Done      int
	FileName  string
	OK        bool
}

// Coordinator owns the single-active-run guard and the merged per-path
// result map. All mutating access goes through its mutex; the engine and the
// progress channel only ever see copies.
type Coordinator struct {
	engine     engine.Engine
	onProgress func(Progress)

	mu              sync.Mutex
	logoPath        string
	activeRequestID string
	results         map[string]engine.FileResult
	resultOrder     []string
}

// New creates a Coordinator and registers its progress listener on the bus.
// Listener registration is best-effort: on failure the run still works, just
// without live progress.
func New(eng engine.Engine, bus *eventbus.Bus, onProgress func(Progress)) *Coordinator {
	c := &Coordinator{
		engine:     eng,
		onProgress: onProgress,
		results:    make(map[string]engine.FileResult),
	}

	if bus != nil {
		if !bus.Subscribe(eventbus.TopicProgress, c.handleProgress) {
			log.Warn().Msg("Live batch progress unavailable")
		}
	}

	return c
}

// SetLogoPath sets an explicit logo file for subsequent runs. When empty,
// the engine falls back to its bundled default logo.
func (c *Coordinator) SetLogoPath(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logoPath = path
}

// Run issues one batch stamping request and blocks until it resolves. On
// success the returned results are merged into the coordinator's result map
// (overwriting earlier results for the same paths) and batch reports are
// written. On failure the run's results are discarded entirely. The active
// guard is always released, whatever the outcome.
func (c *Coordinator) Run(ctx context.Context, paths []string, st settings.Settings, overrides map[string]int, outputDir string) ([]engine.FileResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	requestID := uuid.NewString()

	c.mu.Lock()
	if c.activeRequestID != "" {
		c.mu.Unlock()
		return nil, ErrRunActive
	}
	c.activeRequestID = requestID
	logoPath := c.logoPath
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.activeRequestID = ""
		c.mu.Unlock()
	}()

	req := engine.Request{
		RequestID: requestID,
		Paths:     append([]string(nil), paths...),
		Settings: engine.Settings{
			Position:      st.Position,
			SizePercent:   settings.ClampSizePercent(st.SizePercent),
			MarginPercent: engine.DefaultMarginPercent,
		},
		SizePercentByPath: clampOverrides(overrides),
		LogoPath:          logoPath,
		OutputDir:         outputDir,
	}

	log.Info().
		Str("requestId", requestID).
		Int("files", len(paths)).
		Str("position", string(req.Settings.Position)).
		Int("sizePercent", req.Settings.SizePercent).
		Msg("Starting batch run")

	results, err := c.engine.Stamp(ctx, req)
	if err != nil {
		log.Error().Err(err).Str("requestId", requestID).Msg("Batch run failed")
		return nil, fmt.Errorf("batch run failed: %w", err)
	}

	c.merge(results)
	pathpolicy.WriteReports(req.Settings, results, outputDir)

	log.Info().
		Str("requestId", requestID).
		Int("results", len(results)).
		Msg("Batch run complete")

	return results, nil
}

// Cancel signals cooperative cancellation for the active run. It is valid
// only while a run is active; otherwise it is a no-op and no signal is sent.
// Cancellation is fire-and-forget: the run still resolves with whatever the
// engine returns.
func (c *Coordinator) Cancel() bool {
	c.mu.Lock()
	requestID := c.activeRequestID
	c.mu.Unlock()

	if requestID == "" {
		return false
	}

	log.Info().Str("requestId", requestID).Msg("Requesting batch cancellation")
	return c.engine.Cancel(requestID)
}

// Active reports whether a run is currently in flight.
func (c *Coordinator) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeRequestID != ""
}

// ResultsInOrder returns the merged results ordered to follow the given file
// list; results for paths no longer in the list are appended at the end in
// their original merge order.
func (c *Coordinator) ResultsInOrder(fileOrder []string) []engine.FileResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	ordered := make([]engine.FileResult, 0, len(c.results))
	listed := make(map[string]struct{}, len(fileOrder))

	for _, path := range fileOrder {
		listed[path] = struct{}{}
		if r, ok := c.results[path]; ok {
			ordered = append(ordered, r)
		}
	}

	for _, path := range c.resultOrder {
		if _, inList := listed[path]; inList {
			continue
		}
		if r, ok := c.results[path]; ok {
			ordered = append(ordered, r)
		}
	}

	return ordered
}

// Result returns the merged result for one input path.
func (c *Coordinator) Result(path string) (engine.FileResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[path]
	return r, ok
}

// merge folds a resolved run's results into the per-path map. A new result
// for an already-known path overwrites the old one; merge order is kept for
// orphan ordering in ResultsInOrder.
func (c *Coordinator) merge(results []engine.FileResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range results {
		if _, known := c.results[r.InputPath]; !known {
			c.resultOrder = append(c.resultOrder, r.InputPath)
		}
		c.results[r.InputPath] = r
	}
}

// handleProgress consumes engine progress events from the bus. Events whose
// request id does not match the active run are dropped; done is clamped into
// [0, max(total, done)] before display.
func (c *Coordinator) handleProgress(p engine.Progress) {
	c.mu.Lock()
	active := c.activeRequestID
	c.mu.Unlock()

	if p.RequestID != active || active == "" {
		log.Debug().
			Str("requestId", p.RequestID).
			Msg("Dropping progress event for inactive request")
		return
	}

	done := p.Done
	if done < 0 {
		done = 0
	}

	if c.onProgress != nil {
		c.onProgress(Progress{
			RequestID: p.RequestID,
			Total:     p.Total,
			Done:      done,
			FileName:  intake.BaseName(p.InputPath),
			OK:        p.OK,
		})
	}
}

func clampOverrides(overrides map[string]int) map[string]int {
	if len(overrides) == 0 {
		return nil
	}
	clamped := make(map[string]int, len(overrides))
	for path, pct := range overrides {
		clamped[path] = settings.ClampSizePercent(pct)
	}
	return clamped
}
