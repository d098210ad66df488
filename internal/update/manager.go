package update

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

// Manager owns the single-active-update-flow guard and the download state.
// One Manager is created at startup; Check may be called from the UI or from
// an automatic on-launch trigger, and overlapping calls are no-ops.
type Manager struct {
	svc     Service
	ui      UI
	onState func(DownloadState)

	mu       sync.Mutex
	busy     bool
	download DownloadState
}

// NewManager creates an update manager. onState, when non-nil, observes
// every download state change.
func NewManager(svc Service, ui UI, onState func(DownloadState)) *Manager {
	return &Manager{svc: svc, ui: ui, onState: onState}
}

// Busy reports whether an update flow is in progress.
func (m *Manager) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.busy
}

// State returns the current download state snapshot.
func (m *Manager) State() DownloadState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.download
}

// Check runs the whole update flow: query the service, ask the operator,
// download with progress, install, notify. A check while one is already
// running is a no-op. userInitiated controls whether a "no update" outcome
// is announced; automatic checks stay silent about it. Errors are truncated
// and surfaced as notices, never returned or raised.
func (m *Manager) Check(ctx context.Context, userInitiated bool) {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		log.Debug().Msg("Update check already running, ignoring")
		return
	}
	m.busy = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.busy = false
		m.download = DownloadState{}
		m.mu.Unlock()
	}()

	log.Info().Bool("userInitiated", userInitiated).Msg("Checking for updates")

	handle, err := m.svc.Check(ctx)
	if err != nil {
		m.fail("Update check failed", err)
		return
	}

	if handle == nil {
		log.Info().Msg("No update available")
		if userInitiated {
			m.ui.Notice("You're running the latest version.")
		}
		return
	}
	defer handle.Release()

	desc := handle.Descriptor()
	message := fmt.Sprintf("Version %s is available.\n\n%s\n\nInstall now?",
		desc.Version, Truncate(desc.Notes, maxNotesRunes))

	if !m.ui.Confirm("Update available", message) {
		log.Info().Str("version", desc.Version).Msg("Update declined")
		return
	}

	log.Info().Str("version", desc.Version).Msg("Downloading update")

	if err := handle.DownloadAndInstall(ctx, m.handleEvent); err != nil {
		m.fail("Update failed", err)
		return
	}

	log.Info().Str("version", desc.Version).Msg("Update installed")
	m.ui.Notice(fmt.Sprintf("Version %s installed. Restart to finish the update.", desc.Version))
}

// handleEvent folds download events into the observable state. Percent is
// computed only when a total is known, clamped to [0,100], and snapped to
// 100 on Finished.
func (m *Manager) handleEvent(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch e.Kind {
	case EventStarted:
		m.download = DownloadState{Active: true}
		if e.ContentLength > 0 {
			m.download.TotalBytes = e.ContentLength
			m.download.TotalKnown = true
		}

	case EventProgress:
		if !m.download.Active {
			return
		}
		if e.ChunkLength > 0 {
			m.download.DownloadedBytes += int64(e.ChunkLength)
		}
		if m.download.TotalKnown {
			pct := int(m.download.DownloadedBytes * 100 / m.download.TotalBytes)
			if pct < 0 {
				pct = 0
			}
			if pct > 100 {
				pct = 100
			}
			m.download.Percent = &pct
		}

	case EventFinished:
		if m.download.TotalKnown {
			pct := 100
			m.download.Percent = &pct
		}
		m.download.Active = false
	}

	if m.onState != nil {
		m.onState(m.download)
	}
}

// fail logs and surfaces a flow error as a bounded, non-fatal notice.
func (m *Manager) fail(prefix string, err error) {
	log.Error().Err(err).Msg(prefix)
	m.ui.Alert(fmt.Sprintf("%s: %s", prefix, Truncate(err.Error(), maxErrorRunes)))
}

// Truncate bounds a string to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
