// Package update drives the application self-update flow: check, operator
// confirmation, download with progress, and installation. The flow is
// re-entrancy guarded and every failure is caught, truncated, and surfaced
// as a non-fatal notice; nothing here may terminate the host process.
package update

import "context"

// Descriptor describes an available update.
type Descriptor struct {
	Version string
	Notes   string
}

// EventKind tags download progress events from the update service.
type EventKind int

const (
	EventStarted EventKind = iota
	EventProgress
	EventFinished
)

// Event is one download progress notification. Started carries the total
// content length (non-positive means unknown); Progress carries the size of
// one received chunk.
type Event struct {
	Kind          EventKind
	ContentLength int64
	ChunkLength   int
}

// Handle is one found update, held from check until release. Release is
// best-effort and must be called whether the flow succeeds, is declined, or
// errors.
type Handle interface {
	Descriptor() Descriptor
	DownloadAndInstall(ctx context.Context, onEvent func(Event)) error
	Release()
}

// Service is the external update backend. Check returns nil when no update
// is available.
type Service interface {
	Check(ctx context.Context) (Handle, error)
}

// UI is the operator-facing dialog surface the update flow talks to.
type UI interface {
	Confirm(title, message string) bool
	Notice(message string)
	Alert(message string)
}

// DownloadState is the observable download progress snapshot. Percent is nil
// until the total is known.
type DownloadState struct {
	Active          bool
	Percent         *int
	DownloadedBytes int64
	TotalBytes      int64
	TotalKnown      bool
}

// Display truncation bounds.
const (
	maxNotesRunes = 280
	maxErrorRunes = 500
)
