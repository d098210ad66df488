// Package picker wraps the native file-selection and dialog service. A
// canceled dialog is a normal outcome (empty result, nil error); a broken
// dialog service degrades with a logged warning rather than failing callers.
package picker

import (
	"errors"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// PickFiles opens the native multi-select dialog filtered to stampable
// files. Returns nil with no error when the operator cancels.
func PickFiles() ([]string, error) {
	selected, err := zenity.SelectFileMultiple(
		zenity.Title("Select files to stamp"),
		zenity.FileFilters{
			{
				Name:     "Images and PDFs",
				Patterns: []string{"*.jpg", "*.jpeg", "*.png", "*.webp", "*.pdf"},
			},
		},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil, nil
		}
		log.Error().Err(err).Msg("File picker failed")
		return nil, err
	}

	log.Info().Int("count", len(selected)).Msg("Files picked via native dialog")
	return selected, nil
}

// PickDirectory opens the native folder-selection dialog. Returns an empty
// string with no error when the operator cancels.
func PickDirectory(title string) (string, error) {
	selected, err := zenity.SelectFile(
		zenity.Directory(),
		zenity.Title(title),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		log.Error().Err(err).Msg("Directory picker failed")
		return "", err
	}
	return selected, nil
}

// Dialogs is the notice/confirmation surface backed by native dialogs. It
// satisfies the update flow's UI interface.
type Dialogs struct{}

// Confirm shows a blocking question dialog. Dialog service failures count as
// a decline.
func (Dialogs) Confirm(title, message string) bool {
	err := zenity.Question(message,
		zenity.Title(title),
		zenity.OKLabel("Install"),
		zenity.CancelLabel("Later"),
	)
	if err == nil {
		return true
	}
	if !errors.Is(err, zenity.ErrCanceled) {
		log.Warn().Err(err).Msg("Confirmation dialog failed, treating as declined")
	}
	return false
}

// Notice shows a non-blocking informational dialog, best-effort.
func (Dialogs) Notice(message string) {
	if err := zenity.Info(message, zenity.Title("CornerBrand")); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Warn().Err(err).Msg("Info dialog failed")
	}
}

// Alert shows an error dialog, best-effort.
func (Dialogs) Alert(message string) {
	if err := zenity.Error(message, zenity.Title("CornerBrand")); err != nil && !errors.Is(err, zenity.ErrCanceled) {
		log.Warn().Err(err).Msg("Error dialog failed")
	}
}

// BatchProgress is a native progress window for a running batch. A nil
// receiver is valid and ignores every call, so callers need no guard when
// the dialog service is unavailable.
type BatchProgress struct {
	dlg zenity.ProgressDialog
}

// ShowBatchProgress opens a progress window sized to the batch. Returns nil
// with a logged warning when the dialog service cannot show one.
func ShowBatchProgress(total int) *BatchProgress {
	dlg, err := zenity.Progress(
		zenity.Title("CornerBrand"),
		zenity.MaxValue(total),
		zenity.NoCancel(),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Progress dialog unavailable")
		return nil
	}
	return &BatchProgress{dlg: dlg}
}

// Update advances the progress bar, best-effort.
func (p *BatchProgress) Update(done int, fileName string) {
	if p == nil {
		return
	}
	if err := p.dlg.Value(done); err != nil {
		return
	}
	_ = p.dlg.Text(fileName)
}

// Close completes and dismisses the progress window.
func (p *BatchProgress) Close() {
	if p == nil {
		return
	}
	_ = p.dlg.Complete()
	_ = p.dlg.Close()
}
