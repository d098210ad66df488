// Package intake turns raw path strings into typed input-file records and
// maintains the deduplicated working collection that batch runs operate on.
package intake

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Kind distinguishes the two classes of stampable input.
type Kind string

const (
	KindImage Kind = "image"
	KindPDF   Kind = "pdf"
)

// SupportedImageExtensions defines the image extensions accepted for stamping.
var SupportedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// SupportedPDFExtensions defines the document extensions accepted for stamping.
var SupportedPDFExtensions = map[string]string{
	".pdf": "application/pdf",
}

// ErrEmptyPath rejects candidates that are empty after trimming.
var ErrEmptyPath = errors.New("empty path")

// InputFile is an accepted input record. It is derived deterministically from
// the candidate path string and never mutated after creation. Path is the
// unique key for the working collection.
type InputFile struct {
	Path string
	Name string
	Ext  string
	Kind Kind

	// Optional display metadata, populated best-effort by EnrichMetadata.
	Meta *ImageMeta
}

// Classify derives an InputFile from a raw path string. The path is trimmed
// and rejected if empty; separators are normalized only for parsing, so the
// stored Path keeps the caller's separators and casing. Extension matching is
// case-insensitive; anything outside the image/pdf tables is rejected.
func Classify(path string) (InputFile, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return InputFile{}, ErrEmptyPath
	}

	name := BaseName(trimmed)

	ext := ""
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		ext = strings.ToLower(name[idx+1:])
	}

	var kind Kind
	switch {
	case isImageExt(ext):
		kind = KindImage
	case isPDFExt(ext):
		kind = KindPDF
	default:
		return InputFile{}, fmt.Errorf("unsupported file type: %q", name)
	}

	return InputFile{
		Path: trimmed,
		Name: name,
		Ext:  ext,
		Kind: kind,
	}, nil
}

// BaseName returns the final segment of a path string, accepting either
// separator style so Windows-style drops classify the same as POSIX paths.
func BaseName(path string) string {
	normalized := strings.ReplaceAll(path, "\\", "/")
	if idx := strings.LastIndex(normalized, "/"); idx >= 0 {
		return normalized[idx+1:]
	}
	return normalized
}

// AddResult partitions the outcome of AddUnique. Accepted holds the full
// working collection in order; Rejected holds unclassifiable candidates
// verbatim as given. Duplicates appear in neither.
type AddResult struct {
	Accepted []InputFile
	Rejected []string
}

// AddUnique classifies candidate paths in order and appends the accepted ones
// to the existing collection. A candidate whose exact path string already
// exists (in the collection or earlier in the same call) is silently dropped;
// deduplication is case-sensitive string equality, so paths differing only in
// case stay distinct entries.
func AddUnique(existing []InputFile, candidates []string) AddResult {
	seen := make(map[string]struct{}, len(existing)+len(candidates))
	for _, f := range existing {
		seen[f.Path] = struct{}{}
	}

	accepted := make([]InputFile, len(existing), len(existing)+len(candidates))
	copy(accepted, existing)

	var rejected []string
	for _, candidate := range candidates {
		file, err := Classify(candidate)
		if err != nil {
			rejected = append(rejected, candidate)
			continue
		}

		if _, dup := seen[file.Path]; dup {
			log.Debug().Str("path", file.Path).Msg("Dropping duplicate input path")
			continue
		}

		seen[file.Path] = struct{}{}
		accepted = append(accepted, file)
	}

	if len(rejected) > 0 {
		log.Info().
			Int("accepted", len(accepted)-len(existing)).
			Int("rejected", len(rejected)).
			Msg("Intake finished with rejected candidates")
	}

	return AddResult{Accepted: accepted, Rejected: rejected}
}

func isImageExt(ext string) bool {
	_, ok := SupportedImageExtensions["."+ext]
	return ok
}

func isPDFExt(ext string) bool {
	_, ok := SupportedPDFExtensions["."+ext]
	return ok
}
