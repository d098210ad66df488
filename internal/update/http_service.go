package update

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPService checks a JSON manifest over HTTP and downloads gzip-compressed
// release binaries. The manifest has the shape
// {"version": "1.4.0", "notes": "...", "url": "https://.../cornerbrand.gz"}.
type HTTPService struct {
	ManifestURL    string
	CurrentVersion string
	Client         *http.Client
}

// NewHTTPService creates a manifest-backed update service.
func NewHTTPService(manifestURL, currentVersion string) *HTTPService {
	return &HTTPService{
		ManifestURL:    manifestURL,
		CurrentVersion: currentVersion,
		Client:         &http.Client{Timeout: 30 * time.Second},
	}
}

type manifest struct {
	Version string `json:"version"`
	Notes   string `json:"notes"`
	URL     string `json:"url"`
}

// Check fetches the manifest and returns a handle when the advertised
// version differs from the running one. Returns nil when already current.
func (s *HTTPService) Check(ctx context.Context) (Handle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ManifestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest URL: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("manifest request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest request returned %s", resp.Status)
	}

	var m manifest
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&m); err != nil {
		return nil, fmt.Errorf("malformed update manifest: %w", err)
	}

	if m.Version == "" || m.URL == "" {
		return nil, fmt.Errorf("update manifest is missing version or url")
	}
	if m.Version == s.CurrentVersion {
		return nil, nil
	}

	log.Info().
		Str("current", s.CurrentVersion).
		Str("available", m.Version).
		Msg("Update found")

	return &httpHandle{svc: s, manifest: m}, nil
}

type httpHandle struct {
	svc      *HTTPService
	manifest manifest
	tmpPath  string
}

func (h *httpHandle) Descriptor() Descriptor {
	return Descriptor{Version: h.manifest.Version, Notes: h.manifest.Notes}
}

// DownloadAndInstall streams the release artifact with progress events, then
// installs it over the running executable.
func (h *httpHandle) DownloadAndInstall(ctx context.Context, onEvent func(Event)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.manifest.URL, nil)
	if err != nil {
		return fmt.Errorf("invalid artifact URL: %w", err)
	}

	resp, err := h.svc.Client.Do(req)
	if err != nil {
		return fmt.Errorf("artifact download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("artifact download returned %s", resp.Status)
	}

	if onEvent != nil {
		onEvent(Event{Kind: EventStarted, ContentLength: resp.ContentLength})
	}

	tmp, err := os.CreateTemp("", "cornerbrand-update-*.gz")
	if err != nil {
		return fmt.Errorf("failed to create download file: %w", err)
	}
	h.tmpPath = tmp.Name()

	buf := make([]byte, 64*1024)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := tmp.Write(buf[:n]); writeErr != nil {
				tmp.Close()
				return fmt.Errorf("failed to write download: %w", writeErr)
			}
			if onEvent != nil {
				onEvent(Event{Kind: EventProgress, ChunkLength: n})
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			tmp.Close()
			return fmt.Errorf("download interrupted: %w", readErr)
		}
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to finish download: %w", err)
	}

	if onEvent != nil {
		onEvent(Event{Kind: EventFinished})
	}

	target, err := os.Executable()
	if err != nil {
		return fmt.Errorf("cannot locate current executable: %w", err)
	}

	return InstallGzippedBinary(h.tmpPath, target)
}

// Release removes the downloaded artifact, best-effort.
func (h *httpHandle) Release() {
	if h.tmpPath != "" {
		if err := os.Remove(h.tmpPath); err != nil && !os.IsNotExist(err) {
			log.Debug().Err(err).Str("path", h.tmpPath).Msg("Could not remove update artifact")
		}
	}
}
