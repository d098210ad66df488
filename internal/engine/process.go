package engine

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/RepentanceHeaven/CornerBrand/internal/eventbus"
)

// DefaultBinaryName is the engine executable looked up on PATH when no
// explicit path is configured.
const DefaultBinaryName = "cornerbrand-engine"

// ProcessEngine drives the external stamping engine as a subprocess. The
// request is written as JSON to the engine's stdin; the engine answers with
// newline-delimited JSON on stdout: zero or more progress lines followed by
// exactly one result line. Cancellation is a control line written to the
// still-open stdin, keyed by request id.
type ProcessEngine struct {
	binPath string
	bus     *eventbus.Bus

	mu     sync.Mutex
	stdins map[string]io.Writer
}

// NewProcessEngine creates a subprocess-backed engine client. Progress events
// are published on the bus as they arrive.
func NewProcessEngine(binPath string, bus *eventbus.Bus) *ProcessEngine {
	if binPath == "" {
		binPath = DefaultBinaryName
	}
	return &ProcessEngine{
		binPath: binPath,
		bus:     bus,
		stdins:  make(map[string]io.Writer),
	}
}

// outputLine is one newline-delimited JSON message from the engine.
type outputLine struct {
	Event    string       `json:"event"` // "progress" or "result"
	Progress *Progress    `json:"progress,omitempty"`
	Results  []FileResult `json:"results,omitempty"`
	Error    string       `json:"error,omitempty"`
}

// controlLine is a message written to the engine's stdin after the request.
type controlLine struct {
	Cancel string `json:"cancel"`
}

// Stamp launches the engine, streams progress onto the bus, and returns the
// resolved result list. A transport or protocol failure fails the whole run;
// partial progress is never promoted to results.
func (e *ProcessEngine) Stamp(ctx context.Context, req Request) ([]FileResult, error) {
	cmd := exec.CommandContext(ctx, e.binPath, "stamp")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open engine stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start stamping engine: %w", err)
	}

	log.Info().
		Str("requestId", req.RequestID).
		Int("files", len(req.Paths)).
		Str("engine", e.binPath).
		Msg("Batch request sent to stamping engine")

	if err := json.NewEncoder(stdin).Encode(req); err != nil {
		stdin.Close()
		_ = cmd.Wait()
		return nil, fmt.Errorf("failed to write batch request: %w", err)
	}

	e.registerStdin(req.RequestID, stdin)
	defer func() {
		e.unregisterStdin(req.RequestID)
		stdin.Close()
	}()

	results, readErr := e.consumeOutput(stdout, req.RequestID)

	waitErr := cmd.Wait()
	if readErr != nil {
		return nil, readErr
	}
	if waitErr != nil {
		return nil, fmt.Errorf("stamping engine exited abnormally: %w", waitErr)
	}

	return results, nil
}

// Cancel writes a cancellation control line for the given request. Returns
// false when the request is not in flight (already resolved or never known),
// matching the engine's own registry semantics.
func (e *ProcessEngine) Cancel(requestID string) bool {
	e.mu.Lock()
	stdin, ok := e.stdins[requestID]
	e.mu.Unlock()
	if !ok {
		return false
	}

	line, err := json.Marshal(controlLine{Cancel: requestID})
	if err != nil {
		return false
	}
	line = append(line, '\n')

	if _, err := stdin.Write(line); err != nil {
		log.Warn().Err(err).Str("requestId", requestID).Msg("Failed to deliver cancel signal")
		return false
	}

	log.Info().Str("requestId", requestID).Msg("Cancel signal sent to stamping engine")
	return true
}

// consumeOutput reads the engine's stdout until the result line arrives.
// Progress lines for the active request are published on the bus; lines for
// any other request id are dropped.
func (e *ProcessEngine) consumeOutput(r io.Reader, requestID string) ([]FileResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var line outputLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, fmt.Errorf("malformed engine output: %w", err)
		}

		switch line.Event {
		case "progress":
			if line.Progress == nil || line.Progress.RequestID != requestID {
				continue
			}
			if e.bus != nil {
				e.bus.Publish(eventbus.TopicProgress, *line.Progress)
			}
		case "result":
			if line.Error != "" {
				return nil, fmt.Errorf("stamping engine reported failure: %s", line.Error)
			}
			return line.Results, nil
		default:
			log.Debug().Str("event", line.Event).Msg("Ignoring unknown engine event")
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read engine output: %w", err)
	}
	return nil, fmt.Errorf("stamping engine closed without a result")
}

func (e *ProcessEngine) registerStdin(requestID string, w io.Writer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stdins[requestID] = w
}

func (e *ProcessEngine) unregisterStdin(requestID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.stdins, requestID)
}
