package engine

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/RepentanceHeaven/CornerBrand/internal/eventbus"
)

func TestConsumeOutputProgressAndResult(t *testing.T) {
	bus := eventbus.New()
	var events []Progress
	bus.Subscribe(eventbus.TopicProgress, func(p Progress) {
		events = append(events, p)
	})

	e := NewProcessEngine("", bus)
	output := strings.Join([]string{
		`{"event":"progress","progress":{"requestId":"req-1","total":2,"done":1,"inputPath":"a.png","ok":true}}`,
		`{"event":"progress","progress":{"requestId":"other","total":9,"done":9,"inputPath":"x.png","ok":true}}`,
		`{"event":"progress","progress":{"requestId":"req-1","total":2,"done":2,"inputPath":"b.pdf","ok":false}}`,
		`{"event":"result","results":[{"inputPath":"a.png","ok":true,"outputPath":"out/a.png"},{"inputPath":"b.pdf","ok":false,"error":"broken"}]}`,
	}, "\n")

	results, err := e.consumeOutput(strings.NewReader(output), "req-1")
	if err != nil {
		t.Fatalf("consumeOutput returned error: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if !results[0].OK || results[0].OutputPath != "out/a.png" {
		t.Errorf("first result = %+v", results[0])
	}
	if results[1].OK || results[1].Error != "broken" {
		t.Errorf("second result = %+v", results[1])
	}

	if len(events) != 2 {
		t.Fatalf("published %d progress events, want 2 (foreign request id must be dropped)", len(events))
	}
	if events[1].Done != 2 || events[1].InputPath != "b.pdf" {
		t.Errorf("second event = %+v", events[1])
	}
}

func TestConsumeOutputMalformedLine(t *testing.T) {
	e := NewProcessEngine("", nil)
	if _, err := e.consumeOutput(strings.NewReader("{oops\n"), "req-1"); err == nil {
		t.Error("malformed output did not fail the run")
	}
}

func TestConsumeOutputEngineError(t *testing.T) {
	e := NewProcessEngine("", nil)
	output := `{"event":"result","error":"logo resource missing"}`
	if _, err := e.consumeOutput(strings.NewReader(output), "req-1"); err == nil {
		t.Error("engine-reported failure did not fail the run")
	}
}

func TestConsumeOutputTruncatedStream(t *testing.T) {
	e := NewProcessEngine("", nil)
	output := `{"event":"progress","progress":{"requestId":"req-1","total":1,"done":1,"inputPath":"a.png","ok":true}}`
	if _, err := e.consumeOutput(strings.NewReader(output), "req-1"); err == nil {
		t.Error("stream without a result line did not fail the run")
	}
}

func TestCancelUnknownRequest(t *testing.T) {
	e := NewProcessEngine("", nil)
	if e.Cancel("never-seen") {
		t.Error("Cancel returned true for an unknown request id")
	}
}

func TestClampMarginPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-1, 0},
		{0, 0},
		{2.5, 2.5},
		{20, 20},
		{99, 20},
	}
	for _, tt := range tests {
		if got := ClampMarginPercent(tt.in); got != tt.want {
			t.Errorf("ClampMarginPercent(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveLogoPathExplicitMissing(t *testing.T) {
	if _, err := ResolveLogoPath(filepath.Join(t.TempDir(), "logo.png")); err == nil {
		t.Error("missing explicit logo path did not error")
	}
}
