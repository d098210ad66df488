package update

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

type fakeUI struct {
	mu       sync.Mutex
	confirm  bool
	confirms []string
	notices  []string
	alerts   []string
}

func (u *fakeUI) Confirm(title, message string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.confirms = append(u.confirms, message)
	return u.confirm
}

func (u *fakeUI) Notice(message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notices = append(u.notices, message)
}

func (u *fakeUI) Alert(message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.alerts = append(u.alerts, message)
}

type fakeHandle struct {
	desc     Descriptor
	download func(ctx context.Context, onEvent func(Event)) error
	released bool
}

func (h *fakeHandle) Descriptor() Descriptor { return h.desc }

func (h *fakeHandle) DownloadAndInstall(ctx context.Context, onEvent func(Event)) error {
	if h.download == nil {
		return nil
	}
	return h.download(ctx, onEvent)
}

func (h *fakeHandle) Release() { h.released = true }

type fakeService struct {
	handle Handle
	err    error
	calls  int
}

func (s *fakeService) Check(ctx context.Context) (Handle, error) {
	s.calls++
	return s.handle, s.err
}

func TestCheckNoUpdateSilentWhenAutomatic(t *testing.T) {
	ui := &fakeUI{}
	m := NewManager(&fakeService{}, ui, nil)

	m.Check(context.Background(), false)

	if len(ui.notices) != 0 {
		t.Errorf("automatic check announced no-update: %v", ui.notices)
	}
}

func TestCheckNoUpdateNoticeWhenUserInitiated(t *testing.T) {
	ui := &fakeUI{}
	m := NewManager(&fakeService{}, ui, nil)

	m.Check(context.Background(), true)

	if len(ui.notices) != 1 {
		t.Errorf("user-initiated check produced %d notices, want 1", len(ui.notices))
	}
}

func TestCheckDeclinedReleasesHandle(t *testing.T) {
	handle := &fakeHandle{desc: Descriptor{Version: "2.0.0", Notes: "notes"}}
	ui := &fakeUI{confirm: false}
	m := NewManager(&fakeService{handle: handle}, ui, nil)

	m.Check(context.Background(), true)

	if !handle.released {
		t.Error("declined update did not release the handle")
	}
	if len(ui.notices) != 0 {
		t.Errorf("declined update produced notices: %v", ui.notices)
	}
	if m.Busy() {
		t.Error("manager still busy after a declined flow")
	}
}

func TestCheckTruncatesReleaseNotes(t *testing.T) {
	longNotes := strings.Repeat("x", 1000)
	handle := &fakeHandle{desc: Descriptor{Version: "2.0.0", Notes: longNotes}}
	ui := &fakeUI{confirm: false}
	m := NewManager(&fakeService{handle: handle}, ui, nil)

	m.Check(context.Background(), true)

	if len(ui.confirms) != 1 {
		t.Fatalf("got %d confirmation prompts, want 1", len(ui.confirms))
	}
	if strings.Contains(ui.confirms[0], longNotes) {
		t.Error("release notes were not truncated")
	}
	if !strings.Contains(ui.confirms[0], "…") {
		t.Error("truncated notes are missing the ellipsis marker")
	}
}

func TestCheckConfirmedDownloadAccumulates(t *testing.T) {
	var states []DownloadState
	handle := &fakeHandle{
		desc: Descriptor{Version: "2.0.0"},
		download: func(_ context.Context, onEvent func(Event)) error {
			onEvent(Event{Kind: EventStarted, ContentLength: 200})
			onEvent(Event{Kind: EventProgress, ChunkLength: 50})
			onEvent(Event{Kind: EventProgress, ChunkLength: 50})
			onEvent(Event{Kind: EventFinished})
			return nil
		},
	}
	ui := &fakeUI{confirm: true}
	m := NewManager(&fakeService{handle: handle}, ui, func(s DownloadState) {
		states = append(states, s)
	})

	m.Check(context.Background(), true)

	if len(states) != 4 {
		t.Fatalf("observed %d state changes, want 4", len(states))
	}
	if !states[0].Active || states[0].TotalBytes != 200 || !states[0].TotalKnown {
		t.Errorf("started state = %+v", states[0])
	}
	if states[1].Percent == nil || *states[1].Percent != 25 {
		t.Errorf("after first chunk percent = %v, want 25", states[1].Percent)
	}
	if states[2].DownloadedBytes != 100 || *states[2].Percent != 50 {
		t.Errorf("after second chunk state = %+v", states[2])
	}
	if states[3].Percent == nil || *states[3].Percent != 100 || states[3].Active {
		t.Errorf("finished state = %+v", states[3])
	}

	if !handle.released {
		t.Error("completed flow did not release the handle")
	}
	if len(ui.notices) != 1 {
		t.Errorf("install produced %d notices, want 1", len(ui.notices))
	}
}

func TestDownloadUnknownTotalHasNoPercent(t *testing.T) {
	var states []DownloadState
	handle := &fakeHandle{
		desc: Descriptor{Version: "2.0.0"},
		download: func(_ context.Context, onEvent func(Event)) error {
			onEvent(Event{Kind: EventStarted, ContentLength: -1})
			onEvent(Event{Kind: EventProgress, ChunkLength: 1024})
			onEvent(Event{Kind: EventFinished})
			return nil
		},
	}
	m := NewManager(&fakeService{handle: handle}, &fakeUI{confirm: true}, func(s DownloadState) {
		states = append(states, s)
	})

	m.Check(context.Background(), true)

	for i, s := range states {
		if s.Percent != nil {
			t.Errorf("state[%d].Percent = %d, want nil with unknown total", i, *s.Percent)
		}
		if s.TotalKnown {
			t.Errorf("state[%d].TotalKnown = true with content length -1", i)
		}
	}
	if states[1].DownloadedBytes != 1024 {
		t.Errorf("downloaded bytes = %d, want 1024", states[1].DownloadedBytes)
	}
}

func TestCheckErrorSurfacesTruncatedNotice(t *testing.T) {
	ui := &fakeUI{}
	m := NewManager(&fakeService{err: errors.New(strings.Repeat("e", 2000))}, ui, nil)

	m.Check(context.Background(), true)

	if len(ui.alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(ui.alerts))
	}
	if len([]rune(ui.alerts[0])) > maxErrorRunes+100 {
		t.Errorf("alert not truncated, %d runes", len([]rune(ui.alerts[0])))
	}
	if m.Busy() {
		t.Error("manager still busy after an errored flow")
	}
}

func TestDownloadErrorReleasesAndResets(t *testing.T) {
	handle := &fakeHandle{
		desc: Descriptor{Version: "2.0.0"},
		download: func(_ context.Context, onEvent func(Event)) error {
			onEvent(Event{Kind: EventStarted, ContentLength: 10})
			return errors.New("network died")
		},
	}
	ui := &fakeUI{confirm: true}
	m := NewManager(&fakeService{handle: handle}, ui, nil)

	m.Check(context.Background(), true)

	if !handle.released {
		t.Error("errored flow did not release the handle")
	}
	if len(ui.alerts) != 1 {
		t.Errorf("errored flow produced %d alerts, want 1", len(ui.alerts))
	}
	if got := m.State(); got.Active {
		t.Errorf("download state not reset: %+v", got)
	}
}

func TestCheckReentrancyGuard(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	svc := &blockingService{started: started, release: release}
	m := NewManager(svc, &fakeUI{}, nil)

	go m.Check(context.Background(), false)
	<-started

	// Second check while the first is still in flight must be a no-op.
	m.Check(context.Background(), false)

	close(release)

	if svc.Calls() != 1 {
		t.Errorf("service checked %d times, want 1", svc.Calls())
	}
}

type blockingService struct {
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (s *blockingService) Check(ctx context.Context) (Handle, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	close(s.started)
	<-s.release
	return nil, nil
}

func (s *blockingService) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"Short passes through", "hello", 10, "hello"},
		{"Exact length untouched", "hello", 5, "hello"},
		{"Long is cut with ellipsis", "hello world", 5, "hello…"},
		{"Multibyte safe", "héllo wörld", 5, "héllo…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
