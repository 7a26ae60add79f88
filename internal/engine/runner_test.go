package engine

import (
	"encoding/json"
	"os/exec"
	"strings"
	"sync"
	"testing"

	"ripweb/internal/app"
	"ripweb/internal/domain"
	"ripweb/internal/events"
	"ripweb/internal/infra/config"
	"ripweb/internal/infra/logger"
	"ripweb/internal/queue"
)

type memHistory struct {
	mu      sync.Mutex
	entries []*domain.HistoryEntry
}

func (h *memHistory) Append(entry *domain.HistoryEntry) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, entry)
	return nil
}

func (h *memHistory) Recent(limit int) ([]*domain.HistoryEntry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*domain.HistoryEntry, 0, limit)
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, h.entries[i])
	}
	return out, nil
}

func (h *memHistory) last(t *testing.T) *domain.HistoryEntry {
	t.Helper()
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		t.Fatal("Expected a history entry, got none")
	}
	return h.entries[len(h.entries)-1]
}

func testContext(t *testing.T) (*app.Context, *memHistory) {
	t.Helper()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}

	hist := &memHistory{}

	appc := app.NewContext(cfg, logger.Discard())
	appc.Bus = events.NewBus()
	appc.Queue = queue.New()
	appc.History = hist

	return appc, hist
}

type capturedEvent struct {
	Type   string `json:"type"`
	ID     string `json:"id"`
	Status string `json:"status"`
	Output string `json:"output"`
	Error  string `json:"error"`
}

// drainEvents decodes everything currently buffered on the subscriber,
// skipping the connected handshake.
func drainEvents(t *testing.T, sub *events.Subscriber) []capturedEvent {
	t.Helper()

	var out []capturedEvent
	for {
		select {
		case payload := <-sub.C():
			var evt capturedEvent
			if err := json.Unmarshal(payload, &evt); err != nil {
				t.Fatalf("Invalid event payload %q: %v", payload, err)
			}
			if evt.Type == "connected" {
				continue
			}
			out = append(out, evt)
		default:
			return out
		}
	}
}

func shellRunner(appc *app.Context, reg *Registry, script string) *Runner {
	r := NewRunner(appc, reg)
	r.command = func(task *domain.DownloadTask) *exec.Cmd {
		return exec.Command("sh", "-c", script)
	}
	return r
}

func TestRunSuccess(t *testing.T) {
	appc, hist := testContext(t)
	reg := NewRegistry()
	sub := appc.Bus.Subscribe()

	task := &domain.DownloadTask{ID: "dl_ok", URL: "https://www.deezer.com/album/1", Quality: 3}

	r := shellRunner(appc, reg, `i=1; while [ $i -le 12 ]; do echo "line $i"; i=$((i+1)); done`)
	r.Run(task)

	evts := drainEvents(t, sub)
	if len(evts) != 3 {
		t.Fatalf("Expected started+progress+completed, got %d events: %+v", len(evts), evts)
	}

	if evts[0].Type != "download_started" || evts[0].ID != "dl_ok" || evts[0].Status != "downloading" {
		t.Errorf("Unexpected first event: %+v", evts[0])
	}

	// 12 lines means exactly one progress event, published at line 10 with
	// the rolling 5-line tail.
	if evts[1].Type != "download_progress" {
		t.Fatalf("Expected download_progress second, got %s", evts[1].Type)
	}
	wantTail := "line 6\nline 7\nline 8\nline 9\nline 10"
	if evts[1].Output != wantTail {
		t.Errorf("Expected tail %q, got %q", wantTail, evts[1].Output)
	}

	if evts[2].Type != "download_completed" || evts[2].Status != "completed" {
		t.Errorf("Unexpected terminal event: %+v", evts[2])
	}
	if !strings.HasPrefix(evts[2].Output, "line 1\n") || !strings.HasSuffix(evts[2].Output, "line 12") {
		t.Errorf("Terminal output is not the full accumulation: %q", evts[2].Output)
	}

	if reg.Len() != 0 {
		t.Errorf("Registry must be empty after the run, got %d entries", reg.Len())
	}

	if entry := hist.last(t); entry.Status != domain.StatusCompleted {
		t.Errorf("Expected completed history entry, got %s", entry.Status)
	}
}

func TestRunNonzeroExitIsFailed(t *testing.T) {
	appc, hist := testContext(t)
	reg := NewRegistry()
	sub := appc.Bus.Subscribe()

	task := &domain.DownloadTask{ID: "dl_bad", URL: "https://www.deezer.com/album/2", Quality: 3}

	r := shellRunner(appc, reg, `echo "fatal: no credentials"; exit 1`)
	r.Run(task)

	evts := drainEvents(t, sub)
	if len(evts) != 2 {
		t.Fatalf("Expected started+completed, got %d events: %+v", len(evts), evts)
	}

	terminal := evts[1]
	if terminal.Type != "download_completed" || terminal.Status != "failed" {
		t.Errorf("Expected download_completed/failed, got %+v", terminal)
	}
	if terminal.Output != "fatal: no credentials" {
		t.Errorf("Expected full captured output, got %q", terminal.Output)
	}

	if reg.Len() != 0 {
		t.Errorf("Registry must be empty after a failed run, got %d entries", reg.Len())
	}

	if entry := hist.last(t); entry.Status != domain.StatusFailed {
		t.Errorf("Expected failed history entry, got %s", entry.Status)
	}
}

func TestRunSpawnFailureIsError(t *testing.T) {
	appc, hist := testContext(t)
	reg := NewRegistry()
	sub := appc.Bus.Subscribe()

	task := &domain.DownloadTask{ID: "dl_err", URL: "https://www.deezer.com/album/3", Quality: 3}

	r := NewRunner(appc, reg)
	r.command = func(task *domain.DownloadTask) *exec.Cmd {
		return exec.Command("/nonexistent/rip-binary")
	}
	r.Run(task)

	evts := drainEvents(t, sub)
	if len(evts) != 2 {
		t.Fatalf("Expected started+error, got %d events: %+v", len(evts), evts)
	}

	terminal := evts[1]
	if terminal.Type != "download_error" {
		t.Fatalf("Expected download_error, got %s", terminal.Type)
	}
	if terminal.Error == "" {
		t.Error("Expected a non-empty error message")
	}
	// Nothing was captured, so the error text doubles as the output.
	if terminal.Output != terminal.Error {
		t.Errorf("Expected output to equal the error text, got %q", terminal.Output)
	}

	for _, evt := range evts {
		if evt.Type == "download_completed" {
			t.Error("download_completed must never follow a spawn failure")
		}
	}

	if reg.Len() != 0 {
		t.Errorf("Registry must be empty after a spawn failure, got %d entries", reg.Len())
	}

	entry := hist.last(t)
	if entry.Status != domain.StatusError || entry.Error == "" {
		t.Errorf("Expected error history entry with a message, got %+v", entry)
	}
}

func TestRunBlankLinesAreSkipped(t *testing.T) {
	appc, _ := testContext(t)
	reg := NewRegistry()
	sub := appc.Bus.Subscribe()

	task := &domain.DownloadTask{ID: "dl_blank", URL: "https://www.deezer.com/album/4", Quality: 3}

	r := shellRunner(appc, reg, `echo "one"; echo ""; echo "   "; echo "two"`)
	r.Run(task)

	evts := drainEvents(t, sub)
	terminal := evts[len(evts)-1]
	if terminal.Output != "one\ntwo" {
		t.Errorf("Expected blank lines dropped, got %q", terminal.Output)
	}
}

func TestRipCommandArguments(t *testing.T) {
	appc, _ := testContext(t)
	appc.Config.Rip.Binary = "rip"
	appc.Config.Rip.ConfigPath = "" // no config file on disk

	r := NewRunner(appc, NewRegistry())
	cmd := r.ripCommand(&domain.DownloadTask{ID: "dl_x", URL: "https://tidal.com/browse/album/9", Quality: 2})

	got := strings.Join(cmd.Args[1:], " ")
	want := "-q 2 url https://tidal.com/browse/album/9"
	if got != want {
		t.Errorf("Expected args %q, got %q", want, got)
	}
}
