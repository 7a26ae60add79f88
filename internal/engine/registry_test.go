package engine

import (
	"testing"

	"ripweb/internal/domain"
)

func TestRegistryAddRemove(t *testing.T) {
	r := NewRegistry()

	task := &domain.DownloadTask{
		ID:       "dl_1",
		URL:      "https://www.deezer.com/album/1",
		Metadata: domain.Metadata{Service: "deezer"},
	}
	r.Add(task)

	if r.Len() != 1 {
		t.Fatalf("Expected 1 active entry, got %d", r.Len())
	}

	snap := r.Snapshot()
	entry, ok := snap["dl_1"]
	if !ok {
		t.Fatal("Snapshot is missing the active entry")
	}
	if entry.Status != domain.StatusDownloading {
		t.Errorf("Expected status downloading, got %s", entry.Status)
	}
	if entry.URL != task.URL {
		t.Errorf("Expected URL %s, got %s", task.URL, entry.URL)
	}
	if entry.StartedAt.IsZero() {
		t.Error("Expected StartedAt to be set")
	}

	r.Remove("dl_1")
	if r.Len() != 0 {
		t.Errorf("Expected 0 active entries after Remove, got %d", r.Len())
	}
}

func TestRegistryRemoveUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Remove("dl_never_added") // must not panic
	if r.Len() != 0 {
		t.Errorf("Expected empty registry, got %d entries", r.Len())
	}
}

func TestRegistrySnapshotIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Add(&domain.DownloadTask{ID: "dl_1"})

	snap := r.Snapshot()
	delete(snap, "dl_1")

	if r.Len() != 1 {
		t.Error("Mutating a snapshot must not affect the registry")
	}
}
