package engine

import (
	"sync"
	"time"

	"ripweb/internal/domain"
)

// Registry tracks tasks currently owned by a worker. An entry exists exactly
// while its task is being processed; workers insert before launching the
// subprocess and remove unconditionally on every exit path.
type Registry struct {
	mu     sync.RWMutex
	active map[string]*domain.ActiveDownload
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[string]*domain.ActiveDownload)}
}

func (r *Registry) Add(task *domain.DownloadTask) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.active[task.ID] = &domain.ActiveDownload{
		Status:    domain.StatusDownloading,
		URL:       task.URL,
		Metadata:  task.Metadata,
		StartedAt: time.Now(),
	}
}

// Remove is a no-op for ids not present, so the cleanup path can call it
// without caring which step failed.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.active, id)
}

// Snapshot returns a copy of the active set for status queries.
func (r *Registry) Snapshot() map[string]domain.ActiveDownload {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.ActiveDownload, len(r.active))
	for id, entry := range r.active {
		out[id] = *entry
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.active)
}
