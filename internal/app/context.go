package app

import (
	"ripweb/internal/domain"
	"ripweb/internal/events"
	"ripweb/internal/infra/config"
	"ripweb/internal/infra/logger"
	"ripweb/internal/queue"
)

// HistoryStore persists terminal task outcomes for the status endpoint.
// Declared here so the engine and API can share it without importing the
// store package.
type HistoryStore interface {
	Append(entry *domain.HistoryEntry) error
	Recent(limit int) ([]*domain.HistoryEntry, error)
}

// Registry is the read side of the active-task registry, enough for status
// queries. The engine owns the concrete implementation.
type Registry interface {
	Snapshot() map[string]domain.ActiveDownload
	Len() int
}

// Context holds the core environment and shared resources for ripweb.
// It acts as the single source of truth for the application state.
type Context struct {
	Config *config.Config
	Logger *logger.Logger

	Bus      *events.Bus
	Queue    *queue.Queue
	Registry Registry
	History  HistoryStore
}

// NewContext initializes the base environment.
func NewContext(cfg *config.Config, log *logger.Logger) *Context {
	return &Context{
		Config: cfg,
		Logger: log,
	}
}
