package controllers

import "ripweb/internal/domain"

type ErrorResponse struct {
	Error string `json:"error"`
}

type QueuedResponse struct {
	TaskID   string           `json:"task_id"`
	Status   string           `json:"status"`
	Metadata *domain.Metadata `json:"metadata,omitempty"`
}

type StatusResponse struct {
	Active    map[string]domain.ActiveDownload `json:"active"`
	History   []*domain.HistoryEntry           `json:"history"`
	QueueSize int                              `json:"queue_size"`
}

type ConfigResponse struct {
	Config string `json:"config"`
}

type FileEntry struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified int64  `json:"modified"`
}
