package domain

import "time"

type TaskStatus string

const (
	StatusQueued      TaskStatus = "queued"
	StatusDownloading TaskStatus = "downloading"
	StatusCompleted   TaskStatus = "completed"
	StatusFailed      TaskStatus = "failed" // rip exited nonzero
	StatusError       TaskStatus = "error"  // spawn or stream failure
)

// Metadata carries the descriptive fields attached to a task at submission.
// Everything is optional; consumers fall back to the raw URL when empty.
type Metadata struct {
	Service  string `json:"service,omitempty"`
	Type     string `json:"type,omitempty"`
	ItemID   string `json:"item_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Artist   string `json:"artist,omitempty"`
	AlbumArt string `json:"album_art,omitempty"`
}

// DownloadTask is one user-requested download. Immutable once enqueued:
// exactly one worker consumes it and nothing mutates it afterwards.
type DownloadTask struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Quality  int      `json:"quality"`
	Metadata Metadata `json:"metadata"`
}

// ActiveDownload is the registry entry for a task currently owned by a worker.
type ActiveDownload struct {
	Status    TaskStatus `json:"status"`
	URL       string     `json:"url"`
	Metadata  Metadata   `json:"metadata"`
	StartedAt time.Time  `json:"started_at"`
}

// HistoryEntry records one terminal outcome (completed, failed or error).
type HistoryEntry struct {
	TaskID     string     `json:"task_id"`
	URL        string     `json:"url"`
	Status     TaskStatus `json:"status"`
	Metadata   Metadata   `json:"metadata"`
	Error      string     `json:"error,omitempty"`
	FinishedAt time.Time  `json:"finished_at"`
}
