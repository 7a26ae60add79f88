package events

import (
	"encoding/json"

	"ripweb/internal/domain"
)

type EventType string

const (
	EventConnected         EventType = "connected"
	EventDownloadStarted   EventType = "download_started"
	EventDownloadProgress  EventType = "download_progress"
	EventDownloadCompleted EventType = "download_completed"
	EventDownloadError     EventType = "download_error"
)

// Event is one lifecycle notification broadcast to every subscriber. Fields
// are populated per type; zero values are omitted from the wire format.
type Event struct {
	Type     EventType          `json:"type"`
	TaskID   string             `json:"id,omitempty"`
	Status   domain.TaskStatus  `json:"status,omitempty"`
	Metadata *domain.Metadata   `json:"metadata,omitempty"`
	Output   string             `json:"output,omitempty"`
	Progress *ProgressInfo      `json:"progress,omitempty"`
	Error    string             `json:"error,omitempty"`
}

// ProgressInfo flags that Output carries raw subprocess lines rather than a
// structured percentage. Kept as a struct so richer progress can slot in later.
type ProgressInfo struct {
	RawOutput bool `json:"raw_output"`
}

func Connected() Event {
	return Event{Type: EventConnected}
}

func Started(task *domain.DownloadTask) Event {
	return Event{
		Type:     EventDownloadStarted,
		TaskID:   task.ID,
		Metadata: &task.Metadata,
		Status:   domain.StatusDownloading,
	}
}

// Progress carries a rolling tail of recent output lines, not the full log.
func Progress(taskID string, tail string) Event {
	return Event{
		Type:     EventDownloadProgress,
		TaskID:   taskID,
		Output:   tail,
		Progress: &ProgressInfo{RawOutput: true},
	}
}

func Completed(task *domain.DownloadTask, status domain.TaskStatus, output string) Event {
	return Event{
		Type:     EventDownloadCompleted,
		TaskID:   task.ID,
		Status:   status,
		Metadata: &task.Metadata,
		Output:   output,
	}
}

func Failure(taskID string, errMsg string, output string) Event {
	return Event{
		Type:   EventDownloadError,
		TaskID: taskID,
		Error:  errMsg,
		Output: output,
	}
}

// Encode serializes the event once so a broadcast pays the marshalling cost
// a single time regardless of subscriber count.
func (e Event) Encode() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		// Event only contains plain strings and structs; this cannot fail.
		return []byte(`{"type":"` + string(e.Type) + `"}`)
	}
	return data
}
