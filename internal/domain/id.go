package domain

import "github.com/segmentio/ksuid"

// NewTaskID generates a time-sortable task id. KSUIDs embed a timestamp, so
// ids created later always sort after earlier ones.
func NewTaskID() string {
	return "dl_" + ksuid.New().String()
}
