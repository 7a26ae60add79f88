package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ripweb/internal/domain"
)

// Append records one terminal outcome. Task ids are unique, so a replayed
// append for the same task just overwrites the previous row.
func (s *PersistentStore) Append(entry *domain.HistoryEntry) error {

	metaJSON, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	query := `INSERT OR REPLACE INTO history (task_id, url, status, metadata, error, finished_at)
              VALUES (?, ?, ?, ?, ?, ?)`

	_, err = s.db.Exec(query,
		entry.TaskID,
		entry.URL,
		entry.Status,
		string(metaJSON),
		entry.Error,
		entry.FinishedAt.Unix(),
	)
	return err
}

// Recent returns up to limit terminal outcomes, newest first.
func (s *PersistentStore) Recent(limit int) ([]*domain.HistoryEntry, error) {
	query := `
		SELECT task_id, url, status, metadata, error, finished_at
		FROM history
		ORDER BY finished_at DESC, task_id DESC
		LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	defer rows.Close()

	entries := make([]*domain.HistoryEntry, 0, limit)
	for rows.Next() {
		entry := &domain.HistoryEntry{}
		var metaJSON string
		var errMsg sql.NullString
		var finished int64

		if err := rows.Scan(&entry.TaskID, &entry.URL, &entry.Status, &metaJSON, &errMsg, &finished); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(metaJSON), &entry.Metadata); err != nil {
			// A corrupt metadata blob shouldn't hide the outcome itself
			entry.Metadata = domain.Metadata{}
		}

		entry.Error = errMsg.String
		entry.FinishedAt = time.Unix(finished, 0)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
