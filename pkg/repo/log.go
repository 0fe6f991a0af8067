package repo

import (
	"fmt"

	"github.com/gritvcs/grit/pkg/object"
)

// LogEntry pairs a commit with its digest; the commit payload does not
// record its own hash.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// Log walks history from start, following first parents only, newest first.
// A non-positive limit walks to the root. A parent that cannot be read is an
// error, not the end of history.
func (r *Repo) Log(start object.Hash, limit int) ([]LogEntry, error) {
	var entries []LogEntry
	current := start
	for limit <= 0 || len(entries) < limit {
		c, err := r.Store.ReadCommit(current)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		entries = append(entries, LogEntry{Hash: current, Commit: c})

		parents := c.Parents()
		if len(parents) == 0 {
			break
		}
		current = parents[0]
	}
	return entries, nil
}
