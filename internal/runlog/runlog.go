// Package runlog keeps a per-run audit trail of what the sync did to the
// ledger, one JSON record per line.
package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Actions recorded in the log.
const (
	ActionAccountCreated   = "account_created"
	ActionPostingStored    = "posting_stored"
	ActionPostingDuplicate = "posting_duplicate"
	ActionPostingFailed    = "posting_failed"
	ActionLeftover         = "leftover"
)

// Record is one line in the sync log.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id"`
	Action    string    `json:"action"`
	Account   string    `json:"account,omitempty"`
	Date      string    `json:"date,omitempty"`
	Amount    string    `json:"amount,omitempty"`
	Details   string    `json:"details,omitempty"`
}

const logFile = "sync-log.jsonl"

// Log appends records for one sync run to <dir>/sync-log.jsonl. A nil *Log is
// valid and discards records, which keeps dry runs and tests quiet.
type Log struct {
	dir   string
	runID string
}

// New creates a Log with a fresh run id.
func New(dir string) *Log {
	return &Log{dir: dir, runID: uuid.NewString()}
}

// RunID returns the id shared by all records of this run.
func (l *Log) RunID() string {
	if l == nil {
		return ""
	}
	return l.runID
}

// Append writes one record, filling in timestamp and run id.
func (l *Log) Append(rec Record) error {
	if l == nil {
		return nil
	}
	rec.Timestamp = time.Now().UTC()
	rec.RunID = l.runID

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("creating log dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(l.dir, logFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening sync log: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("writing sync log record: %w", err)
	}
	return nil
}

// Read returns all records from <dir>/sync-log.jsonl. Returns nil if the file
// does not exist.
func Read(dir string) ([]Record, error) {
	f, err := os.Open(filepath.Join(dir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening sync log: %w", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("parsing sync log line %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading sync log: %w", err)
	}
	return records, nil
}
