package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/docscout"
)

// Compile-time interface verification.
var _ docscout.ReportStore = (*ReportStore)(nil)

// ReportStore implements docscout.ReportStore using SQLite. Only the most
// recent report is kept.
type ReportStore struct {
	db *DB
}

// NewReportStore creates a new ReportStore.
func NewReportStore(db *DB) *ReportStore {
	return &ReportStore{db: db}
}

// Put replaces the stored report.
func (s *ReportStore) Put(ctx context.Context, report *docscout.Report) error {
	if report == nil {
		return docscout.Errorf(docscout.EINVALID, "report required")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO latest_report (slot, report_id, created_at, payload)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			report_id = excluded.report_id,
			created_at = excluded.created_at,
			payload = excluded.payload
	`, report.ID, report.CreatedAt.UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}
	return nil
}

// Get returns the stored report, or ENOTFOUND when none was stored.
func (s *ReportStore) Get(ctx context.Context) (*docscout.Report, error) {
	var id, createdAt, payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT report_id, created_at, payload
		FROM latest_report
		WHERE slot = 1
	`).Scan(&id, &createdAt, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, docscout.Errorf(docscout.ENOTFOUND, "no report stored")
	}
	if err != nil {
		return nil, err
	}

	var report docscout.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	if report.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &report, nil
}
