// Package inmem keeps the most recent browse report in process memory.
package inmem

import (
	"context"
	"sync"

	"github.com/fwojciec/docscout"
)

var _ docscout.ReportStore = (*ReportStore)(nil)

// ReportStore is a single-slot docscout.ReportStore.
// It is safe for concurrent use.
type ReportStore struct {
	mu     sync.RWMutex
	report *docscout.Report
}

// NewReportStore returns an empty ReportStore.
func NewReportStore() *ReportStore {
	return &ReportStore{}
}

// Put replaces the stored report.
func (s *ReportStore) Put(_ context.Context, report *docscout.Report) error {
	if report == nil {
		return docscout.Errorf(docscout.EINVALID, "report required")
	}
	s.mu.Lock()
	s.report = report
	s.mu.Unlock()
	return nil
}

// Get returns the stored report, or ENOTFOUND when none was stored.
func (s *ReportStore) Get(_ context.Context) (*docscout.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.report == nil {
		return nil, docscout.Errorf(docscout.ENOTFOUND, "no report stored")
	}
	return s.report, nil
}
