package mock

import (
	"context"

	"github.com/fwojciec/docscout"
)

var _ docscout.ReportStore = (*ReportStore)(nil)

// ReportStore is a mock implementation of docscout.ReportStore.
type ReportStore struct {
	PutFn func(ctx context.Context, report *docscout.Report) error
	GetFn func(ctx context.Context) (*docscout.Report, error)
}

func (s *ReportStore) Put(ctx context.Context, report *docscout.Report) error {
	return s.PutFn(ctx, report)
}

func (s *ReportStore) Get(ctx context.Context) (*docscout.Report, error) {
	return s.GetFn(ctx)
}
