package reports

import (
	"context"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/meridian-pos/meridian-pos/internal/sales"
)

// SaleSource provides the raw sale records a report is built from.
type SaleSource interface {
	ListBetween(ctx context.Context, r sales.DateRange) ([]sales.Sale, error)
}

// Service builds sales reports, caching aggregates in Redis and collapsing
// concurrent identical requests through singleflight.
type Service struct {
	source SaleSource
	cache  *Cache
	group  singleflight.Group
	log    *slog.Logger
}

// NewService constructs a reports Service. cache may be nil.
func NewService(source SaleSource, cache *Cache, log *slog.Logger) *Service {
	return &Service{source: source, cache: cache, log: log}
}

// SalesReport returns the aggregate summary for the date range, from cache
// when a current entry exists.
func (s *Service) SalesReport(ctx context.Context, r sales.DateRange) (SalesReportSummary, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "sales", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	if err != nil {
		s.log.Warn("report cache unavailable, building directly", "error", err)
		return s.build(ctx, r)
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var summary SalesReportSummary
		err := s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
			return s.build(ctx, r)
		})
		return summary, err
	})
	if err != nil {
		return SalesReportSummary{}, err
	}
	return result.(SalesReportSummary), nil
}

// RangeSales returns the raw sale rows for the range, every status
// included. Exports use this so cancelled sales stay visible.
func (s *Service) RangeSales(ctx context.Context, r sales.DateRange) ([]sales.Sale, error) {
	return s.source.ListBetween(ctx, r)
}

// Invalidator exposes the cache's version bump for the sales service to
// call after writes.
func (s *Service) Invalidator() *Cache {
	return s.cache
}

func (s *Service) build(ctx context.Context, r sales.DateRange) (SalesReportSummary, error) {
	records, err := s.source.ListBetween(ctx, r)
	if err != nil {
		return SalesReportSummary{}, err
	}
	return BuildSummary(records, r), nil
}
