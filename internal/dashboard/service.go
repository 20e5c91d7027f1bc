package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Summary aggregates one day of register sales.
type Summary struct {
	Day              string          `json:"day"`
	TransactionCount int64           `json:"transaction_count"`
	Gross            decimal.Decimal `json:"gross"`
	Discount         decimal.Decimal `json:"discount"`
	Net              decimal.Decimal `json:"net"`
}

type Repository interface {
	DailySummary(ctx context.Context, day time.Time) (Summary, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) DailySummary(ctx context.Context, day time.Time) (Summary, error) {
	query := `SELECT COUNT(*),
		COALESCE(SUM(subtotal), 0),
		COALESCE(SUM(discount), 0),
		COALESCE(SUM(total), 0)
		FROM transactions WHERE created_at::date = $1::date`
	s := Summary{Day: day.Format("2006-01-02")}
	err := r.db.QueryRow(ctx, query, day).Scan(&s.TransactionCount, &s.Gross, &s.Discount, &s.Net)
	return s, err
}

type Service struct {
	repo  Repository
	cache *Cache
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Summary returns the cached sales summary for the given day.
func (s *Service) Summary(ctx context.Context, day time.Time) (Summary, error) {
	key, err := s.cache.BuildKey(ctx, keySummary(day)...)
	if err != nil {
		return Summary{}, err
	}
	var out Summary
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		return s.repo.DailySummary(ctx, day)
	})
	return out, err
}

// Invalidate bumps the cache version after transaction data changes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Warm precomputes the summary for the given day, typically from a job.
func (s *Service) Warm(ctx context.Context, day time.Time) error {
	_, err := s.Summary(ctx, day)
	return err
}
