package repository

import (
	"context"

	"go.uber.org/zap"

	"hdfhr-backend/internal/cache"
	"hdfhr-backend/internal/domain"
)

// ReceiptRepository serves receipt reads through the query cache. Receipts
// are bookkeeping data: reads fail fast while offline rather than serving
// expired amounts.
type ReceiptRepository struct {
	source  ReceiptSource
	queries *cache.Service
	logger  *zap.Logger
}

// NewReceiptRepository builds a cached receipt repository over source.
func NewReceiptRepository(source ReceiptSource, queries *cache.Service, logger *zap.Logger) *ReceiptRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptRepository{source: source, queries: queries, logger: logger}
}

// List returns one page of receipts matching the query.
func (r *ReceiptRepository) List(ctx context.Context, query ReceiptQuery, refresh bool) ([]domain.Receipt, bool, error) {
	return read(ctx, r.queries, query.CacheKey(), receiptTTL, false, refresh,
		func(ctx context.Context) ([]domain.Receipt, error) {
			return r.source.ListReceipts(ctx, query)
		})
}

// Get returns one receipt, or nil when the id is unknown upstream.
func (r *ReceiptRepository) Get(ctx context.Context, id string, refresh bool) (*domain.Receipt, bool, error) {
	return read(ctx, r.queries, receiptKey(id), receiptTTL, false, refresh,
		func(ctx context.Context) (*domain.Receipt, error) {
			return r.source.GetReceipt(ctx, id)
		})
}

// Create stores a new receipt upstream and drops the list entries the new
// record can appear in.
func (r *ReceiptRepository) Create(ctx context.Context, receipt domain.Receipt) (*domain.Receipt, error) {
	created, err := r.source.CreateReceipt(ctx, receipt)
	if err != nil {
		return nil, err
	}
	invalidate(ctx, r.queries, r.logger,
		listPatterns(receiptKeyspace, created.CompanyID)...)
	return created, nil
}
