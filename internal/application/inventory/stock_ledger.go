// Package inventory moves product stock for committed business documents.
package inventory

import (
	"context"
	"sort"

	"github.com/atelierpoz/backoffice/internal/application/txn"
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockMetrics receives the outcome of stock adjustments
type StockMetrics interface {
	RecordStockMovement(ctx context.Context, tenantID uuid.UUID, mv catalog.StockMovement)
	RecordStockAdjustFailure(ctx context.Context, tenantID uuid.UUID, source string)
}

// StockLedger applies signed quantity changes to products
type StockLedger struct {
	scope   txn.TransactionScope
	logger  *zap.Logger
	metrics StockMetrics
}

// NewStockLedger creates a new StockLedger
func NewStockLedger(scope txn.TransactionScope, zapLogger *zap.Logger) *StockLedger {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &StockLedger{scope: scope, logger: zapLogger}
}

// SetMetrics sets the metrics sink (optional)
func (l *StockLedger) SetMetrics(metrics StockMetrics) {
	l.metrics = metrics
}

// Adjust moves stock for every item by sign*quantity in a single transaction.
// Products are locked in id order so concurrent adjustments cannot deadlock.
func (l *StockLedger) Adjust(ctx context.Context, tenantID uuid.UUID, items trade.LineItems, sign catalog.StockSign) error {
	if !sign.IsValid() {
		return shared.NewValidationError("stock sign must be -1 or +1")
	}
	if len(items) == 0 {
		return nil
	}
	if err := items.Validate(); err != nil {
		return err
	}

	ordered := make(trade.LineItems, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ProductID.String() < ordered[j].ProductID.String()
	})

	var movements []catalog.StockMovement
	err := l.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		movements = movements[:0]
		products := repos.Products()
		for _, item := range ordered {
			product, err := products.FindByIDForUpdate(ctx, tenantID, item.ProductID)
			if err != nil {
				return err
			}
			movements = append(movements, product.ApplyStockDelta(item.StockRequest(), sign))
			if err := products.SaveStock(ctx, product); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i, mv := range movements {
		l.logger.Debug("stock adjusted",
			zap.String("tenant_id", tenantID.String()),
			zap.String("product_id", ordered[i].ProductID.String()),
			zap.String("direction", mv.Sign.String()),
			zap.String("bucket", string(mv.Bucket)),
			zap.Int("quantity", mv.Quantity),
			zap.Int("stock_before", mv.ProductBefore),
			zap.Int("stock_after", mv.ProductAfter),
		)
		if l.metrics != nil {
			l.metrics.RecordStockMovement(ctx, tenantID, mv)
		}
	}
	return nil
}

// AdjustAfterCommit runs Adjust once the triggering write has committed.
// A failure is logged and counted but never returned: the business document
// is already durable and there is no compensation.
func (l *StockLedger) AdjustAfterCommit(ctx context.Context, tenantID uuid.UUID, items trade.LineItems, sign catalog.StockSign, source string) {
	ctx = context.WithoutCancel(ctx)
	if err := l.Adjust(ctx, tenantID, items, sign); err != nil {
		l.logger.Error("post-commit stock adjustment failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("source", source),
			zap.String("direction", sign.String()),
			zap.Any("items", items),
			zap.Error(err),
		)
		if l.metrics != nil {
			l.metrics.RecordStockAdjustFailure(ctx, tenantID, source)
		}
	}
}
