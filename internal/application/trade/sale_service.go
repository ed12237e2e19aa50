package trade

import (
	"context"
	"time"

	"github.com/atelierpoz/backoffice/internal/application/inventory"
	"github.com/atelierpoz/backoffice/internal/application/txn"
	"github.com/atelierpoz/backoffice/internal/domain/catalog"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SaleMetrics receives point-of-sale commit timings
type SaleMetrics interface {
	RecordSaleCommit(ctx context.Context, tenantID uuid.UUID, d time.Duration)
}

// SaleService commits and reverses point-of-sale transactions
type SaleService struct {
	scope          txn.TransactionScope
	sales          trade.SaleRepository
	ledger         *inventory.StockLedger
	guard          shared.StoreGuard
	metrics        SaleMetrics
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(scope txn.TransactionScope, sales trade.SaleRepository, ledger *inventory.StockLedger, logger *zap.Logger) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{scope: scope, sales: sales, ledger: ledger, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetStoreGuard sets the cross-instance guard taken around commits (optional)
func (s *SaleService) SetStoreGuard(guard shared.StoreGuard) {
	s.guard = guard
}

// SetMetrics sets the commit metrics sink (optional)
func (s *SaleService) SetMetrics(metrics SaleMetrics) {
	s.metrics = metrics
}

type stockKey struct {
	productID     uuid.UUID
	combinationID string
}

// CreateSale validates stock and inserts the sale under the store lock.
// Stock is decremented after commit; a failed decrement is logged and the
// sale stands.
func (s *SaleService) CreateSale(ctx context.Context, tenantID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	if err := req.Items.Validate(); err != nil {
		return nil, err
	}
	total := req.Total
	if total.IsZero() {
		for _, item := range req.Items {
			total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
	}

	if s.guard != nil {
		release := s.guard.Acquire(ctx, tenantID)
		defer release()
	}

	started := time.Now()
	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		if err := repos.Locker().LockStore(ctx, tenantID); err != nil {
			return err
		}
		if err := checkAvailability(ctx, repos.Products(), tenantID, req.Items); err != nil {
			return err
		}

		number, err := repos.Sequences().Allocate(ctx, tenantID, shared.CounterSale)
		if err != nil {
			return err
		}
		sale, err = trade.NewSale(tenantID, number, req.ClientID, req.Items, total)
		if err != nil {
			return err
		}
		sale.SetCreatedBy(req.CreatedBy)
		return repos.Sales().Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordSaleCommit(ctx, tenantID, time.Since(started))
	}

	s.logger.Info("sale committed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.Int64("sale_number", sale.SaleNumber),
		zap.String("total", sale.Total.String()),
	)
	s.ledger.AdjustAfterCommit(ctx, tenantID, sale.Items.LineItems(), catalog.StockDecrement, "sale")
	s.publish(ctx, sale)

	resp := ToSaleResponse(sale)
	return &resp, nil
}

// checkAvailability rejects the sale when any product or combination is
// asked for more than it holds. Lines naming the same bucket are summed.
func checkAvailability(ctx context.Context, products catalog.ProductRepository, tenantID uuid.UUID, items trade.SaleItems) error {
	requested := make(map[stockKey]int, len(items))
	cache := make(map[uuid.UUID]*catalog.Product, len(items))
	for _, item := range items {
		product, ok := cache[item.ProductID]
		if !ok {
			var err error
			product, err = products.FindByIDForTenant(ctx, tenantID, item.ProductID)
			if err != nil {
				return err
			}
			cache[item.ProductID] = product
		}
		available, err := product.AvailableStock(item.CombinationID)
		if err != nil {
			return err
		}

		key := stockKey{productID: item.ProductID}
		if item.CombinationID != nil {
			key.combinationID = *item.CombinationID
		}
		requested[key] += item.Quantity
		if requested[key] > available {
			return shared.NewInsufficientStockError(item.Label(), requested[key], available)
		}
	}
	return nil
}

// RefundSale marks a completed sale refunded and returns its items to stock
func (s *SaleService) RefundSale(ctx context.Context, tenantID, saleID, actorID uuid.UUID) (*SaleResponse, error) {
	return s.reverse(ctx, tenantID, saleID, func(sale *trade.Sale) error {
		return sale.Refund(actorID)
	})
}

// CancelSale marks a completed sale cancelled and returns its items to stock
func (s *SaleService) CancelSale(ctx context.Context, tenantID, saleID, actorID uuid.UUID) (*SaleResponse, error) {
	return s.reverse(ctx, tenantID, saleID, func(sale *trade.Sale) error {
		return sale.Cancel(actorID)
	})
}

func (s *SaleService) reverse(ctx context.Context, tenantID, saleID uuid.UUID, apply func(*trade.Sale) error) (*SaleResponse, error) {
	var sale *trade.Sale
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		var err error
		sale, err = repos.Sales().FindByIDForUpdate(ctx, tenantID, saleID)
		if err != nil {
			return err
		}
		if err := apply(sale); err != nil {
			return err
		}
		return repos.Sales().Save(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale reversed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("status", string(sale.Status)),
	)
	s.ledger.AdjustAfterCommit(ctx, tenantID, sale.Items.LineItems(), catalog.StockIncrement, "sale_"+string(sale.Status))
	s.publish(ctx, sale)

	resp := ToSaleResponse(sale)
	return &resp, nil
}

// GetSale returns one sale
func (s *SaleService) GetSale(ctx context.Context, tenantID, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.sales.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sale)
	return &resp, nil
}

// ListSales lists sales of a store
func (s *SaleService) ListSales(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SaleResponse, int64, error) {
	rows, total, err := s.sales.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]SaleResponse, len(rows))
	for i := range rows {
		out[i] = ToSaleResponse(&rows[i])
	}
	return out, total, nil
}

func (s *SaleService) publish(ctx context.Context, sale *trade.Sale) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, sale.PullDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish sale events", zap.Error(err))
	}
}
