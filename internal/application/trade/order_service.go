package trade

import (
	"context"
	"strings"

	"github.com/atelierpoz/backoffice/internal/application/txn"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/atelierpoz/backoffice/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService opens and reads orders. Status changes live in the
// fulfillment synchronizer because they move stock and receivables.
type OrderService struct {
	scope          txn.TransactionScope
	orders         trade.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(scope txn.TransactionScope, orders trade.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{scope: scope, orders: orders, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateOrder opens a pending order under the next order number. No stock
// moves until the order is completed or billed.
func (s *OrderService) CreateOrder(ctx context.Context, tenantID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	if err := req.Items.Validate(); err != nil {
		return nil, err
	}
	var order *trade.Order
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		number, err := repos.Sequences().Allocate(ctx, tenantID, shared.CounterOrder)
		if err != nil {
			return err
		}
		order, err = trade.NewOrder(tenantID, number, req.ClientID, req.Items, req.Total)
		if err != nil {
			return err
		}
		order.Notes = strings.TrimSpace(req.Notes)
		order.SetCreatedBy(req.ActorID)
		return repos.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()),
		zap.Int64("order_number", order.OrderNumber),
	)
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, order.PullDomainEvents()...)
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// GetOrder returns one order
func (s *OrderService) GetOrder(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListOrders lists orders of a store
func (s *OrderService) ListOrders(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]OrderResponse, int64, error) {
	if filter.Status != "" && !trade.OrderStatus(filter.Status).IsValid() {
		return nil, 0, shared.NewValidationError("unknown order status %q", filter.Status)
	}
	rows, total, err := s.orders.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(rows))
	for i := range rows {
		out[i] = ToOrderResponse(&rows[i])
	}
	return out, total, nil
}
