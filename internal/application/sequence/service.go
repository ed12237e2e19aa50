// Package sequence exposes the per-store numbering sequences.
package sequence

import (
	"context"

	"github.com/atelierpoz/backoffice/internal/application/txn"
	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/google/uuid"
)

// NextNumberResponse is the number the next document of a counter would receive
type NextNumberResponse struct {
	Counter string `json:"counter"`
	Next    int64  `json:"next"`
}

// SequenceService reports sequence positions outside a document write
type SequenceService struct {
	scope txn.TransactionScope
}

// NewSequenceService creates a new SequenceService
func NewSequenceService(scope txn.TransactionScope) *SequenceService {
	return &SequenceService{scope: scope}
}

// Allocate returns the number the next document of counter would receive.
// It runs the allocator in its own transaction and inserts nothing, so the
// value is a peek: a concurrent writer may take it first.
func (s *SequenceService) Allocate(ctx context.Context, tenantID uuid.UUID, counter string) (*NextNumberResponse, error) {
	c := shared.SequenceCounter(counter)
	if !c.IsValid() {
		return nil, shared.NewValidationError("unknown sequence counter %q", counter)
	}
	var next int64
	err := s.scope.Execute(ctx, func(repos txn.TransactionalRepositories) error {
		n, err := repos.Sequences().Allocate(ctx, tenantID, c)
		next = n
		return err
	})
	if err != nil {
		return nil, err
	}
	return &NextNumberResponse{Counter: counter, Next: next}, nil
}
