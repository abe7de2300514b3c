package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/shared/models"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/tidwall/btree"
)

var _ domain.OrderRepository = (*MemoryOrderRepository)(nil)

// MemoryOrderRepository keeps orders in a btree ordered by creation time so
// FindIncomplete returns the oldest runs first, like the SQL repository.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders *btree.Map[string, *domain.Order]
	keys   map[models.ID]string
}

// NewMemoryOrderRepository creates an empty repository
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: btree.NewMap[string, *domain.Order](32),
		keys:   make(map[models.ID]string),
	}
}

func orderKey(createdAt time.Time, id models.ID) string {
	return fmt.Sprintf("%020d/%s", createdAt.UnixNano(), id)
}

func (r *MemoryOrderRepository) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.keys[order.ID]
	if !ok {
		key = orderKey(order.Timestamps.CreatedAt, order.ID)
		r.keys[order.ID] = key
	}
	r.orders.Set(key, cloneOrder(order))
	return nil
}

func (r *MemoryOrderRepository) SaveRun(_ context.Context, state *saga.RunState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.keys[state.TransactionID]
	if !ok {
		return errors.Wrapf(domain.ErrOrderNotFound, "order %s", state.TransactionID)
	}

	order, _ := r.orders.Get(key)
	if state.Version != 0 && order.Version.Value != state.Version {
		return errors.Wrapf(saga.ErrRunConflict, "order %s is past version %d", state.TransactionID, state.Version)
	}

	updated := cloneOrder(order)
	updated.ApplyRunState(state)
	r.orders.Set(key, updated)
	if state.Version != 0 {
		state.Version = updated.Version.Value
	}
	return nil
}

func (r *MemoryOrderRepository) FindByID(_ context.Context, id models.ID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key, ok := r.keys[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	order, _ := r.orders.Get(key)
	return cloneOrder(order), nil
}

func (r *MemoryOrderRepository) FindIncomplete(_ context.Context, before time.Time, limit int) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*domain.Order
	r.orders.Scan(func(_ string, order *domain.Order) bool {
		if !order.Status.IsTerminal() && order.Timestamps.UpdatedAt.Before(before) {
			result = append(result, cloneOrder(order))
		}
		return limit <= 0 || len(result) < limit
	})
	return result, nil
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.CompletedSteps = append([]string{}, order.CompletedSteps...)
	return &clone
}
