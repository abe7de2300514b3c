package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/order-service/infrastructure"
	"github.com/draftea/order-saga/order-service/mocks"
	sharedinfra "github.com/draftea/order-saga/shared/infrastructure"
	"github.com/draftea/order-saga/shared/models"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, status saga.Status, completed ...string) *domain.Order {
	amount, err := models.NewMoney(1000, "USD")
	require.NoError(t, err)
	order, err := domain.NewOrder("customer-1", "product-1", 1, amount)
	require.NoError(t, err)
	order.Status = status
	order.CompletedSteps = completed
	return order
}

func TestResumeIncompleteOrders_Execute(t *testing.T) {
	t.Run("resumes every incomplete order from its recorded progress", func(t *testing.T) {
		repo := mocks.NewMockOrderRepository(t)
		orderSaga := mocks.NewMockOrderSaga(t)

		shipped := newTestOrder(t, domain.OrderStatusShipped, "Payment", "Inventory", "Shipping")
		reserved := newTestOrder(t, domain.OrderStatusPaymentReserved, "Payment")
		broken := newTestOrder(t, domain.OrderStatusPending)
		taken := newTestOrder(t, domain.OrderStatusInventoryReserved, "Payment", "Inventory")

		repo.EXPECT().FindIncomplete(mock.Anything, mock.AnythingOfType("time.Time"), 50).
			Return([]*domain.Order{shipped, reserved, broken, taken}, nil).Once()

		orderSaga.EXPECT().Resume(mock.Anything, mock.MatchedBy(func(state *saga.RunState) bool {
			return state.TransactionID == shipped.ID && len(state.CompletedSteps) == 3
		}), mock.Anything).Return(&saga.RunState{Status: saga.StatusCompleted}, nil).Once()
		orderSaga.EXPECT().Resume(mock.Anything, mock.MatchedBy(func(state *saga.RunState) bool {
			return state.TransactionID == reserved.ID
		}), mock.Anything).Return(&saga.RunState{Status: saga.StatusFailed}, nil).Once()
		orderSaga.EXPECT().Resume(mock.Anything, mock.MatchedBy(func(state *saga.RunState) bool {
			return state.TransactionID == broken.ID
		}), mock.Anything).Return(nil, errors.New("database error")).Once()
		orderSaga.EXPECT().Resume(mock.Anything, mock.MatchedBy(func(state *saga.RunState) bool {
			return state.TransactionID == taken.ID
		}), mock.Anything).Return(taken.RunState(), errors.Wrap(saga.ErrRunConflict, "failed to claim saga run")).Once()

		report, err := NewResumeIncompleteOrders(repo, orderSaga, 2, 50, 0, zerolog.Nop()).Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, &ResumeReport{Resumed: 4, Completed: 1, Failed: 1, Skipped: 1, Errors: 1}, report)
	})

	t.Run("nothing to resume", func(t *testing.T) {
		repo := mocks.NewMockOrderRepository(t)
		repo.EXPECT().FindIncomplete(mock.Anything, mock.AnythingOfType("time.Time"), 10).Return(nil, nil).Once()

		report, err := NewResumeIncompleteOrders(repo, mocks.NewMockOrderSaga(t), 0, 10, 0, zerolog.Nop()).Execute(context.Background())

		require.NoError(t, err)
		assert.Zero(t, report.Resumed)
	})

	t.Run("only orders idle for the stale period are looked up", func(t *testing.T) {
		repo := mocks.NewMockOrderRepository(t)
		uc := NewResumeIncompleteOrders(repo, mocks.NewMockOrderSaga(t), 1, 10, time.Minute, zerolog.Nop())

		repo.EXPECT().FindIncomplete(mock.Anything, mock.MatchedBy(func(before time.Time) bool {
			return before.Before(time.Now().Add(-59 * time.Second))
		}), 10).Return(nil, nil).Once()

		_, err := uc.Execute(context.Background())
		require.NoError(t, err)
	})

	t.Run("lookup failure", func(t *testing.T) {
		repo := mocks.NewMockOrderRepository(t)
		repo.EXPECT().FindIncomplete(mock.Anything, mock.AnythingOfType("time.Time"), 10).Return(nil, errors.New("database error")).Once()

		report, err := NewResumeIncompleteOrders(repo, mocks.NewMockOrderSaga(t), 1, 10, 0, zerolog.Nop()).Execute(context.Background())

		assert.ErrorContains(t, err, "failed to find incomplete orders")
		assert.Nil(t, report)
	})
}

type participantCalls struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *participantCalls) participant(name string, block <-chan struct{}, started chan<- struct{}) saga.Participant {
	return saga.ParticipantFunc(func(_ context.Context, operation string, _ *saga.Request) (*saga.Outcome, error) {
		c.mu.Lock()
		c.calls[name+" "+operation]++
		c.mu.Unlock()

		if block != nil && operation == "reserve" {
			started <- struct{}{}
			<-block
		}
		return saga.Succeeded(name + " " + operation), nil
	})
}

func (c *participantCalls) snapshot() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make(map[string]int, len(c.calls))
	for k, v := range c.calls {
		result[k] = v
	}
	return result
}

func newOrderOrchestrator(t *testing.T, repo domain.OrderRepository, calls *participantCalls, block <-chan struct{}, started chan<- struct{}) *saga.Orchestrator {
	catalog, err := domain.NewOrderSagaCatalog(domain.Participants{
		Payment:      calls.participant("payment", block, started),
		Inventory:    calls.participant("inventory", nil, nil),
		Shipping:     calls.participant("shipping", nil, nil),
		Notification: calls.participant("notification", nil, nil),
	})
	require.NoError(t, err)
	return saga.NewOrchestrator(catalog, repo)
}

func TestResumeIncompleteOrders_LeavesLiveRunsAlone(t *testing.T) {
	ctx := context.Background()
	repo := infrastructure.NewMemoryOrderRepository()
	calls := &participantCalls{calls: map[string]int{}}
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	orchestrator := newOrderOrchestrator(t, repo, calls, release, started)

	recovery := NewResumeIncompleteOrders(repo, orchestrator, 2, 10, 0, zerolog.Nop())
	time.Sleep(5 * time.Millisecond)

	createOrder := NewCreateOrder(repo, orchestrator, sharedinfra.NewMemoryEventBus(zerolog.Nop()), zerolog.Nop())
	done := make(chan *OrderResponse, 1)
	go func() {
		result, err := createOrder.Execute(ctx, validCommand())
		assert.NoError(t, err)
		done <- result
	}()

	<-started
	report, err := recovery.Execute(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Resumed)

	close(release)
	result := <-done
	require.NotNil(t, result)
	assert.Equal(t, "COMPLETED", result.Status)
	assert.Equal(t, map[string]int{
		"payment reserve":   1,
		"inventory reserve": 1,
		"shipping ship":     1,
		"notification send": 1,
	}, calls.snapshot())
}

type staleSnapshotRepository struct {
	*infrastructure.MemoryOrderRepository
	snapshot []*domain.Order
}

func (r *staleSnapshotRepository) FindIncomplete(context.Context, time.Time, int) ([]*domain.Order, error) {
	return r.snapshot, nil
}

func TestResumeIncompleteOrders_SkipsRunsMovedOnByAnotherOrchestration(t *testing.T) {
	ctx := context.Background()
	memory := infrastructure.NewMemoryOrderRepository()

	order := newTestOrder(t, domain.OrderStatusPending)
	require.NoError(t, memory.Save(ctx, order))
	stale, err := memory.FindByID(ctx, order.ID)
	require.NoError(t, err)

	state := order.RunState()
	state.Complete(saga.Step{Name: domain.StepPayment, Status: domain.OrderStatusPaymentReserved})
	require.NoError(t, memory.SaveRun(ctx, state))

	repo := &staleSnapshotRepository{MemoryOrderRepository: memory, snapshot: []*domain.Order{stale}}
	calls := &participantCalls{calls: map[string]int{}}
	orchestrator := newOrderOrchestrator(t, repo, calls, nil, nil)

	report, err := NewResumeIncompleteOrders(repo, orchestrator, 1, 10, 0, zerolog.Nop()).Execute(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Zero(t, report.Errors)
	assert.Empty(t, calls.snapshot())

	found, err := memory.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPaymentReserved, found.Status)
}
