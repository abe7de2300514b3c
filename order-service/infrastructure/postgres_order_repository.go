package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/draftea/order-saga/order-service/domain"
	"github.com/draftea/order-saga/shared/models"
	"github.com/draftea/order-saga/shared/saga"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

var _ domain.OrderRepository = (*PostgresOrderRepository)(nil)

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *sqlx.DB
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(db *sqlx.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

type postgresOrder struct {
	ID             string         `db:"id"`
	CustomerID     string         `db:"customer_id"`
	ProductID      string         `db:"product_id"`
	Quantity       int            `db:"quantity"`
	Amount         int64          `db:"amount"`
	Currency       string         `db:"currency"`
	Status         string         `db:"status"`
	CompletedSteps pq.StringArray `db:"completed_steps"`
	FailureReason  sql.NullString `db:"failure_reason"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	Version        int            `db:"version"`
}

const orderColumns = `id, customer_id, product_id, quantity, amount, currency, status,
	completed_steps, failure_reason, created_at, updated_at, version`

// Save inserts the order or overwrites its mutable columns
func (r *PostgresOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `) VALUES (
			:id, :customer_id, :product_id, :quantity, :amount, :currency, :status,
			:completed_steps, :failure_reason, :created_at, :updated_at, :version
		)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			completed_steps = EXCLUDED.completed_steps,
			failure_reason = EXCLUDED.failure_reason,
			updated_at = EXCLUDED.updated_at,
			version = EXCLUDED.version`

	if _, err := r.db.NamedExecContext(ctx, query, toPostgresOrder(order)); err != nil {
		return errors.Wrap(err, "failed to save order")
	}

	return nil
}

// SaveRun records saga progress for the order identified by the transaction id.
// A versioned run only applies while the stored version still matches.
func (r *PostgresOrderRepository) SaveRun(ctx context.Context, state *saga.RunState) error {
	query := `
		UPDATE orders
		SET status = $2, completed_steps = $3, failure_reason = $4,
			updated_at = $5, version = version + 1
		WHERE id = $1 AND ($6::int = 0 OR version = $6::int)
		RETURNING version`

	var version int
	err := r.db.QueryRowxContext(ctx, query,
		state.TransactionID.String(),
		string(state.Status),
		pq.StringArray(state.CompletedSteps),
		nullString(state.FailureReason),
		time.Now().UTC(),
		state.Version,
	).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return r.missingRun(ctx, state)
	}
	if err != nil {
		return errors.Wrap(err, "failed to save saga run")
	}

	if state.Version != 0 {
		state.Version = version
	}
	return nil
}

func (r *PostgresOrderRepository) missingRun(ctx context.Context, state *saga.RunState) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, state.TransactionID.String()); err != nil {
		return errors.Wrap(err, "failed to save saga run")
	}
	if exists {
		return errors.Wrapf(saga.ErrRunConflict, "order %s is past version %d", state.TransactionID, state.Version)
	}
	return errors.Wrapf(domain.ErrOrderNotFound, "order %s", state.TransactionID)
}

// FindByID finds an order by ID
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id models.ID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var row postgresOrder
	if err := r.db.GetContext(ctx, &row, query, id.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "failed to find order")
	}

	return row.toDomain()
}

// FindIncomplete returns orders whose saga has not reached a terminal status
// and that were last updated before the cutoff, oldest first
func (r *PostgresOrderRepository) FindIncomplete(ctx context.Context, before time.Time, limit int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status NOT IN ($1, $2) AND updated_at < $3
		ORDER BY created_at ASC
		LIMIT $4`

	var rows []postgresOrder
	err := r.db.SelectContext(ctx, &rows, query,
		string(domain.OrderStatusCompleted),
		string(domain.OrderStatusFailed),
		before.UTC(),
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find incomplete orders")
	}

	orders := make([]*domain.Order, 0, len(rows))
	for i := range rows {
		order, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, nil
}

func toPostgresOrder(order *domain.Order) *postgresOrder {
	return &postgresOrder{
		ID:             order.ID.String(),
		CustomerID:     order.CustomerID,
		ProductID:      order.ProductID,
		Quantity:       order.Quantity,
		Amount:         order.Amount.Amount,
		Currency:       order.Amount.Currency,
		Status:         string(order.Status),
		CompletedSteps: pq.StringArray(order.CompletedSteps),
		FailureReason:  nullString(order.FailureReason),
		CreatedAt:      order.Timestamps.CreatedAt,
		UpdatedAt:      order.Timestamps.UpdatedAt,
		Version:        order.Version.Value,
	}
}

func (p *postgresOrder) toDomain() (*domain.Order, error) {
	id, err := models.NewID(p.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	amount, err := models.NewMoney(p.Amount, p.Currency)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order amount")
	}

	completed := []string(p.CompletedSteps)
	if completed == nil {
		completed = []string{}
	}

	return &domain.Order{
		ID:             id,
		CustomerID:     p.CustomerID,
		ProductID:      p.ProductID,
		Quantity:       p.Quantity,
		Amount:         amount,
		Status:         saga.Status(p.Status),
		CompletedSteps: completed,
		FailureReason:  p.FailureReason.String,
		Timestamps: models.Timestamps{
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		},
		Version: models.Version{Value: p.Version},
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
