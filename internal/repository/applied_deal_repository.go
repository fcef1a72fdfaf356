package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/internal/service"
	"github.com/fairyhunter13/deal-engine/pkg/database"
)

// AppliedPoolInterface defines the database operations needed by AppliedDealRepository.
type AppliedPoolInterface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AppliedDealRepository records deals committed to transactions.
type AppliedDealRepository struct {
	pool AppliedPoolInterface
}

// NewAppliedDealRepository creates a new AppliedDealRepository with the given pool.
func NewAppliedDealRepository(pool *pgxpool.Pool) *AppliedDealRepository {
	return &AppliedDealRepository{pool: pool}
}

// NewAppliedDealRepositoryWithPool creates an AppliedDealRepository with a custom pool interface.
// This is primarily used for testing.
func NewAppliedDealRepositoryWithPool(pool AppliedPoolInterface) *AppliedDealRepository {
	return &AppliedDealRepository{pool: pool}
}

// ListByTransaction returns the deals applied to a transaction in the order
// they were applied. Returns an empty slice (not nil) when there are none.
func (r *AppliedDealRepository) ListByTransaction(ctx context.Context, transactionID string) ([]model.AppliedDeal, error) {
	return listApplied(ctx, r.pool, transactionID)
}

// ListByTransactionTx is ListByTransaction read within tx. Call it after
// LockTransaction so the result cannot change before commit.
func (r *AppliedDealRepository) ListByTransactionTx(ctx context.Context, tx database.TxQuerier, transactionID string) ([]model.AppliedDeal, error) {
	return listApplied(ctx, tx, transactionID)
}

// LockTransaction takes a transaction-scoped advisory lock on transactionID.
// Concurrent applies to the same transaction queue here until tx ends.
func (r *AppliedDealRepository) LockTransaction(ctx context.Context, tx database.TxQuerier, transactionID string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, transactionID); err != nil {
		return fmt.Errorf("lock transaction %s: %w", transactionID, err)
	}
	return nil
}

func listApplied(ctx context.Context, q AppliedPoolInterface, transactionID string) ([]model.AppliedDeal, error) {
	query := `SELECT deal_id, discount_amount FROM applied_deals WHERE transaction_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("get applied deals for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	applied := []model.AppliedDeal{}
	for rows.Next() {
		var a model.AppliedDeal
		if err := rows.Scan(&a.DealID, &a.DiscountAmount); err != nil {
			return nil, fmt.Errorf("scan applied deal: %w", err)
		}
		applied = append(applied, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applied deal rows: %w", err)
	}
	return applied, nil
}

// Insert records a deal against a transaction within tx.
// Returns service.ErrAlreadyApplied if the pair is already recorded.
func (r *AppliedDealRepository) Insert(ctx context.Context, tx database.TxQuerier, transactionID, dealID string, discountAmount int64) error {
	query := `INSERT INTO applied_deals (transaction_id, deal_id, discount_amount) VALUES ($1, $2, $3)`

	_, err := tx.Exec(ctx, query, transactionID, dealID, discountAmount)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrAlreadyApplied
		}
		return fmt.Errorf("insert applied deal: %w", err)
	}
	return nil
}
