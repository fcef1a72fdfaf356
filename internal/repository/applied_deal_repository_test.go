package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/internal/service"
)

func appliedRow(id string, amount int64) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*string)) = id
		*(dest[1].(*int64)) = amount
		return nil
	}
}

func TestAppliedDealRepository_ListByTransaction_Success(t *testing.T) {
	var capturedArgs []any
	mock := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			capturedArgs = args
			return &mockRows{rows: []func(dest ...any) error{appliedRow("A", 100), appliedRow("B", 90)}}, nil
		},
	}

	applied, err := NewAppliedDealRepositoryWithPool(mock).ListByTransaction(context.Background(), "txn-1")

	require.NoError(t, err)
	assert.Equal(t, []model.AppliedDeal{{DealID: "A", DiscountAmount: 100}, {DealID: "B", DiscountAmount: 90}}, applied)
	assert.Equal(t, "txn-1", capturedArgs[0])
}

func TestAppliedDealRepository_ListByTransaction_Empty(t *testing.T) {
	applied, err := NewAppliedDealRepositoryWithPool(&mockPool{}).ListByTransaction(context.Background(), "txn-1")

	require.NoError(t, err)
	assert.NotNil(t, applied, "should return empty slice, not nil")
	assert.Empty(t, applied)
}

func TestAppliedDealRepository_ListByTransaction_QueryError(t *testing.T) {
	dbErr := errors.New("query failed")
	mock := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return nil, dbErr
		},
	}

	applied, err := NewAppliedDealRepositoryWithPool(mock).ListByTransaction(context.Background(), "txn-1")

	require.Error(t, err)
	assert.Nil(t, applied)
	assert.Contains(t, err.Error(), "get applied deals for transaction")
	assert.True(t, errors.Is(err, dbErr))
}

func TestAppliedDealRepository_ListByTransaction_ScanError(t *testing.T) {
	mock := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &mockRows{rows: []func(dest ...any) error{appliedRow("A", 100)}, errOnScan: errors.New("scan failed")}, nil
		},
	}

	_, err := NewAppliedDealRepositoryWithPool(mock).ListByTransaction(context.Background(), "txn-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan applied deal")
}

func TestAppliedDealRepository_ListByTransaction_RowsError(t *testing.T) {
	mock := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return &mockRows{errOnRows: errors.New("rows iteration error")}, nil
		},
	}

	_, err := NewAppliedDealRepositoryWithPool(mock).ListByTransaction(context.Background(), "txn-1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "iterate applied deal rows")
}

func TestAppliedDealRepository_ListByTransactionTx_ReadsThroughTx(t *testing.T) {
	var capturedSQL string
	tx := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			capturedSQL = sql
			return &mockRows{rows: []func(dest ...any) error{appliedRow("A", 100)}}, nil
		},
	}
	pool := &mockPool{
		queryFn: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			t.Fatal("pool must not be used for a transactional read")
			return nil, nil
		},
	}

	applied, err := NewAppliedDealRepositoryWithPool(pool).ListByTransactionTx(context.Background(), tx, "txn-1")

	require.NoError(t, err)
	assert.Equal(t, []model.AppliedDeal{{DealID: "A", DiscountAmount: 100}}, applied)
	assert.Contains(t, capturedSQL, "discount_amount")
}

func TestAppliedDealRepository_LockTransaction(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any
	tx := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("SELECT 1"), nil
		},
	}

	err := NewAppliedDealRepositoryWithPool(&mockPool{}).LockTransaction(context.Background(), tx, "txn-1")

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "pg_advisory_xact_lock")
	assert.Equal(t, []any{"txn-1"}, capturedArgs)
}

func TestAppliedDealRepository_LockTransaction_Error(t *testing.T) {
	dbErr := errors.New("connection reset")
	tx := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, dbErr
		},
	}

	err := NewAppliedDealRepositoryWithPool(&mockPool{}).LockTransaction(context.Background(), tx, "txn-1")

	require.Error(t, err)
	assert.True(t, errors.Is(err, dbErr))
	assert.Contains(t, err.Error(), "lock transaction")
}

func TestAppliedDealRepository_Insert_Success(t *testing.T) {
	var capturedSQL string
	var capturedArgs []any
	tx := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			capturedSQL = sql
			capturedArgs = arguments
			return pgconn.NewCommandTag("INSERT 0 1"), nil
		},
	}

	err := NewAppliedDealRepositoryWithPool(&mockPool{}).Insert(context.Background(), tx, "txn-1", "SUMMER20", 200)

	require.NoError(t, err)
	assert.Contains(t, capturedSQL, "INSERT INTO applied_deals")
	assert.Equal(t, []any{"txn-1", "SUMMER20", int64(200)}, capturedArgs)
}

func TestAppliedDealRepository_Insert_Duplicate(t *testing.T) {
	tx := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value"}
		},
	}

	err := NewAppliedDealRepositoryWithPool(&mockPool{}).Insert(context.Background(), tx, "txn-1", "SUMMER20", 200)

	assert.True(t, errors.Is(err, service.ErrAlreadyApplied), "should return ErrAlreadyApplied for duplicate")
}

func TestAppliedDealRepository_Insert_OtherPgError(t *testing.T) {
	tx := &mockPool{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23503", Message: "foreign key violation"}
		},
	}

	err := NewAppliedDealRepositoryWithPool(&mockPool{}).Insert(context.Background(), tx, "txn-1", "GHOST", 0)

	require.Error(t, err)
	assert.False(t, errors.Is(err, service.ErrAlreadyApplied))
	assert.Contains(t, err.Error(), "insert applied deal")
}

func TestNewAppliedDealRepository_Production(t *testing.T) {
	repo := NewAppliedDealRepository(nil)
	require.NotNil(t, repo)
}
