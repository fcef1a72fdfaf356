package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fairyhunter13/deal-engine/internal/model"
)

// mockRow implements pgx.Row for testing.
type mockRow struct {
	scanFn func(dest ...any) error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.scanFn != nil {
		return m.scanFn(dest...)
	}
	return nil
}

// mockRows implements pgx.Rows. Each entry in rows fills one row's destinations.
type mockRows struct {
	rows      []func(dest ...any) error
	index     int
	errOnScan error
	errOnRows error
	closed    bool
}

func (m *mockRows) Close() { m.closed = true }

func (m *mockRows) Err() error {
	return m.errOnRows
}

func (m *mockRows) Next() bool {
	if m.index < len(m.rows) {
		m.index++
		return true
	}
	return false
}

func (m *mockRows) Scan(dest ...any) error {
	if m.errOnScan != nil {
		return m.errOnScan
	}
	if m.index > 0 && m.index <= len(m.rows) {
		return m.rows[m.index-1](dest...)
	}
	return nil
}

func (m *mockRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (m *mockRows) RawValues() [][]byte                          { return nil }
func (m *mockRows) Values() ([]any, error)                       { return nil, nil }
func (m *mockRows) Conn() *pgx.Conn                              { return nil }

// mockPool implements PoolInterface and database.TxQuerier for testing.
type mockPool struct {
	execFn     func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockPool) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	if m.execFn != nil {
		return m.execFn(ctx, sql, arguments...)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if m.queryRowFn != nil {
		return m.queryRowFn(ctx, sql, args...)
	}
	return &mockRow{}
}

func (m *mockPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.queryFn != nil {
		return m.queryFn(ctx, sql, args...)
	}
	return &mockRows{}, nil
}

// fillDeal writes d into the destinations scanDeal passes to Scan.
func fillDeal(d model.Deal) func(dest ...any) error {
	return func(dest ...any) error {
		*(dest[0].(*string)) = d.ID
		*(dest[1].(*string)) = d.Title
		*(dest[2].(*string)) = d.Description
		*(dest[3].(*string)) = string(d.Category)
		*(dest[4].(*string)) = string(d.DiscountType)
		*(dest[5].(*float64)) = d.DiscountValue
		*(dest[6].(**float64)) = d.MaxDiscount
		*(dest[7].(*float64)) = d.MinimumBill
		*(dest[8].(*time.Time)) = d.ValidUntil
		*(dest[9].(*bool)) = d.IsActive
		*(dest[10].(**int)) = d.UsageLimit
		*(dest[11].(*int)) = d.UsageCount
		*(dest[12].(*[]string)) = d.ApplicableProducts
		*(dest[13].(*string)) = d.Season
		*(dest[14].(*time.Time)) = d.CreatedAt
		return nil
	}
}

func sampleDeal(id string) model.Deal {
	maxDiscount := 200.0
	limit := 50
	return model.Deal{
		ID:                 id,
		Title:              "Summer Electronics Sale",
		Description:        "20% off on electronics",
		Category:           model.CategorySeasonal,
		DiscountType:       model.DiscountPercentage,
		DiscountValue:      20,
		MaxDiscount:        &maxDiscount,
		MinimumBill:        1000,
		ValidUntil:         time.Date(2025, 8, 31, 23, 59, 59, 0, time.UTC),
		IsActive:           true,
		UsageLimit:         &limit,
		UsageCount:         12,
		ApplicableProducts: []string{"electronics"},
		Season:             "summer",
		CreatedAt:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}
