package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/internal/service"
	"github.com/fairyhunter13/deal-engine/pkg/database"
)

const dealColumns = `id, title, description, category, discount_type, discount_value, max_discount,
	minimum_bill, valid_until, is_active, usage_limit, usage_count, applicable_products, season, created_at`

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// DealRepository provides data access for the deal catalog using pgx.
type DealRepository struct {
	pool PoolInterface
}

// NewDealRepository creates a new DealRepository with the given pool.
func NewDealRepository(pool *pgxpool.Pool) *DealRepository {
	return &DealRepository{pool: pool}
}

// NewDealRepositoryWithPool creates a DealRepository with a custom pool interface.
// This is primarily used for testing.
func NewDealRepositoryWithPool(pool PoolInterface) *DealRepository {
	return &DealRepository{pool: pool}
}

// Insert inserts a new deal.
// Returns service.ErrDealExists if a deal with the same ID already exists.
func (r *DealRepository) Insert(ctx context.Context, deal *model.Deal) error {
	products := deal.ApplicableProducts
	if products == nil {
		products = []string{}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO deals (id, title, description, category, discount_type, discount_value, max_discount,
			minimum_bill, valid_until, is_active, usage_limit, usage_count, applicable_products, season)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		deal.ID, deal.Title, deal.Description, string(deal.Category), string(deal.DiscountType),
		deal.DiscountValue, deal.MaxDiscount, deal.MinimumBill, deal.ValidUntil, deal.IsActive,
		deal.UsageLimit, deal.UsageCount, products, deal.Season)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrDealExists
		}
		return fmt.Errorf("insert deal: %w", err)
	}
	return nil
}

// GetByID retrieves a deal by ID.
// Returns nil, nil if the deal is not found (service layer handles this).
func (r *DealRepository) GetByID(ctx context.Context, id string) (*model.Deal, error) {
	deal, err := scanDeal(r.pool.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deal by id %s: %w", id, err)
	}
	return deal, nil
}

// ListActive returns every deal with is_active set, oldest first.
// Expiry is not filtered here; the engine decides applicability.
func (r *DealRepository) ListActive(ctx context.Context) ([]model.Deal, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+dealColumns+` FROM deals WHERE is_active ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list active deals: %w", err)
	}
	return collectDeals(rows)
}

// ListByIDs returns the deals whose IDs are in ids, in no particular order.
func (r *DealRepository) ListByIDs(ctx context.Context, ids []string) ([]model.Deal, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list deals by ids: %w", err)
	}
	return collectDeals(rows)
}

// GetDealForUpdate retrieves a deal with a row lock (SELECT FOR UPDATE).
// Returns service.ErrDealNotFound if the deal doesn't exist.
func (r *DealRepository) GetDealForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Deal, error) {
	deal, err := scanDeal(tx.QueryRow(ctx, `SELECT `+dealColumns+` FROM deals WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrDealNotFound
		}
		return nil, fmt.Errorf("get deal for update %s: %w", id, err)
	}
	return deal, nil
}

// IncrementUsage bumps usage_count by one.
// Must be called within a transaction after locking the row.
func (r *DealRepository) IncrementUsage(ctx context.Context, tx database.TxQuerier, id string) error {
	_, err := tx.Exec(ctx, `UPDATE deals SET usage_count = usage_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment usage for %s: %w", id, err)
	}
	return nil
}

func collectDeals(rows pgx.Rows) ([]model.Deal, error) {
	defer rows.Close()

	deals := []model.Deal{}
	for rows.Next() {
		deal, err := scanDeal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deal: %w", err)
		}
		deals = append(deals, *deal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deal rows: %w", err)
	}
	return deals, nil
}

func scanDeal(row pgx.Row) (*model.Deal, error) {
	var (
		d            model.Deal
		category     string
		discountType string
		maxDiscount  *float64
		usageLimit   *int
		products     []string
		validUntil   time.Time
	)
	err := row.Scan(
		&d.ID,
		&d.Title,
		&d.Description,
		&category,
		&discountType,
		&d.DiscountValue,
		&maxDiscount,
		&d.MinimumBill,
		&validUntil,
		&d.IsActive,
		&usageLimit,
		&d.UsageCount,
		&products,
		&d.Season,
		&d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Category = model.Category(category)
	d.DiscountType = model.DiscountType(discountType)
	d.MaxDiscount = maxDiscount
	d.UsageLimit = usageLimit
	d.ApplicableProducts = products
	d.ValidUntil = validUntil
	return &d, nil
}
