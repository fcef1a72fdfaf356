package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/deal-engine/internal/model"
)

// historyLimit bounds how many past purchases feed a recommendation.
const historyLimit = 100

// ProfilePoolInterface defines the database operations needed by ProfileRepository.
type ProfilePoolInterface interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ProfileRepository loads user profiles for recommendations.
type ProfileRepository struct {
	pool ProfilePoolInterface
}

// NewProfileRepository creates a new ProfileRepository with the given pool.
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// NewProfileRepositoryWithPool creates a ProfileRepository with a custom pool interface.
// This is primarily used for testing.
func NewProfileRepositoryWithPool(pool ProfilePoolInterface) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// GetByUserID loads a profile with its preferred categories and recent history.
// Returns nil, nil if the user has no profile.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile := model.UserProfile{
		UserID:              userID,
		PreferredCategories: []model.Category{},
		ShoppingHistory:     []model.ShoppingRecord{},
	}

	err := r.pool.QueryRow(ctx,
		`SELECT is_first_time, is_loyalty_member, average_bill_amount FROM user_profiles WHERE user_id = $1`,
		userID,
	).Scan(&profile.IsFirstTime, &profile.IsLoyaltyMember, &profile.AverageBillAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}

	if profile.PreferredCategories, err = r.preferredCategories(ctx, userID); err != nil {
		return nil, err
	}
	if profile.ShoppingHistory, err = r.shoppingHistory(ctx, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) preferredCategories(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category FROM user_preferred_categories WHERE user_id = $1 ORDER BY category`, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferred categories for %s: %w", userID, err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan preferred category: %w", err)
		}
		categories = append(categories, model.Category(c))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate preferred category rows: %w", err)
	}
	return categories, nil
}

func (r *ProfileRepository) shoppingHistory(ctx context.Context, userID string) ([]model.ShoppingRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT category, amount, purchased_at FROM user_shopping_history
		WHERE user_id = $1 ORDER BY purchased_at DESC LIMIT $2`, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("get shopping history for %s: %w", userID, err)
	}
	defer rows.Close()

	history := []model.ShoppingRecord{}
	for rows.Next() {
		var rec model.ShoppingRecord
		if err := rows.Scan(&rec.Category, &rec.Amount, &rec.Date); err != nil {
			return nil, fmt.Errorf("scan shopping record: %w", err)
		}
		history = append(history, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shopping history rows: %w", err)
	}
	return history, nil
}
