package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/deal-engine/internal/metrics"
	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/pkg/database"
)

// DealRepositoryInterface defines the interface for deal catalog access.
type DealRepositoryInterface interface {
	Insert(ctx context.Context, deal *model.Deal) error
	GetByID(ctx context.Context, id string) (*model.Deal, error)
	ListActive(ctx context.Context) ([]model.Deal, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Deal, error)
	GetDealForUpdate(ctx context.Context, tx database.TxQuerier, id string) (*model.Deal, error)
	IncrementUsage(ctx context.Context, tx database.TxQuerier, id string) error
}

// AppliedDealRepositoryInterface defines the interface for applied deal records.
type AppliedDealRepositoryInterface interface {
	ListByTransaction(ctx context.Context, transactionID string) ([]model.AppliedDeal, error)
	ListByTransactionTx(ctx context.Context, tx database.TxQuerier, transactionID string) ([]model.AppliedDeal, error)
	LockTransaction(ctx context.Context, tx database.TxQuerier, transactionID string) error
	Insert(ctx context.Context, tx database.TxQuerier, transactionID, dealID string, discountAmount int64) error
}

// ProfileRepositoryInterface defines the interface for user profile access.
type ProfileRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID string) (*model.UserProfile, error)
}

// TrendingCache caches the trending deals list.
type TrendingCache interface {
	GetTrending(ctx context.Context) ([]model.Deal, bool, error)
	SetTrending(ctx context.Context, deals []model.Deal) error
	Invalidate(ctx context.Context) error
}

// NotificationPublisher delivers smart notifications downstream.
type NotificationPublisher interface {
	Publish(ctx context.Context, userID string, notes []model.Notification) error
}

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// DealService wires the DealEngine to the catalog, profiles and side channels.
type DealService struct {
	pool        TxBeginner
	engine      *DealEngine
	dealRepo    DealRepositoryInterface
	appliedRepo AppliedDealRepositoryInterface
	profileRepo ProfileRepositoryInterface
	cache       TrendingCache
	publisher   NotificationPublisher
	metrics     *metrics.Registry
}

// DealServiceDeps groups DealService collaborators.
type DealServiceDeps struct {
	Pool        TxBeginner
	Engine      *DealEngine
	DealRepo    DealRepositoryInterface
	AppliedRepo AppliedDealRepositoryInterface
	ProfileRepo ProfileRepositoryInterface
	Cache       TrendingCache
	Publisher   NotificationPublisher
	Metrics     *metrics.Registry
}

// NewDealService creates a DealService from deps.
func NewDealService(deps DealServiceDeps) *DealService {
	return &DealService{
		pool:        deps.Pool,
		engine:      deps.Engine,
		dealRepo:    deps.DealRepo,
		appliedRepo: deps.AppliedRepo,
		profileRepo: deps.ProfileRepo,
		cache:       deps.Cache,
		publisher:   deps.Publisher,
		metrics:     deps.Metrics,
	}
}

// CreateDeal stores a new deal. A missing ID is generated.
// Returns ErrDealExists if the ID is taken.
func (s *DealService) CreateDeal(ctx context.Context, req *model.CreateDealRequest) (*model.Deal, error) {
	// Defense-in-depth: check for nil pointers even though handler validates
	if req == nil || req.DiscountValue == nil || req.ValidUntil == nil {
		return nil, ErrInvalidRequest
	}
	if req.DiscountType == model.DiscountPercentage && *req.DiscountValue > 100 {
		return nil, ErrInvalidRequest
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = uuid.NewString()
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	deal := &model.Deal{
		ID:                 id,
		Title:              req.Title,
		Description:        req.Description,
		Category:           req.Category,
		DiscountType:       req.DiscountType,
		DiscountValue:      *req.DiscountValue,
		MinimumBill:        req.MinimumBill,
		ValidUntil:         req.ValidUntil.UTC(),
		IsActive:           active,
		UsageLimit:         req.UsageLimit,
		ApplicableProducts: req.ApplicableProducts,
		Season:             req.Season,
	}
	// max_discount only applies to percentage deals
	if req.DiscountType == model.DiscountPercentage {
		deal.MaxDiscount = req.MaxDiscount
	}

	if err := s.dealRepo.Insert(ctx, deal); err != nil {
		return nil, err
	}
	s.invalidateTrending(ctx)
	return deal, nil
}

// GetDeal returns a deal by ID.
// Returns ErrDealNotFound if the deal doesn't exist.
func (s *DealService) GetDeal(ctx context.Context, id string) (*model.Deal, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get deal: %w", err)
	}
	if deal == nil {
		return nil, ErrDealNotFound
	}
	return deal, nil
}

// ValidateDeal checks a stored deal against a bill and, when a transaction ID
// is given, the deals already applied to it.
func (s *DealService) ValidateDeal(ctx context.Context, req *model.ValidateDealRequest) ([]model.ValidationError, error) {
	if req == nil || req.BillAmount == nil {
		return nil, ErrInvalidRequest
	}

	deal, err := s.GetDeal(ctx, req.DealID)
	if err != nil {
		return nil, err
	}
	applied, err := s.appliedFor(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}

	errs := s.engine.ValidateDeal(*deal, *req.BillAmount, applied, req.UserType)
	s.metrics.ObserveValidationErrors(errs)
	return errs, nil
}

// CalculateDiscount prices a stored deal against a bill.
func (s *DealService) CalculateDiscount(ctx context.Context, req *model.CalculateDiscountRequest) (*model.CalculationResult, error) {
	if req == nil || req.BillAmount == nil {
		return nil, ErrInvalidRequest
	}

	deal, err := s.GetDeal(ctx, req.DealID)
	if err != nil {
		return nil, err
	}
	applied, err := s.appliedFor(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}

	res := s.engine.CalculateDealDiscount(*deal, *req.BillAmount, applied, req.UserType)
	s.metrics.ObserveCalculation(res)
	return &res, nil
}

// CalculateTotal prices several stored deals in request order.
// Returns ErrDealNotFound if any ID is unknown.
func (s *DealService) CalculateTotal(ctx context.Context, req *model.CalculateTotalRequest) (*model.CalculationResult, error) {
	if req == nil || req.BillAmount == nil {
		return nil, ErrInvalidRequest
	}

	deals := []model.Deal{}
	if len(req.DealIDs) > 0 {
		found, err := s.dealRepo.ListByIDs(ctx, req.DealIDs)
		if err != nil {
			return nil, fmt.Errorf("list deals: %w", err)
		}
		byID := make(map[string]model.Deal, len(found))
		for _, d := range found {
			byID[d.ID] = d
		}
		for _, id := range req.DealIDs {
			d, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("deal %s: %w", id, ErrDealNotFound)
			}
			deals = append(deals, d)
		}
	}

	res := s.engine.CalculateTotalDiscount(deals, *req.BillAmount, req.AllowStacking, req.UserType)
	s.metrics.ObserveCalculation(res)
	return &res, nil
}

// ApplyDeal atomically commits a deal to a transaction and consumes one use.
// Applies to the same transaction are serialised by an advisory lock, and the
// deal row is locked with SELECT FOR UPDATE. A stacked deal is priced against
// the bill left after the discounts already recorded on the transaction.
// Returns:
//   - ErrDealNotFound if the deal doesn't exist
//   - ErrDealNotApplicable (with the rejecting result) if the engine rejects it
//   - ErrAlreadyApplied if a concurrent request applied it first
func (s *DealService) ApplyDeal(ctx context.Context, req *model.ApplyDealRequest) (*model.CalculationResult, error) {
	if req == nil || req.BillAmount == nil {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }() // Safe: no-op if committed

	// 1. Serialise applies to the same transaction, then read what it already holds
	if err := s.appliedRepo.LockTransaction(ctx, tx, req.TransactionID); err != nil {
		return nil, err
	}
	applied, err := s.appliedRepo.ListByTransactionTx(ctx, tx, req.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("get applied deals: %w", err)
	}

	// 2. Lock the deal row (SELECT FOR UPDATE)
	deal, err := s.dealRepo.GetDealForUpdate(ctx, tx, req.DealID)
	if err != nil {
		if errors.Is(err, ErrDealNotFound) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("get deal for update: %w", err)
	}

	// 3. Run the engine against the locked usage count and the bill left
	// after earlier deals on this transaction
	var res model.CalculationResult
	if len(applied) > 0 && !req.AllowStacking {
		res = singleDealOnlyResult(*req.BillAmount)
	} else {
		res = s.engine.CalculateDealDiscount(*deal, remainingBill(*req.BillAmount, applied), applied, req.UserType)
	}
	s.metrics.ObserveCalculation(res)
	if !res.IsValid {
		return &res, ErrDealNotApplicable
	}

	// 4. Record the application (primary key catches duplicates)
	if err := s.appliedRepo.Insert(ctx, tx, req.TransactionID, deal.ID, res.DiscountAmount); err != nil {
		if errors.Is(err, ErrAlreadyApplied) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("insert applied deal: %w", err)
	}

	// 5. Consume one use
	if err := s.dealRepo.IncrementUsage(ctx, tx, deal.ID); err != nil {
		return nil, fmt.Errorf("increment usage: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	s.metrics.Applied.Inc()
	s.invalidateTrending(ctx)
	return &res, nil
}

// Recommend ranks active deals for a stored user profile.
func (s *DealService) Recommend(ctx context.Context, req *model.RecommendationRequest) ([]model.Recommendation, error) {
	deals, profile, rc, err := s.recommendationInputs(ctx, req)
	if err != nil {
		return nil, err
	}

	recs := s.engine.GenerateRecommendations(deals, *profile, rc)
	s.metrics.ObserveRecommendations(len(recs))
	return recs, nil
}

// OptimalMix returns the best primary deal plus complementary ones for a user.
func (s *DealService) OptimalMix(ctx context.Context, req *model.RecommendationRequest) (*model.OptimalDealMix, error) {
	deals, profile, rc, err := s.recommendationInputs(ctx, req)
	if err != nil {
		return nil, err
	}

	mix := s.engine.OptimalDealMix(deals, *profile, rc)
	return &mix, nil
}

// Trending returns the trending deals, served from cache when possible.
// Cache failures are logged and fall back to the catalog.
func (s *DealService) Trending(ctx context.Context) ([]model.Deal, error) {
	cached, ok, err := s.cache.GetTrending(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("trending cache read failed, recomputing")
	}
	if ok {
		s.metrics.CacheHits.Inc()
		return cached, nil
	}
	s.metrics.CacheMisses.Inc()

	deals, err := s.dealRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active deals: %w", err)
	}

	trending := s.engine.TrendingDeals(deals)
	if err := s.cache.SetTrending(ctx, trending); err != nil {
		log.Warn().Err(err).Msg("trending cache write failed")
	}
	return trending, nil
}

// Notifications builds smart notifications for a user and publishes them.
// A publish failure is logged; the notifications are still returned.
func (s *DealService) Notifications(ctx context.Context, userID string) ([]model.Notification, error) {
	profile, err := s.profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	deals, err := s.dealRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active deals: %w", err)
	}

	notes := s.engine.SmartNotifications(deals, *profile)
	if err := s.publisher.Publish(ctx, userID, notes); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Int("count", len(notes)).Msg("failed to publish notifications")
	}
	return notes, nil
}

func (s *DealService) recommendationInputs(ctx context.Context, req *model.RecommendationRequest) ([]model.Deal, *model.UserProfile, model.RecommendationContext, error) {
	if req == nil || req.CurrentBill < 0 || math.IsNaN(req.CurrentBill) {
		return nil, nil, model.RecommendationContext{}, ErrInvalidRequest
	}

	profile, err := s.profile(ctx, req.UserID)
	if err != nil {
		return nil, nil, model.RecommendationContext{}, err
	}
	deals, err := s.dealRepo.ListActive(ctx)
	if err != nil {
		return nil, nil, model.RecommendationContext{}, fmt.Errorf("list active deals: %w", err)
	}

	rc := model.RecommendationContext{
		CurrentBill: req.CurrentBill,
		Season:      req.Season,
	}
	if req.IsWeekend != nil {
		rc.IsWeekend = *req.IsWeekend
	} else {
		rc.IsWeekend = isWeekend(s.engine.clock.Now())
	}
	return deals, profile, rc, nil
}

func (s *DealService) profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// remainingBill is bill less the discounts already granted on the
// transaction, floored at zero. Negative and non-finite bills pass through
// for the validator to reject.
func remainingBill(bill float64, applied []model.AppliedDeal) float64 {
	if len(applied) == 0 || bill < 0 || math.IsNaN(bill) || math.IsInf(bill, 0) {
		return bill
	}
	for _, a := range applied {
		bill -= float64(a.DiscountAmount)
	}
	return math.Max(bill, 0)
}

func (s *DealService) appliedFor(ctx context.Context, transactionID string) ([]model.AppliedDeal, error) {
	if transactionID == "" {
		return []model.AppliedDeal{}, nil
	}
	applied, err := s.appliedRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("get applied deals: %w", err)
	}
	return applied, nil
}

func (s *DealService) invalidateTrending(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("trending cache invalidation failed")
	}
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
