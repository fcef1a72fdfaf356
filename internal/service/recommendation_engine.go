package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/fairyhunter13/deal-engine/internal/model"
	"github.com/fairyhunter13/deal-engine/pkg/money"
)

const (
	baseConfidence   = 0.5
	trendingLimit    = 5
	complementaryMax = 2
)

// GenerateRecommendations scores every deal for profile and returns the
// eligible ones ordered by priority, then confidence.
func (e *DealEngine) GenerateRecommendations(deals []model.Deal, profile model.UserProfile, rc model.RecommendationContext) []model.Recommendation {
	bill := rc.CurrentBill
	if bill <= 0 {
		bill = profile.AverageBillAmount
	}

	recs := []model.Recommendation{}
	for _, deal := range deals {
		if rec := e.recommendDeal(deal, profile, rc, bill); rec != nil {
			recs = append(recs, *rec)
		}
	}
	sortRecommendations(recs)
	return recs
}

// recommendDeal returns nil when the deal must not be recommended to profile.
func (e *DealEngine) recommendDeal(deal model.Deal, profile model.UserProfile, rc model.RecommendationContext, bill float64) *model.Recommendation {
	if deal.Category == model.CategoryFirstTime && !profile.IsFirstTime {
		return nil
	}
	if deal.Category == model.CategoryLoyalty && !profile.IsLoyaltyMember {
		return nil
	}

	calc := e.CalculateDealDiscount(deal, bill, nil, userTypeFor(deal, profile))
	if !calc.IsValid {
		return nil
	}

	confidence := baseConfidence + 0.2
	priority := model.PriorityMedium
	forcedHigh := false
	reason := ""
	tags := []string{}
	setReason := func(r string) {
		if reason == "" {
			reason = r
		}
	}

	if profile.Prefers(deal.Category) {
		confidence += 0.3
		setReason(fmt.Sprintf("Matches your interest in %s deals", model.CategoryInfo(deal.Category).DisplayName))
		tags = append(tags, "Preferred")
	}

	if deal.Category == model.CategoryFirstTime && profile.IsFirstTime {
		confidence += 0.4
		priority, forcedHigh = model.PriorityHigh, true
		setReason("Exclusive welcome offer for new customers")
		tags = append(tags, "New User")
	}

	if deal.Category == model.CategoryLoyalty && profile.IsLoyaltyMember {
		confidence += 0.3
		setReason("Special reward for loyalty members")
		tags = append(tags, "Loyalty")
	}

	if deal.DiscountValue >= 25 {
		confidence += 0.2
		tags = append(tags, "High Value")
	}

	days := daysUntil(e.clock.Now(), deal.ValidUntil)
	if days <= 3 {
		confidence += 0.25
		priority, forcedHigh = model.PriorityHigh, true
		setReason(fmt.Sprintf("Expires in %s, use it soon", pluralDays(days)))
		tags = append(tags, "Expiring Soon")
	} else if days <= 7 {
		confidence += 0.1
		tags = append(tags, "Ending This Week")
	}

	if bill >= deal.MinimumBill*1.5 {
		confidence += 0.15
		tags = append(tags, "Perfect Match")
	}

	if seasonMatches(deal, rc.Season) {
		confidence += 0.2
		setReason(fmt.Sprintf("Perfect for the %s season", rc.Season))
		tags = append(tags, "Seasonal")
	}

	if rc.IsWeekend && deal.Category == model.CategoryCashback {
		confidence += 0.1
		tags = append(tags, "Weekend Special")
	}

	if historyMatches(deal, profile.ShoppingHistory) {
		confidence += 0.2
		setReason("Based on your shopping history")
		tags = append(tags, "Based on History")
	}

	if deal.HasUsageLimit() && deal.RemainingUses() <= 2 {
		confidence += 0.15
		setReason(fmt.Sprintf("Only %d uses left", deal.RemainingUses()))
		tags = append(tags, "Limited Uses")
	}

	if deal.MaxDiscount != nil && float64(calc.DiscountAmount) >= *deal.MaxDiscount*0.8 {
		confidence += 0.1
		tags = append(tags, "Max Savings")
	}

	// Two decimals keep sums like 0.7+0.1 from falling just under a threshold.
	confidence = math.Round(math.Min(confidence, 1)*100) / 100

	// TODO: drop PreserveForcedPriority once product confirms whether forced
	// HIGH should survive the threshold recompute.
	if !(forcedHigh && e.opts.PreserveForcedPriority) {
		priority = priorityFor(confidence)
	}

	setReason(fmt.Sprintf("Save %s on this purchase", money.FormatINR(float64(calc.DiscountAmount))))

	return &model.Recommendation{
		Deal:             deal,
		Reason:           reason,
		Priority:         priority,
		PotentialSavings: calc.DiscountAmount,
		Confidence:       confidence,
		Tags:             tags,
	}
}

// TrendingDeals returns up to five active deals with the highest share of
// their usage limit consumed. A missing limit counts as a limit of one.
func (e *DealEngine) TrendingDeals(deals []model.Deal) []model.Deal {
	active := []model.Deal{}
	for _, d := range deals {
		if d.IsActive {
			active = append(active, d)
		}
	}

	sort.SliceStable(active, func(i, j int) bool {
		return usageRatio(active[i]) > usageRatio(active[j])
	})

	if len(active) > trendingLimit {
		active = active[:trendingLimit]
	}
	return active
}

// OptimalDealMix takes the top recommendation as primary and the next two
// non-LOW ones as complementary. Savings are summed as if each deal were
// applied to the full bill on its own.
func (e *DealEngine) OptimalDealMix(deals []model.Deal, profile model.UserProfile, rc model.RecommendationContext) model.OptimalDealMix {
	mix := model.OptimalDealMix{Complementary: []model.Recommendation{}}

	recs := e.GenerateRecommendations(deals, profile, rc)
	if len(recs) == 0 {
		return mix
	}

	primary := recs[0]
	mix.Primary = &primary
	mix.TotalSavings = primary.PotentialSavings

	for _, rec := range recs[1:] {
		if len(mix.Complementary) == complementaryMax {
			break
		}
		if rec.Priority == model.PriorityLow {
			continue
		}
		mix.Complementary = append(mix.Complementary, rec)
		mix.TotalSavings += rec.PotentialSavings
	}
	return mix
}

func sortRecommendations(recs []model.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		wi, wj := recs[i].Priority.Weight(), recs[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return recs[i].Confidence > recs[j].Confidence
	})
}

func priorityFor(confidence float64) model.Priority {
	switch {
	case confidence >= 0.8:
		return model.PriorityHigh
	case confidence >= 0.6:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// userTypeFor picks the segment that lets a matching profile pass the
// validator's first-time and loyalty restrictions.
func userTypeFor(deal model.Deal, profile model.UserProfile) model.UserType {
	switch {
	case deal.Category == model.CategoryFirstTime && profile.IsFirstTime:
		return model.UserTypeFirstTime
	case deal.Category == model.CategoryLoyalty && profile.IsLoyaltyMember:
		return model.UserTypeLoyalty
	default:
		return model.UserTypeRegular
	}
}

func seasonMatches(deal model.Deal, season string) bool {
	if season == "" || deal.Category != model.CategorySeasonal {
		return false
	}
	return deal.Season == "" || strings.EqualFold(deal.Season, season)
}

func historyMatches(deal model.Deal, history []model.ShoppingRecord) bool {
	for _, rec := range history {
		for _, p := range deal.ApplicableProducts {
			if strings.EqualFold(rec.Category, p) {
				return true
			}
		}
	}
	return false
}

func usageRatio(d model.Deal) float64 {
	limit := 1
	if d.UsageLimit != nil && *d.UsageLimit > 0 {
		limit = *d.UsageLimit
	}
	return money.Ratio(float64(d.UsageCount), float64(limit))
}

// daysUntil counts started days between now and t, rounding up.
func daysUntil(now, t time.Time) int {
	return int(math.Ceil(t.Sub(now).Hours() / 24))
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
