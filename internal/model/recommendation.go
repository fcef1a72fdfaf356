package model

import "time"

// Priority ranks recommendations and notifications.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Weight returns the sort weight: HIGH=3, MEDIUM=2, LOW=1.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ShoppingRecord is one past purchase.
type ShoppingRecord struct {
	Category string    `json:"category"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
}

// UserProfile is the shopper the engine recommends for.
type UserProfile struct {
	UserID              string           `json:"user_id"`
	IsFirstTime         bool             `json:"is_first_time"`
	IsLoyaltyMember     bool             `json:"is_loyalty_member"`
	AverageBillAmount   float64          `json:"average_bill_amount"`
	PreferredCategories []Category       `json:"preferred_categories"`
	ShoppingHistory     []ShoppingRecord `json:"shopping_history"`
}

// Prefers reports whether c is among the user's preferred categories.
func (p UserProfile) Prefers(c Category) bool {
	for _, pc := range p.PreferredCategories {
		if pc == c {
			return true
		}
	}
	return false
}

// RecommendationContext is the situation a recommendation is made in.
type RecommendationContext struct {
	CurrentBill float64 `json:"current_bill"`
	Season      string  `json:"season"`
	IsWeekend   bool    `json:"is_weekend"`
}

// Recommendation is a ranked suggestion to use a deal.
type Recommendation struct {
	Deal             Deal     `json:"deal"`
	Reason           string   `json:"reason"`
	Priority         Priority `json:"priority"`
	PotentialSavings int64    `json:"potential_savings"`
	Confidence       float64  `json:"confidence"`
	Tags             []string `json:"tags"`
}

// OptimalDealMix pairs the best recommendation with up to two complementary ones.
// TotalSavings sums each deal's savings against the original bill; it is not
// the compounded figure CalculateTotalDiscount would produce.
type OptimalDealMix struct {
	Primary       *Recommendation  `json:"primary"`
	Complementary []Recommendation `json:"complementary"`
	TotalSavings  int64            `json:"total_savings"`
}

// NotificationType classifies a smart deal notification.
type NotificationType string

const (
	NotificationExpiring      NotificationType = "EXPIRING"
	NotificationUsageReminder NotificationType = "USAGE_REMINDER"
	NotificationNewMatch      NotificationType = "NEW_MATCH"
)

// Notification nudges a user about a deal.
type Notification struct {
	Type    NotificationType `json:"type"`
	DealID  string           `json:"deal_id"`
	Title   string           `json:"title"`
	Message string           `json:"message"`
	Urgency Priority         `json:"urgency"`
}
