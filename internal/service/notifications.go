package service

import (
	"fmt"
	"sort"

	"github.com/fairyhunter13/deal-engine/internal/model"
)

// SmartNotifications builds expiry, last-use and category-match nudges for
// profile. Inactive and expired deals are skipped. Results are ordered by
// urgency only.
func (e *DealEngine) SmartNotifications(deals []model.Deal, profile model.UserProfile) []model.Notification {
	now := e.clock.Now()
	notes := []model.Notification{}

	for _, deal := range deals {
		if !deal.IsActive || now.After(deal.ValidUntil) {
			continue
		}

		days := daysUntil(now, deal.ValidUntil)
		switch {
		case days <= 1:
			notes = append(notes, model.Notification{
				Type:    model.NotificationExpiring,
				DealID:  deal.ID,
				Title:   "Deal expiring today!",
				Message: fmt.Sprintf("%s expires within a day. Use it before it's gone!", deal.Title),
				Urgency: model.PriorityHigh,
			})
		case days <= 3:
			notes = append(notes, model.Notification{
				Type:    model.NotificationExpiring,
				DealID:  deal.ID,
				Title:   "Deal expiring soon",
				Message: fmt.Sprintf("%s expires in %s", deal.Title, pluralDays(days)),
				Urgency: model.PriorityMedium,
			})
		}

		if deal.HasUsageLimit() && deal.RemainingUses() == 1 {
			notes = append(notes, model.Notification{
				Type:    model.NotificationUsageReminder,
				DealID:  deal.ID,
				Title:   "Last chance!",
				Message: fmt.Sprintf("Only 1 use left for %s", deal.Title),
				Urgency: model.PriorityHigh,
			})
		}

		if profile.Prefers(deal.Category) {
			notes = append(notes, model.Notification{
				Type:    model.NotificationNewMatch,
				DealID:  deal.ID,
				Title:   "New deal for you",
				Message: fmt.Sprintf("New %s deal: %s", model.CategoryInfo(deal.Category).DisplayName, deal.Title),
				Urgency: model.PriorityLow,
			})
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Urgency.Weight() > notes[j].Urgency.Weight()
	})
	return notes
}
