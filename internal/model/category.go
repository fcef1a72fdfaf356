package model

// CategoryDisplay is the presentation metadata for a category.
type CategoryDisplay struct {
	Category    Category `json:"category"`
	DisplayName string   `json:"display_name"`
	Color       string   `json:"color"`
}

var categoryDisplay = map[Category]CategoryDisplay{
	CategoryInstantDiscount: {CategoryInstantDiscount, "Instant Discount", "#FF6B6B"},
	CategoryCashback:        {CategoryCashback, "Cashback", "#4ECDC4"},
	CategoryBuyOneGetOne:    {CategoryBuyOneGetOne, "Buy 1 Get 1", "#45B7D1"},
	CategorySeasonal:        {CategorySeasonal, "Seasonal Offer", "#F9A826"},
	CategoryFirstTime:       {CategoryFirstTime, "First Time User", "#96CEB4"},
	CategoryLoyalty:         {CategoryLoyalty, "Loyalty Reward", "#A66CFF"},
	CategoryClearance:       {CategoryClearance, "Clearance Sale", "#FF8C42"},
}

// CategoryInfo returns the display metadata for c. Unknown categories get
// their raw value as the name and a neutral color.
func CategoryInfo(c Category) CategoryDisplay {
	if d, ok := categoryDisplay[c]; ok {
		return d
	}
	return CategoryDisplay{Category: c, DisplayName: string(c), Color: "#9E9E9E"}
}

// CategoryCatalog returns display metadata for every category in display order.
func CategoryCatalog() []CategoryDisplay {
	out := make([]CategoryDisplay, 0, len(categoryDisplay))
	for _, c := range AllCategories() {
		out = append(out, categoryDisplay[c])
	}
	return out
}
