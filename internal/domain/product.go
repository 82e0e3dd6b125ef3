package domain

import (
	"github.com/shopspring/decimal"
)

// Product category constants.
const (
	CategoryElectronics = "electronics"
	CategoryFashion     = "fashion"
	CategoryHomeLiving  = "home-living"
	CategoryHandicraft  = "handicraft"
)

// MaxProductImages caps the number of image URLs per product.
const MaxProductImages = 5

// Product represents a marketplace listing stored at shoppingItems/{id}.
// ItemID duplicates ID; historical write paths used either field as the
// review foreign key, so lookups must check both. Timestamps are Unix epoch
// milliseconds. ReviewCount keeps its snake_case wire name.
type Product struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"itemId"`
	Name        string          `json:"name"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Images      []string        `json:"images,omitempty"`
	UserID      string          `json:"userId,omitempty"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"review_count"`
	CreatedAt   int64           `json:"createdAt"`
	UpdatedAt   int64           `json:"updatedAt"`
}

// MatchesItemKey reports whether the given foreign key resolves to this
// product, checking the itemId field before the id field.
func (p *Product) MatchesItemKey(key string) bool {
	return p.ItemID == key || p.ID == key
}

// ValidCategories returns the set of valid product categories.
func ValidCategories() []string {
	return []string{CategoryElectronics, CategoryFashion, CategoryHomeLiving, CategoryHandicraft}
}

// IsValidCategory checks whether the given category string is a valid product category.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}
