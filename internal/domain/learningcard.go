package domain

// Learning hub card categories (Khmer labels, stored verbatim).
const (
	CardCategoryArt         = "សិល្បៈ"
	CardCategoryAgriculture = "កសិកម្ម"
	CardCategoryFood        = "ចំណីអាហារ"
	CardCategoryHealth      = "សុខភាព"
	CardCategoryTechnology  = "បច្ចេកវិទ្យា"
	CardCategoryBusiness    = "អាជីវកម្ម"
)

// LearningCard represents an educational card stored at
// learning_hub/cards/{uuid}. CreatedAt is an ISO-8601 string (RFC 3339 UTC),
// unlike the epoch-millisecond timestamps elsewhere; the mixed convention is
// part of the stored data and must not be normalized.
type LearningCard struct {
	UUID        string `json:"uuid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Category    string `json:"category,omitempty"`
	Author      string `json:"author"`
	Date        string `json:"date,omitempty"`
	ImageURL    string `json:"imageUrl"`
	ReadTime    string `json:"readTime,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// ValidCardCategories returns the set of valid learning card categories.
func ValidCardCategories() []string {
	return []string{
		CardCategoryArt,
		CardCategoryAgriculture,
		CardCategoryFood,
		CardCategoryHealth,
		CardCategoryTechnology,
		CardCategoryBusiness,
	}
}

// IsValidCardCategory checks whether the given category is a valid learning card category.
func IsValidCardCategory(category string) bool {
	for _, c := range ValidCardCategories() {
		if c == category {
			return true
		}
	}
	return false
}
