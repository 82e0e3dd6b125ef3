package domain

// Review rating bounds.
const (
	MinReviewRating = 1
	MaxReviewRating = 5
)

// Review represents a customer review stored at reviews/{id}. ItemID is the
// foreign key into shoppingItems, matched against the product's itemId field
// first and its id field second. ReviewID mirrors the storage key on list
// reads so dashboard tables can bind rows by either name.
type Review struct {
	ID        string `json:"id"`
	ReviewID  string `json:"reviewId,omitempty"`
	ItemID    string `json:"itemId"`
	UserID    string `json:"userId,omitempty"`
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt,omitempty"`
}

// IsValidReviewRating checks whether a rating value is within the 1-5 scale.
func IsValidReviewRating(rating int) bool {
	return rating >= MinReviewRating && rating <= MaxReviewRating
}
