package record

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/SeanSoulong/admin-bay/internal/domain"
	"github.com/SeanSoulong/admin-bay/internal/recordstore"
	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

const reviewsPath = "reviews"

// ReviewRepository implements repository.ReviewRepository using the record
// store.
type ReviewRepository struct {
	store *recordstore.Client
}

// NewReviewRepository creates a new record-store-backed review repository.
func NewReviewRepository(store *recordstore.Client) *ReviewRepository {
	return &ReviewRepository{store: store}
}

// List returns all reviews, newest first. Every entry carries its record key
// as both id and reviewId, regardless of what the stored document says.
func (r *ReviewRepository) List(ctx context.Context) ([]domain.Review, error) {
	children, err := r.store.ListChildren(ctx, reviewsPath)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	reviews := make([]domain.Review, 0, len(children))
	for key, raw := range children {
		var rv domain.Review
		if err := json.Unmarshal(raw, &rv); err != nil {
			continue
		}
		rv.ID = key
		rv.ReviewID = key
		reviews = append(reviews, rv)
	}

	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt != reviews[j].CreatedAt {
			return reviews[i].CreatedAt > reviews[j].CreatedAt
		}
		return reviews[i].ID < reviews[j].ID
	})

	return reviews, nil
}

// GetByID retrieves a review by its record key.
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	var rv domain.Review
	found, err := r.store.Get(ctx, reviewsPath+"/"+id, &rv)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if !found {
		return nil, apperrors.NotFound("review", id)
	}
	rv.ID = id
	rv.ReviewID = id
	return &rv, nil
}

// GetByItemID returns the reviews whose itemId matches exactly. The whole
// collection is scanned; reviews carry no index by product.
func (r *ReviewRepository) GetByItemID(ctx context.Context, itemID string) ([]domain.Review, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]domain.Review, 0)
	for _, rv := range all {
		if rv.ItemID == itemID {
			matched = append(matched, rv)
		}
	}
	return matched, nil
}

// Create writes a new review under a generated key. createdAt is stamped
// with the current epoch millis when the caller left it unset.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (string, error) {
	path, id := r.store.Push(reviewsPath)

	review.ID = id
	review.ReviewID = id
	if review.CreatedAt == 0 {
		review.CreatedAt = domain.NowMillis()
	}

	if err := r.store.Set(ctx, path, review); err != nil {
		return "", fmt.Errorf("create review: %w", err)
	}
	return id, nil
}

// Update shallow-merges fields over the stored review.
func (r *ReviewRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	path := reviewsPath + "/" + id

	var existing map[string]any
	found, err := r.store.Get(ctx, path, &existing)
	if err != nil {
		return fmt.Errorf("get review: %w", err)
	}
	if !found {
		return apperrors.NotFound("review", id)
	}

	if err := r.store.Update(ctx, path, fields); err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// Delete removes a review without touching any product aggregate. Callers
// that need the aggregate kept in step use DeleteAndReconcile.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Remove(ctx, reviewsPath+"/"+id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}

// DeleteAndReconcile removes a review and folds its rating out of the owning
// product's aggregate in one optimistic transaction. Both records are
// re-read under WATCH, so the arithmetic always applies to the latest state
// and a concurrent writer forces a retry instead of a lost update. The
// product document is rewritten whole with only rating, review_count and
// updatedAt changed, preserving unrelated fields.
func (r *ReviewRepository) DeleteAndReconcile(ctx context.Context, reviewID, productID string) error {
	reviewPath := reviewsPath + "/" + reviewID
	productPath := productsPath + "/" + productID

	return r.store.RunTx(ctx, func(tx *recordstore.Tx) error {
		var rv domain.Review
		found, err := tx.Get(reviewPath, &rv)
		if err != nil {
			return err
		}
		if !found {
			return apperrors.NotFound("review", reviewID)
		}

		var product map[string]any
		productFound, err := tx.Get(productPath, &product)
		if err != nil {
			return err
		}

		tx.Remove(reviewPath)

		if !productFound {
			// The product vanished between the caller's lookup and this
			// transaction; the review still has to go.
			return nil
		}

		rating := numField(product, "rating")
		count := int(numField(product, "review_count"))
		newRating, newCount := domain.RatingAfterRemoval(rating, count, rv.Rating)

		product["rating"] = newRating
		product["review_count"] = newCount
		product["updatedAt"] = domain.NowMillis()
		return tx.Set(productPath, product)
	}, reviewPath, productPath)
}

// numField reads a numeric field from a decoded JSON object. JSON numbers
// decode as float64; absent or non-numeric values read as 0.
func numField(doc map[string]any, key string) float64 {
	v, _ := doc[key].(float64)
	return v
}
