package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/SeanSoulong/admin-bay/internal/domain"
	"github.com/SeanSoulong/admin-bay/internal/event"
	"github.com/SeanSoulong/admin-bay/internal/repository"
	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

// ReviewService implements the review deletion and rating reconciliation
// workflow, plus the list and export surfaces of the review dashboard.
type ReviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
	users    repository.UserRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	reviews repository.ReviewRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	producer *event.Producer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		products: products,
		users:    users,
		producer: producer,
		logger:   logger,
	}
}

// DeleteReviewResult reports the outcome of a single review deletion.
type DeleteReviewResult struct {
	ReviewID       string  `json:"review_id"`
	ItemID         string  `json:"item_id"`
	ProductID      string  `json:"product_id,omitempty"`
	Orphan         bool    `json:"orphan"`
	NewRating      float64 `json:"new_rating"`
	NewReviewCount int     `json:"new_review_count"`
}

// BulkDeleteFailure records one failed deletion in a bulk request.
type BulkDeleteFailure struct {
	ReviewID string `json:"review_id"`
	Error    string `json:"error"`
}

// BulkDeleteResult reports per-id outcomes of a bulk deletion. Ids are
// processed sequentially; completed deletions stand even when later ones
// fail, so a partially failed batch is not rolled back.
type BulkDeleteResult struct {
	Deleted []string            `json:"deleted"`
	Orphans []string            `json:"orphans"`
	Failed  []BulkDeleteFailure `json:"failed"`
}

// ListReviews returns reviews, newest first, optionally filtered to one item
// key. The filter matches the review's itemId exactly.
func (s *ReviewService) ListReviews(ctx context.Context, itemID string) ([]domain.Review, error) {
	var (
		reviews []domain.Review
		err     error
	)
	if itemID == "" {
		reviews, err = s.reviews.List(ctx)
	} else {
		reviews, err = s.reviews.GetByItemID(ctx, itemID)
	}
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// GetReview retrieves a review by its ID.
func (s *ReviewService) GetReview(ctx context.Context, id string) (*domain.Review, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return review, nil
}

// DeleteReview removes a review and folds its rating out of the owning
// product's aggregate. The product is resolved from the review's itemId,
// matching the product's itemId field first and its id field second. A
// review whose product no longer exists is deleted anyway and reported as an
// orphan; the product side is left untouched.
func (s *ReviewService) DeleteReview(ctx context.Context, id string) (*DeleteReviewResult, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review for delete: %w", err)
	}

	product, err := s.products.FindByItemKey(ctx, review.ItemID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return s.deleteOrphan(ctx, review)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve product for review %s: %w", review.ID, err)
	}

	if err := s.reviews.DeleteAndReconcile(ctx, review.ID, product.ID); err != nil {
		return nil, fmt.Errorf("delete review %s: %w", review.ID, err)
	}

	newRating, newCount := domain.RatingAfterRemoval(product.Rating, product.ReviewCount, review.Rating)

	s.producer.PublishReviewDeleted(ctx, event.ReviewDeletedData{
		ReviewID:       review.ID,
		ItemID:         review.ItemID,
		Rating:         review.Rating,
		ProductID:      product.ID,
		NewRating:      newRating,
		NewReviewCount: newCount,
	})

	s.logger.InfoContext(ctx, "review deleted",
		slog.String("review_id", review.ID),
		slog.String("product_id", product.ID),
		slog.Float64("new_rating", newRating),
		slog.Int("new_review_count", newCount),
	)

	return &DeleteReviewResult{
		ReviewID:       review.ID,
		ItemID:         review.ItemID,
		ProductID:      product.ID,
		NewRating:      newRating,
		NewReviewCount: newCount,
	}, nil
}

// deleteOrphan removes a review that references no existing product.
func (s *ReviewService) deleteOrphan(ctx context.Context, review *domain.Review) (*DeleteReviewResult, error) {
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return nil, fmt.Errorf("delete orphan review %s: %w", review.ID, err)
	}

	orphan := apperrors.OrphanReview(review.ID, review.ItemID)
	s.logger.WarnContext(ctx, orphan.Message,
		slog.String("code", orphan.Code),
		slog.String("review_id", review.ID),
		slog.String("item_id", review.ItemID),
	)

	s.producer.PublishReviewDeleted(ctx, event.ReviewDeletedData{
		ReviewID: review.ID,
		ItemID:   review.ItemID,
		Rating:   review.Rating,
		Orphan:   true,
	})

	return &DeleteReviewResult{
		ReviewID: review.ID,
		ItemID:   review.ItemID,
		Orphan:   true,
	}, nil
}

// DeleteReviews removes the given reviews one by one, each against the
// latest stored state, and collects per-id outcomes. A failing id does not
// stop the batch.
func (s *ReviewService) DeleteReviews(ctx context.Context, ids []string) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, apperrors.InvalidInput("no review ids given")
	}

	result := &BulkDeleteResult{
		Deleted: []string{},
		Orphans: []string{},
		Failed:  []BulkDeleteFailure{},
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res, err := s.DeleteReview(ctx, id)
		if err != nil {
			result.Failed = append(result.Failed, BulkDeleteFailure{ReviewID: id, Error: err.Error()})
			s.logger.WarnContext(ctx, "bulk delete skipped review",
				slog.String("review_id", id),
				slog.String("error", err.Error()),
			)
			continue
		}

		if res.Orphan {
			result.Orphans = append(result.Orphans, id)
		} else {
			result.Deleted = append(result.Deleted, id)
		}
	}

	s.logger.InfoContext(ctx, "bulk review delete finished",
		slog.Int("deleted", len(result.Deleted)),
		slog.Int("orphans", len(result.Orphans)),
		slog.Int("failed", len(result.Failed)),
	)

	return result, nil
}

// RecomputeProductRating rebuilds a product's rating and review_count from
// the full review set instead of trusting the stored aggregate. Reviews are
// matched against the product's itemId field and its id field.
func (s *ReviewService) RecomputeProductRating(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("get product for recompute: %w", err)
	}

	all, err := s.reviews.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews for recompute: %w", err)
	}

	var ratings []int
	for _, rv := range all {
		if product.MatchesItemKey(rv.ItemID) {
			ratings = append(ratings, rv.Rating)
		}
	}

	rating, count := domain.RatingFromRatings(ratings)

	fields := map[string]any{
		"rating":       rating,
		"review_count": count,
	}
	if err := s.products.Update(ctx, product.ID, fields); err != nil {
		return nil, fmt.Errorf("write recomputed rating: %w", err)
	}

	product, err = s.products.GetByID(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("reload product after recompute: %w", err)
	}

	s.producer.PublishRatingRecomputed(ctx, product.ID, rating, count)

	s.logger.InfoContext(ctx, "product rating recomputed",
		slog.String("product_id", product.ID),
		slog.Float64("rating", rating),
		slog.Int("review_count", count),
	)

	return product, nil
}

// reviewCSVHeaders are the columns of the review export, in order.
var reviewCSVHeaders = []string{"Comment", "Rating", "Product ID", "Product Name", "User", "Email", "Date", "Review ID"}

// ExportReviewsCSV renders the review set, optionally filtered to one item
// key, as CSV. Product columns come from the dual-key lookup; user columns
// from the read-only user directory. Reviews whose product or user cannot be
// resolved still export with those columns blank.
func (s *ReviewService) ExportReviewsCSV(ctx context.Context, itemID string) ([]byte, error) {
	reviews, err := s.ListReviews(ctx, itemID)
	if err != nil {
		return nil, err
	}

	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products for export: %w", err)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users for export: %w", err)
	}

	byItemID := make(map[string]*domain.Product, len(products))
	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		p := &products[i]
		if p.ItemID != "" {
			byItemID[p.ItemID] = p
		}
		byID[p.ID] = p
	}
	resolve := func(key string) *domain.Product {
		if p, ok := byItemID[key]; ok {
			return p
		}
		return byID[key]
	}

	usersByID := make(map[string]*domain.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(reviewCSVHeaders)

	for _, rv := range reviews {
		productID, productName := rv.ItemID, ""
		if p := resolve(rv.ItemID); p != nil {
			productID, productName = p.ID, p.Name
		}

		userName, userEmail := "", ""
		if u, ok := usersByID[rv.UserID]; ok {
			userName, userEmail = u.FullName(), u.Email
		}

		w.Write([]string{
			rv.Comment,
			strconv.Itoa(rv.Rating),
			productID,
			productName,
			userName,
			userEmail,
			domain.MillisToTime(rv.CreatedAt).Format(time.RFC3339),
			rv.ID,
		})
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write review csv: %w", err)
	}

	s.logger.InfoContext(ctx, "reviews exported",
		slog.Int("count", len(reviews)),
		slog.String("item_id", itemID),
	)

	return buf.Bytes(), nil
}
