package repository

import (
	"context"

	"github.com/SeanSoulong/admin-bay/internal/domain"
)

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	// List returns all products ordered by creation time, newest first.
	// Products without a creation timestamp sort last.
	List(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves a product by its record key.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// FindByItemKey resolves a product from a review's item key. The itemId
	// field is matched first, then the record id, preserving the lookup
	// order reviews were written with.
	FindByItemKey(ctx context.Context, key string) (*domain.Product, error)

	// Create writes a new product, assigning one generated key to both id
	// and itemId, and returns that key.
	Create(ctx context.Context, product *domain.Product) (string, error)

	// Update shallow-merges fields over the stored product. The updatedAt
	// stamp is always overwritten with the current time. Returns NotFound
	// when the product does not exist.
	Update(ctx context.Context, id string, fields map[string]any) error

	// Delete removes a product. Deleting an absent product is not an error.
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines the interface for review persistence operations.
type ReviewRepository interface {
	// List returns all reviews ordered by creation time, newest first. Each
	// entry carries its record key as both id and reviewId.
	List(ctx context.Context) ([]domain.Review, error)

	// GetByID retrieves a review by its record key.
	GetByID(ctx context.Context, id string) (*domain.Review, error)

	// GetByItemID returns the reviews whose itemId matches exactly. This is
	// a linear scan over the collection.
	GetByItemID(ctx context.Context, itemID string) ([]domain.Review, error)

	// Create writes a new review under a generated key and returns the key.
	Create(ctx context.Context, review *domain.Review) (string, error)

	// Update shallow-merges fields over the stored review. Returns NotFound
	// when the review does not exist.
	Update(ctx context.Context, id string, fields map[string]any) error

	// Delete removes a review without touching any product aggregate.
	Delete(ctx context.Context, id string) error

	// DeleteAndReconcile removes a review and folds its rating out of the
	// owning product's aggregate in one atomic transaction. Both records are
	// re-read inside the transaction, so the arithmetic always applies to
	// the latest state. Conflicting concurrent writes retry a bounded number
	// of times before surfacing Conflict.
	DeleteAndReconcile(ctx context.Context, reviewID, productID string) error
}

// LearningCardRepository defines the interface for learning card persistence
// operations.
type LearningCardRepository interface {
	// List returns all learning cards ordered by creation time, newest
	// first.
	List(ctx context.Context) ([]domain.LearningCard, error)

	// GetByUUID retrieves a learning card by its uuid.
	GetByUUID(ctx context.Context, id string) (*domain.LearningCard, error)

	// Create writes a new card, assigning a uuid and an ISO-8601 createdAt
	// stamp, and returns the uuid.
	Create(ctx context.Context, card *domain.LearningCard) (string, error)

	// Update shallow-merges fields over the stored card. Returns NotFound
	// when the card does not exist.
	Update(ctx context.Context, id string, fields map[string]any) error

	// Delete removes a card and every saved-card bookmark referencing it
	// across all users in one batched write.
	Delete(ctx context.Context, id string) error
}

// UserRepository defines read-only access to marketplace user profiles.
type UserRepository interface {
	// List returns all user profiles ordered by id.
	List(ctx context.Context) ([]domain.User, error)

	// GetByID retrieves a user profile by its record key.
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
