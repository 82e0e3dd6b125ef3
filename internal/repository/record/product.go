// Package record implements the repository interfaces on top of the
// hierarchical record store. Collections live under fixed path roots and
// every document is a JSON object, so listings decode children and partial
// updates shallow-merge fields the same way the dashboard's previous backend
// did.
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

const productsPath = "shoppingItems"

// ProductRepository implements repository.ProductRepository using the record
// store.
type ProductRepository struct {
	store *recordstore.Client
}

// NewProductRepository creates a new record-store-backed product repository.
func NewProductRepository(store *recordstore.Client) *ProductRepository {
	return &ProductRepository{store: store}
}

// List returns all products, newest first. A product without a createdAt
// stamp sorts as 0, so legacy records end up last.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	children, err := r.store.ListChildren(ctx, productsPath)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]domain.Product, 0, len(children))
	for key, raw := range children {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			// A corrupt child must not poison the whole listing.
			continue
		}
		if p.ID == "" {
			p.ID = key
		}
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool {
		if products[i].CreatedAt != products[j].CreatedAt {
			return products[i].CreatedAt > products[j].CreatedAt
		}
		return products[i].ID < products[j].ID
	})

	return products, nil
}

// GetByID retrieves a product by its record key.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	var p domain.Product
	found, err := r.store.Get(ctx, productsPath+"/"+id, &p)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if !found {
		return nil, apperrors.NotFound("product", id)
	}
	if p.ID == "" {
		p.ID = id
	}
	return &p, nil
}

// FindByItemKey resolves a product from a review's item key. Reviews written
// by older clients carry the product's record id instead of its itemId, so
// the itemId field is matched first and the id field second.
func (r *ProductRepository) FindByItemKey(ctx context.Context, key string) (*domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ItemID == key {
			return &products[i], nil
		}
	}
	for i := range products {
		if products[i].ID == key {
			return &products[i], nil
		}
	}

	return nil, apperrors.NotFound("product", key)
}

// Create writes a new product under a generated key. The same key becomes
// both id and itemId, createdAt and updatedAt are stamped with the current
// epoch millis, and the rating aggregate starts at zero unless seeded.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (string, error) {
	path, id := r.store.Push(productsPath)

	now := domain.NowMillis()
	product.ID = id
	product.ItemID = id
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := r.store.Set(ctx, path, product); err != nil {
		return "", fmt.Errorf("create product: %w", err)
	}
	return id, nil
}

// Update shallow-merges fields over the stored product and always overwrites
// updatedAt, even when the caller supplied one.
func (r *ProductRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	path := productsPath + "/" + id

	var existing map[string]any
	found, err := r.store.Get(ctx, path, &existing)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if !found {
		return apperrors.NotFound("product", id)
	}

	merged := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		merged[k] = v
	}
	merged["updatedAt"] = domain.NowMillis()

	if err := r.store.Update(ctx, path, merged); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

// Delete removes a product. Removing an absent product is a no-op.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Remove(ctx, productsPath+"/"+id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
