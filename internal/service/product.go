// Package service implements the business logic of the admin dashboard:
// product and learning card management, the review deletion and rating
// reconciliation workflow, blob uploads, and the export surfaces.
package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/SeanSoulong/admin-bay/internal/domain"
	"github.com/SeanSoulong/admin-bay/internal/event"
	"github.com/SeanSoulong/admin-bay/internal/repository"
	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

// ProductService implements the business logic for product operations.
type ProductService struct {
	repo     repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Description string
	Unit        string
	Images      []string
	UserID      string
}

// UpdateProductInput holds the parameters for updating a product. Nil fields
// are left untouched.
type UpdateProductInput struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Description *string
	Unit        *string
	Images      []string
}

// ListProducts returns all products, newest first.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// GetProduct retrieves a product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return product, nil
}

// CreateProduct creates a new product with the given input.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price.IsNegative() {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.InvalidInput("product description is required")
	}
	if strings.TrimSpace(input.Unit) == "" {
		return nil, apperrors.InvalidInput("product unit is required")
	}
	if input.Category != "" && !domain.IsValidCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid category %q, must be one of: %s", input.Category, strings.Join(domain.ValidCategories(), ", ")))
	}
	if len(input.Images) > domain.MaxProductImages {
		return nil, apperrors.InvalidInput(fmt.Sprintf("at most %d images are allowed", domain.MaxProductImages))
	}

	product := &domain.Product{
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Description: input.Description,
		Unit:        input.Unit,
		Images:      input.Images,
		UserID:      input.UserID,
	}

	id, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.producer.PublishProductCreated(ctx, product)

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", id),
		slog.String("name", product.Name),
	)

	return product, nil
}

// UpdateProduct applies partial updates to an existing product and returns
// the stored result.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	fields := map[string]any{}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		fields["name"] = *input.Name
	}
	if input.Category != nil {
		if *input.Category != "" && !domain.IsValidCategory(*input.Category) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid category %q, must be one of: %s", *input.Category, strings.Join(domain.ValidCategories(), ", ")))
		}
		fields["category"] = *input.Category
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		fields["price"] = *input.Price
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Unit != nil {
		fields["unit"] = *input.Unit
	}
	if input.Images != nil {
		if len(input.Images) > domain.MaxProductImages {
			return nil, apperrors.InvalidInput(fmt.Sprintf("at most %d images are allowed", domain.MaxProductImages))
		}
		fields["images"] = input.Images
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload product after update: %w", err)
	}

	s.producer.PublishProductUpdated(ctx, product)

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", id),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID. Reviews referencing the product
// are left in place and become orphans; the review workflow handles them.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.producer.PublishProductDeleted(ctx, id)

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// productSheetHeaders are the columns of the product export workbook.
var productSheetHeaders = []string{"ID", "Name", "Category", "Price", "Unit", "Rating", "Reviews", "Created"}

// ExportProductsXLSX renders the full product list as an Excel workbook.
func (s *ProductService) ExportProductsXLSX(ctx context.Context) ([]byte, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products for export: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, fmt.Errorf("create products sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range productSheetHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Category)
		row.AddCell().SetValue(p.Price.String())
		row.AddCell().SetValue(p.Unit)
		row.AddCell().SetValue(p.Rating)
		row.AddCell().SetValue(p.ReviewCount)
		if p.CreatedAt > 0 {
			row.AddCell().SetValue(domain.MillisToTime(p.CreatedAt).Format("2006-01-02 15:04:05"))
		} else {
			row.AddCell().SetValue("")
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, fmt.Errorf("write products workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "products exported",
		slog.Int("count", len(products)),
	)

	return buf.Bytes(), nil
}
