package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SeanSoulong/admin-bay/internal/domain"
	"github.com/SeanSoulong/admin-bay/internal/event"
	"github.com/SeanSoulong/admin-bay/internal/repository"
	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

// LearningCardService implements the business logic for learning hub cards.
type LearningCardService struct {
	repo     repository.LearningCardRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewLearningCardService creates a new learning card service.
func NewLearningCardService(repo repository.LearningCardRepository, producer *event.Producer, logger *slog.Logger) *LearningCardService {
	return &LearningCardService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateCardInput holds the parameters for creating a learning card.
type CreateCardInput struct {
	Title       string
	Description string
	Content     string
	Category    string
	Author      string
	Date        string
	ImageURL    string
	ReadTime    string
}

// UpdateCardInput holds the parameters for updating a learning card. Nil
// fields are left untouched.
type UpdateCardInput struct {
	Title       *string
	Description *string
	Content     *string
	Category    *string
	Author      *string
	Date        *string
	ImageURL    *string
	ReadTime    *string
}

// ListCards returns all learning cards, newest first.
func (s *LearningCardService) ListCards(ctx context.Context) ([]domain.LearningCard, error) {
	cards, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list learning cards: %w", err)
	}
	return cards, nil
}

// GetCard retrieves a learning card by its uuid.
func (s *LearningCardService) GetCard(ctx context.Context, id string) (*domain.LearningCard, error) {
	card, err := s.repo.GetByUUID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get learning card: %w", err)
	}
	return card, nil
}

// CreateCard creates a new learning card with the given input.
func (s *LearningCardService) CreateCard(ctx context.Context, input *CreateCardInput) (*domain.LearningCard, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("card title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.InvalidInput("card description is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.InvalidInput("card content is required")
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, apperrors.InvalidInput("card author is required")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, apperrors.InvalidInput("card image url is required")
	}
	if input.Category != "" && !domain.IsValidCardCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid card category %q", input.Category))
	}

	card := &domain.LearningCard{
		Title:       input.Title,
		Description: input.Description,
		Content:     input.Content,
		Category:    input.Category,
		Author:      input.Author,
		Date:        input.Date,
		ImageURL:    input.ImageURL,
		ReadTime:    input.ReadTime,
	}

	id, err := s.repo.Create(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("create learning card: %w", err)
	}

	s.producer.PublishCardCreated(ctx, card)

	s.logger.InfoContext(ctx, "learning card created",
		slog.String("card_uuid", id),
		slog.String("title", card.Title),
	)

	return card, nil
}

// UpdateCard applies partial updates to an existing learning card and
// returns the stored result.
func (s *LearningCardService) UpdateCard(ctx context.Context, id string, input *UpdateCardInput) (*domain.LearningCard, error) {
	fields := map[string]any{}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.InvalidInput("card title must not be empty")
		}
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Content != nil {
		fields["content"] = *input.Content
	}
	if input.Category != nil {
		if *input.Category != "" && !domain.IsValidCardCategory(*input.Category) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid card category %q", *input.Category))
		}
		fields["category"] = *input.Category
	}
	if input.Author != nil {
		fields["author"] = *input.Author
	}
	if input.Date != nil {
		fields["date"] = *input.Date
	}
	if input.ImageURL != nil {
		fields["imageUrl"] = *input.ImageURL
	}
	if input.ReadTime != nil {
		fields["readTime"] = *input.ReadTime
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update learning card: %w", err)
	}

	card, err := s.repo.GetByUUID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload learning card after update: %w", err)
	}

	s.producer.PublishCardUpdated(ctx, card)

	s.logger.InfoContext(ctx, "learning card updated",
		slog.String("card_uuid", id),
	)

	return card, nil
}

// DeleteCard removes a learning card together with every saved-card bookmark
// referencing it.
func (s *LearningCardService) DeleteCard(ctx context.Context, id string) error {
	if _, err := s.repo.GetByUUID(ctx, id); err != nil {
		return fmt.Errorf("get learning card for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete learning card: %w", err)
	}

	s.producer.PublishCardDeleted(ctx, id)

	s.logger.InfoContext(ctx, "learning card deleted",
		slog.String("card_uuid", id),
	)

	return nil
}
