package record

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/SeanSoulong/admin-bay/internal/domain"
	"github.com/SeanSoulong/admin-bay/internal/recordstore"
	apperrors "github.com/SeanSoulong/admin-bay/pkg/errors"
)

const (
	cardsPath      = "learning_hub/cards"
	savedCardsPath = "learning_hub/user_saved_cards"
)

// LearningCardRepository implements repository.LearningCardRepository using
// the record store.
type LearningCardRepository struct {
	store  *recordstore.Client
	logger *slog.Logger
}

// NewLearningCardRepository creates a new record-store-backed learning card
// repository.
func NewLearningCardRepository(store *recordstore.Client, logger *slog.Logger) *LearningCardRepository {
	return &LearningCardRepository{
		store:  store,
		logger: logger,
	}
}

// List returns all learning cards, newest first. createdAt stamps are
// ISO-8601 strings, which sort chronologically as plain strings.
func (r *LearningCardRepository) List(ctx context.Context) ([]domain.LearningCard, error) {
	children, err := r.store.ListChildren(ctx, cardsPath)
	if err != nil {
		return nil, fmt.Errorf("list learning cards: %w", err)
	}

	cards := make([]domain.LearningCard, 0, len(children))
	for key, raw := range children {
		var card domain.LearningCard
		if err := json.Unmarshal(raw, &card); err != nil {
			continue
		}
		if card.UUID == "" {
			card.UUID = key
		}
		cards = append(cards, card)
	}

	sort.Slice(cards, func(i, j int) bool {
		if cards[i].CreatedAt != cards[j].CreatedAt {
			return cards[i].CreatedAt > cards[j].CreatedAt
		}
		return cards[i].UUID < cards[j].UUID
	})

	return cards, nil
}

// GetByUUID retrieves a learning card by its uuid.
func (r *LearningCardRepository) GetByUUID(ctx context.Context, id string) (*domain.LearningCard, error) {
	var card domain.LearningCard
	found, err := r.store.Get(ctx, cardsPath+"/"+id, &card)
	if err != nil {
		return nil, fmt.Errorf("get learning card: %w", err)
	}
	if !found {
		return nil, apperrors.NotFound("learning card", id)
	}
	if card.UUID == "" {
		card.UUID = id
	}
	return &card, nil
}

// Create writes a new card under a fresh uuid and stamps createdAt as
// ISO-8601.
func (r *LearningCardRepository) Create(ctx context.Context, card *domain.LearningCard) (string, error) {
	id := uuid.NewString()
	card.UUID = id
	card.CreatedAt = domain.NowISO()

	if err := r.store.Set(ctx, cardsPath+"/"+id, card); err != nil {
		return "", fmt.Errorf("create learning card: %w", err)
	}
	return id, nil
}

// Update shallow-merges fields over the stored card.
func (r *LearningCardRepository) Update(ctx context.Context, id string, fields map[string]any) error {
	path := cardsPath + "/" + id

	var existing map[string]any
	found, err := r.store.Get(ctx, path, &existing)
	if err != nil {
		return fmt.Errorf("get learning card: %w", err)
	}
	if !found {
		return apperrors.NotFound("learning card", id)
	}

	if err := r.store.Update(ctx, path, fields); err != nil {
		return fmt.Errorf("update learning card: %w", err)
	}
	return nil
}

// Delete removes a card record and then every saved-card bookmark pointing
// at it, across all users, in one batched write. Bookmark entries that do
// not look like {userId}/{uuid} are skipped with a warning so one bad path
// never blocks the cleanup.
func (r *LearningCardRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Remove(ctx, cardsPath+"/"+id); err != nil {
		return fmt.Errorf("delete learning card: %w", err)
	}

	bookmarks, err := r.store.ListChildren(ctx, savedCardsPath)
	if err != nil {
		return fmt.Errorf("scan saved cards: %w", err)
	}

	var stale []string
	for key := range bookmarks {
		parts := strings.Split(key, "/")
		if len(parts) != 2 {
			r.logger.Warn("skipping malformed saved-card path",
				slog.String("path", savedCardsPath+"/"+key))
			continue
		}
		if parts[1] == id {
			stale = append(stale, savedCardsPath+"/"+key)
		}
	}

	if err := r.store.RemoveAll(ctx, stale); err != nil {
		return fmt.Errorf("remove saved-card bookmarks: %w", err)
	}
	return nil
}
