// Package event publishes the admin audit trail. Every mutating admin
// operation emits one event to the audit topic; publishing is
// fire-and-forget, so a broker outage degrades the trail but never blocks or
// fails the operation that triggered it.
package event

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/SeanSoulong/admin-bay/internal/auth"
	"github.com/SeanSoulong/admin-bay/internal/domain"
	pkgkafka "github.com/SeanSoulong/admin-bay/pkg/kafka"
	"github.com/SeanSoulong/admin-bay/pkg/logger"
)

// TopicAudit is the Kafka topic carrying all admin audit events.
var TopicAudit = pkgkafka.Topic("audit")

// Audit event types.
const (
	TypeProductCreated          = "product.created"
	TypeProductUpdated          = "product.updated"
	TypeProductDeleted          = "product.deleted"
	TypeProductRatingRecomputed = "product.rating_recomputed"
	TypeReviewDeleted           = "review.deleted"
	TypeCardCreated             = "card.created"
	TypeCardUpdated             = "card.updated"
	TypeCardDeleted             = "card.deleted"
)

// Aggregate type constants.
const (
	AggregateTypeProduct      = "product"
	AggregateTypeReview       = "review"
	AggregateTypeLearningCard = "learning_card"
)

// SourceAdminBay identifies events originating from this backend.
const SourceAdminBay = "admin-bay"

// ProductAuditData is the payload for product lifecycle events.
type ProductAuditData struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category,omitempty"`
	Price    decimal.Decimal `json:"price"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// RatingRecomputedData is the payload for a product.rating_recomputed event.
type RatingRecomputedData struct {
	ProductID   string  `json:"product_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}

// ReviewDeletedData is the payload for a review.deleted event. For orphan
// reviews the product fields are empty and Orphan is true.
type ReviewDeletedData struct {
	ReviewID       string  `json:"review_id"`
	ItemID         string  `json:"item_id"`
	Rating         int     `json:"rating"`
	ProductID      string  `json:"product_id,omitempty"`
	Orphan         bool    `json:"orphan"`
	NewRating      float64 `json:"new_rating"`
	NewReviewCount int     `json:"new_review_count"`
}

// CardAuditData is the payload for learning card lifecycle events.
type CardAuditData struct {
	UUID     string `json:"uuid"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
}

// CardDeletedData is the payload for a card.deleted event.
type CardDeletedData struct {
	UUID string `json:"uuid"`
}

// Publisher publishes events to a Kafka topic. *pkgkafka.Producer
// satisfies it.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes audit events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new audit event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated records a product creation in the audit trail.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TypeProductCreated, product.ID, AggregateTypeProduct, ProductAuditData{
		ID:       product.ID,
		Name:     product.Name,
		Category: product.Category,
		Price:    product.Price,
	})
}

// PublishProductUpdated records a product update in the audit trail.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TypeProductUpdated, product.ID, AggregateTypeProduct, ProductAuditData{
		ID:       product.ID,
		Name:     product.Name,
		Category: product.Category,
		Price:    product.Price,
	})
}

// PublishProductDeleted records a product deletion in the audit trail.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) {
	p.publish(ctx, TypeProductDeleted, id, AggregateTypeProduct, ProductDeletedData{ID: id})
}

// PublishRatingRecomputed records a full rating repair in the audit trail.
func (p *Producer) PublishRatingRecomputed(ctx context.Context, productID string, rating float64, reviewCount int) {
	p.publish(ctx, TypeProductRatingRecomputed, productID, AggregateTypeProduct, RatingRecomputedData{
		ProductID:   productID,
		Rating:      rating,
		ReviewCount: reviewCount,
	})
}

// PublishReviewDeleted records a review deletion, including the reconciled
// aggregate or the orphan flag.
func (p *Producer) PublishReviewDeleted(ctx context.Context, data ReviewDeletedData) {
	p.publish(ctx, TypeReviewDeleted, data.ReviewID, AggregateTypeReview, data)
}

// PublishCardCreated records a learning card creation in the audit trail.
func (p *Producer) PublishCardCreated(ctx context.Context, card *domain.LearningCard) {
	p.publish(ctx, TypeCardCreated, card.UUID, AggregateTypeLearningCard, CardAuditData{
		UUID:     card.UUID,
		Title:    card.Title,
		Category: card.Category,
	})
}

// PublishCardUpdated records a learning card update in the audit trail.
func (p *Producer) PublishCardUpdated(ctx context.Context, card *domain.LearningCard) {
	p.publish(ctx, TypeCardUpdated, card.UUID, AggregateTypeLearningCard, CardAuditData{
		UUID:     card.UUID,
		Title:    card.Title,
		Category: card.Category,
	})
}

// PublishCardDeleted records a learning card deletion in the audit trail.
func (p *Producer) PublishCardDeleted(ctx context.Context, id string) {
	p.publish(ctx, TypeCardDeleted, id, AggregateTypeLearningCard, CardDeletedData{UUID: id})
}

func (p *Producer) publish(ctx context.Context, eventType, aggregateID, aggregateType string, data any) {
	ev, err := pkgkafka.NewEvent(eventType, aggregateID, aggregateType, SourceAdminBay, data)
	if err != nil {
		p.logger.WarnContext(ctx, "audit event construction failed",
			slog.String("event_type", eventType),
			slog.String("error", err.Error()),
		)
		return
	}

	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		ev.WithCorrelationID(id)
	}
	if identity, ok := auth.CurrentUser(ctx); ok {
		ev.WithActor(identity.Email)
	}

	if err := p.kafka.Publish(ctx, TopicAudit, ev); err != nil {
		p.logger.WarnContext(ctx, "audit event publish failed",
			slog.String("event_type", eventType),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
		return
	}

	p.logger.DebugContext(ctx, "published audit event",
		slog.String("event_type", eventType),
		slog.String("aggregate_id", aggregateID),
	)
}
