package service

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/SeanSoulong/admin-bay/internal/domain"
	"github.com/SeanSoulong/admin-bay/internal/event"
	"github.com/SeanSoulong/admin-bay/internal/storage"
	pkgkafka "github.com/SeanSoulong/admin-bay/pkg/kafka"
)

// --- Mock ProductRepository ---

type mockProductRepo struct {
	mock.Mock
}

func (m *mockProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) FindByItemKey(ctx context.Context, key string) (*domain.Product, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *mockProductRepo) Create(ctx context.Context, product *domain.Product) (string, error) {
	args := m.Called(ctx, product)
	return args.String(0), args.Error(1)
}

func (m *mockProductRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockProductRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock ReviewRepository ---

type mockReviewRepo struct {
	mock.Mock
}

func (m *mockReviewRepo) List(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewRepo) GetByItemID(ctx context.Context, itemID string) ([]domain.Review, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepo) Create(ctx context.Context, review *domain.Review) (string, error) {
	args := m.Called(ctx, review)
	return args.String(0), args.Error(1)
}

func (m *mockReviewRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReviewRepo) DeleteAndReconcile(ctx context.Context, reviewID, productID string) error {
	args := m.Called(ctx, reviewID, productID)
	return args.Error(0)
}

// --- Mock LearningCardRepository ---

type mockLearningCardRepo struct {
	mock.Mock
}

func (m *mockLearningCardRepo) List(ctx context.Context) ([]domain.LearningCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LearningCard), args.Error(1)
}

func (m *mockLearningCardRepo) GetByUUID(ctx context.Context, id string) (*domain.LearningCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearningCard), args.Error(1)
}

func (m *mockLearningCardRepo) Create(ctx context.Context, card *domain.LearningCard) (string, error) {
	args := m.Called(ctx, card)
	return args.String(0), args.Error(1)
}

func (m *mockLearningCardRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *mockLearningCardRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// --- Mock BlobStore ---

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) Upload(ctx context.Context, input *storage.UploadInput) (*storage.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *mockBlobStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *mockBlobStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Test Helpers ---

// recordingPublisher captures published audit events so tests can assert on
// them without a broker.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*pkgkafka.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, ev *pkgkafka.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) eventsOfType(eventType string) []*pkgkafka.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*pkgkafka.Event
	for _, ev := range p.events {
		if ev.EventType == eventType {
			out = append(out, ev)
		}
	}
	return out
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProducer() (*event.Producer, *recordingPublisher) {
	publisher := &recordingPublisher{}
	return event.NewProducer(publisher, newTestLogger()), publisher
}

func strPtr(s string) *string {
	return &s
}

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
