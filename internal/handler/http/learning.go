package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SeanSoulong/admin-bay/internal/service"
	"github.com/SeanSoulong/admin-bay/pkg/httputil"
	"github.com/SeanSoulong/admin-bay/pkg/validator"
)

// LearningCardHandler handles HTTP requests for learning hub cards.
type LearningCardHandler struct {
	service *service.LearningCardService
	logger  *slog.Logger
}

// NewLearningCardHandler creates a new LearningCardHandler.
func NewLearningCardHandler(service *service.LearningCardService, logger *slog.Logger) *LearningCardHandler {
	return &LearningCardHandler{
		service: service,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateCardRequest is the request body for creating a learning card.
type CreateCardRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Category    string `json:"category"`
	Author      string `json:"author" validate:"required"`
	Date        string `json:"date"`
	ImageURL    string `json:"imageUrl" validate:"required"`
	ReadTime    string `json:"readTime"`
}

// UpdateCardRequest is the request body for partially updating a learning
// card. Absent fields leave the stored value untouched.
type UpdateCardRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Category    *string `json:"category"`
	Author      *string `json:"author"`
	Date        *string `json:"date"`
	ImageURL    *string `json:"imageUrl"`
	ReadTime    *string `json:"readTime"`
}

// ListCards handles GET /api/v1/learning-cards.
func (h *LearningCardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.ListCards(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: httputil.NewListResponse(cards)})
}

// GetCard handles GET /api/v1/learning-cards/{uuid}.
func (h *LearningCardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	card, err := h.service.GetCard(r.Context(), uuid)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: card})
}

// CreateCard handles POST /api/v1/learning-cards.
func (h *LearningCardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	card, err := h.service.CreateCard(r.Context(), &service.CreateCardInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Author:      req.Author,
		Date:        req.Date,
		ImageURL:    req.ImageURL,
		ReadTime:    req.ReadTime,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: card})
}

// UpdateCard handles PATCH /api/v1/learning-cards/{uuid}.
func (h *LearningCardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	var req UpdateCardRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	card, err := h.service.UpdateCard(r.Context(), uuid, &service.UpdateCardInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Category:    req.Category,
		Author:      req.Author,
		Date:        req.Date,
		ImageURL:    req.ImageURL,
		ReadTime:    req.ReadTime,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: card})
}

// DeleteCard handles DELETE /api/v1/learning-cards/{uuid}.
func (h *LearningCardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	uuid := chi.URLParam(r, "uuid")

	if err := h.service.DeleteCard(r.Context(), uuid); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{
		"status": "deleted",
		"uuid":   uuid,
	}})
}
