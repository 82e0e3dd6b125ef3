package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/SeanSoulong/admin-bay/internal/service"
	"github.com/SeanSoulong/admin-bay/pkg/httputil"
	"github.com/SeanSoulong/admin-bay/pkg/validator"
)

// ReviewHandler handles HTTP requests for review moderation.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger,
	}
}

// --- Request DTOs ---

// BulkDeleteReviewsRequest is the request body for deleting several reviews
// in one call.
type BulkDeleteReviewsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// ListReviews handles GET /api/v1/reviews. An optional itemId query parameter
// restricts the listing to reviews of a single product.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("itemId")

	reviews, err := h.service.ListReviews(r.Context(), itemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: httputil.NewListResponse(reviews)})
}

// GetReview handles GET /api/v1/reviews/{id}.
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	review, err := h.service.GetReview(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// DeleteReview handles DELETE /api/v1/reviews/{id}. The response reports how
// the product aggregate changed, or that the review was an orphan.
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.service.DeleteReview(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// BulkDeleteReviews handles POST /api/v1/reviews/bulk-delete. Deletions run
// sequentially and failures are reported per review without aborting the
// batch, so the response is 200 even when some entries failed.
func (h *ReviewHandler) BulkDeleteReviews(w http.ResponseWriter, r *http.Request) {
	var req BulkDeleteReviewsRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.DeleteReviews(r.Context(), req.IDs)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// RecomputeProductRating handles POST /api/v1/products/{id}/recompute-rating.
// It rebuilds the product's rating and review count from the stored reviews.
func (h *ReviewHandler) RecomputeProductRating(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.RecomputeProductRating(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ExportReviews handles GET /api/v1/reviews/export.csv. An optional itemId
// query parameter restricts the export to one product's reviews.
func (h *ReviewHandler) ExportReviews(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("itemId")

	data, err := h.service.ExportReviewsCSV(r.Context(), itemID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="reviews.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to stream review export", slog.String("error", err.Error()))
	}
}
