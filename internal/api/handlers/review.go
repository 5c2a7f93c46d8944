package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/princeprakhar/tours-backend/internal/models"
	"github.com/princeprakhar/tours-backend/internal/query"
	"github.com/princeprakhar/tours-backend/internal/services"
	"github.com/princeprakhar/tours-backend/internal/utils"
)

type ReviewHandler struct {
	reviewService *services.ReviewService
}

func NewReviewHandler(reviewService *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// GetAllReviews serves /reviews and /tours/:id/reviews.
func (h *ReviewHandler) GetAllReviews(c *gin.Context) {
	reviews, proj, err := h.reviewService.ListReviews(c.Request.Context(), c.Param("id"), query.FromValues(c.Request.URL.Query()))
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}
	data, ok := shaped(c, proj, reviews)
	if !ok {
		return
	}
	utils.SendList(c, "Reviews retrieved successfully", len(reviews), data)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "No review found with that ID", err)
		return
	}
	utils.SendSuccess(c, "Review retrieved successfully", review)
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req services.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}
	if req.TourID == "" {
		req.TourID = c.Param("id")
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		respondError(c, "Failed to create review", err)
		return
	}
	utils.SendCreated(c, "Review created successfully", review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	var patch models.ReviewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), actorFrom(c), c.Param("id"), patch)
	if err != nil {
		respondError(c, "Failed to update review", err)
		return
	}
	utils.SendSuccess(c, "Review updated successfully", review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.reviewService.DeleteReview(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		respondError(c, "Failed to delete review", err)
		return
	}
	utils.SendNoContent(c)
}
