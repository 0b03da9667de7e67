package handlers

import (
	"strconv"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/services"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService   *services.ReviewService
	responseService *services.ResponseService
}

func NewReviewHandler(reviewService *services.ReviewService, responseService *services.ResponseService) *ReviewHandler {
	return &ReviewHandler{
		reviewService:   reviewService,
		responseService: responseService,
	}
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req services.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.SubmitReview(userID, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendCreated(c, "Review created successfully", review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid review ID")
		return
	}

	var req services.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	review, err := h.reviewService.UpdateReview(userID, uint(reviewID), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Review updated successfully", review)
}

func (h *ReviewHandler) GetVenueReviews(c *gin.Context) {
	venueID, err := strconv.ParseUint(c.Param("venue_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid venue ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	reviews, err := h.reviewService.ListVenueReviews(uint(venueID), page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

// CanReview answers whether the caller may review the venue, plus whether
// they already did. Returned explicitly so the frontend never has to guess.
func (h *ReviewHandler) CanReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	venueID, err := strconv.ParseUint(c.Query("venue_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid venue ID")
		return
	}

	utils.SendSuccess(c, "Review permissions", gin.H{
		"can_review":   h.reviewService.CanReview(userID, uint(venueID)),
		"has_reviewed": h.reviewService.HasReviewed(userID, uint(venueID)),
	})
}

func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	userID := c.GetUint("user_id")

	reviews, err := h.reviewService.ListUserReviews(userID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

func (h *ReviewHandler) RespondToReview(c *gin.Context) {
	userID := c.GetUint("user_id")

	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid review ID")
		return
	}

	var req services.RespondToReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	response, err := h.responseService.RespondToReview(userID, uint(reviewID), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Response saved successfully", response)
}

// GetOwnerInbox lists the reviews of the caller's own venue.
func (h *ReviewHandler) GetOwnerInbox(c *gin.Context) {
	userID := c.GetUint("user_id")

	reviews, err := h.responseService.OwnerInbox(userID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Reviews retrieved successfully", reviews)
}

// ModerateReview hides or restores a review without deleting it.
func (h *ReviewHandler) ModerateReview(c *gin.Context) {
	reviewID, err := strconv.ParseUint(c.Param("review_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid review ID")
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	switch req.Action {
	case "deactivate":
		err = h.reviewService.DeactivateReview(uint(reviewID))
	case "reactivate":
		err = h.reviewService.ReactivateReview(uint(reviewID))
	default:
		utils.SendValidationError(c, "Invalid action, use 'deactivate' or 'reactivate'")
		return
	}

	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Review moderated successfully", nil)
}
