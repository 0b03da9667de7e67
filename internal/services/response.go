package services

import (
	"errors"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/apperrors"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/utils"
	"gorm.io/gorm"
)

// ResponseService lets a venue's verified owner attach the single official
// reply to a review. Unlike the submit restriction, the authorization here is
// venue-scoped: an owner may only respond to reviews of their own venue.
type ResponseService struct {
	db *gorm.DB
}

func NewResponseService(db *gorm.DB) *ResponseService {
	return &ResponseService{db: db}
}

type RespondToReviewRequest struct {
	Text      string `json:"text" binding:"required"`
	Sentiment string `json:"sentiment" binding:"required"`
}

// RespondToReview creates the owner response for a review, or edits it in
// place when one already exists. Once answered, a review never goes back to
// unanswered through this workflow.
func (s *ResponseService) RespondToReview(authorID, reviewID uint, req RespondToReviewRequest) (*models.OwnerResponse, error) {
	if authorID == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	var response models.OwnerResponse

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrReviewNotFound
			}
			return apperrors.Internal(err)
		}

		ownedVenue, ok := activeOwner(tx, authorID)
		if !ok || ownedVenue.ID != review.VenueID {
			return apperrors.ErrNotVenueOwner
		}

		if !utils.IsValidSentiment(req.Sentiment) {
			return apperrors.ErrInvalidSentiment
		}

		err := tx.Where("review_id = ?", reviewID).First(&response).Error
		if err == nil {
			response.Text = utils.SanitizeString(req.Text)
			response.Sentiment = req.Sentiment
			response.AuthorID = authorID

			if err := tx.Save(&response).Error; err != nil {
				return apperrors.Internal(err)
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Internal(err)
		}

		response = models.OwnerResponse{
			ReviewID:  reviewID,
			AuthorID:  authorID,
			Text:      utils.SanitizeString(req.Text),
			Sentiment: req.Sentiment,
		}

		if err := tx.Create(&response).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// OwnerInbox lists the reviews of the caller's venue so they can respond,
// newest first. Only active owners have an inbox.
func (s *ResponseService) OwnerInbox(authorID uint) ([]models.Review, error) {
	if authorID == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	ownedVenue, ok := activeOwner(s.db, authorID)
	if !ok {
		return nil, apperrors.ErrOwnerPanelOnly
	}

	var reviews []models.Review
	err := s.db.Preload("User").Preload("Response").
		Where("venue_id = ?", ownedVenue.ID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return reviews, nil
}
