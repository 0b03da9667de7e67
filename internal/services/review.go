package services

import (
	"database/sql"
	"errors"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/apperrors"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/utils"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/pkg/logger"
	"gorm.io/gorm"
)

// ReviewService runs the review workflow: permission checks, duplicate
// prevention, persistence and aggregate recomputation, all inside one
// transaction so a reader can never observe a review whose venue aggregate
// does not yet reflect it.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type SubmitReviewRequest struct {
	VenueID uint   `json:"venue_id" binding:"required"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// SubmitReview creates the one review a user may leave on a venue.
//
// Checks run in this order: authentication, the global owner restriction
// (an owner of ANY venue may not review, not even other venues), venue
// existence, duplicate prevention, rating range. A unique-constraint
// violation on insert is reported as the same conflict as the duplicate
// check, covering two submissions racing past it.
func (s *ReviewService) SubmitReview(userID uint, req SubmitReviewRequest) (*models.Review, error) {
	if userID == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	var review models.Review

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, ok := activeOwner(tx, userID); ok {
			return apperrors.ErrOwnersCannotReview
		}

		var venue models.Venue
		if err := tx.Where("id = ? AND is_active = ?", req.VenueID, true).First(&venue).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrVenueNotFound
			}
			return apperrors.Internal(err)
		}

		var existing models.Review
		err := tx.Where("user_id = ? AND venue_id = ?", userID, req.VenueID).First(&existing).Error
		if err == nil {
			return apperrors.ErrDuplicateReview
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Internal(err)
		}

		if !utils.IsValidRating(req.Rating) {
			return apperrors.ErrInvalidRating
		}

		review = models.Review{
			UserID:   userID,
			VenueID:  req.VenueID,
			Rating:   req.Rating,
			Comment:  utils.SanitizeString(req.Comment),
			IsActive: true,
		}

		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateReview
			}
			return apperrors.Internal(err)
		}

		return recomputeAggregate(tx, req.VenueID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// UpdateReview edits an existing review of the caller and recomputes the
// venue aggregate in the same transaction.
func (s *ReviewService) UpdateReview(userID, reviewID uint, req UpdateReviewRequest) (*models.Review, error) {
	if userID == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	var review models.Review

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrReviewNotFound
			}
			return apperrors.Internal(err)
		}

		if review.UserID != userID {
			return apperrors.ErrNotReviewAuthor
		}

		if !utils.IsValidRating(req.Rating) {
			return apperrors.ErrInvalidRating
		}

		review.Rating = req.Rating
		review.Comment = utils.SanitizeString(req.Comment)

		if err := tx.Save(&review).Error; err != nil {
			return apperrors.Internal(err)
		}

		return recomputeAggregate(tx, review.VenueID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

func (s *ReviewService) hasReviewed(userID, venueID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Review{}).
		Where("user_id = ? AND venue_id = ?", userID, venueID).
		Count(&count).Error
	return count > 0, err
}

// HasReviewed reports whether the user already left a review on the venue.
func (s *ReviewService) HasReviewed(userID, venueID uint) bool {
	if userID == 0 {
		return false
	}

	reviewed, err := s.hasReviewed(userID, venueID)
	if err != nil {
		logger.Error("failed to check existing review: ", err)
		return false
	}
	return reviewed
}

// CanReview reports whether the user may leave a review on the venue: they
// must be authenticated, not an active owner of any venue, and must not have
// reviewed it already. A storage failure answers no rather than handing out
// a permission the duplicate check would reject anyway.
func (s *ReviewService) CanReview(userID, venueID uint) bool {
	if userID == 0 {
		return false
	}
	if _, ok := activeOwner(s.db, userID); ok {
		return false
	}

	reviewed, err := s.hasReviewed(userID, venueID)
	if err != nil {
		logger.Error("failed to check existing review: ", err)
		return false
	}
	return !reviewed
}

// ListVenueReviews returns the active reviews of a venue, newest first, with
// reviewer and owner response attached.
func (s *ReviewService) ListVenueReviews(venueID uint, page, limit int) ([]models.Review, error) {
	var venue models.Venue
	if err := s.db.Where("id = ? AND is_active = ?", venueID, true).First(&venue).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVenueNotFound
		}
		return nil, apperrors.Internal(err)
	}

	var reviews []models.Review
	offset := (page - 1) * limit

	err := s.db.Preload("User").Preload("Response").
		Where("venue_id = ? AND is_active = ?", venueID, true).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return reviews, nil
}

// ListUserReviews returns every review the user has written, newest first.
func (s *ReviewService) ListUserReviews(userID uint) ([]models.Review, error) {
	if userID == 0 {
		return nil, apperrors.ErrUnauthorized
	}

	var reviews []models.Review
	err := s.db.Preload("Venue").Preload("Response").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return reviews, nil
}

// DeactivateReview hides a review without deleting it (moderation) and
// recomputes the venue aggregate without its rating.
func (s *ReviewService) DeactivateReview(reviewID uint) error {
	return s.setReviewActive(reviewID, false)
}

// ReactivateReview undoes a moderation takedown.
func (s *ReviewService) ReactivateReview(reviewID uint) error {
	return s.setReviewActive(reviewID, true)
}

func (s *ReviewService) setReviewActive(reviewID uint, active bool) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrReviewNotFound
			}
			return apperrors.Internal(err)
		}

		if review.IsActive == active {
			return nil
		}

		if err := tx.Model(&models.Review{}).Where("id = ?", reviewID).Update("is_active", active).Error; err != nil {
			return apperrors.Internal(err)
		}

		return recomputeAggregate(tx, review.VenueID)
	})
}

// RecomputeAggregate recalculates a venue's cached average rating on demand.
// Deterministic and idempotent; normally it is not needed because every write
// path already recomputes inside its own transaction.
func (s *ReviewService) RecomputeAggregate(venueID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return recomputeAggregate(tx, venueID)
	})
}

// recomputeAggregate sets the venue's average rating to the mean over its
// active reviews, or to NULL when none are active. Must run inside the same
// transaction as the review write it follows.
func recomputeAggregate(tx *gorm.DB, venueID uint) error {
	var avg sql.NullFloat64
	err := tx.Model(&models.Review{}).
		Where("venue_id = ? AND is_active = ?", venueID, true).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return apperrors.Internal(err)
	}

	var value *float64
	if avg.Valid {
		value = &avg.Float64
	}

	if err := tx.Model(&models.Venue{}).Where("id = ?", venueID).Update("average_rating", value).Error; err != nil {
		return apperrors.Internal(err)
	}

	return nil
}
