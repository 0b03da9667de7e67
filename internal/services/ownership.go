package services

import (
	"errors"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"gorm.io/gorm"
)

// OwnershipService resolves whether a user is the verified owner of a venue.
// It is a pure read over the profile record: no side effects, no caching.
type OwnershipService struct {
	db *gorm.DB
}

func NewOwnershipService(db *gorm.DB) *OwnershipService {
	return &OwnershipService{db: db}
}

// activeOwner is the single definition of "active owner": the profile flag is
// set AND the venue reference is non-nil AND it resolves to an existing venue.
// A flag without a venue grants nothing. Takes the db handle so callers can
// run it inside their own transaction.
func activeOwner(db *gorm.DB, userID uint) (*models.Venue, bool) {
	if userID == 0 {
		return nil, false
	}

	var profile models.Profile
	if err := db.Where("user_id = ? AND is_active = ?", userID, true).First(&profile).Error; err != nil {
		return nil, false
	}

	if !profile.IsVenueOwner || profile.OwnedVenueID == nil {
		return nil, false
	}

	var venue models.Venue
	if err := db.First(&venue, *profile.OwnedVenueID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false
		}
		// Dangling reference: the venue was deleted under the profile.
		return nil, false
	}

	return &venue, true
}

// ActiveOwner returns the venue the user officially owns, if any.
func (s *OwnershipService) ActiveOwner(userID uint) (*models.Venue, bool) {
	return activeOwner(s.db, userID)
}

// IsActiveOwner reports whether the user owns any venue.
func (s *OwnershipService) IsActiveOwner(userID uint) bool {
	_, ok := activeOwner(s.db, userID)
	return ok
}

// OwnsVenue reports whether the user is the active owner of this venue in
// particular.
func (s *OwnershipService) OwnsVenue(userID, venueID uint) bool {
	venue, ok := activeOwner(s.db, userID)
	return ok && venue.ID == venueID
}
