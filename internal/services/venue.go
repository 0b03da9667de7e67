package services

import (
	"errors"
	"strings"
	"time"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/apperrors"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// VenueService serves the public side of the directory: listings, search and
// the venue detail page. The detail payload carries the caller's review
// permissions as explicit values instead of ambient request state.
type VenueService struct {
	db        *gorm.DB
	reviews   *ReviewService
	ownership *OwnershipService
}

func NewVenueService(db *gorm.DB, reviews *ReviewService, ownership *OwnershipService) *VenueService {
	return &VenueService{
		db:        db,
		reviews:   reviews,
		ownership: ownership,
	}
}

type VenueFilter struct {
	CategorySlug string `form:"category"`
	City         string `form:"city"`
	Page         int    `form:"page"`
	Limit        int    `form:"limit"`
}

type VenueListResponse struct {
	Venues []models.Venue `json:"venues"`
	Total  int64          `json:"total"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Pages  int            `json:"pages"`
}

// VenueDetail is the venue page payload: the venue with its active reviews,
// current promotions, and the caller's flags resolved server-side.
type VenueDetail struct {
	Venue       models.Venue       `json:"venue"`
	Reviews     []models.Review    `json:"reviews"`
	Promotions  []models.Promotion `json:"promotions"`
	CanReview   bool               `json:"can_review"`
	HasReviewed bool               `json:"has_reviewed"`
	IsOwner     bool               `json:"is_owner"`
}

func (f *VenueFilter) normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	f.CategorySlug = strings.TrimSpace(f.CategorySlug)
	f.City = strings.TrimSpace(f.City)
}

// ListVenues returns active venues ordered by name, with optional category
// and city filters.
func (s *VenueService) ListVenues(filter VenueFilter) (*VenueListResponse, error) {
	filter.normalize()

	query := s.db.Model(&models.Venue{}).Where("venues.is_active = ?", true)

	if filter.CategorySlug != "" {
		query = query.Joins("JOIN categories ON categories.id = venues.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}
	if filter.City != "" {
		query = query.Joins("JOIN locations ON locations.id = venues.location_id").
			Where("locations.city LIKE ?", "%"+filter.City+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	var venues []models.Venue
	err := query.Select("venues.*").
		Preload("Category").Preload("Location").
		Order("venues.name ASC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&venues).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	pages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))

	return &VenueListResponse{
		Venues: venues,
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
		Pages:  pages,
	}, nil
}

// escapeLike neutralizes LIKE wildcards in a user-supplied search term so it
// only ever matches literally.
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(term)
}

// SearchVenues matches the term against venue name, neighborhood, city and
// category name.
func (s *VenueService) SearchVenues(term string) ([]models.Venue, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Venue{}, nil
	}

	like := "%" + escapeLike(term) + "%"

	var venues []models.Venue
	err := s.db.Model(&models.Venue{}).
		Select("venues.*").
		Joins("JOIN locations ON locations.id = venues.location_id").
		Joins("JOIN categories ON categories.id = venues.category_id").
		Where("venues.is_active = ?", true).
		Where(
			s.db.Where(`venues.name LIKE ? ESCAPE '\'`, like).
				Or(`locations.neighborhood LIKE ? ESCAPE '\'`, like).
				Or(`locations.city LIKE ? ESCAPE '\'`, like).
				Or(`categories.name LIKE ? ESCAPE '\'`, like),
		).
		Preload("Category").Preload("Location").
		Order("venues.name ASC").
		Find(&venues).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return venues, nil
}

// GetVenueDetail loads the venue page for a caller. callerID may be zero for
// anonymous visitors; the flags come back false in that case.
func (s *VenueService) GetVenueDetail(venueID, callerID uint) (*VenueDetail, error) {
	var venue models.Venue
	err := s.db.Preload("Category").Preload("Location").
		Where("id = ? AND is_active = ?", venueID, true).
		First(&venue).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVenueNotFound
		}
		return nil, apperrors.Internal(err)
	}

	var reviews []models.Review
	err = s.db.Preload("User").Preload("Response").Preload("Response.Author").
		Where("venue_id = ? AND is_active = ?", venueID, true).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	// Promotion dates are stored as UTC midnights; compare by day so a
	// promotion ending today is still current.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	var promotions []models.Promotion
	err = s.db.Where("venue_id = ? AND is_active = ? AND start_date <= ? AND end_date >= ?",
		venueID, true, today, today).
		Order("end_date ASC").
		Find(&promotions).Error
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	detail := &VenueDetail{
		Venue:      venue,
		Reviews:    reviews,
		Promotions: promotions,
	}

	if callerID != 0 {
		detail.HasReviewed = s.reviews.HasReviewed(callerID, venueID)
		detail.CanReview = s.reviews.CanReview(callerID, venueID)
		detail.IsOwner = s.ownership.OwnsVenue(callerID, venueID)
	}

	return detail, nil
}
