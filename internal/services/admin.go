// services/admin.go
package services

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/apperrors"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/config"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/utils"
	"gorm.io/gorm"
)

// AdminService is the data-entry side of the directory: plain CRUD over
// venues, categories, locations and promotions, plus photo uploads. The
// review workflow never goes through here except for the moderation hooks on
// ReviewService.
type AdminService struct {
	db        *gorm.DB
	cfg       *config.Config
	s3Service *S3Service
}

func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:        db,
		cfg:       cfg,
		s3Service: NewS3Service(cfg.S3Region, cfg.S3BucketName, cfg.S3AccessKey, cfg.S3SecretKey),
	}
}

type VenueRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	PhoneNumber string `json:"phone_number"`
	Website     string `json:"website"`
	LocationID  uint   `json:"location_id" binding:"required"`
	CategoryID  uint   `json:"category_id" binding:"required"`
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
}

type LocationRequest struct {
	City          string   `json:"city" binding:"required"`
	Neighborhood  string   `json:"neighborhood" binding:"required"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	GoogleMapsURL string   `json:"google_maps_url"`
}

type PromotionRequest struct {
	VenueID     uint     `json:"venue_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	PromoPrice  *float64 `json:"promo_price"`
	StartDate   string   `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate     string   `json:"end_date" binding:"required"`   // YYYY-MM-DD
}

type DashboardStats struct {
	Venues     int64 `json:"venues"`
	Categories int64 `json:"categories"`
	Locations  int64 `json:"locations"`
	Promotions int64 `json:"promotions"`
	Reviews    int64 `json:"reviews"`
	Users      int64 `json:"users"`
}

func (s *AdminService) GetDashboard() (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Venue{}, &stats.Venues},
		{&models.Category{}, &stats.Categories},
		{&models.Location{}, &stats.Locations},
		{&models.Promotion{}, &stats.Promotions},
		{&models.Review{}, &stats.Reviews},
		{&models.User{}, &stats.Users},
	}

	for _, c := range counts {
		if err := s.db.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	return stats, nil
}

// ---------- Venues ----------

func (s *AdminService) CreateVenue(req VenueRequest) (*models.Venue, error) {
	if err := s.checkVenueRefs(req.CategoryID, req.LocationID); err != nil {
		return nil, err
	}

	venue := models.Venue{
		Name:        utils.SanitizeString(req.Name),
		Description: utils.SanitizeString(req.Description),
		Address:     utils.SanitizeString(req.Address),
		PhoneNumber: utils.SanitizeString(req.PhoneNumber),
		Website:     utils.SanitizeString(req.Website),
		LocationID:  req.LocationID,
		CategoryID:  req.CategoryID,
		IsActive:    true,
	}

	if err := s.db.Create(&venue).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &venue, nil
}

func (s *AdminService) UpdateVenue(venueID uint, req VenueRequest) (*models.Venue, error) {
	var venue models.Venue
	if err := s.db.First(&venue, venueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVenueNotFound
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.checkVenueRefs(req.CategoryID, req.LocationID); err != nil {
		return nil, err
	}

	venue.Name = utils.SanitizeString(req.Name)
	venue.Description = utils.SanitizeString(req.Description)
	venue.Address = utils.SanitizeString(req.Address)
	venue.PhoneNumber = utils.SanitizeString(req.PhoneNumber)
	venue.Website = utils.SanitizeString(req.Website)
	venue.LocationID = req.LocationID
	venue.CategoryID = req.CategoryID

	if err := s.db.Save(&venue).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &venue, nil
}

// DeactivateVenue hides a venue from the directory without deleting its rows.
func (s *AdminService) DeactivateVenue(venueID uint) error {
	return s.setVenueActive(venueID, false)
}

func (s *AdminService) ReactivateVenue(venueID uint) error {
	return s.setVenueActive(venueID, true)
}

func (s *AdminService) setVenueActive(venueID uint, active bool) error {
	result := s.db.Model(&models.Venue{}).Where("id = ?", venueID).Update("is_active", active)
	if result.Error != nil {
		return apperrors.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrVenueNotFound
	}
	return nil
}

// DeleteVenue removes the venue for good. Reviews, their owner responses and
// promotions cascade; owner profiles fall back to no venue.
func (s *AdminService) DeleteVenue(venueID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var venue models.Venue
		if err := tx.First(&venue, venueID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrVenueNotFound
			}
			return apperrors.Internal(err)
		}

		var reviewIDs []uint
		if err := tx.Model(&models.Review{}).Where("venue_id = ?", venueID).Pluck("id", &reviewIDs).Error; err != nil {
			return apperrors.Internal(err)
		}
		if len(reviewIDs) > 0 {
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.OwnerResponse{}).Error; err != nil {
				return apperrors.Internal(err)
			}
		}
		if err := tx.Where("venue_id = ?", venueID).Delete(&models.Review{}).Error; err != nil {
			return apperrors.Internal(err)
		}
		if err := tx.Where("venue_id = ?", venueID).Delete(&models.Promotion{}).Error; err != nil {
			return apperrors.Internal(err)
		}
		if err := tx.Model(&models.Profile{}).Where("owned_venue_id = ?", venueID).Update("owned_venue_id", nil).Error; err != nil {
			return apperrors.Internal(err)
		}

		if err := tx.Delete(&venue).Error; err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
}

// UploadVenuePhoto stores the venue's main photo in S3 and saves its URL.
func (s *AdminService) UploadVenuePhoto(venueID uint, file multipart.File, header *multipart.FileHeader) (*models.Venue, error) {
	var venue models.Venue
	if err := s.db.First(&venue, venueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVenueNotFound
		}
		return nil, apperrors.Internal(err)
	}

	result, err := s.s3Service.UploadImage(file, header, "venues")
	if err != nil {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, err.Error(), 400)
	}

	venue.PhotoURL = result.URL
	if err := s.db.Save(&venue).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &venue, nil
}

// AssignOwner marks a user's profile as the official owner of a venue.
func (s *AdminService) AssignOwner(userID, venueID uint) (*models.Profile, error) {
	var venue models.Venue
	if err := s.db.First(&venue, venueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVenueNotFound
		}
		return nil, apperrors.Internal(err)
	}

	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Internal(err)
	}

	profile.IsVenueOwner = true
	profile.OwnedVenueID = &venue.ID

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &profile, nil
}

func (s *AdminService) checkVenueRefs(categoryID, locationID uint) error {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryNotFound
		}
		return apperrors.Internal(err)
	}

	var location models.Location
	if err := s.db.First(&location, locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrLocationNotFound
		}
		return apperrors.Internal(err)
	}

	return nil
}

// ---------- Categories ----------

func (s *AdminService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return categories, nil
}

func (s *AdminService) CreateCategory(req CategoryRequest) (*models.Category, error) {
	if !utils.IsValidSlug(req.Slug) {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "slug must be lowercase letters, digits and dashes", 400)
	}

	category := models.Category{
		Name:        utils.SanitizeString(req.Name),
		Slug:        req.Slug,
		Description: utils.SanitizeString(req.Description),
		IsActive:    true,
	}

	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.CodeConflict, "category name or slug already exists", 409)
		}
		return nil, apperrors.Internal(err)
	}

	return &category, nil
}

func (s *AdminService) UpdateCategory(categoryID uint, req CategoryRequest) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Internal(err)
	}

	if !utils.IsValidSlug(req.Slug) {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "slug must be lowercase letters, digits and dashes", 400)
	}

	category.Name = utils.SanitizeString(req.Name)
	category.Slug = req.Slug
	category.Description = utils.SanitizeString(req.Description)

	if err := s.db.Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(apperrors.CodeConflict, "category name or slug already exists", 409)
		}
		return nil, apperrors.Internal(err)
	}

	return &category, nil
}

// DeleteCategory refuses while venues still reference the category, matching
// the protected foreign key of the schema.
func (s *AdminService) DeleteCategory(categoryID uint) error {
	var inUse int64
	if err := s.db.Model(&models.Venue{}).Where("category_id = ?", categoryID).Count(&inUse).Error; err != nil {
		return apperrors.Internal(err)
	}
	if inUse > 0 {
		return apperrors.New(apperrors.CodeConflict, "category is still referenced by venues", 409)
	}

	result := s.db.Delete(&models.Category{}, categoryID)
	if result.Error != nil {
		return apperrors.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrCategoryNotFound
	}
	return nil
}

// ---------- Locations ----------

func (s *AdminService) ListLocations() ([]models.Location, error) {
	var locations []models.Location
	if err := s.db.Where("is_active = ?", true).Order("city ASC, neighborhood ASC").Find(&locations).Error; err != nil {
		return nil, apperrors.Internal(err)
	}
	return locations, nil
}

func (s *AdminService) CreateLocation(req LocationRequest) (*models.Location, error) {
	location := models.Location{
		City:          utils.SanitizeString(req.City),
		Neighborhood:  utils.SanitizeString(req.Neighborhood),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		GoogleMapsURL: utils.SanitizeString(req.GoogleMapsURL),
		IsActive:      true,
	}

	if err := s.db.Create(&location).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &location, nil
}

func (s *AdminService) UpdateLocation(locationID uint, req LocationRequest) (*models.Location, error) {
	var location models.Location
	if err := s.db.First(&location, locationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrLocationNotFound
		}
		return nil, apperrors.Internal(err)
	}

	location.City = utils.SanitizeString(req.City)
	location.Neighborhood = utils.SanitizeString(req.Neighborhood)
	location.Latitude = req.Latitude
	location.Longitude = req.Longitude
	location.GoogleMapsURL = utils.SanitizeString(req.GoogleMapsURL)

	if err := s.db.Save(&location).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &location, nil
}

func (s *AdminService) DeleteLocation(locationID uint) error {
	var inUse int64
	if err := s.db.Model(&models.Venue{}).Where("location_id = ?", locationID).Count(&inUse).Error; err != nil {
		return apperrors.Internal(err)
	}
	if inUse > 0 {
		return apperrors.New(apperrors.CodeConflict, "location is still referenced by venues", 409)
	}

	result := s.db.Delete(&models.Location{}, locationID)
	if result.Error != nil {
		return apperrors.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrLocationNotFound
	}
	return nil
}

// ---------- Promotions ----------

func (s *AdminService) CreatePromotion(req PromotionRequest) (*models.Promotion, error) {
	start, end, err := parsePromoWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var venue models.Venue
	if err := s.db.First(&venue, req.VenueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVenueNotFound
		}
		return nil, apperrors.Internal(err)
	}

	promo := models.Promotion{
		VenueID:     req.VenueID,
		Title:       utils.SanitizeString(req.Title),
		Description: utils.SanitizeString(req.Description),
		PromoPrice:  req.PromoPrice,
		StartDate:   start,
		EndDate:     end,
		IsActive:    true,
	}

	if err := s.db.Create(&promo).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &promo, nil
}

func (s *AdminService) UpdatePromotion(promoID uint, req PromotionRequest) (*models.Promotion, error) {
	var promo models.Promotion
	if err := s.db.First(&promo, promoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPromoNotFound
		}
		return nil, apperrors.Internal(err)
	}

	start, end, err := parsePromoWindow(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	promo.VenueID = req.VenueID
	promo.Title = utils.SanitizeString(req.Title)
	promo.Description = utils.SanitizeString(req.Description)
	promo.PromoPrice = req.PromoPrice
	promo.StartDate = start
	promo.EndDate = end

	if err := s.db.Save(&promo).Error; err != nil {
		return nil, apperrors.Internal(err)
	}

	return &promo, nil
}

func (s *AdminService) DeletePromotion(promoID uint) error {
	result := s.db.Delete(&models.Promotion{}, promoID)
	if result.Error != nil {
		return apperrors.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrPromoNotFound
	}
	return nil
}

func parsePromoWindow(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.New(apperrors.CodeInvalidArgument, "start_date must be YYYY-MM-DD", 400)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.New(apperrors.CodeInvalidArgument, "end_date must be YYYY-MM-DD", 400)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.New(apperrors.CodeInvalidArgument, "end_date must not be before start_date", 400)
	}
	return start, end, nil
}
