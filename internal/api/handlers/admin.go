package handlers

import (
	"strconv"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/services"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/utils"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboard()
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Dashboard retrieved successfully", stats)
}

// ---------- Venues ----------

func (h *AdminHandler) CreateVenue(c *gin.Context) {
	var req services.VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	venue, err := h.adminService.CreateVenue(req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendCreated(c, "Venue created successfully", venue)
}

func (h *AdminHandler) UpdateVenue(c *gin.Context) {
	venueID, ok := parseIDParam(c, "venue_id")
	if !ok {
		return
	}

	var req services.VenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	venue, err := h.adminService.UpdateVenue(venueID, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Venue updated successfully", venue)
}

func (h *AdminHandler) SetVenueStatus(c *gin.Context) {
	venueID, ok := parseIDParam(c, "venue_id")
	if !ok {
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	var err error
	if *req.IsActive {
		err = h.adminService.ReactivateVenue(venueID)
	} else {
		err = h.adminService.DeactivateVenue(venueID)
	}
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Venue status updated", nil)
}

func (h *AdminHandler) DeleteVenue(c *gin.Context) {
	venueID, ok := parseIDParam(c, "venue_id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteVenue(venueID); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Venue deleted successfully", nil)
}

func (h *AdminHandler) UploadVenuePhoto(c *gin.Context) {
	venueID, ok := parseIDParam(c, "venue_id")
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		utils.SendValidationError(c, "Photo file required")
		return
	}
	defer file.Close()

	venue, err := h.adminService.UploadVenuePhoto(venueID, file, header)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Photo uploaded successfully", venue)
}

func (h *AdminHandler) AssignOwner(c *gin.Context) {
	venueID, ok := parseIDParam(c, "venue_id")
	if !ok {
		return
	}

	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	profile, err := h.adminService.AssignOwner(req.UserID, venueID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Owner assigned successfully", profile)
}

// ---------- Categories ----------

func (h *AdminHandler) GetCategories(c *gin.Context) {
	categories, err := h.adminService.ListCategories()
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Categories retrieved successfully", categories)
}

func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	category, err := h.adminService.CreateCategory(req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendCreated(c, "Category created successfully", category)
}

func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "category_id")
	if !ok {
		return
	}

	var req services.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	category, err := h.adminService.UpdateCategory(categoryID, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Category updated successfully", category)
}

func (h *AdminHandler) DeleteCategory(c *gin.Context) {
	categoryID, ok := parseIDParam(c, "category_id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteCategory(categoryID); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Category deleted successfully", nil)
}

// ---------- Locations ----------

func (h *AdminHandler) GetLocations(c *gin.Context) {
	locations, err := h.adminService.ListLocations()
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Locations retrieved successfully", locations)
}

func (h *AdminHandler) CreateLocation(c *gin.Context) {
	var req services.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	location, err := h.adminService.CreateLocation(req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendCreated(c, "Location created successfully", location)
}

func (h *AdminHandler) UpdateLocation(c *gin.Context) {
	locationID, ok := parseIDParam(c, "location_id")
	if !ok {
		return
	}

	var req services.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	location, err := h.adminService.UpdateLocation(locationID, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Location updated successfully", location)
}

func (h *AdminHandler) DeleteLocation(c *gin.Context) {
	locationID, ok := parseIDParam(c, "location_id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteLocation(locationID); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Location deleted successfully", nil)
}

// ---------- Promotions ----------

func (h *AdminHandler) CreatePromotion(c *gin.Context) {
	var req services.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	promo, err := h.adminService.CreatePromotion(req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendCreated(c, "Promotion created successfully", promo)
}

func (h *AdminHandler) UpdatePromotion(c *gin.Context) {
	promoID, ok := parseIDParam(c, "promo_id")
	if !ok {
		return
	}

	var req services.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request data")
		return
	}

	promo, err := h.adminService.UpdatePromotion(promoID, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Promotion updated successfully", promo)
}

func (h *AdminHandler) DeletePromotion(c *gin.Context) {
	promoID, ok := parseIDParam(c, "promo_id")
	if !ok {
		return
	}

	if err := h.adminService.DeletePromotion(promoID); err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Promotion deleted successfully", nil)
}
