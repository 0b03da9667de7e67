package handlers

import (
	"strconv"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/services"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/utils"
	"github.com/gin-gonic/gin"
)

type VenueHandler struct {
	venueService *services.VenueService
}

func NewVenueHandler(venueService *services.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

func (h *VenueHandler) GetVenues(c *gin.Context) {
	var filter services.VenueFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.SendValidationError(c, "Invalid filter parameters")
		return
	}

	response, err := h.venueService.ListVenues(filter)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Venues retrieved successfully", response)
}

func (h *VenueHandler) GetVenue(c *gin.Context) {
	venueID, err := strconv.ParseUint(c.Param("venue_id"), 10, 32)
	if err != nil {
		utils.SendValidationError(c, "Invalid venue ID")
		return
	}

	// Zero when the caller is anonymous
	callerID := c.GetUint("user_id")

	detail, err := h.venueService.GetVenueDetail(uint(venueID), callerID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Venue retrieved successfully", detail)
}

func (h *VenueHandler) SearchVenues(c *gin.Context) {
	term := c.Query("q")

	venues, err := h.venueService.SearchVenues(term)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, "Search completed", venues)
}
