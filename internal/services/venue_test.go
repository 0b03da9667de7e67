package services

import (
	"testing"
	"time"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/apperrors"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListVenuesFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVenueService(db, NewReviewService(db), NewOwnershipService(db))

	barrio := createCategory(t, db, "De barrio", "barrio")
	gourmet := createCategory(t, db, "Gourmet", "gourmet")
	caba := createLocation(t, db, "Buenos Aires", "Palermo")
	rosario := createLocation(t, db, "Rosario", "Centro")

	createVenue(t, db, "Lo de Tano", barrio.ID, caba.ID)
	createVenue(t, db, "Fuego Sagrado", gourmet.ID, caba.ID)
	createVenue(t, db, "El Rosarino", barrio.ID, rosario.ID)
	hidden := createVenue(t, db, "Cerrado", barrio.ID, caba.ID)
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)

	all, err := svc.ListVenues(VenueFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	byCategory, err := svc.ListVenues(VenueFilter{CategorySlug: "barrio"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byCategory.Total)

	byCity, err := svc.ListVenues(VenueFilter{City: "Rosario"})
	require.NoError(t, err)
	require.Len(t, byCity.Venues, 1)
	assert.Equal(t, "El Rosarino", byCity.Venues[0].Name)

	both, err := svc.ListVenues(VenueFilter{CategorySlug: "gourmet", City: "Buenos Aires"})
	require.NoError(t, err)
	require.Len(t, both.Venues, 1)
	assert.Equal(t, "Fuego Sagrado", both.Venues[0].Name)
}

func TestListVenuesPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVenueService(db, NewReviewService(db), NewOwnershipService(db))

	cat := createCategory(t, db, "De barrio", "barrio")
	loc := createLocation(t, db, "Buenos Aires", "Palermo")
	names := []string{"A", "B", "C", "D", "E"}
	for _, n := range names {
		createVenue(t, db, n, cat.ID, loc.ID)
	}

	page1, err := svc.ListVenues(VenueFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page1.Total)
	assert.Equal(t, 3, page1.Pages)
	require.Len(t, page1.Venues, 2)
	assert.Equal(t, "A", page1.Venues[0].Name)

	page3, err := svc.ListVenues(VenueFilter{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page3.Venues, 1)
	assert.Equal(t, "E", page3.Venues[0].Name)
}

func TestSearchVenues(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVenueService(db, NewReviewService(db), NewOwnershipService(db))

	barrio := createCategory(t, db, "De barrio", "barrio")
	gourmet := createCategory(t, db, "Gourmet", "gourmet")
	palermo := createLocation(t, db, "Buenos Aires", "Palermo")
	centro := createLocation(t, db, "Rosario", "Centro")

	createVenue(t, db, "Lo de Tano", barrio.ID, palermo.ID)
	createVenue(t, db, "Fuego Sagrado", gourmet.ID, centro.ID)

	// By venue name.
	found, err := svc.SearchVenues("Tano")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Lo de Tano", found[0].Name)

	// By neighborhood.
	found, err = svc.SearchVenues("Palermo")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Lo de Tano", found[0].Name)

	// By category name.
	found, err = svc.SearchVenues("Gourmet")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Fuego Sagrado", found[0].Name)

	// Empty term returns nothing instead of everything.
	found, err = svc.SearchVenues("   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGetVenueDetailFlags(t *testing.T) {
	db := setupTestDB(t)
	reviews := NewReviewService(db)
	svc := NewVenueService(db, reviews, NewOwnershipService(db))

	venue := createVenueWithCatalog(t, db, "Don Julio")

	owner := createUser(t, db, "owner@example.com")
	makeOwner(t, db, owner.ID, venue.ID)

	reviewer := createUser(t, db, "reviewer@example.com")
	_, err := reviews.SubmitReview(reviewer.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 4})
	require.NoError(t, err)

	fresh := createUser(t, db, "fresh@example.com")

	// Anonymous visitor: all flags down.
	detail, err := svc.GetVenueDetail(venue.ID, 0)
	require.NoError(t, err)
	assert.False(t, detail.CanReview)
	assert.False(t, detail.HasReviewed)
	assert.False(t, detail.IsOwner)
	require.Len(t, detail.Reviews, 1)

	// A user who has not reviewed yet may review.
	detail, err = svc.GetVenueDetail(venue.ID, fresh.ID)
	require.NoError(t, err)
	assert.True(t, detail.CanReview)
	assert.False(t, detail.HasReviewed)

	// A user who already reviewed may not review again.
	detail, err = svc.GetVenueDetail(venue.ID, reviewer.ID)
	require.NoError(t, err)
	assert.False(t, detail.CanReview)
	assert.True(t, detail.HasReviewed)

	// The owner sees their venue but cannot review it.
	detail, err = svc.GetVenueDetail(venue.ID, owner.ID)
	require.NoError(t, err)
	assert.False(t, detail.CanReview)
	assert.True(t, detail.IsOwner)
}

func TestGetVenueDetailNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVenueService(db, NewReviewService(db), NewOwnershipService(db))

	_, err := svc.GetVenueDetail(999, 0)
	assert.ErrorIs(t, err, apperrors.ErrVenueNotFound)

	venue := createVenueWithCatalog(t, db, "Cerrado")
	require.NoError(t, db.Model(venue).Update("is_active", false).Error)

	_, err = svc.GetVenueDetail(venue.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrVenueNotFound)
}

// A promotion whose end date is today stays current through the whole day,
// not just until midnight.
func TestGetVenueDetailPromotionLastDay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVenueService(db, NewReviewService(db), NewOwnershipService(db))

	venue := createVenueWithCatalog(t, db, "Don Julio")
	today := time.Now().UTC().Truncate(24 * time.Hour)

	promo := models.Promotion{
		VenueID:   venue.ID,
		Title:     "Ultimo dia",
		StartDate: today.AddDate(0, 0, -7),
		EndDate:   today,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&promo).Error)

	detail, err := svc.GetVenueDetail(venue.ID, 0)
	require.NoError(t, err)
	require.Len(t, detail.Promotions, 1)
	assert.Equal(t, "Ultimo dia", detail.Promotions[0].Title)

	assert.True(t, promo.IsCurrent(time.Now()))

	// A promotion that ended yesterday is gone.
	expired := models.Promotion{
		VenueID:   venue.ID,
		Title:     "Ya paso",
		StartDate: today.AddDate(0, 0, -7),
		EndDate:   today.AddDate(0, 0, -1),
		IsActive:  true,
	}
	require.NoError(t, db.Create(&expired).Error)

	detail, err = svc.GetVenueDetail(venue.ID, 0)
	require.NoError(t, err)
	require.Len(t, detail.Promotions, 1)
	assert.False(t, expired.IsCurrent(time.Now()))
}

// Wildcards in the search term match literally, they never widen the search.
func TestSearchVenuesEscapesWildcards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVenueService(db, NewReviewService(db), NewOwnershipService(db))

	cat := createCategory(t, db, "De barrio", "barrio")
	loc := createLocation(t, db, "Buenos Aires", "Palermo")
	createVenue(t, db, "Lo de Tano", cat.ID, loc.ID)
	createVenue(t, db, "100% Asado", cat.ID, loc.ID)

	found, err := svc.SearchVenues("%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% Asado", found[0].Name)

	found, err = svc.SearchVenues("_")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = svc.SearchVenues("100% A")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% Asado", found[0].Name)
}

func TestGetVenueDetailPromotions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewVenueService(db, NewReviewService(db), NewOwnershipService(db))

	venue := createVenueWithCatalog(t, db, "Don Julio")
	now := time.Now()

	current := models.Promotion{
		VenueID:   venue.ID,
		Title:     "2x1 en choripan",
		StartDate: now.AddDate(0, 0, -1),
		EndDate:   now.AddDate(0, 0, 1),
		IsActive:  true,
	}
	expired := models.Promotion{
		VenueID:   venue.ID,
		Title:     "Promo vieja",
		StartDate: now.AddDate(0, -2, 0),
		EndDate:   now.AddDate(0, -1, 0),
		IsActive:  true,
	}
	require.NoError(t, db.Create(&current).Error)
	require.NoError(t, db.Create(&expired).Error)

	detail, err := svc.GetVenueDetail(venue.ID, 0)
	require.NoError(t, err)
	require.Len(t, detail.Promotions, 1)
	assert.Equal(t, "2x1 en choripan", detail.Promotions[0].Title)
}
