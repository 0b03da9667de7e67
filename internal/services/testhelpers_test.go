package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/database"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB opens a fresh in-memory sqlite database with the full schema.
// Each call gets its own named memory database so tests stay isolated.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:     email,
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&models.Profile{UserID: user.ID, IsActive: true}).Error)

	return user
}

func createCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Slug: slug, IsActive: true}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createLocation(t *testing.T, db *gorm.DB, city, neighborhood string) *models.Location {
	t.Helper()

	location := &models.Location{City: city, Neighborhood: neighborhood, IsActive: true}
	require.NoError(t, db.Create(location).Error)
	return location
}

func createVenue(t *testing.T, db *gorm.DB, name string, categoryID, locationID uint) *models.Venue {
	t.Helper()

	venue := &models.Venue{
		Name:       name,
		Address:    "Av. Siempre Viva 742",
		CategoryID: categoryID,
		LocationID: locationID,
		IsActive:   true,
	}
	require.NoError(t, db.Create(venue).Error)
	return venue
}

// createVenueWithCatalog creates a venue along with its own category and
// location, for tests that do not care about either.
func createVenueWithCatalog(t *testing.T, db *gorm.DB, name string) *models.Venue {
	t.Helper()

	n := atomic.AddInt64(&testDBCounter, 1)
	category := createCategory(t, db, fmt.Sprintf("%s cat %d", name, n), fmt.Sprintf("cat-%d", n))
	location := createLocation(t, db, "Buenos Aires", "Palermo")
	return createVenue(t, db, name, category.ID, location.ID)
}

// makeOwner marks the user's profile as the verified owner of the venue.
func makeOwner(t *testing.T, db *gorm.DB, userID, venueID uint) {
	t.Helper()

	err := db.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"is_venue_owner": true, "owned_venue_id": venueID}).Error
	require.NoError(t, err)
}
