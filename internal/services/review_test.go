package services

import (
	"testing"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/apperrors"
	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReview(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	user := createUser(t, db, "diner@example.com")
	venue := createVenueWithCatalog(t, db, "Don Julio")

	review, err := svc.SubmitReview(user.ID, SubmitReviewRequest{
		VenueID: venue.ID,
		Rating:  4,
		Comment: "Buen chori",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, review.UserID)
	assert.Equal(t, venue.ID, review.VenueID)
	assert.Equal(t, 4, review.Rating)
	assert.True(t, review.IsActive)

	assert.True(t, svc.HasReviewed(user.ID, venue.ID))
	assert.False(t, svc.CanReview(user.ID, venue.ID))
}

func TestSubmitReviewRequiresAuth(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "La Cabrera")

	_, err := svc.SubmitReview(0, SubmitReviewRequest{VenueID: venue.ID, Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSubmitReviewDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	user := createUser(t, db, "diner@example.com")
	venue := createVenueWithCatalog(t, db, "Don Julio")

	_, err := svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 4})
	require.NoError(t, err)

	_, err = svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateReview)

	var count int64
	db.Model(&models.Review{}).Where("user_id = ? AND venue_id = ?", user.ID, venue.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSubmitReviewVenueNotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	user := createUser(t, db, "diner@example.com")

	_, err := svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: 999, Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrVenueNotFound)
}

func TestSubmitReviewInactiveVenue(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	user := createUser(t, db, "diner@example.com")
	venue := createVenueWithCatalog(t, db, "Cerrado")
	require.NoError(t, db.Model(venue).Update("is_active", false).Error)

	_, err := svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrVenueNotFound)
}

func TestSubmitReviewRatingRange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "Don Julio")

	for i, rating := range []int{0, 6, -1} {
		user := createUser(t, db, userEmail(i))
		_, err := svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: rating})
		assert.ErrorIs(t, err, apperrors.ErrInvalidRating, "rating %d should be rejected", rating)
	}

	minUser := createUser(t, db, "min@example.com")
	_, err := svc.SubmitReview(minUser.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 1})
	assert.NoError(t, err)

	maxUser := createUser(t, db, "max@example.com")
	_, err = svc.SubmitReview(maxUser.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 5})
	assert.NoError(t, err)
}

func userEmail(i int) string {
	return string(rune('a'+i)) + "@example.com"
}

// Owners of any venue are barred from reviewing, including venues they do not
// own.
func TestSubmitReviewOwnerRestriction(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	owner := createUser(t, db, "owner@example.com")
	venueA := createVenueWithCatalog(t, db, "Parrilla A")
	venueB := createVenueWithCatalog(t, db, "Parrilla B")
	makeOwner(t, db, owner.ID, venueA.ID)

	_, err := svc.SubmitReview(owner.ID, SubmitReviewRequest{VenueID: venueA.ID, Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrOwnersCannotReview)

	_, err = svc.SubmitReview(owner.ID, SubmitReviewRequest{VenueID: venueB.ID, Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrOwnersCannotReview)

	assert.False(t, svc.CanReview(owner.ID, venueB.ID))
}

// A profile flagged as owner but whose venue no longer exists grants nothing:
// the user reviews like anyone else.
func TestSubmitReviewDanglingOwnerReference(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	user := createUser(t, db, "exowner@example.com")
	venue := createVenueWithCatalog(t, db, "Don Julio")
	gone := uint(9999)
	err := db.Model(&models.Profile{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]interface{}{"is_venue_owner": true, "owned_venue_id": gone}).Error
	require.NoError(t, err)

	_, err = svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 3})
	assert.NoError(t, err)
}

// The business checks run in a fixed order, so a request failing several of
// them reports the first one.
func TestSubmitReviewCheckOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	owner := createUser(t, db, "owner@example.com")
	venue := createVenueWithCatalog(t, db, "Parrilla A")
	makeOwner(t, db, owner.ID, venue.ID)

	// Owner restriction wins over the invalid rating.
	_, err := svc.SubmitReview(owner.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 0})
	assert.ErrorIs(t, err, apperrors.ErrOwnersCannotReview)

	// Missing venue wins over the invalid rating.
	user := createUser(t, db, "diner@example.com")
	_, err = svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: 999, Rating: 0})
	assert.ErrorIs(t, err, apperrors.ErrVenueNotFound)

	// Duplicate wins over the invalid rating.
	_, err = svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 4})
	require.NoError(t, err)
	_, err = svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 0})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateReview)
}

func loadVenue(t *testing.T, svc *ReviewService, venueID uint) models.Venue {
	t.Helper()
	var venue models.Venue
	require.NoError(t, svc.db.First(&venue, venueID).Error)
	return venue
}

func TestAverageRatingFollowsReviews(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "Don Julio")

	// No reviews yet: no average at all, not zero.
	assert.Nil(t, loadVenue(t, svc, venue.ID).AverageRating)

	users := []*models.User{
		createUser(t, db, "u1@example.com"),
		createUser(t, db, "u2@example.com"),
		createUser(t, db, "u3@example.com"),
	}
	for i, rating := range []int{4, 2, 5} {
		_, err := svc.SubmitReview(users[i].ID, SubmitReviewRequest{VenueID: venue.ID, Rating: rating})
		require.NoError(t, err)
	}

	avg := loadVenue(t, svc, venue.ID).AverageRating
	require.NotNil(t, avg)
	assert.InDelta(t, 11.0/3.0, *avg, 0.0001)
}

func TestAverageRatingIgnoresInactiveReviews(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "Don Julio")
	u1 := createUser(t, db, "u1@example.com")
	u2 := createUser(t, db, "u2@example.com")
	u3 := createUser(t, db, "u3@example.com")

	_, err := svc.SubmitReview(u1.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 4})
	require.NoError(t, err)
	hidden, err := svc.SubmitReview(u2.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 2})
	require.NoError(t, err)
	_, err = svc.SubmitReview(u3.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 5})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateReview(hidden.ID))

	avg := loadVenue(t, svc, venue.ID).AverageRating
	require.NotNil(t, avg)
	assert.InDelta(t, 4.5, *avg, 0.0001)

	// Reactivating brings the rating back into the mean.
	require.NoError(t, svc.ReactivateReview(hidden.ID))
	avg = loadVenue(t, svc, venue.ID).AverageRating
	require.NotNil(t, avg)
	assert.InDelta(t, 11.0/3.0, *avg, 0.0001)
}

func TestAverageRatingBackToNil(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "Don Julio")
	user := createUser(t, db, "u1@example.com")

	review, err := svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 3})
	require.NoError(t, err)
	require.NotNil(t, loadVenue(t, svc, venue.ID).AverageRating)

	require.NoError(t, svc.DeactivateReview(review.ID))
	assert.Nil(t, loadVenue(t, svc, venue.ID).AverageRating)
}

func TestAverageRatingIsPlainMean(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "Don Julio")
	u1 := createUser(t, db, "u1@example.com")
	u2 := createUser(t, db, "u2@example.com")

	_, err := svc.SubmitReview(u1.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 5})
	require.NoError(t, err)
	_, err = svc.SubmitReview(u2.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 1})
	require.NoError(t, err)

	avg := loadVenue(t, svc, venue.ID).AverageRating
	require.NotNil(t, avg)
	assert.InDelta(t, 3.0, *avg, 0.0001)
}

func TestUpdateReview(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "Don Julio")
	author := createUser(t, db, "author@example.com")
	other := createUser(t, db, "other@example.com")

	review, err := svc.SubmitReview(author.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	// Only the author can edit it.
	_, err = svc.UpdateReview(other.ID, review.ID, UpdateReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, apperrors.ErrNotReviewAuthor)

	updated, err := svc.UpdateReview(author.ID, review.ID, UpdateReviewRequest{Rating: 5, Comment: "mejoro mucho"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)

	avg := loadVenue(t, svc, venue.ID).AverageRating
	require.NotNil(t, avg)
	assert.InDelta(t, 5.0, *avg, 0.0001)

	_, err = svc.UpdateReview(author.ID, 999, UpdateReviewRequest{Rating: 4})
	assert.ErrorIs(t, err, apperrors.ErrReviewNotFound)

	_, err = svc.UpdateReview(author.ID, review.ID, UpdateReviewRequest{Rating: 7})
	assert.ErrorIs(t, err, apperrors.ErrInvalidRating)
}

func TestListVenueReviews(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "Don Julio")
	u1 := createUser(t, db, "u1@example.com")
	u2 := createUser(t, db, "u2@example.com")

	_, err := svc.SubmitReview(u1.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 4})
	require.NoError(t, err)
	hidden, err := svc.SubmitReview(u2.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 1})
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateReview(hidden.ID))

	reviews, err := svc.ListVenueReviews(venue.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, u1.ID, reviews[0].UserID)
	assert.Equal(t, u1.ID, reviews[0].User.ID)

	_, err = svc.ListVenueReviews(999, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrVenueNotFound)
}

// A storage failure while checking for an existing review answers "no" on
// both reads instead of granting a permission.
func TestCanReviewFailsClosedOnStorageError(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "Don Julio")
	user := createUser(t, db, "diner@example.com")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.False(t, svc.CanReview(user.ID, venue.ID))
	assert.False(t, svc.HasReviewed(user.ID, venue.ID))
}

func TestModerationIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewReviewService(db)

	venue := createVenueWithCatalog(t, db, "Don Julio")
	user := createUser(t, db, "u1@example.com")

	review, err := svc.SubmitReview(user.ID, SubmitReviewRequest{VenueID: venue.ID, Rating: 4})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateReview(review.ID))
	require.NoError(t, svc.DeactivateReview(review.ID))
	assert.Nil(t, loadVenue(t, svc, venue.ID).AverageRating)

	assert.ErrorIs(t, svc.DeactivateReview(999), apperrors.ErrReviewNotFound)
}
