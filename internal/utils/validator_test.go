package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRating(t *testing.T) {
	for _, rating := range []int{1, 2, 3, 4, 5} {
		assert.True(t, IsValidRating(rating), "rating %d", rating)
	}
	for _, rating := range []int{0, 6, -1, 100} {
		assert.False(t, IsValidRating(rating), "rating %d", rating)
	}
}

func TestIsValidSentiment(t *testing.T) {
	assert.True(t, IsValidSentiment("positive"))
	assert.True(t, IsValidSentiment("negative"))
	assert.False(t, IsValidSentiment("neutral"))
	assert.False(t, IsValidSentiment(""))
	assert.False(t, IsValidSentiment("Positive"))
}

func TestIsValidSlug(t *testing.T) {
	assert.True(t, IsValidSlug("barrio"))
	assert.True(t, IsValidSlug("food-truck-2"))
	assert.False(t, IsValidSlug("De Barrio"))
	assert.False(t, IsValidSlug("-barrio"))
	assert.False(t, IsValidSlug(""))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("diner@example.com"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("@example.com"))
}
