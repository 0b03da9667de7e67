package utils

import (
	"regexp"
	"strings"

	"github.com/ProyectoGP-AR/Proyecto---Chorifans/internal/models"
)

func IsValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

func IsValidPassword(password string) bool {
	return len(password) >= 8
}

func IsValidRole(role string) bool {
	validRoles := []string{"admin", "customer"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

// IsValidRating checks the 1 to 5 choripanes scale.
func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

func IsValidSentiment(sentiment string) bool {
	return sentiment == models.SentimentPositive || sentiment == models.SentimentNegative
}

// IsValidSlug accepts lowercase identifiers usable in URLs, ex: "gourmet".
func IsValidSlug(slug string) bool {
	pattern := `^[a-z0-9]+(-[a-z0-9]+)*$`
	matched, _ := regexp.MatchString(pattern, slug)
	return matched
}
