package models

import (
	"time"
)

// Review is a user's take on a venue: 1 to 5 choripanes plus a comment.
// The composite unique index keeps it to one review per user and venue even
// if two submissions race past the application-level duplicate check.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_reviews_user_venue"`
	VenueID   uint      `json:"venue_id" gorm:"not null;uniqueIndex:idx_reviews_user_venue"`
	Rating    int       `json:"rating" gorm:"check:rating >= 1 AND rating <= 5"`
	Comment   string    `json:"comment"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User     User           `json:"user,omitempty"`
	Venue    Venue          `json:"venue,omitempty"`
	Response *OwnerResponse `json:"response,omitempty" gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE"`
}

// Sentiment values an owner can attach to a response (happy or sad face).
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
)

// OwnerResponse is the single official reply of a venue to one of its
// reviews. A review has at most one; repeated responses edit it in place.
type OwnerResponse struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ReviewID  uint      `json:"review_id" gorm:"uniqueIndex;not null"`
	AuthorID  uint      `json:"author_id" gorm:"not null"`
	Text      string    `json:"text" gorm:"not null"`
	Sentiment string    `json:"sentiment" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}

func (OwnerResponse) TableName() string {
	return "owner_responses"
}
