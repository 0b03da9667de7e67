// models/venue.go
package models

import (
	"time"
)

// Venue is the main record of the directory: a parrilla with its basic data
// and references to category and location. AverageRating is a cache over the
// active reviews and is only ever written by the review service; it is nil
// exactly when the venue has no active reviews.
type Venue struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description"`
	Address       string    `json:"address" gorm:"not null"`
	PhoneNumber   string    `json:"phone_number"`
	Website       string    `json:"website"`
	PhotoURL      string    `json:"photo_url"`
	LocationID    uint      `json:"location_id" gorm:"not null;index"`
	CategoryID    uint      `json:"category_id" gorm:"not null;index"`
	AverageRating *float64  `json:"average_rating"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Location   Location    `json:"location,omitempty"`
	Category   Category    `json:"category,omitempty"`
	Reviews    []Review    `json:"reviews,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE"`
	Promotions []Promotion `json:"promotions,omitempty" gorm:"foreignKey:VenueID;constraint:OnDelete:CASCADE"`
}

// Category is a venue type: barrio, gourmet, feria, foodtruck, etc.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"unique;not null"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Location is a city + neighborhood pair, optionally with coordinates and a
// hand-pasted Google Maps link.
type Location struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	City          string    `json:"city" gorm:"not null"`
	Neighborhood  string    `json:"neighborhood" gorm:"not null"`
	Latitude      *float64  `json:"latitude"`
	Longitude     *float64  `json:"longitude"`
	GoogleMapsURL string    `json:"google_maps_url"`
	IsActive      bool      `json:"is_active" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Promotion is a special offer or event of a venue, valid inside a date
// window. Ex: "2x1 en choripan".
type Promotion struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	VenueID     uint      `json:"venue_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	PromoPrice  *float64  `json:"promo_price"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Venue Venue `json:"venue,omitempty"`
}

// IsCurrent reports whether the promotion is running at the given time.
// Start and end dates are stored as UTC midnights and compared by day, so a
// promotion stays current through the whole of its last day.
func (p *Promotion) IsCurrent(now time.Time) bool {
	today := now.UTC().Truncate(24 * time.Hour)
	return p.IsActive && !today.Before(p.StartDate) && !today.After(p.EndDate)
}
