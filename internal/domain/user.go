package domain

import "time"

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.png"
)

// User represents a Warbler account.
type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	CreatedAt      time.Time
}
