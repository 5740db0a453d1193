package domain

import "time"

type Artist struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Password  string    `bson:"password" json:"-"`
	Biography string    `bson:"biography,omitempty" json:"biography,omitempty"`
	Role      string    `bson:"role" json:"role"`
	// Genres and Popularity are derived from the artist's singles and only
	// written by the rollup and stats engines.
	Genres     []string  `bson:"genres" json:"genres"`
	Popularity int64     `bson:"popularity" json:"popularity"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

const (
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

// ArtistStats is the listen and revenue total across an artist's own singles.
type ArtistStats struct {
	ArtistID     string  `json:"artist_id"`
	TotalListens int64   `json:"total_listens"`
	TotalRevenue float64 `json:"total_revenue"`
}
