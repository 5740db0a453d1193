package domain

import "time"

type Album struct {
	ID       string `bson:"id" json:"id"`
	Title    string `bson:"title" json:"title"`
	ArtistID string `bson:"artist_id" json:"artist_id"`
	// GenreIDs is the distinct set of genres of the album's singles.
	GenreIDs    []string   `bson:"genre_ids" json:"genre_ids"`
	ReleaseDate *time.Time `bson:"release_date,omitempty" json:"release_date,omitempty"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at" json:"updated_at"`
}
