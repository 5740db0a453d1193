package domain

import "time"

// Single.Title is derived: BaseTitle plus a "(feat. ...)" group built from
// FeaturingIDs. Only BaseTitle is ever taken from the client.
type Single struct {
	ID           string     `bson:"id" json:"id"`
	Title        string     `bson:"title" json:"title"`
	BaseTitle    string     `bson:"base_title" json:"-"`
	ArtistID     string     `bson:"artist_id" json:"artist_id"`
	AlbumID      string     `bson:"album_id,omitempty" json:"album_id,omitempty"`
	GenreID      string     `bson:"genre_id" json:"genre_id"`
	FeaturingIDs []string   `bson:"featuring_ids" json:"featuring_ids"`
	ReleaseDate  *time.Time `bson:"release_date,omitempty" json:"release_date,omitempty"`
	CreatedAt    time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at" json:"updated_at"`
}
