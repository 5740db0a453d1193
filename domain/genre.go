package domain

import (
	"strings"
	"time"
)

// MaxArtistGenres caps the derived genre list stored on an artist.
const MaxArtistGenres = 3

type Genre struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Slug      string    `bson:"slug" json:"slug"`
	Desc      string    `bson:"desc,omitempty" json:"desc,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Slugify lowercases the name and joins whitespace-separated words with dashes.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// GenreCount is one row of a grouped count of singles by genre.
type GenreCount struct {
	GenreID string `bson:"_id" json:"genre_id"`
	Count   int64  `bson:"count" json:"count"`
}
