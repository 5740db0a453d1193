package domain

import (
	"errors"
	"time"
)

// Metadata belongs to exactly one single or one album.
type Metadata struct {
	ID        string    `bson:"id" json:"id"`
	SingleID  string    `bson:"single_id,omitempty" json:"single_id,omitempty"`
	AlbumID   string    `bson:"album_id,omitempty" json:"album_id,omitempty"`
	CoverURL  string    `bson:"cover_url" json:"cover_url"`
	Lyrics    string    `bson:"lyrics,omitempty" json:"lyrics,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

var ErrMetadataOwner = errors.New("metadata must reference either a single or an album, not both")

func (m *Metadata) Validate() error {
	if (m.SingleID == "") == (m.AlbumID == "") {
		return ErrMetadataOwner
	}
	return nil
}

// Copyright is one revenue share of a release. Exactly one of ArtistID and
// OwnerName is set. Seq is the position the share had in the request.
type Copyright struct {
	ID         string    `bson:"id" json:"id"`
	MetadataID string    `bson:"metadata_id" json:"metadata_id"`
	ArtistID   string    `bson:"artist_id,omitempty" json:"artist_id,omitempty"`
	OwnerName  string    `bson:"owner_name,omitempty" json:"owner_name,omitempty"`
	Role       string    `bson:"role" json:"role"`
	Percentage float64   `bson:"percentage" json:"percentage"`
	Seq        int       `bson:"seq" json:"-"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
}
