package domain

import (
	"time"

	"github.com/gocql/gocql"
)

type NotificationType string

const (
	NotificationTypeAward       NotificationType = "AWARD"
	NotificationTypePublication NotificationType = "PUBLICATION"
)

type Notification struct {
	ID        gocql.UUID       `json:"id"`
	ArtistID  string           `json:"artist_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
	SingleID  string           `json:"single_id,omitempty"`
	AlbumID   string           `json:"album_id,omitempty"`
}
