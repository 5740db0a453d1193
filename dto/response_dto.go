package dto

import (
	"time"

	"github.com/annazecevic/catalog-service/domain"
)

type ErrorItem struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Errors []ErrorItem `json:"errors"`
}

type Warning struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field"`
}

type Envelope struct {
	Message  string      `json:"message,omitempty"`
	Warnings []Warning   `json:"warnings,omitempty"`
	Data     interface{} `json:"data"`
}

type ArtistSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AlbumSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type GenreSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type MetadataResponse struct {
	*domain.Metadata
	Copyrights []*domain.Copyright `json:"copyrights"`
}

type SingleResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Artist      *ArtistSummary    `json:"artist"`
	Album       *AlbumSummary     `json:"album"`
	Genre       *GenreSummary     `json:"genre"`
	Featurings  []ArtistSummary   `json:"featurings"`
	ReleaseDate *time.Time        `json:"release_date,omitempty"`
	Metadata    *MetadataResponse `json:"metadata"`
	Stat        *domain.Stat      `json:"stat,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type AlbumResponse struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Artist      *ArtistSummary   `json:"artist"`
	Genres      []GenreSummary   `json:"genres"`
	ReleaseDate *time.Time       `json:"release_date,omitempty"`
	Metadata    *domain.Metadata `json:"metadata"`
	Singles     []*domain.Single `json:"singles"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

type CoverResponse struct {
	ID       string `json:"id"`
	CoverURL string `json:"coverUrl"`
	Size     int64  `json:"size"`
}
