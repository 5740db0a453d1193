package dto

type CreateGenreRequest struct {
	Name string `json:"name" binding:"required,max=255"`
	Desc string `json:"desc" binding:"max=255"`
}

type RegisterArtistRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Biography string `json:"biography" binding:"max=2000"`
}

type MetadataRequest struct {
	CoverURL *string `json:"coverUrl" binding:"omitempty,url"`
	Lyrics   *string `json:"lyrics"`
}

type CopyrightRequest struct {
	ArtistID   *string  `json:"artistId"`
	OwnerName  *string  `json:"ownerName"`
	Role       string   `json:"role" binding:"required,max=255"`
	Percentage *float64 `json:"percentage" binding:"required,gte=0,lte=100"`
}

type CreateSingleRequest struct {
	Title       string             `json:"title" binding:"required,max=255"`
	GenreID     string             `json:"genreId" binding:"required"`
	ReleaseDate string             `json:"releaseDate" binding:"omitempty,datetime=2006-01-02"`
	AlbumID     string             `json:"albumId"`
	Metadata    *MetadataRequest   `json:"metadata" binding:"required"`
	Copyrights  []CopyrightRequest `json:"copyrights" binding:"required,min=1,dive"`
}

// UpdateSingleRequest leaves absent fields untouched. A present copyrights
// list replaces the whole ledger.
type UpdateSingleRequest struct {
	Title       *string            `json:"title" binding:"omitempty,max=255"`
	GenreID     *string            `json:"genreId"`
	ReleaseDate *string            `json:"releaseDate" binding:"omitempty,datetime=2006-01-02"`
	AlbumID     *string            `json:"albumId"`
	Metadata    *MetadataRequest   `json:"metadata"`
	Copyrights  []CopyrightRequest `json:"copyrights" binding:"omitempty,min=1,dive"`
}

type CreateAlbumRequest struct {
	Title       string           `json:"title" binding:"required,max=255"`
	ReleaseDate string           `json:"releaseDate" binding:"omitempty,datetime=2006-01-02"`
	Metadata    *MetadataRequest `json:"metadata" binding:"required"`
}

type UpdateAlbumRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=255"`
	ReleaseDate *string          `json:"releaseDate" binding:"omitempty,datetime=2006-01-02"`
	Metadata    *MetadataRequest `json:"metadata"`
}

type UpdateStatRequest struct {
	ListensCount *int64 `json:"listensCount" binding:"omitempty,gte=0"`
}
