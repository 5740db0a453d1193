package service

import (
	"context"
	"strings"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/google/uuid"
)

type AlbumService interface {
	Create(ctx context.Context, artistID string, req *dto.CreateAlbumRequest) (*dto.AlbumResponse, error)
	Update(ctx context.Context, artistID, albumID string, req *dto.UpdateAlbumRequest) (*dto.AlbumResponse, error)
	Delete(ctx context.Context, artistID, albumID string) error
	Get(ctx context.Context, albumID string) (*dto.AlbumResponse, error)
	ListByArtist(ctx context.Context, artistID string) ([]*domain.Album, error)
}

type albumService struct {
	repo    repository.CatalogRepository
	rollups *RollupEngine
}

func NewAlbumService(repo repository.CatalogRepository, rollups *RollupEngine) AlbumService {
	return &albumService{repo: repo, rollups: rollups}
}

func (s *albumService) ownedAlbum(ctx context.Context, artistID, albumID string) (*domain.Album, error) {
	album, err := s.repo.FindAlbumByID(ctx, albumID)
	found, err := optional(err)
	if err != nil {
		return nil, err
	}
	if !found || album.ArtistID != artistID {
		return nil, ErrAlbumNotFound
	}
	return album, nil
}

func (s *albumService) Create(ctx context.Context, artistID string, req *dto.CreateAlbumRequest) (*dto.AlbumResponse, error) {
	if _, err := s.repo.FindArtistByID(ctx, artistID); err != nil {
		if isNotFound(err) {
			return nil, ErrArtistNotFound
		}
		return nil, internalError(err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fieldError(ErrValidation, "title", "title is required")
	}
	releaseDate, err := parseDate("releaseDate", req.ReleaseDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	album := &domain.Album{
		ID:          uuid.New().String(),
		Title:       title,
		ArtistID:    artistID,
		GenreIDs:    []string{},
		ReleaseDate: releaseDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	metadata := &domain.Metadata{
		ID:        uuid.New().String(),
		AlbumID:   album.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyMetadata(metadata, req.Metadata)
	if err := metadata.Validate(); err != nil {
		return nil, internalError(err)
	}

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateAlbum(txCtx, album); err != nil {
			return err
		}
		return s.repo.SaveMetadata(txCtx, metadata)
	})
	if err != nil {
		return nil, txError("Create album", err)
	}

	logger.Info(logger.EventAlbumCreated, "Album created", logger.Fields(
		"album_id", album.ID,
		"artist_id", artistID,
	))

	return s.buildResponse(ctx, album)
}

func (s *albumService) Update(ctx context.Context, artistID, albumID string, req *dto.UpdateAlbumRequest) (*dto.AlbumResponse, error) {
	album, err := s.ownedAlbum(ctx, artistID, albumID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fieldError(ErrValidation, "title", "title cannot be empty")
		}
		updates["title"] = title
	}
	if req.ReleaseDate != nil {
		releaseDate, err := parseDate("releaseDate", *req.ReleaseDate)
		if err != nil {
			return nil, err
		}
		updates["release_date"] = releaseDate
	}

	now := time.Now().UTC()
	var metadata *domain.Metadata
	if req.Metadata != nil {
		metadata, err = s.repo.FindMetadataByAlbumID(ctx, album.ID)
		found, err := optional(err)
		if err != nil {
			return nil, err
		}
		if !found {
			metadata = &domain.Metadata{ID: uuid.New().String(), AlbumID: album.ID, CreatedAt: now}
		}
		applyMetadata(metadata, req.Metadata)
		metadata.UpdatedAt = now
	}

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateAlbum(txCtx, album.ID, updates); err != nil {
			return err
		}
		if metadata != nil {
			return s.repo.SaveMetadata(txCtx, metadata)
		}
		return nil
	})
	if err != nil {
		return nil, txError("Update album", err)
	}

	logger.Info(logger.EventAlbumUpdated, "Album updated", logger.Fields(
		"album_id", album.ID,
		"artist_id", artistID,
	))

	return s.Get(ctx, album.ID)
}

// Delete removes the album and its metadata. Its singles survive, detached.
func (s *albumService) Delete(ctx context.Context, artistID, albumID string) error {
	album, err := s.ownedAlbum(ctx, artistID, albumID)
	if err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.DetachSinglesFromAlbum(txCtx, album.ID); err != nil {
			return err
		}
		metadata, err := s.repo.FindMetadataByAlbumID(txCtx, album.ID)
		found, err := optional(err)
		if err != nil {
			return err
		}
		if found {
			if err := s.repo.DeleteMetadata(txCtx, metadata.ID); err != nil {
				return err
			}
		}
		return s.repo.DeleteAlbum(txCtx, album.ID)
	})
	if err != nil {
		return txError("Delete album", err)
	}

	logger.Info(logger.EventAlbumDeleted, "Album deleted", logger.Fields(
		"album_id", album.ID,
		"artist_id", artistID,
	))

	_ = s.rollups.Recompute(ctx, artistID)
	return nil
}

func (s *albumService) Get(ctx context.Context, albumID string) (*dto.AlbumResponse, error) {
	album, err := s.repo.FindAlbumByID(ctx, albumID)
	found, err := optional(err)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrAlbumNotFound
	}
	return s.buildResponse(ctx, album)
}

func (s *albumService) ListByArtist(ctx context.Context, artistID string) ([]*domain.Album, error) {
	if _, err := s.repo.FindArtistByID(ctx, artistID); err != nil {
		if isNotFound(err) {
			return nil, ErrArtistNotFound
		}
		return nil, internalError(err)
	}
	albums, err := s.repo.FindAlbumsByArtistID(ctx, artistID)
	if err != nil {
		return nil, internalError(err)
	}
	return albums, nil
}

func (s *albumService) buildResponse(ctx context.Context, album *domain.Album) (*dto.AlbumResponse, error) {
	resp := &dto.AlbumResponse{
		ID:          album.ID,
		Title:       album.Title,
		Genres:      []dto.GenreSummary{},
		ReleaseDate: album.ReleaseDate,
		CreatedAt:   album.CreatedAt,
		UpdatedAt:   album.UpdatedAt,
	}

	artist, err := s.repo.FindArtistByID(ctx, album.ArtistID)
	if found, err := optional(err); err != nil {
		return nil, err
	} else if found {
		resp.Artist = &dto.ArtistSummary{ID: artist.ID, Name: artist.Name}
	}

	genres, err := s.repo.FindGenresByIDs(ctx, album.GenreIDs)
	if err != nil {
		return nil, internalError(err)
	}
	for _, g := range genres {
		resp.Genres = append(resp.Genres, dto.GenreSummary{ID: g.ID, Name: g.Name})
	}

	metadata, err := s.repo.FindMetadataByAlbumID(ctx, album.ID)
	if found, err := optional(err); err != nil {
		return nil, err
	} else if found {
		resp.Metadata = metadata
	}

	singles, err := s.repo.FindSinglesByAlbumID(ctx, album.ID)
	if err != nil {
		return nil, internalError(err)
	}
	resp.Singles = singles

	return resp, nil
}
