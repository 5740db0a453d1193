package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

type SingleService interface {
	Publish(ctx context.Context, artistID string, req *dto.CreateSingleRequest) (*dto.SingleResponse, error)
	Update(ctx context.Context, artistID, singleID string, req *dto.UpdateSingleRequest) (*dto.SingleResponse, error)
	Delete(ctx context.Context, artistID, singleID string) error
	Get(ctx context.Context, singleID string) (*dto.SingleResponse, error)
	ListByArtist(ctx context.Context, artistID string) ([]*domain.Single, error)
	ListFeaturing(ctx context.Context, artistID string) ([]*domain.Single, error)
}

type singleService struct {
	repo     repository.CatalogRepository
	rollups  *RollupEngine
	stats    StatsService
	notifier Notifier
}

func NewSingleService(repo repository.CatalogRepository, rollups *RollupEngine, stats StatsService, notifier Notifier) SingleService {
	return &singleService{
		repo:     repo,
		rollups:  rollups,
		stats:    stats,
		notifier: notifier,
	}
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fieldError(ErrValidation, field, "date must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}

// optional reports whether a lookup found its document. A missing document
// is not an error.
func optional(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}
	return false, internalError(err)
}

func applyMetadata(m *domain.Metadata, req *dto.MetadataRequest) {
	if req == nil {
		return
	}
	if req.CoverURL != nil {
		m.CoverURL = strings.TrimSpace(*req.CoverURL)
	}
	if req.Lyrics != nil {
		m.Lyrics = *req.Lyrics
	}
}

// txError passes client errors through and hides everything else.
func txError(op string, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	logger.Error(logger.EventDBError, op+" failed", logger.Fields("error", err))
	return internalError(err)
}

func (s *singleService) checkGenre(ctx context.Context, genreID string) error {
	if strings.TrimSpace(genreID) == "" {
		return fieldError(ErrValidation, "genreId", "genreId is required")
	}
	_, err := s.repo.FindGenreByID(ctx, genreID)
	found, err := optional(err)
	if err != nil {
		return err
	}
	if !found {
		return fieldError(ErrGenreNotFound, "genreId", "")
	}
	return nil
}

// ownedAlbum resolves albumID for the caller. Someone else's album is
// reported as missing.
func (s *singleService) ownedAlbum(ctx context.Context, artistID, albumID string) (*domain.Album, error) {
	if albumID == "" {
		return nil, nil
	}
	album, err := s.repo.FindAlbumByID(ctx, albumID)
	found, err := optional(err)
	if err != nil {
		return nil, err
	}
	if !found || album.ArtistID != artistID {
		return nil, fieldError(ErrAlbumNotFound, "albumId", "")
	}
	return album, nil
}

func (s *singleService) ownedSingle(ctx context.Context, artistID, singleID string) (*domain.Single, error) {
	single, err := s.repo.FindSingleByID(ctx, singleID)
	found, err := optional(err)
	if err != nil {
		return nil, err
	}
	if !found || single.ArtistID != artistID {
		return nil, ErrSingleNotFound
	}
	return single, nil
}

// replaceLedger swaps the whole copyright set of a metadata row and checks
// the persisted total. Run inside a transaction so a bad total rolls back.
func (s *singleService) replaceLedger(ctx context.Context, metadataID string, entries []CopyrightEntry) error {
	now := time.Now().UTC()
	rows := make([]*domain.Copyright, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, &domain.Copyright{
			ID:         uuid.New().String(),
			MetadataID: metadataID,
			ArtistID:   e.ArtistID,
			OwnerName:  e.OwnerName,
			Role:       e.Role,
			Percentage: e.Percentage,
			Seq:        i,
			CreatedAt:  now,
		})
	}
	if err := s.repo.ReplaceCopyrights(ctx, metadataID, rows); err != nil {
		return err
	}

	persisted, err := s.repo.FindCopyrightsByMetadataID(ctx, metadataID)
	if err != nil {
		return err
	}
	return CheckCopyrightSum(persistedEntries(persisted))
}

func (s *singleService) saveMetadata(ctx context.Context, m *domain.Metadata) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return s.repo.SaveMetadata(ctx, m)
}

func (s *singleService) Publish(ctx context.Context, artistID string, req *dto.CreateSingleRequest) (*dto.SingleResponse, error) {
	owner, err := s.repo.FindArtistByID(ctx, artistID)
	if found, err := optional(err); err != nil {
		return nil, err
	} else if !found {
		return nil, ErrArtistNotFound
	}

	title := StripFeaturing(req.Title)
	if title == "" {
		return nil, fieldError(ErrValidation, "title", "title is required")
	}
	if err := s.checkGenre(ctx, req.GenreID); err != nil {
		return nil, err
	}
	album, err := s.ownedAlbum(ctx, artistID, req.AlbumID)
	if err != nil {
		return nil, err
	}
	releaseDate, err := parseDate("releaseDate", req.ReleaseDate)
	if err != nil {
		return nil, err
	}

	entries := copyrightEntries(req.Copyrights)
	resolved, err := ValidateCopyrights(ctx, s.repo, entries)
	if err != nil {
		logger.Warn(logger.EventValidationFailure, "Copyright ledger rejected", logger.Fields(
			"artist_id", artistID,
			"error", err,
		))
		return nil, err
	}
	featuring := featuringArtists(resolved, artistID)

	now := time.Now().UTC()
	single := &domain.Single{
		ID:           uuid.New().String(),
		Title:        ComposeTitle(title, artistNames(featuring)),
		BaseTitle:    title,
		ArtistID:     artistID,
		AlbumID:      req.AlbumID,
		GenreID:      req.GenreID,
		FeaturingIDs: artistIDs(featuring),
		ReleaseDate:  releaseDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	metadata := &domain.Metadata{
		ID:        uuid.New().String(),
		SingleID:  single.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyMetadata(metadata, req.Metadata)

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateSingle(txCtx, single); err != nil {
			return err
		}
		if err := s.saveMetadata(txCtx, metadata); err != nil {
			return err
		}
		if err := s.replaceLedger(txCtx, metadata.ID, entries); err != nil {
			return err
		}
		return s.repo.CreateStat(txCtx, &domain.Stat{
			ID:        uuid.New().String(),
			SingleID:  single.ID,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return nil, txError("Publish single", err)
	}

	logger.Info(logger.EventSinglePublished, "Single published", logger.Fields(
		"single_id", single.ID,
		"artist_id", artistID,
		"album_id", single.AlbumID,
		"featuring", len(single.FeaturingIDs),
	))

	_ = s.rollups.Recompute(ctx, artistID, single.AlbumID)

	if err := s.notifier.SendPublicationNotification(ctx, owner, single, album); err != nil {
		logger.Warn(logger.EventNotificationFailed, "Publication notification failed", logger.Fields(
			"artist_id", artistID,
			"single_id", single.ID,
			"error", err,
		))
	}

	return s.buildResponse(ctx, single)
}

func (s *singleService) Update(ctx context.Context, artistID, singleID string, req *dto.UpdateSingleRequest) (*dto.SingleResponse, error) {
	single, err := s.ownedSingle(ctx, artistID, singleID)
	if err != nil {
		return nil, err
	}
	oldAlbumID, oldGenreID := single.AlbumID, single.GenreID

	baseTitle := single.BaseTitle
	if baseTitle == "" {
		baseTitle = StripFeaturing(single.Title)
	}
	if req.Title != nil {
		baseTitle = StripFeaturing(*req.Title)
		if baseTitle == "" {
			return nil, fieldError(ErrValidation, "title", "title cannot be empty")
		}
	}
	if req.GenreID != nil {
		if err := s.checkGenre(ctx, *req.GenreID); err != nil {
			return nil, err
		}
		single.GenreID = *req.GenreID
	}
	if req.ReleaseDate != nil {
		releaseDate, err := parseDate("releaseDate", *req.ReleaseDate)
		if err != nil {
			return nil, err
		}
		single.ReleaseDate = releaseDate
	}
	if req.AlbumID != nil {
		if _, err := s.ownedAlbum(ctx, artistID, *req.AlbumID); err != nil {
			return nil, err
		}
		single.AlbumID = *req.AlbumID
	}

	var entries []CopyrightEntry
	var featuring []*domain.Artist
	if req.Copyrights != nil {
		entries = copyrightEntries(req.Copyrights)
		resolved, err := ValidateCopyrights(ctx, s.repo, entries)
		if err != nil {
			return nil, err
		}
		featuring = featuringArtists(resolved, artistID)
	} else {
		featuring, err = s.repo.FindArtistsByIDs(ctx, single.FeaturingIDs)
		if err != nil {
			return nil, internalError(err)
		}
	}

	now := time.Now().UTC()
	single.BaseTitle = baseTitle
	single.Title = ComposeTitle(baseTitle, artistNames(featuring))
	single.FeaturingIDs = artistIDs(featuring)
	single.UpdatedAt = now

	metadata, err := s.repo.FindMetadataBySingleID(ctx, single.ID)
	found, err := optional(err)
	if err != nil {
		return nil, err
	}
	if !found {
		metadata = &domain.Metadata{ID: uuid.New().String(), SingleID: single.ID, CreatedAt: now}
	}
	applyMetadata(metadata, req.Metadata)
	metadata.UpdatedAt = now

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.ReplaceSingle(txCtx, single); err != nil {
			return err
		}
		if err := s.saveMetadata(txCtx, metadata); err != nil {
			return err
		}
		if entries != nil {
			return s.replaceLedger(txCtx, metadata.ID, entries)
		}
		return nil
	})
	if err != nil {
		return nil, txError("Update single", err)
	}

	logger.Info(logger.EventSingleUpdated, "Single updated", logger.Fields(
		"single_id", single.ID,
		"artist_id", artistID,
		"copyrights_replaced", entries != nil,
	))

	if oldGenreID != single.GenreID || oldAlbumID != single.AlbumID {
		_ = s.rollups.Recompute(ctx, artistID, oldAlbumID, single.AlbumID)
	}

	return s.buildResponse(ctx, single)
}

func (s *singleService) Delete(ctx context.Context, artistID, singleID string) error {
	single, err := s.ownedSingle(ctx, artistID, singleID)
	if err != nil {
		return err
	}

	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.DeleteSingle(txCtx, single.ID); err != nil {
			return err
		}
		metadata, err := s.repo.FindMetadataBySingleID(txCtx, single.ID)
		found, err := optional(err)
		if err != nil {
			return err
		}
		if found {
			if err := s.repo.DeleteMetadata(txCtx, metadata.ID); err != nil {
				return err
			}
		}
		return s.repo.DeleteStatBySingleID(txCtx, single.ID)
	})
	if err != nil {
		return txError("Delete single", err)
	}

	logger.Info(logger.EventSingleDeleted, "Single deleted", logger.Fields(
		"single_id", single.ID,
		"artist_id", artistID,
	))

	_ = s.rollups.Recompute(ctx, artistID, single.AlbumID)
	if err := s.stats.RecomputeArtistPopularity(ctx, artistID); err != nil {
		logger.Error(logger.EventDBError, "Popularity recompute failed", logger.Fields(
			"artist_id", artistID,
			"error", err,
		))
	}
	return nil
}

func (s *singleService) Get(ctx context.Context, singleID string) (*dto.SingleResponse, error) {
	single, err := s.repo.FindSingleByID(ctx, singleID)
	found, err := optional(err)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrSingleNotFound
	}
	return s.buildResponse(ctx, single)
}

func (s *singleService) ListByArtist(ctx context.Context, artistID string) ([]*domain.Single, error) {
	if err := s.requireArtist(ctx, artistID); err != nil {
		return nil, err
	}
	singles, err := s.repo.FindSinglesByArtistID(ctx, artistID)
	if err != nil {
		return nil, internalError(err)
	}
	return singles, nil
}

func (s *singleService) ListFeaturing(ctx context.Context, artistID string) ([]*domain.Single, error) {
	if err := s.requireArtist(ctx, artistID); err != nil {
		return nil, err
	}
	singles, err := s.repo.FindSinglesFeaturing(ctx, artistID)
	if err != nil {
		return nil, internalError(err)
	}
	return singles, nil
}

func (s *singleService) requireArtist(ctx context.Context, artistID string) error {
	_, err := s.repo.FindArtistByID(ctx, artistID)
	found, err := optional(err)
	if err != nil {
		return err
	}
	if !found {
		return ErrArtistNotFound
	}
	return nil
}

func (s *singleService) buildResponse(ctx context.Context, single *domain.Single) (*dto.SingleResponse, error) {
	resp := &dto.SingleResponse{
		ID:          single.ID,
		Title:       single.Title,
		Featurings:  []dto.ArtistSummary{},
		ReleaseDate: single.ReleaseDate,
		CreatedAt:   single.CreatedAt,
		UpdatedAt:   single.UpdatedAt,
	}

	artist, err := s.repo.FindArtistByID(ctx, single.ArtistID)
	if found, err := optional(err); err != nil {
		return nil, err
	} else if found {
		resp.Artist = &dto.ArtistSummary{ID: artist.ID, Name: artist.Name}
	}

	if single.AlbumID != "" {
		album, err := s.repo.FindAlbumByID(ctx, single.AlbumID)
		if found, err := optional(err); err != nil {
			return nil, err
		} else if found {
			resp.Album = &dto.AlbumSummary{ID: album.ID, Title: album.Title}
		}
	}

	genre, err := s.repo.FindGenreByID(ctx, single.GenreID)
	if found, err := optional(err); err != nil {
		return nil, err
	} else if found {
		resp.Genre = &dto.GenreSummary{ID: genre.ID, Name: genre.Name}
	}

	featuring, err := s.repo.FindArtistsByIDs(ctx, single.FeaturingIDs)
	if err != nil {
		return nil, internalError(err)
	}
	byID := make(map[string]*domain.Artist, len(featuring))
	for _, a := range featuring {
		byID[a.ID] = a
	}
	for _, id := range single.FeaturingIDs {
		if a, ok := byID[id]; ok {
			resp.Featurings = append(resp.Featurings, dto.ArtistSummary{ID: a.ID, Name: a.Name})
		}
	}

	metadata, err := s.repo.FindMetadataBySingleID(ctx, single.ID)
	if found, err := optional(err); err != nil {
		return nil, err
	} else if found {
		copyrights, err := s.repo.FindCopyrightsByMetadataID(ctx, metadata.ID)
		if err != nil {
			return nil, internalError(err)
		}
		resp.Metadata = &dto.MetadataResponse{Metadata: metadata, Copyrights: copyrights}
	}

	stat, err := s.repo.FindStatBySingleID(ctx, single.ID)
	if found, err := optional(err); err != nil {
		return nil, err
	} else if found {
		resp.Stat = stat
	}

	return resp, nil
}
