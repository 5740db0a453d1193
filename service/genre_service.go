package service

import (
	"context"
	"strings"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/google/uuid"
)

type GenreService interface {
	Create(ctx context.Context, req *dto.CreateGenreRequest) (*domain.Genre, error)
	List(ctx context.Context) ([]*domain.Genre, error)
	Delete(ctx context.Context, genreID string) error
}

type genreService struct {
	repo repository.CatalogRepository
}

func NewGenreService(repo repository.CatalogRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) Create(ctx context.Context, req *dto.CreateGenreRequest) (*domain.Genre, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fieldError(ErrValidation, "name", "name is required")
	}

	existing, err := s.repo.FindGenreByName(ctx, name)
	if err != nil && !isNotFound(err) {
		return nil, internalError(err)
	}
	if existing != nil {
		return nil, fieldError(ErrGenreExists, "name", "")
	}

	now := time.Now().UTC()
	genre := &domain.Genre{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      domain.Slugify(name),
		Desc:      strings.TrimSpace(req.Desc),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateGenre(ctx, genre); err != nil {
		return nil, internalError(err)
	}
	return genre, nil
}

func (s *genreService) List(ctx context.Context) ([]*domain.Genre, error) {
	genres, err := s.repo.ListGenres(ctx)
	if err != nil {
		return nil, internalError(err)
	}
	return genres, nil
}

// Delete refuses to remove a genre that singles still reference, so artist
// and album rollups never carry a dangling genre id.
func (s *genreService) Delete(ctx context.Context, genreID string) error {
	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		inUse, err := s.repo.CountSinglesWithGenre(txCtx, genreID)
		if err != nil {
			return err
		}
		if inUse > 0 {
			return ErrGenreInUse
		}
		if err := s.repo.DeleteGenre(txCtx, genreID); err != nil {
			if isNotFound(err) {
				return ErrGenreNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return txError("Delete genre", err)
	}
	return nil
}
