package service

import (
	"context"
	"strings"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/annazecevic/catalog-service/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type ArtistService interface {
	Register(ctx context.Context, req *dto.RegisterArtistRequest) (*domain.Artist, error)
	Get(ctx context.Context, artistID string) (*domain.Artist, error)
	Stats(ctx context.Context, artistID string) (*domain.ArtistStats, error)
}

type artistService struct {
	repo repository.CatalogRepository
}

func NewArtistService(repo repository.CatalogRepository) ArtistService {
	return &artistService{repo: repo}
}

func (s *artistService) Register(ctx context.Context, req *dto.RegisterArtistRequest) (*domain.Artist, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, fieldError(ErrValidation, "password", err.Error())
	}

	existing, err := s.repo.FindArtistByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return nil, internalError(err)
	}
	if existing != nil {
		return nil, fieldError(ErrArtistExists, "email", "")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err)
	}

	now := time.Now().UTC()
	artist := &domain.Artist{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  string(hashedPassword),
		Biography: req.Biography,
		Role:      domain.RoleArtist,
		Genres:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateArtist(ctx, artist); err != nil {
		return nil, internalError(err)
	}

	logger.Info(logger.EventArtistRegistered, "Artist registered", logger.Fields(
		"artist_id", artist.ID,
		"email", artist.Email,
	))

	return artist, nil
}

func (s *artistService) Get(ctx context.Context, artistID string) (*domain.Artist, error) {
	artist, err := s.repo.FindArtistByID(ctx, artistID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrArtistNotFound
		}
		return nil, internalError(err)
	}
	return artist, nil
}

// Stats totals listens and revenue over the artist's own singles.
func (s *artistService) Stats(ctx context.Context, artistID string) (*domain.ArtistStats, error) {
	if _, err := s.Get(ctx, artistID); err != nil {
		return nil, err
	}
	listens, err := s.repo.SumListensForArtist(ctx, artistID)
	if err != nil {
		return nil, internalError(err)
	}
	return &domain.ArtistStats{
		ArtistID:     artistID,
		TotalListens: listens,
		TotalRevenue: domain.RevenueFor(listens),
	}, nil
}
