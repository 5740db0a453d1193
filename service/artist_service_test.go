package service

import (
	"context"
	"errors"
	"testing"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
	"golang.org/x/crypto/bcrypt"
)

func TestRegisterArtist(t *testing.T) {
	repo := newFakeRepo()
	svc := NewArtistService(repo)

	artist, err := svc.Register(context.Background(), &dto.RegisterArtistRequest{
		Name:     "New Artist",
		Email:    "New@Example.com",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if artist.Email != "new@example.com" || artist.Role != domain.RoleArtist {
		t.Fatalf("unexpected artist: %+v", artist)
	}
	if bcrypt.CompareHashAndPassword([]byte(artist.Password), []byte("secret123")) != nil {
		t.Fatalf("password was not hashed with bcrypt")
	}

	_, err = svc.Register(context.Background(), &dto.RegisterArtistRequest{
		Name:     "Copy",
		Email:    "new@example.com",
		Password: "secret123",
	})
	if !errors.Is(err, ErrArtistExists) {
		t.Fatalf("expected artist exists, got %v", err)
	}
}

func TestArtistStats(t *testing.T) {
	repo, _ := statsFixture()
	svc := NewArtistService(repo)

	stats, err := svc.Stats(context.Background(), "a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalListens != 40500 || stats.TotalRevenue != domain.RevenueFor(40500) {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if _, err := svc.Stats(context.Background(), "ghost"); !errors.Is(err, ErrArtistNotFound) {
		t.Fatalf("expected artist not found, got %v", err)
	}
}

func TestRegisterArtistRejectsWeakPassword(t *testing.T) {
	repo := newFakeRepo()
	_, err := NewArtistService(repo).Register(context.Background(), &dto.RegisterArtistRequest{
		Name:     "Weak",
		Email:    "weak@example.com",
		Password: "password123",
	})
	var appErr *AppError
	if !errors.As(err, &appErr) || appErr.Code != CodeValidation || appErr.Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
	if _, err := repo.FindArtistByEmail(context.Background(), "weak@example.com"); err == nil {
		t.Fatalf("weak registration must not be stored")
	}
}
