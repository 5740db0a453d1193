package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/repository"
	"github.com/annazecevic/catalog-service/utils"
)

// Notifier delivers award and publication notices to an artist. Callers log
// a returned error and carry on.
type Notifier interface {
	SendAwardNotification(ctx context.Context, artist *domain.Artist, single *domain.Single, award domain.Award, listens int64) error
	SendPublicationNotification(ctx context.Context, artist *domain.Artist, single *domain.Single, album *domain.Album) error
}

// inboxNotifier records every notice in the artist's inbox and e-mails it.
type inboxNotifier struct {
	repo  repository.NotificationRepository
	email utils.EmailService
}

func NewNotifier(repo repository.NotificationRepository, email utils.EmailService) Notifier {
	return &inboxNotifier{repo: repo, email: email}
}

func (n *inboxNotifier) SendAwardNotification(ctx context.Context, artist *domain.Artist, single *domain.Single, award domain.Award, listens int64) error {
	inboxErr := n.repo.CreateNotification(ctx, &domain.Notification{
		ArtistID: artist.ID,
		Type:     domain.NotificationTypeAward,
		Title:    fmt.Sprintf("%s award", award),
		Message:  fmt.Sprintf("%s reached %s with %d listens", single.Title, award, listens),
		SingleID: single.ID,
	})
	emailErr := n.email.SendAwardEmail(artist.Email, artist.Name, single.Title, string(award), listens)
	if err := errors.Join(inboxErr, emailErr); err != nil {
		return err
	}
	logger.Info(logger.EventNotificationSent, "Award notification delivered", logger.Fields(
		"artist_id", artist.ID,
		"single_id", single.ID,
		"award", string(award),
	))
	return nil
}

func (n *inboxNotifier) SendPublicationNotification(ctx context.Context, artist *domain.Artist, single *domain.Single, album *domain.Album) error {
	var releaseDate, albumTitle, albumID string
	if single.ReleaseDate != nil {
		releaseDate = single.ReleaseDate.Format(dateLayout)
	}
	if album != nil {
		albumTitle = album.Title
		albumID = album.ID
	}

	message := fmt.Sprintf("%s has been published", single.Title)
	if albumTitle != "" {
		message += fmt.Sprintf(" on %s", albumTitle)
	}
	inboxErr := n.repo.CreateNotification(ctx, &domain.Notification{
		ArtistID: artist.ID,
		Type:     domain.NotificationTypePublication,
		Title:    "Single published",
		Message:  message,
		SingleID: single.ID,
		AlbumID:  albumID,
	})
	emailErr := n.email.SendPublicationEmail(artist.Email, artist.Name, single.Title, releaseDate, albumTitle)
	if err := errors.Join(inboxErr, emailErr); err != nil {
		return err
	}
	logger.Info(logger.EventNotificationSent, "Publication notification delivered", logger.Fields(
		"artist_id", artist.ID,
		"single_id", single.ID,
		"album_id", albumID,
	))
	return nil
}

type NotificationService interface {
	ListForArtist(ctx context.Context, artistID string) ([]domain.Notification, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListForArtist(ctx context.Context, artistID string) ([]domain.Notification, error) {
	notifications, err := s.repo.GetArtistNotifications(ctx, artistID)
	if err != nil {
		return nil, internalError(err)
	}
	return notifications, nil
}
