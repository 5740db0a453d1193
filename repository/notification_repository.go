package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/gocql/gocql"
)

const notificationsTable = `CREATE TABLE IF NOT EXISTS notifications (
	artist_id text,
	created_at timestamp,
	id timeuuid,
	type text,
	title text,
	message text,
	read boolean,
	single_id text,
	album_id text,
	PRIMARY KEY ((artist_id), created_at, id)
) WITH CLUSTERING ORDER BY (created_at DESC, id DESC)`

type NotificationRepository interface {
	EnsureSchema(ctx context.Context) error
	GetArtistNotifications(ctx context.Context, artistID string) ([]domain.Notification, error)
	CreateNotification(ctx context.Context, notification *domain.Notification) error
}

type notificationRepository struct {
	session *gocql.Session
}

func NewNotificationRepository(session *gocql.Session) NotificationRepository {
	return &notificationRepository{
		session: session,
	}
}

func (r *notificationRepository) EnsureSchema(ctx context.Context) error {
	if err := r.session.Query(notificationsTable).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("failed to create notifications table: %w", err)
	}
	return nil
}

func (r *notificationRepository) GetArtistNotifications(ctx context.Context, artistID string) ([]domain.Notification, error) {
	query := `SELECT id, artist_id, type, title, message, created_at, read, single_id, album_id
	          FROM notifications
	          WHERE artist_id = ?`

	iter := r.session.Query(query, artistID).WithContext(ctx).Iter()

	notifications := []domain.Notification{}
	var n domain.Notification
	for iter.Scan(&n.ID, &n.ArtistID, &n.Type, &n.Title, &n.Message, &n.CreatedAt,
		&n.Read, &n.SingleID, &n.AlbumID) {
		notifications = append(notifications, n)
		n = domain.Notification{}
	}

	if err := iter.Close(); err != nil {
		logger.Error(logger.EventDBError, "Failed to fetch notifications", logger.Fields(
			"artist_id", artistID,
			"error", err.Error(),
		))
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	if notification.ID == (gocql.UUID{}) {
		notification.ID = gocql.TimeUUID()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO notifications (artist_id, created_at, id, type, title, message, read, single_id, album_id)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	err := r.session.Query(query,
		notification.ArtistID,
		notification.CreatedAt,
		notification.ID,
		string(notification.Type),
		notification.Title,
		notification.Message,
		notification.Read,
		notification.SingleID,
		notification.AlbumID,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}
