package service

import (
	"context"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/repository"
)

type StatsService interface {
	// UpdateListenCount stores a new listen count and re-derives revenue.
	// A nil listens keeps the current count.
	UpdateListenCount(ctx context.Context, statID string, listens *int64) (*domain.Stat, error)
	GetSingleStat(ctx context.Context, singleID string) (*domain.Stat, error)
	RecomputeArtistPopularity(ctx context.Context, artistID string) error
}

type statsService struct {
	repo     repository.CatalogRepository
	notifier Notifier
}

func NewStatsService(repo repository.CatalogRepository, notifier Notifier) StatsService {
	return &statsService{repo: repo, notifier: notifier}
}

// DetectAwardsCrossed returns, in ascending threshold order, every award
// whose threshold t satisfies oldListens < t <= newListens.
func DetectAwardsCrossed(oldListens, newListens int64) []domain.Award {
	awards := []domain.Award{}
	for _, a := range domain.AwardThresholds {
		if oldListens < a.Threshold && a.Threshold <= newListens {
			awards = append(awards, a.Award)
		}
	}
	return awards
}

func (s *statsService) UpdateListenCount(ctx context.Context, statID string, listens *int64) (*domain.Stat, error) {
	stat, err := s.repo.FindStatByID(ctx, statID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStatNotFound
		}
		return nil, internalError(err)
	}

	single, err := s.repo.FindSingleByID(ctx, stat.SingleID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrSingleNotFound
		}
		return nil, internalError(err)
	}

	oldListens := stat.ListensCount
	newListens := oldListens
	if listens != nil {
		newListens = *listens
	}
	if newListens < oldListens {
		return nil, fieldError(ErrValidation, "listensCount", "listensCount cannot decrease")
	}

	stat.SetListens(newListens)
	if err := s.repo.UpdateStat(ctx, stat); err != nil {
		return nil, internalError(err)
	}

	logger.Info(logger.EventStatsUpdated, "Listen count updated", logger.Fields(
		"stat_id", stat.ID,
		"single_id", single.ID,
		"old_listens", oldListens,
		"new_listens", newListens,
	))

	if awards := DetectAwardsCrossed(oldListens, newListens); len(awards) > 0 {
		s.notifyAwards(ctx, single, awards, newListens)
	}

	if err := s.RecomputeArtistPopularity(ctx, single.ArtistID); err != nil {
		logger.Error(logger.EventDBError, "Popularity recompute failed", logger.Fields(
			"artist_id", single.ArtistID,
			"error", err,
		))
	}

	return stat, nil
}

func (s *statsService) notifyAwards(ctx context.Context, single *domain.Single, awards []domain.Award, listens int64) {
	artist, err := s.repo.FindArtistByID(ctx, single.ArtistID)
	if err != nil {
		logger.Error(logger.EventNotificationFailed, "Award owner lookup failed", logger.Fields(
			"artist_id", single.ArtistID,
			"error", err,
		))
		return
	}

	for _, award := range awards {
		logger.Info(logger.EventAwardCrossed, "Award threshold crossed", logger.Fields(
			"single_id", single.ID,
			"award", string(award),
			"listens", listens,
		))
		if err := s.notifier.SendAwardNotification(ctx, artist, single, award, listens); err != nil {
			logger.Warn(logger.EventNotificationFailed, "Award notification failed", logger.Fields(
				"artist_id", artist.ID,
				"single_id", single.ID,
				"award", string(award),
				"error", err,
			))
		}
	}
}

func (s *statsService) GetSingleStat(ctx context.Context, singleID string) (*domain.Stat, error) {
	stat, err := s.repo.FindStatBySingleID(ctx, singleID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStatNotFound
		}
		return nil, internalError(err)
	}
	return stat, nil
}

// RecomputeArtistPopularity sums listens over the artist's own singles only;
// featured appearances do not count.
func (s *statsService) RecomputeArtistPopularity(ctx context.Context, artistID string) error {
	total, err := s.repo.SumListensForArtist(ctx, artistID)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateArtistPopularity(ctx, artistID, total); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}
