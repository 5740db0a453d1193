package service

import (
	"context"
	"sort"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/repository"
	"golang.org/x/sync/errgroup"
)

// RollupEngine recomputes the genre aggregates stored on artists and albums.
// Every recomputation reads the current singles and overwrites the stored
// value, so running it twice is harmless.
type RollupEngine struct {
	repo repository.CatalogRepository
}

func NewRollupEngine(repo repository.CatalogRepository) *RollupEngine {
	return &RollupEngine{repo: repo}
}

// TopGenres orders counts by descending count, breaking ties by ascending
// genre id, and keeps the first n ids.
func TopGenres(counts []domain.GenreCount, n int) []string {
	sorted := make([]domain.GenreCount, 0, len(counts))
	for _, c := range counts {
		if c.GenreID != "" {
			sorted = append(sorted, c)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].GenreID < sorted[j].GenreID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]string, 0, len(sorted))
	for _, c := range sorted {
		out = append(out, c.GenreID)
	}
	return out
}

func uniqueSorted(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := []string{}
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (e *RollupEngine) RecomputeArtistGenres(ctx context.Context, artistID string) error {
	counts, err := e.repo.CountSinglesByGenre(ctx, artistID)
	if err != nil {
		return err
	}
	genres := TopGenres(counts, domain.MaxArtistGenres)
	if err := e.repo.UpdateArtistGenres(ctx, artistID, genres); err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}

// RecomputeAlbumGenres is a no-op for an album that no longer exists.
func (e *RollupEngine) RecomputeAlbumGenres(ctx context.Context, albumID string) error {
	if _, err := e.repo.FindAlbumByID(ctx, albumID); err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	genres, err := e.repo.DistinctGenresForAlbum(ctx, albumID)
	if err != nil {
		return err
	}
	if err := e.repo.UpdateAlbumGenres(ctx, albumID, uniqueSorted(genres)); err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	return nil
}

// Recompute refreshes the artist and every non-empty album id concurrently.
// One failing rollup does not cancel the others. Failures are logged and returned; the triggering write is never undone, so
// stale aggregates are fixed by the next triggering event.
func (e *RollupEngine) Recompute(ctx context.Context, artistID string, albumIDs ...string) error {
	var g errgroup.Group

	if artistID != "" {
		g.Go(func() error {
			if err := e.RecomputeArtistGenres(ctx, artistID); err != nil {
				logger.Error(logger.EventGenreRollup, "Artist genre rollup failed", logger.Fields(
					"artist_id", artistID,
					"error", err,
				))
				return err
			}
			return nil
		})
	}

	seen := make(map[string]bool)
	for _, albumID := range albumIDs {
		if albumID == "" || seen[albumID] {
			continue
		}
		seen[albumID] = true
		albumID := albumID
		g.Go(func() error {
			if err := e.RecomputeAlbumGenres(ctx, albumID); err != nil {
				logger.Error(logger.EventGenreRollup, "Album genre rollup failed", logger.Fields(
					"album_id", albumID,
					"error", err,
				))
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
