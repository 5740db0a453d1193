package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/dto"
)

// CopyrightEntry is one candidate revenue share before it is persisted.
type CopyrightEntry struct {
	ArtistID   string
	OwnerName  string
	Role       string
	Percentage float64
}

// ArtistResolver resolves a set of artist ids in a single lookup.
type ArtistResolver interface {
	FindArtistsByIDs(ctx context.Context, ids []string) ([]*domain.Artist, error)
}

func copyrightEntries(reqs []dto.CopyrightRequest) []CopyrightEntry {
	entries := make([]CopyrightEntry, 0, len(reqs))
	for _, r := range reqs {
		e := CopyrightEntry{Role: strings.TrimSpace(r.Role)}
		if r.ArtistID != nil {
			e.ArtistID = strings.TrimSpace(*r.ArtistID)
		}
		if r.OwnerName != nil {
			e.OwnerName = strings.TrimSpace(*r.OwnerName)
		}
		if r.Percentage != nil {
			e.Percentage = *r.Percentage
		} else {
			e.Percentage = -1
		}
		entries = append(entries, e)
	}
	return entries
}

// CheckCopyrightStructure rejects entries that name both or neither of an
// artist and a free-text owner, or carry a percentage outside [0,100].
func CheckCopyrightStructure(entries []CopyrightEntry) error {
	if len(entries) == 0 {
		return fieldError(ErrInvalidCopyright, "copyrights", "at least one copyright is required")
	}
	for i, e := range entries {
		field := fmt.Sprintf("copyrights[%d]", i)
		if (e.ArtistID == "") == (e.OwnerName == "") {
			return fieldError(ErrInvalidCopyright, field, "")
		}
		if e.Percentage < 0 || e.Percentage > 100 {
			return fieldError(ErrInvalidCopyright, field+".percentage", "percentage must be between 0 and 100")
		}
	}
	return nil
}

// ResolveCopyrightArtists looks up every distinct referenced artist at once.
// A partial match fails the whole set.
func ResolveCopyrightArtists(ctx context.Context, resolver ArtistResolver, entries []CopyrightEntry) ([]*domain.Artist, error) {
	seen := make(map[string]bool)
	ids := []string{}
	for _, e := range entries {
		if e.ArtistID != "" && !seen[e.ArtistID] {
			seen[e.ArtistID] = true
			ids = append(ids, e.ArtistID)
		}
	}
	if len(ids) == 0 {
		return []*domain.Artist{}, nil
	}

	artists, err := resolver.FindArtistsByIDs(ctx, ids)
	if err != nil {
		return nil, internalError(err)
	}
	if len(artists) != len(ids) {
		return nil, fieldError(ErrArtistNotFound, "copyrights", "one or more copyright artists do not exist")
	}
	return artists, nil
}

// CheckCopyrightSum requires the shares to add up to exactly 100.
func CheckCopyrightSum(entries []CopyrightEntry) error {
	var sum float64
	for _, e := range entries {
		sum += e.Percentage
	}
	if sum != 100 {
		return fieldError(ErrPercentageMismatch, "copyrights",
			fmt.Sprintf("copyright percentages add up to %v, expected 100", sum))
	}
	return nil
}

// ValidateCopyrights checks structure, then artist existence, then the
// percentage sum, and returns the resolved artists in lookup order.
func ValidateCopyrights(ctx context.Context, resolver ArtistResolver, entries []CopyrightEntry) ([]*domain.Artist, error) {
	if err := CheckCopyrightStructure(entries); err != nil {
		return nil, err
	}
	artists, err := ResolveCopyrightArtists(ctx, resolver, entries)
	if err != nil {
		return nil, err
	}
	if err := CheckCopyrightSum(entries); err != nil {
		return nil, err
	}
	return artists, nil
}

// featuringArtists keeps the resolved artists other than the owner.
func featuringArtists(resolved []*domain.Artist, ownerID string) []*domain.Artist {
	out := []*domain.Artist{}
	for _, a := range resolved {
		if a.ID != ownerID {
			out = append(out, a)
		}
	}
	return out
}

func persistedEntries(copyrights []*domain.Copyright) []CopyrightEntry {
	entries := make([]CopyrightEntry, 0, len(copyrights))
	for _, c := range copyrights {
		entries = append(entries, CopyrightEntry{
			ArtistID:   c.ArtistID,
			OwnerName:  c.OwnerName,
			Role:       c.Role,
			Percentage: c.Percentage,
		})
	}
	return entries
}
