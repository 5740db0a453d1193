package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/annazecevic/catalog-service/domain"
	"go.mongodb.org/mongo-driver/mongo"
)

// fakeRepo is an in-memory CatalogRepository. WithTransaction snapshots the
// state and restores it when fn fails.
type fakeRepo struct {
	mu sync.Mutex

	genres     map[string]*domain.Genre
	artists    map[string]*domain.Artist
	albums     map[string]*domain.Album
	singles    map[string]*domain.Single
	metadata   map[string]*domain.Metadata
	copyrights map[string]*domain.Copyright
	stats      map[string]*domain.Stat

	// artistOrder fixes the order FindArtistsByIDs returns results in.
	artistOrder []string

	failCreateStat   error
	failCountByGenre error
	failDistinct     error
	transactions     int
	rolledBack       int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		genres:     map[string]*domain.Genre{},
		artists:    map[string]*domain.Artist{},
		albums:     map[string]*domain.Album{},
		singles:    map[string]*domain.Single{},
		metadata:   map[string]*domain.Metadata{},
		copyrights: map[string]*domain.Copyright{},
		stats:      map[string]*domain.Stat{},
	}
}

type fakeSnapshot struct {
	genres     map[string]domain.Genre
	artists    map[string]domain.Artist
	albums     map[string]domain.Album
	singles    map[string]domain.Single
	metadata   map[string]domain.Metadata
	copyrights map[string]domain.Copyright
	stats      map[string]domain.Stat
}

func copyMap[T any](src map[string]*T) map[string]T {
	out := make(map[string]T, len(src))
	for k, v := range src {
		out[k] = *v
	}
	return out
}

func restoreMap[T any](src map[string]T) map[string]*T {
	out := make(map[string]*T, len(src))
	for k, v := range src {
		v := v
		out[k] = &v
	}
	return out
}

func (r *fakeRepo) snapshot() fakeSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fakeSnapshot{
		genres:     copyMap(r.genres),
		artists:    copyMap(r.artists),
		albums:     copyMap(r.albums),
		singles:    copyMap(r.singles),
		metadata:   copyMap(r.metadata),
		copyrights: copyMap(r.copyrights),
		stats:      copyMap(r.stats),
	}
}

func (r *fakeRepo) restore(s fakeSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.genres = restoreMap(s.genres)
	r.artists = restoreMap(s.artists)
	r.albums = restoreMap(s.albums)
	r.singles = restoreMap(s.singles)
	r.metadata = restoreMap(s.metadata)
	r.copyrights = restoreMap(s.copyrights)
	r.stats = restoreMap(s.stats)
}

func (r *fakeRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := r.snapshot()
	r.mu.Lock()
	r.transactions++
	r.mu.Unlock()
	if err := fn(ctx); err != nil {
		r.restore(snap)
		r.mu.Lock()
		r.rolledBack++
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *fakeRepo) addArtist(a *domain.Artist) {
	r.artists[a.ID] = a
	r.artistOrder = append(r.artistOrder, a.ID)
}

func (r *fakeRepo) CreateGenre(ctx context.Context, g *domain.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *g
	r.genres[g.ID] = &c
	return nil
}

func (r *fakeRepo) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Genre{}
	for _, g := range r.genres {
		c := *g
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRepo) FindGenreByID(ctx context.Context, id string) (*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.genres[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *g
	return &c, nil
}

func (r *fakeRepo) FindGenreByName(ctx context.Context, name string) (*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.genres {
		if g.Name == name {
			c := *g
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRepo) FindGenresByIDs(ctx context.Context, ids []string) ([]*domain.Genre, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Genre{}
	for _, id := range ids {
		if g, ok := r.genres[id]; ok {
			c := *g
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeRepo) DeleteGenre(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.genres[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.genres, id)
	return nil
}

func (r *fakeRepo) CreateArtist(ctx context.Context, a *domain.Artist) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *a
	r.addArtist(&c)
	return nil
}

func (r *fakeRepo) FindArtistByID(ctx context.Context, id string) (*domain.Artist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.artists[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *a
	return &c, nil
}

func (r *fakeRepo) FindArtistByEmail(ctx context.Context, email string) (*domain.Artist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.artists {
		if a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// FindArtistsByIDs returns matches in insertion order, not in the order of ids.
func (r *fakeRepo) FindArtistsByIDs(ctx context.Context, ids []string) ([]*domain.Artist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	out := []*domain.Artist{}
	for _, id := range r.artistOrder {
		if a, ok := r.artists[id]; ok && want[id] {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateArtistGenres(ctx context.Context, id string, genreIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.artists[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	a.Genres = append([]string{}, genreIDs...)
	return nil
}

func (r *fakeRepo) UpdateArtistPopularity(ctx context.Context, id string, popularity int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.artists[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	a.Popularity = popularity
	return nil
}

func (r *fakeRepo) CreateAlbum(ctx context.Context, al *domain.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *al
	r.albums[al.ID] = &c
	return nil
}

func (r *fakeRepo) FindAlbumByID(ctx context.Context, id string) (*domain.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.albums[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *a
	return &c, nil
}

func (r *fakeRepo) FindAlbumsByArtistID(ctx context.Context, artistID string) ([]*domain.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Album{}
	for _, a := range r.albums {
		if a.ArtistID == artistID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *fakeRepo) UpdateAlbum(ctx context.Context, id string, updates map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.albums[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if title, ok := updates["title"].(string); ok {
		a.Title = title
	}
	return nil
}

func (r *fakeRepo) UpdateAlbumGenres(ctx context.Context, id string, genreIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.albums[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	a.GenreIDs = append([]string{}, genreIDs...)
	return nil
}

func (r *fakeRepo) DeleteAlbum(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.albums[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.albums, id)
	return nil
}

func (r *fakeRepo) CreateSingle(ctx context.Context, s *domain.Single) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *s
	r.singles[s.ID] = &c
	return nil
}

func (r *fakeRepo) FindSingleByID(ctx context.Context, id string) (*domain.Single, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.singles[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *s
	return &c, nil
}

func (r *fakeRepo) filterSingles(keep func(*domain.Single) bool) []*domain.Single {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Single{}
	for _, s := range r.singles {
		if keep(s) {
			c := *s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeRepo) FindSinglesByArtistID(ctx context.Context, artistID string) ([]*domain.Single, error) {
	return r.filterSingles(func(s *domain.Single) bool { return s.ArtistID == artistID }), nil
}

func (r *fakeRepo) FindSinglesByAlbumID(ctx context.Context, albumID string) ([]*domain.Single, error) {
	return r.filterSingles(func(s *domain.Single) bool { return s.AlbumID == albumID }), nil
}

func (r *fakeRepo) FindSinglesFeaturing(ctx context.Context, artistID string) ([]*domain.Single, error) {
	return r.filterSingles(func(s *domain.Single) bool {
		for _, id := range s.FeaturingIDs {
			if id == artistID {
				return true
			}
		}
		return false
	}), nil
}

func (r *fakeRepo) ReplaceSingle(ctx context.Context, s *domain.Single) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.singles[s.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	c := *s
	r.singles[s.ID] = &c
	return nil
}

func (r *fakeRepo) DetachSinglesFromAlbum(ctx context.Context, albumID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.singles {
		if s.AlbumID == albumID {
			s.AlbumID = ""
		}
	}
	return nil
}

func (r *fakeRepo) DeleteSingle(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.singles[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.singles, id)
	return nil
}

func (r *fakeRepo) CountSinglesByGenre(ctx context.Context, artistID string) ([]domain.GenreCount, error) {
	if r.failCountByGenre != nil {
		return nil, r.failCountByGenre
	}
	counts := map[string]int64{}
	for _, s := range r.filterSingles(func(s *domain.Single) bool { return s.ArtistID == artistID }) {
		counts[s.GenreID]++
	}
	out := []domain.GenreCount{}
	for id, n := range counts {
		out = append(out, domain.GenreCount{GenreID: id, Count: n})
	}
	return out, nil
}

func (r *fakeRepo) CountSinglesWithGenre(ctx context.Context, genreID string) (int64, error) {
	return int64(len(r.filterSingles(func(s *domain.Single) bool { return s.GenreID == genreID }))), nil
}

// DistinctGenresForAlbum returns raw genre ids, duplicates included, so the
// engine's own de-duplication is exercised.
func (r *fakeRepo) DistinctGenresForAlbum(ctx context.Context, albumID string) ([]string, error) {
	if r.failDistinct != nil {
		return nil, r.failDistinct
	}
	out := []string{}
	for _, s := range r.filterSingles(func(s *domain.Single) bool { return s.AlbumID == albumID }) {
		out = append(out, s.GenreID)
	}
	return out, nil
}

func (r *fakeRepo) findMetadata(keep func(*domain.Metadata) bool) (*domain.Metadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.metadata {
		if keep(m) {
			c := *m
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRepo) FindMetadataBySingleID(ctx context.Context, singleID string) (*domain.Metadata, error) {
	return r.findMetadata(func(m *domain.Metadata) bool { return m.SingleID == singleID })
}

func (r *fakeRepo) FindMetadataByAlbumID(ctx context.Context, albumID string) (*domain.Metadata, error) {
	return r.findMetadata(func(m *domain.Metadata) bool { return m.AlbumID == albumID })
}

func (r *fakeRepo) SaveMetadata(ctx context.Context, m *domain.Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *m
	r.metadata[m.ID] = &c
	return nil
}

func (r *fakeRepo) DeleteMetadata(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.metadata, id)
	for cid, c := range r.copyrights {
		if c.MetadataID == id {
			delete(r.copyrights, cid)
		}
	}
	return nil
}

func (r *fakeRepo) ReplaceCopyrights(ctx context.Context, metadataID string, copyrights []*domain.Copyright) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.copyrights {
		if c.MetadataID == metadataID {
			delete(r.copyrights, id)
		}
	}
	for _, c := range copyrights {
		cp := *c
		cp.MetadataID = metadataID
		r.copyrights[c.ID] = &cp
	}
	return nil
}

func (r *fakeRepo) FindCopyrightsByMetadataID(ctx context.Context, metadataID string) ([]*domain.Copyright, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Copyright{}
	for _, c := range r.copyrights {
		if c.MetadataID == metadataID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeRepo) CreateStat(ctx context.Context, s *domain.Stat) error {
	if r.failCreateStat != nil {
		return r.failCreateStat
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *s
	r.stats[s.ID] = &c
	return nil
}

func (r *fakeRepo) FindStatByID(ctx context.Context, id string) (*domain.Stat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stats[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *s
	return &c, nil
}

func (r *fakeRepo) FindStatBySingleID(ctx context.Context, singleID string) (*domain.Stat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.stats {
		if s.SingleID == singleID {
			c := *s
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeRepo) UpdateStat(ctx context.Context, s *domain.Stat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.stats[s.ID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	existing.ListensCount = s.ListensCount
	existing.Revenue = s.Revenue
	return nil
}

func (r *fakeRepo) DeleteStatBySingleID(ctx context.Context, singleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.stats {
		if s.SingleID == singleID {
			delete(r.stats, id)
		}
	}
	return nil
}

func (r *fakeRepo) SumListensForArtist(ctx context.Context, artistID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, st := range r.stats {
		if s, ok := r.singles[st.SingleID]; ok && s.ArtistID == artistID {
			total += st.ListensCount
		}
	}
	return total, nil
}

type sentAward struct {
	ArtistID string
	SingleID string
	Award    domain.Award
	Listens  int64
}

type fakeNotifier struct {
	mu           sync.Mutex
	awards       []sentAward
	publications []string
	err          error
}

func (n *fakeNotifier) SendAwardNotification(ctx context.Context, artist *domain.Artist, single *domain.Single, award domain.Award, listens int64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.awards = append(n.awards, sentAward{ArtistID: artist.ID, SingleID: single.ID, Award: award, Listens: listens})
	return n.err
}

func (n *fakeNotifier) SendPublicationNotification(ctx context.Context, artist *domain.Artist, single *domain.Single, album *domain.Album) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.publications = append(n.publications, single.ID)
	return n.err
}

var errBoom = errors.New("boom")
