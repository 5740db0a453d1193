package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogRepository is the persistence boundary of the catalog. Find* methods
// return mongo.ErrNoDocuments when nothing matches.
type CatalogRepository interface {
	// WithTransaction runs fn in a single store transaction. Repository calls
	// made with the ctx handed to fn join it.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	CreateGenre(ctx context.Context, g *domain.Genre) error
	ListGenres(ctx context.Context) ([]*domain.Genre, error)
	FindGenreByID(ctx context.Context, id string) (*domain.Genre, error)
	FindGenreByName(ctx context.Context, name string) (*domain.Genre, error)
	FindGenresByIDs(ctx context.Context, ids []string) ([]*domain.Genre, error)
	DeleteGenre(ctx context.Context, id string) error

	CreateArtist(ctx context.Context, a *domain.Artist) error
	FindArtistByID(ctx context.Context, id string) (*domain.Artist, error)
	FindArtistByEmail(ctx context.Context, email string) (*domain.Artist, error)
	FindArtistsByIDs(ctx context.Context, ids []string) ([]*domain.Artist, error)
	UpdateArtistGenres(ctx context.Context, id string, genreIDs []string) error
	UpdateArtistPopularity(ctx context.Context, id string, popularity int64) error

	CreateAlbum(ctx context.Context, al *domain.Album) error
	FindAlbumByID(ctx context.Context, id string) (*domain.Album, error)
	FindAlbumsByArtistID(ctx context.Context, artistID string) ([]*domain.Album, error)
	UpdateAlbum(ctx context.Context, id string, updates map[string]interface{}) error
	UpdateAlbumGenres(ctx context.Context, id string, genreIDs []string) error
	DeleteAlbum(ctx context.Context, id string) error

	CreateSingle(ctx context.Context, s *domain.Single) error
	FindSingleByID(ctx context.Context, id string) (*domain.Single, error)
	FindSinglesByArtistID(ctx context.Context, artistID string) ([]*domain.Single, error)
	FindSinglesByAlbumID(ctx context.Context, albumID string) ([]*domain.Single, error)
	FindSinglesFeaturing(ctx context.Context, artistID string) ([]*domain.Single, error)
	ReplaceSingle(ctx context.Context, s *domain.Single) error
	DetachSinglesFromAlbum(ctx context.Context, albumID string) error
	DeleteSingle(ctx context.Context, id string) error

	CountSinglesByGenre(ctx context.Context, artistID string) ([]domain.GenreCount, error)
	CountSinglesWithGenre(ctx context.Context, genreID string) (int64, error)
	DistinctGenresForAlbum(ctx context.Context, albumID string) ([]string, error)

	FindMetadataBySingleID(ctx context.Context, singleID string) (*domain.Metadata, error)
	FindMetadataByAlbumID(ctx context.Context, albumID string) (*domain.Metadata, error)
	SaveMetadata(ctx context.Context, m *domain.Metadata) error
	DeleteMetadata(ctx context.Context, id string) error

	ReplaceCopyrights(ctx context.Context, metadataID string, copyrights []*domain.Copyright) error
	FindCopyrightsByMetadataID(ctx context.Context, metadataID string) ([]*domain.Copyright, error)

	CreateStat(ctx context.Context, s *domain.Stat) error
	FindStatByID(ctx context.Context, id string) (*domain.Stat, error)
	FindStatBySingleID(ctx context.Context, singleID string) (*domain.Stat, error)
	UpdateStat(ctx context.Context, s *domain.Stat) error
	DeleteStatBySingleID(ctx context.Context, singleID string) error
	SumListensForArtist(ctx context.Context, artistID string) (int64, error)
}

type catalogRepository struct {
	client *mongo.Client

	genresCol     *mongo.Collection
	artistsCol    *mongo.Collection
	albumsCol     *mongo.Collection
	singlesCol    *mongo.Collection
	metadataCol   *mongo.Collection
	copyrightsCol *mongo.Collection
	statsCol      *mongo.Collection
}

func NewCatalogRepository(client *mongo.Client, db *mongo.Database) CatalogRepository {
	r := &catalogRepository{
		client:        client,
		genresCol:     db.Collection("genres"),
		artistsCol:    db.Collection("artists"),
		albumsCol:     db.Collection("albums"),
		singlesCol:    db.Collection("singles"),
		metadataCol:   db.Collection("metadata"),
		copyrightsCol: db.Collection("copyrights"),
		statsCol:      db.Collection("stats"),
	}
	r.ensureIndexes()
	return r
}

func (r *catalogRepository) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unique := func(keys ...string) mongo.IndexModel {
		m := index(keys...)
		m.Options = options.Index().SetUnique(true)
		return m
	}

	plan := map[*mongo.Collection][]mongo.IndexModel{
		r.genresCol:     {unique("id"), unique("name")},
		r.artistsCol:    {unique("id"), unique("email")},
		r.albumsCol:     {unique("id"), index("artist_id")},
		r.singlesCol:    {unique("id"), index("artist_id", "genre_id"), index("album_id"), index("featuring_ids")},
		r.metadataCol:   {unique("id"), index("single_id"), index("album_id")},
		r.copyrightsCol: {unique("id"), index("metadata_id", "seq")},
		r.statsCol:      {unique("id"), unique("single_id")},
	}
	for col, models := range plan {
		if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
			logger.Warn(logger.EventDBError, "Failed to create indexes", logger.Fields(
				"collection", col.Name(),
				"error", err.Error(),
			))
		}
	}
}

func index(keys ...string) mongo.IndexModel {
	d := bson.D{}
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: 1})
	}
	return mongo.IndexModel{Keys: d}
}

func (r *catalogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(context.Background())

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

func (r *catalogRepository) CreateGenre(ctx context.Context, g *domain.Genre) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.genresCol.InsertOne(ctx, g)
	return err
}

func (r *catalogRepository) ListGenres(ctx context.Context) ([]*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := r.genresCol.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	out := []*domain.Genre{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogRepository) FindGenreByID(ctx context.Context, id string) (*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var g domain.Genre
	if err := r.genresCol.FindOne(ctx, bson.M{"id": id}).Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *catalogRepository) FindGenreByName(ctx context.Context, name string) (*domain.Genre, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var g domain.Genre
	if err := r.genresCol.FindOne(ctx, bson.M{"name": name}).Decode(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *catalogRepository) FindGenresByIDs(ctx context.Context, ids []string) ([]*domain.Genre, error) {
	out := []*domain.Genre{}
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cur, err := r.genresCol.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogRepository) DeleteGenre(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.genresCol.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *catalogRepository) CreateArtist(ctx context.Context, a *domain.Artist) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.artistsCol.InsertOne(ctx, a)
	return err
}

func (r *catalogRepository) FindArtistByID(ctx context.Context, id string) (*domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var artist domain.Artist
	if err := r.artistsCol.FindOne(ctx, bson.M{"id": id}).Decode(&artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

func (r *catalogRepository) FindArtistByEmail(ctx context.Context, email string) (*domain.Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var artist domain.Artist
	if err := r.artistsCol.FindOne(ctx, bson.M{"email": email}).Decode(&artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// FindArtistsByIDs resolves the whole id set in one query. Result order is
// the store's natural order, not the order of ids.
func (r *catalogRepository) FindArtistsByIDs(ctx context.Context, ids []string) ([]*domain.Artist, error) {
	out := []*domain.Artist{}
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cur, err := r.artistsCol.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogRepository) UpdateArtistGenres(ctx context.Context, id string, genreIDs []string) error {
	return r.setFields(ctx, r.artistsCol, id, bson.M{"genres": genreIDs})
}

func (r *catalogRepository) UpdateArtistPopularity(ctx context.Context, id string, popularity int64) error {
	return r.setFields(ctx, r.artistsCol, id, bson.M{"popularity": popularity})
}

// setFields applies $set to the document with the given id and stamps updated_at.
func (r *catalogRepository) setFields(ctx context.Context, col *mongo.Collection, id string, updates bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()

	result, err := col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": updates})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
