package repository

import (
	"context"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *catalogRepository) CreateAlbum(ctx context.Context, al *domain.Album) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.albumsCol.InsertOne(ctx, al)
	return err
}

func (r *catalogRepository) FindAlbumByID(ctx context.Context, id string) (*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var album domain.Album
	if err := r.albumsCol.FindOne(ctx, bson.M{"id": id}).Decode(&album); err != nil {
		return nil, err
	}
	return &album, nil
}

func (r *catalogRepository) FindAlbumsByArtistID(ctx context.Context, artistID string) ([]*domain.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.albumsCol.Find(ctx, bson.M{"artist_id": artistID}, opts)
	if err != nil {
		return nil, err
	}
	out := []*domain.Album{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogRepository) UpdateAlbum(ctx context.Context, id string, updates map[string]interface{}) error {
	return r.setFields(ctx, r.albumsCol, id, bson.M(updates))
}

func (r *catalogRepository) UpdateAlbumGenres(ctx context.Context, id string, genreIDs []string) error {
	return r.setFields(ctx, r.albumsCol, id, bson.M{"genre_ids": genreIDs})
}

func (r *catalogRepository) DeleteAlbum(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.albumsCol.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *catalogRepository) CreateSingle(ctx context.Context, s *domain.Single) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.singlesCol.InsertOne(ctx, s)
	return err
}

func (r *catalogRepository) FindSingleByID(ctx context.Context, id string) (*domain.Single, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var single domain.Single
	if err := r.singlesCol.FindOne(ctx, bson.M{"id": id}).Decode(&single); err != nil {
		return nil, err
	}
	return &single, nil
}

func (r *catalogRepository) findSingles(ctx context.Context, filter bson.M) ([]*domain.Single, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.singlesCol.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []*domain.Single{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogRepository) FindSinglesByArtistID(ctx context.Context, artistID string) ([]*domain.Single, error) {
	return r.findSingles(ctx, bson.M{"artist_id": artistID})
}

func (r *catalogRepository) FindSinglesByAlbumID(ctx context.Context, albumID string) ([]*domain.Single, error) {
	return r.findSingles(ctx, bson.M{"album_id": albumID})
}

func (r *catalogRepository) FindSinglesFeaturing(ctx context.Context, artistID string) ([]*domain.Single, error) {
	return r.findSingles(ctx, bson.M{"featuring_ids": artistID})
}

func (r *catalogRepository) ReplaceSingle(ctx context.Context, s *domain.Single) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.singlesCol.ReplaceOne(ctx, bson.M{"id": s.ID}, s)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *catalogRepository) DetachSinglesFromAlbum(ctx context.Context, albumID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, err := r.singlesCol.UpdateMany(ctx,
		bson.M{"album_id": albumID},
		bson.M{
			"$unset": bson.M{"album_id": ""},
			"$set":   bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

func (r *catalogRepository) DeleteSingle(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := r.singlesCol.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// CountSinglesByGenre groups the artist's own singles by genre. Featured
// appearances are not counted.
func (r *catalogRepository) CountSinglesByGenre(ctx context.Context, artistID string) ([]domain.GenreCount, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "artist_id", Value: artistID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$genre_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.singlesCol.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := []domain.GenreCount{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogRepository) CountSinglesWithGenre(ctx context.Context, genreID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.singlesCol.CountDocuments(ctx, bson.M{"genre_id": genreID})
}

func (r *catalogRepository) DistinctGenresForAlbum(ctx context.Context, albumID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	values, err := r.singlesCol.Distinct(ctx, "genre_id", bson.M{"album_id": albumID})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			out = append(out, id)
		}
	}
	return out, nil
}
