package repository

import (
	"context"
	"time"

	"github.com/annazecevic/catalog-service/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *catalogRepository) FindMetadataBySingleID(ctx context.Context, singleID string) (*domain.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var m domain.Metadata
	if err := r.metadataCol.FindOne(ctx, bson.M{"single_id": singleID}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *catalogRepository) FindMetadataByAlbumID(ctx context.Context, albumID string) (*domain.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var m domain.Metadata
	if err := r.metadataCol.FindOne(ctx, bson.M{"album_id": albumID}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMetadata inserts or fully replaces the metadata document keyed by m.ID.
func (r *catalogRepository) SaveMetadata(ctx context.Context, m *domain.Metadata) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.metadataCol.ReplaceOne(ctx, bson.M{"id": m.ID}, m, options.Replace().SetUpsert(true))
	return err
}

func (r *catalogRepository) DeleteMetadata(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := r.metadataCol.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return err
	}
	_, err := r.copyrightsCol.DeleteMany(ctx, bson.M{"metadata_id": id})
	return err
}

// ReplaceCopyrights drops every copyright attached to metadataID and writes
// the given set in its place.
func (r *catalogRepository) ReplaceCopyrights(ctx context.Context, metadataID string, copyrights []*domain.Copyright) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := r.copyrightsCol.DeleteMany(ctx, bson.M{"metadata_id": metadataID}); err != nil {
		return err
	}
	if len(copyrights) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(copyrights))
	for _, c := range copyrights {
		c.MetadataID = metadataID
		docs = append(docs, c)
	}
	_, err := r.copyrightsCol.InsertMany(ctx, docs)
	return err
}

func (r *catalogRepository) FindCopyrightsByMetadataID(ctx context.Context, metadataID string) ([]*domain.Copyright, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cur, err := r.copyrightsCol.Find(ctx, bson.M{"metadata_id": metadataID}, opts)
	if err != nil {
		return nil, err
	}
	out := []*domain.Copyright{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *catalogRepository) CreateStat(ctx context.Context, s *domain.Stat) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.statsCol.InsertOne(ctx, s)
	return err
}

func (r *catalogRepository) FindStatByID(ctx context.Context, id string) (*domain.Stat, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var s domain.Stat
	if err := r.statsCol.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *catalogRepository) FindStatBySingleID(ctx context.Context, singleID string) (*domain.Stat, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var s domain.Stat
	if err := r.statsCol.FindOne(ctx, bson.M{"single_id": singleID}).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *catalogRepository) UpdateStat(ctx context.Context, s *domain.Stat) error {
	return r.setFields(ctx, r.statsCol, s.ID, bson.M{
		"listens_count": s.ListensCount,
		"revenue":       s.Revenue,
	})
}

func (r *catalogRepository) DeleteStatBySingleID(ctx context.Context, singleID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := r.statsCol.DeleteMany(ctx, bson.M{"single_id": singleID})
	return err
}

// SumListensForArtist totals listens over the singles the artist owns. The
// pipeline starts from the artist's singles so only their stats are joined.
func (r *catalogRepository) SumListensForArtist(ctx context.Context, artistID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "artist_id", Value: artistID}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: r.statsCol.Name()},
			{Key: "localField", Value: "id"},
			{Key: "foreignField", Value: "single_id"},
			{Key: "as", Value: "stat"},
		}}},
		{{Key: "$unwind", Value: "$stat"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$stat.listens_count"}}},
		}}},
	}
	cur, err := r.singlesCol.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
