package repository

import (
	"context"
	"fmt"
	"time"

	"video_ingest_service/internal/ingest/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mirrorMongoRepo struct {
	collection *mongo.Collection
	table      string
}

// NewMirrorMongoRepo create a mirror record store on a mongo collection
func NewMirrorMongoRepo(db *mongo.Database, collection, table string) RecordRepo {
	return &mirrorMongoRepo{collection: db.Collection(collection), table: table}
}

// Upsert set each field under "fields.<name>" on the document for (table, title)
func (r *mirrorMongoRepo) Upsert(ctx context.Context, title string, fields domain.MetadataRecord) (*domain.StoredRecord, error) {
	fields = fields.Normalize()
	now := time.Now().UTC()

	set := bson.M{"updated_at": now}
	for k, v := range fields {
		set["fields."+k] = v
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"table": r.table, "title": title},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("mirror upsert [%s]: %w", title, err)
	}

	rec := &domain.StoredRecord{Fields: map[string]any(fields)}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return rec, nil
}
