package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("record not found")

// RecordStore is a generic create/read/update store over the
// collections of one database.
type RecordStore struct {
	db *mongo.Database
}

func NewRecordStore(db *mongo.Database) *RecordStore {
	return &RecordStore{db: db}
}

// Create inserts record and returns its id as a string
func (s *RecordStore) Create(ctx context.Context, collection string, record any) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, record)
	if err != nil {
		return "", fmt.Errorf("insert into %s: %w", collection, err)
	}
	switch id := res.InsertedID.(type) {
	case primitive.ObjectID:
		return id.Hex(), nil
	case string:
		return id, nil
	default:
		return fmt.Sprint(id), nil
	}
}

// Read decodes every document of collection matching filter into out,
// which must be a pointer to a slice.
func (s *RecordStore) Read(ctx context.Context, collection string, filter map[string]any, out any) error {
	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", collection, err)
	}
	return nil
}

// Update sets the fields of partial on the document with the given id
func (s *RecordStore) Update(ctx context.Context, collection, id string, partial map[string]any) error {
	res, err := s.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": partial})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

// idFilter matches an id stored either as a string or as an ObjectID
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}

// Delete removes the document with the given id
func (s *RecordStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}
