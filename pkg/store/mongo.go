package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/psdrank/pkg/errors"
)

// MongoStore persists entries in a MongoDB collection, one document per
// isomorphism class with the store key as _id.
//
// The monotonic merge is pushed into the update filter: an UpdateOne only
// matches when the stored window is strictly improvable by the incoming one,
// so concurrent savers cannot loosen each other's windows without any
// client-side locking.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoEntry is the document shape for a stored window.
type mongoEntry struct {
	Key string `bson:"_id"`
	DLo int    `bson:"d_lo"`
	DHi int    `bson:"d_hi"`
}

// NewMongoStore connects to MongoDB and opens the bounds collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Load retrieves the entry for key.
func (s *MongoStore) Load(ctx context.Context, key string) (Entry, bool, error) {
	var doc mongoEntry
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(errors.ErrCodeStore, err, "load entry for %s", key)
	}
	e := Entry{DLo: doc.DLo, DHi: doc.DHi}
	if !e.Valid() {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Save merges the entry into the stored state for key.
func (s *MongoStore) Save(ctx context.Context, key string, e Entry) (bool, error) {
	if !e.Valid() {
		return false, errors.New(errors.ErrCodeInternal, "invalid window [%d, %d]", e.DLo, e.DHi)
	}

	// Match only documents the incoming window improves; the two branches
	// mirror the monotonic rule.
	filter := bson.M{
		"_id": key,
		"$or": bson.A{
			bson.M{"d_lo": bson.M{"$lt": e.DLo}, "d_hi": bson.M{"$gte": e.DHi}},
			bson.M{"d_lo": bson.M{"$lte": e.DLo}, "d_hi": bson.M{"$gt": e.DHi}},
		},
	}
	update := bson.M{"$set": bson.M{"d_lo": e.DLo, "d_hi": e.DHi}}

	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStore, err, "save entry for %s", key)
	}
	if res.ModifiedCount > 0 {
		return true, nil
	}

	// No improvable document matched: either the key is new or the stored
	// window is already at least as tight. Insert handles the first case; a
	// duplicate-key error means a concurrent saver won the insert and the
	// conditional update above already had its say.
	_, err = s.coll.InsertOne(ctx, mongoEntry{Key: key, DLo: e.DLo, DHi: e.DHi})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeStore, err, "insert entry for %s", key)
	}
	return true, nil
}

// Clear drops every stored window.
func (s *MongoStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "clear bounds collection")
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
