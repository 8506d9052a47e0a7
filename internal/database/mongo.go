// Package database is the MongoDB backend of the storage port.
package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"minimart/internal/store"
)

const (
	defaultTimeout = 5 * time.Second
	singletonID    = "primary"
)

// Connect dials MongoDB and checks the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		return nil, errors.New("MONGO_URI is required for the mongo backend")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// Mongo implements store.Backend on one database.
type Mongo struct {
	db      *mongo.Database
	timeout time.Duration
	now     func() time.Time
}

var _ store.Backend = (*Mongo)(nil)

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db, timeout: defaultTimeout, now: time.Now}
}

func (m *Mongo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.db.Client().Ping(ctx, readpref.Primary())
}

func (m *Mongo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.timeout)
}

func (m *Mongo) collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// idFilter matches documents by string id, and also by ObjectID when the id
// is a hex string, so documents written by older releases stay reachable.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{id, oid}}}
	}
	return bson.M{"_id": id}
}

// mapError translates driver errors into the storage port's sentinels.
func mapError(err error, op, collection string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.Wrap(store.ErrNotFound, op, collection)
	case mongo.IsDuplicateKeyError(err):
		return store.Wrap(store.ErrConflict, op, collection)
	default:
		log.Printf("[DB] [ERROR] %s %s: %v", op, collection, err)
		return store.Wrap(err, op, collection)
	}
}

// setDocument turns v into a $set update without its _id, so replacing a
// document never trips over an immutable or legacy-typed id.
func setDocument(v interface{}) (bson.M, error) {
	data, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	delete(doc, "_id")
	return bson.M{"$set": doc}, nil
}

func (m *Mongo) replace(ctx context.Context, collection, id string, v interface{}) error {
	update, err := setDocument(v)
	if err != nil {
		return store.Wrap(err, "replace", collection)
	}

	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	res, err := m.collection(collection).UpdateOne(ctx, idFilter(id), update)
	if err != nil {
		return mapError(err, "replace", collection)
	}
	if res.MatchedCount == 0 {
		return store.Wrap(store.ErrNotFound, "replace", collection)
	}
	return nil
}

func (m *Mongo) insert(ctx context.Context, collection string, v interface{}) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	_, err := m.collection(collection).InsertOne(ctx, v)
	return mapError(err, "create", collection)
}

func (m *Mongo) delete(ctx context.Context, collection, id string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	res, err := m.collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return mapError(err, "delete", collection)
	}
	if res.DeletedCount == 0 {
		return store.Wrap(store.ErrNotFound, "delete", collection)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
