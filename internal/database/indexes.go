package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"minimart/internal/store"
)

// EnsureIndexes creates the indexes the backend relies on. It is safe to run
// on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	plan := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{store.CollectionProducts, mongo.IndexModel{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("category_createdAt"),
		}},
		{store.CollectionCategories, mongo.IndexModel{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("name_unique").SetUnique(true),
		}},
		{store.CollectionOrders, mongo.IndexModel{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_index"),
		}},
		{store.CollectionOrders, mongo.IndexModel{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_index"),
		}},
		{store.CollectionOrders, mongo.IndexModel{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetName("phone_index"),
		}},
	}

	for _, idx := range plan {
		name := *idx.model.Options.Name
		log.Printf("[DB] [INFO] ensuring index %s.%s", idx.collection, name)
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			log.Printf("[DB] [ERROR] index %s.%s: %v", idx.collection, name, err)
			return err
		}
	}
	return nil
}
