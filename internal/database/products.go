package database

import (
	"context"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"minimart/internal/models"
	"minimart/internal/store"
)

func productListFilter(filter store.ProductFilter) bson.M {
	query := bson.M{}
	if filter.ActiveOnly {
		query["isActive"] = bson.M{"$ne": false}
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		// legacy documents hold the category inside an array; $in matches both.
		query["category"] = bson.M{"$in": bson.A{category}}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}
	return query
}

func (m *Mongo) ListProducts(ctx context.Context, filter store.ProductFilter) ([]models.Product, int64, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	coll := m.collection(store.CollectionProducts)
	query := productListFilter(filter)

	total, err := coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, mapError(err, "count", store.CollectionProducts)
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}})
	if filter.Skip > 0 {
		findOptions.SetSkip(filter.Skip)
	}
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}

	cursor, err := coll.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, mapError(err, "list", store.CollectionProducts)
	}
	defer cursor.Close(ctx)

	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, 0, store.Wrap(err, "decode", store.CollectionProducts)
	}
	return products, total, nil
}

func (m *Mongo) GetProduct(ctx context.Context, id string) (models.Product, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var raw bson.M
	if err := m.collection(store.CollectionProducts).FindOne(ctx, idFilter(id)).Decode(&raw); err != nil {
		return models.Product{}, mapError(err, "get", store.CollectionProducts)
	}
	p, err := normalizeProductDocument(raw)
	if err != nil {
		return models.Product{}, store.Wrap(err, "decode", store.CollectionProducts)
	}
	return p, nil
}

func (m *Mongo) CreateProduct(ctx context.Context, p models.Product) error {
	return m.insert(ctx, store.CollectionProducts, p)
}

func (m *Mongo) ReplaceProduct(ctx context.Context, p models.Product) error {
	return m.replace(ctx, store.CollectionProducts, p.ID, p)
}

func (m *Mongo) DeleteProduct(ctx context.Context, id string) error {
	return m.delete(ctx, store.CollectionProducts, id)
}

// stockPipeline sets stock to max(0, stock+delta) inside a single update so
// concurrent adjustments never read a stale value.
func stockPipeline(delta int, at interface{}) mongo.Pipeline {
	current := bson.M{"$convert": bson.M{
		"input":   bson.M{"$ifNull": bson.A{"$stock", 0}},
		"to":      "int",
		"onError": 0,
		"onNull":  0,
	}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "stock", Value: bson.M{"$max": bson.A{0, bson.M{"$add": bson.A{current, delta}}}}},
			{Key: "updatedAt", Value: at},
		}}},
	}
}

func (m *Mongo) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var raw bson.M
	err := m.collection(store.CollectionProducts).
		FindOneAndUpdate(ctx, idFilter(id), stockPipeline(delta, m.now().UTC()), opts).
		Decode(&raw)
	if err != nil {
		return 0, mapError(err, "adjust stock", store.CollectionProducts)
	}
	return toInt(raw["stock"]), nil
}
