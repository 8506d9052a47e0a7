package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"minimart/internal/models"
	"minimart/internal/store"
)

/* =======================
   CATEGORIES
======================= */

func (m *Mongo) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	cursor, err := m.collection(store.CollectionCategories).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, mapError(err, "list", store.CollectionCategories)
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, store.Wrap(err, "decode", store.CollectionCategories)
		}
		c, err := decodeCategory(raw)
		if err != nil {
			return nil, store.Wrap(err, "decode", store.CollectionCategories)
		}
		categories = append(categories, c)
	}
	if err := cursor.Err(); err != nil {
		return nil, mapError(err, "list", store.CollectionCategories)
	}
	return categories, nil
}

func decodeCategory(raw bson.M) (models.Category, error) {
	raw["_id"] = normalizeID(raw["_id"])
	raw["createdAt"] = toTime(raw["createdAt"], time.Time{})
	var c models.Category
	err := remarshal(raw, &c)
	return c, err
}

func (m *Mongo) GetCategory(ctx context.Context, id string) (models.Category, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var raw bson.M
	if err := m.collection(store.CollectionCategories).FindOne(ctx, idFilter(id)).Decode(&raw); err != nil {
		return models.Category{}, mapError(err, "get", store.CollectionCategories)
	}
	c, err := decodeCategory(raw)
	if err != nil {
		return models.Category{}, store.Wrap(err, "decode", store.CollectionCategories)
	}
	return c, nil
}

// CreateCategory relies on the name_unique index for duplicate names.
func (m *Mongo) CreateCategory(ctx context.Context, c models.Category) error {
	return m.insert(ctx, store.CollectionCategories, c)
}

func (m *Mongo) ReplaceCategory(ctx context.Context, c models.Category) error {
	return m.replace(ctx, store.CollectionCategories, c.ID, c)
}

func (m *Mongo) DeleteCategory(ctx context.Context, id string) error {
	return m.delete(ctx, store.CollectionCategories, id)
}

/* =======================
   BANNERS
======================= */

func (m *Mongo) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if activeOnly {
		query["isActive"] = bson.M{"$ne": false}
	}
	cursor, err := m.collection(store.CollectionBanners).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, mapError(err, "list", store.CollectionBanners)
	}
	defer cursor.Close(ctx)

	banners := make([]models.Banner, 0)
	if err := cursor.All(ctx, &banners); err != nil {
		return nil, store.Wrap(err, "decode", store.CollectionBanners)
	}
	return banners, nil
}

func (m *Mongo) GetBanner(ctx context.Context, id string) (models.Banner, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var b models.Banner
	if err := m.collection(store.CollectionBanners).FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return models.Banner{}, mapError(err, "get", store.CollectionBanners)
	}
	return b, nil
}

func (m *Mongo) CreateBanner(ctx context.Context, b models.Banner) error {
	return m.insert(ctx, store.CollectionBanners, b)
}

func (m *Mongo) ReplaceBanner(ctx context.Context, b models.Banner) error {
	return m.replace(ctx, store.CollectionBanners, b.ID, b)
}

func (m *Mongo) DeleteBanner(ctx context.Context, id string) error {
	return m.delete(ctx, store.CollectionBanners, id)
}

/* =======================
   HERO
======================= */

func (m *Mongo) GetHero(ctx context.Context) (models.Hero, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var h models.Hero
	err := m.collection(store.CollectionHero).FindOne(ctx, bson.M{"_id": singletonID}).Decode(&h)
	if err != nil {
		return models.Hero{}, mapError(err, "get", store.CollectionHero)
	}
	return h, nil
}

func (m *Mongo) SetHero(ctx context.Context, h models.Hero) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	_, err := m.collection(store.CollectionHero).UpdateOne(ctx,
		bson.M{"_id": singletonID},
		bson.M{"$set": bson.M{"imageUrl": h.ImageURL, "updatedAt": h.UpdatedAt}},
		options.Update().SetUpsert(true),
	)
	return mapError(err, "set", store.CollectionHero)
}
