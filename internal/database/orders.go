package database

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"minimart/internal/models"
	"minimart/internal/store"
)

// orderIDFilter also matches documents that kept their readable id in an
// orderId field next to an ObjectID _id.
func orderIDFilter(id string) bson.M {
	return bson.M{"$or": bson.A{idFilter(id), bson.M{"orderId": id}}}
}

var terminalStatuses = bson.A{string(models.StatusDelivered), string(models.StatusCancelled)}

func (m *Mongo) CreateOrder(ctx context.Context, o models.Order) error {
	return m.insert(ctx, store.CollectionOrders, o)
}

func (m *Mongo) GetOrder(ctx context.Context, id string) (models.Order, error) {
	return m.findOrder(ctx, "get", orderIDFilter(id))
}

// FindOrder matches the id case-insensitively and the phone exactly.
func (m *Mongo) FindOrder(ctx context.Context, id, phone string) (models.Order, error) {
	pattern := bson.M{"$regex": "^" + regexp.QuoteMeta(id) + "$", "$options": "i"}
	return m.findOrder(ctx, "find", bson.M{
		"phone": phone,
		"$or":   bson.A{bson.M{"_id": pattern}, bson.M{"orderId": pattern}},
	})
}

func (m *Mongo) findOrder(ctx context.Context, op string, filter bson.M) (models.Order, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var raw bson.M
	if err := m.collection(store.CollectionOrders).FindOne(ctx, filter).Decode(&raw); err != nil {
		return models.Order{}, mapError(err, op, store.CollectionOrders)
	}
	o, err := normalizeOrderDocument(raw, m.now().UTC())
	if err != nil {
		return models.Order{}, store.Wrap(err, "decode", store.CollectionOrders)
	}
	return o, nil
}

func (m *Mongo) ListOrders(ctx context.Context, filter store.OrderFilter) ([]models.Order, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	cursor, err := m.collection(store.CollectionOrders).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}))
	if err != nil {
		return nil, mapError(err, "list", store.CollectionOrders)
	}
	defer cursor.Close(ctx)

	list, err := decodeOrders(ctx, cursor, m.now().UTC())
	if err != nil {
		return nil, store.Wrap(err, "decode", store.CollectionOrders)
	}
	return list, nil
}

// UpdateOrderStatus only writes when the stored status is not terminal. The
// bool reports whether the write happened; the order is returned either way.
func (m *Mongo) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus, at time.Time) (models.Order, bool, error) {
	wctx, cancel := m.withTimeout(ctx)
	defer cancel()

	filter := orderIDFilter(id)
	filter["status"] = bson.M{"$nin": terminalStatuses}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var raw bson.M
	err := m.collection(store.CollectionOrders).FindOneAndUpdate(wctx, filter,
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": at}}, opts).Decode(&raw)
	if err == nil {
		o, err := normalizeOrderDocument(raw, m.now().UTC())
		if err != nil {
			return models.Order{}, false, store.Wrap(err, "decode", store.CollectionOrders)
		}
		return o, true, nil
	}

	mapped := mapError(err, "update status", store.CollectionOrders)
	if !isNotFound(mapped) {
		return models.Order{}, false, mapped
	}
	// Either missing or already terminal; a plain read tells which.
	current, err := m.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, false, err
	}
	return current, false, nil
}

// SwapStockMarker moves the marker from -> to only if it still reads from.
// Legacy documents without a marker count as "none".
func (m *Mongo) SwapStockMarker(ctx context.Context, id string, from, to models.StockAdjustment, at time.Time) (bool, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	marker := bson.M{"stockAdjusted": string(from)}
	if from == models.StockNone {
		marker = bson.M{"$or": bson.A{
			bson.M{"stockAdjusted": string(from)},
			bson.M{"stockAdjusted": bson.M{"$exists": false}},
			bson.M{"stockAdjusted": ""},
		}}
	}
	filter := bson.M{"$and": bson.A{orderIDFilter(id), marker}}

	res, err := m.collection(store.CollectionOrders).UpdateOne(ctx, filter,
		bson.M{"$set": bson.M{"stockAdjusted": string(to), "updatedAt": at}})
	if err != nil {
		return false, mapError(err, "swap stock marker", store.CollectionOrders)
	}
	if res.ModifiedCount == 0 {
		if _, err := m.GetOrder(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (m *Mongo) DeleteOrder(ctx context.Context, id string) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	res, err := m.collection(store.CollectionOrders).DeleteOne(ctx, orderIDFilter(id))
	if err != nil {
		return mapError(err, "delete", store.CollectionOrders)
	}
	if res.DeletedCount == 0 {
		return store.Wrap(store.ErrNotFound, "delete", store.CollectionOrders)
	}
	return nil
}

/* =======================
   CREDENTIALS
======================= */

func (m *Mongo) GetCredentials(ctx context.Context) (models.AdminCredentials, error) {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	var c models.AdminCredentials
	err := m.collection(store.CollectionCredentials).FindOne(ctx, bson.M{"_id": singletonID}).Decode(&c)
	if err != nil {
		return models.AdminCredentials{}, mapError(err, "get", store.CollectionCredentials)
	}
	return c, nil
}

func (m *Mongo) PutCredentials(ctx context.Context, c models.AdminCredentials) error {
	ctx, cancel := m.withTimeout(ctx)
	defer cancel()

	_, err := m.collection(store.CollectionCredentials).UpdateOne(ctx,
		bson.M{"_id": singletonID},
		bson.M{"$set": bson.M{
			"username":     c.Username,
			"passwordHash": c.PasswordHash,
			"updatedAt":    c.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return mapError(err, "put", store.CollectionCredentials)
}
