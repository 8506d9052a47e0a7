package database

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"minimart/internal/models"
	"minimart/internal/orders"
)

// Documents written by earlier releases differ from the current models:
// ObjectID ids, category arrays, stock stored as any numeric type, totals
// under totalAmount, createdAt as an ISO string, missing markers. They are
// normalized here on read and never rewritten.

func normalizeProductDocument(raw bson.M) (models.Product, error) {
	raw["_id"] = normalizeID(raw["_id"])

	switch cat := raw["category"].(type) {
	case bson.A:
		raw["category"] = firstString(cat)
	case []interface{}:
		raw["category"] = firstString(cat)
	case string:
	default:
		raw["category"] = ""
	}

	raw["price"] = toFloat(raw["price"])
	raw["discount"] = toFloat(raw["discount"])
	raw["stock"] = toInt(raw["stock"])

	switch active := raw["isActive"].(type) {
	case bool:
	case string:
		raw["isActive"] = active != "false"
	default:
		raw["isActive"] = true
	}

	created := toTime(raw["createdAt"], time.Time{})
	raw["createdAt"] = created
	raw["updatedAt"] = toTime(raw["updatedAt"], created)

	var p models.Product
	if err := remarshal(raw, &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// normalizeOrderDocument also needs a fallback for createdAt; documents with
// none at all are stamped with now.
func normalizeOrderDocument(raw bson.M, now time.Time) (models.Order, error) {
	id := normalizeID(raw["_id"])
	if legacy, ok := raw["orderId"].(string); ok && strings.TrimSpace(legacy) != "" {
		id = legacy
	}
	raw["_id"] = id

	total := raw["total"]
	if total == nil {
		total = raw["totalAmount"]
	}
	raw["total"] = toFloat(total)
	raw["subtotal"] = toFloat(raw["subtotal"])
	raw["deliveryFee"] = toFloat(raw["deliveryFee"])

	setDefaultString(raw, "customerName", "Guest")
	setDefaultString(raw, "paymentMethod", orders.DefaultPaymentMethod)
	setDefaultString(raw, "status", string(models.StatusPending))
	setDefaultString(raw, "stockAdjusted", string(models.StockNone))
	for _, key := range []string{"phone", "address", "notes"} {
		setDefaultString(raw, key, "")
	}

	items := bson.A{}
	if list, ok := raw["items"].(bson.A); ok {
		for _, entry := range list {
			var item bson.M
			switch doc := entry.(type) {
			case bson.M:
				item = doc
			case bson.D:
				item = doc.Map()
			default:
				continue
			}
			item["productId"] = normalizeID(item["productId"])
			item["quantity"] = toInt(item["quantity"])
			item["price"] = toFloat(item["price"])
			items = append(items, item)
		}
	}
	raw["items"] = items

	created := toTime(raw["createdAt"], now)
	raw["createdAt"] = created
	raw["updatedAt"] = toTime(raw["updatedAt"], created)

	var o models.Order
	if err := remarshal(raw, &o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]models.Product, error) {
	products := make([]models.Product, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		p, err := normalizeProductDocument(raw)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func decodeOrders(ctx context.Context, cursor *mongo.Cursor, now time.Time) ([]models.Order, error) {
	list := make([]models.Order, 0)
	for cursor.Next(ctx) {
		var raw bson.M
		if err := cursor.Decode(&raw); err != nil {
			return nil, err
		}
		o, err := normalizeOrderDocument(raw, now)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func remarshal(raw bson.M, out interface{}) error {
	data, err := bson.Marshal(raw)
	if err != nil {
		return err
	}
	return bson.Unmarshal(data, out)
}

func normalizeID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

func firstString(list []interface{}) string {
	for _, v := range list {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func setDefaultString(raw bson.M, key, fallback string) {
	if s, ok := raw[key].(string); ok && s != "" {
		return
	}
	raw[key] = fallback
}

func toFloat(v interface{}) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case int:
		f = float64(n)
	case primitive.Decimal128:
		parsed, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func toInt(v interface{}) int {
	return int(toFloat(v))
}

func toTime(v interface{}, fallback time.Time) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC()
	case primitive.Timestamp:
		return time.Unix(int64(t.T), 0).UTC()
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return parsed.UTC()
			}
		}
	}
	return fallback
}
