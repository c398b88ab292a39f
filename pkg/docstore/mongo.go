package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore maps each collection name onto a MongoDB collection.
type MongoStore struct {
	database *mongo.Database
	now      func() time.Time
}

func NewMongoStore(database *mongo.Database) *MongoStore {
	return &MongoStore{database: database, now: time.Now}
}

func (m *MongoStore) List(ctx context.Context, collection string) ([]Document, error) {
	if collection == "" {
		return nil, ErrEmptyCollection
	}

	cursor, err := m.database.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var raw []bson.M
	if err := cursor.All(ctx, &raw); err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}

	docs := make([]Document, 0, len(raw))
	for _, r := range raw {
		id := objectIDString(r["_id"])
		delete(r, "_id")
		docs = append(docs, Document{ID: id, Fields: normalizeBSON(r).(map[string]any)})
	}
	return docs, nil
}

func (m *MongoStore) Append(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}

	doc := bson.M(resolveServerTimestamps(fields, m.now().UTC()))
	res, err := m.database.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", collection, err)
	}
	return objectIDString(res.InsertedID), nil
}

func objectIDString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

// normalizeBSON turns driver container types into plain maps and slices.
func normalizeBSON(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeBSON(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeBSON(val)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeBSON(val)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return t.String()
	default:
		return v
	}
}
