package docstore

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalizeBSONFlattensDriverTypes(t *testing.T) {
	when := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	in := bson.M{
		"section":   "Bar",
		"createdAt": primitive.NewDateTimeFromTime(when),
		"items": bson.A{
			bson.D{{Key: "name", Value: "Lime"}, {Key: "qty", Value: int32(4)}},
		},
	}

	out := normalizeBSON(in).(map[string]any)
	if got := out["createdAt"].(time.Time); !got.Equal(when) {
		t.Fatalf("expected %v, got %v", when, got)
	}
	items, ok := out["items"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("items not normalized: %#v", out["items"])
	}
	item, ok := items[0].(map[string]any)
	if !ok {
		t.Fatalf("item not normalized: %#v", items[0])
	}
	if item["name"] != "Lime" || item["qty"] != int32(4) {
		t.Fatalf("unexpected item: %#v", item)
	}
}

func TestObjectIDString(t *testing.T) {
	oid := primitive.NewObjectID()
	if got := objectIDString(oid); got != oid.Hex() {
		t.Fatalf("expected %s, got %s", oid.Hex(), got)
	}
	if got := objectIDString("abc"); got != "abc" {
		t.Fatalf("expected abc, got %s", got)
	}
	if got := objectIDString(nil); got != "" {
		t.Fatalf("expected empty, got %s", got)
	}
}
