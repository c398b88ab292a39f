// Package docstore is a minimal document-store abstraction: list a named
// collection, append one document to it. Backends live side by side so the
// ordering logic never sees a driver type.
package docstore

import (
	"context"
	"errors"
	"time"
)

// Collection names used by the ordering service.
const (
	CollectionProducts = "products"
	CollectionOrders   = "orders"
)

var ErrEmptyCollection = errors.New("collection name is required")

// Document is one stored record with its store-assigned ID.
type Document struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

type serverTimestamp struct{}

// ServerTimestamp is a field value that the backend replaces with its own
// current time when the document is written.
var ServerTimestamp = serverTimestamp{}

type Store interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Append(ctx context.Context, collection string, fields map[string]any) (string, error)
}

// resolveServerTimestamps returns a shallow copy of fields with every
// ServerTimestamp sentinel replaced by now.
func resolveServerTimestamps(fields map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}
