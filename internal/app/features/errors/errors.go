// internal/app/features/errors/errors.go
package errors

import (
	"errors"
	"net/http"

	"github.com/agrihub/agrihub/internal/app/system/webjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// NotFound is the fallback handler for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	webjson.Error(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed is the fallback handler for wrong-method requests.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	webjson.Error(w, http.StatusMethodNotAllowed, "method not allowed")
}

// RenderStoreError maps a store failure onto the right status code.
// mongo.ErrNoDocuments and zero-match updates become 404; anything else is
// logged and hidden behind a 500.
func RenderStoreError(w http.ResponseWriter, log *zap.Logger, err error, resource string) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		webjson.Error(w, http.StatusNotFound, resource+" not found")
		return
	}
	if log != nil {
		log.Error("store operation failed", zap.String("resource", resource), zap.Error(err))
	}
	webjson.Error(w, http.StatusInternalServerError, "internal error")
}

// ParseObjectID parses a chi URL param as an ObjectID, writing a 400 on
// failure. Callers return immediately when ok is false.
func ParseObjectID(w http.ResponseWriter, raw string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		webjson.Error(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
