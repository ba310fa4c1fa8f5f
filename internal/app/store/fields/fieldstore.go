package fieldstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("fields")}
}

var (
	errBadName   = errors.New("field name is required")
	errBadStatus = errors.New(`status must be "Active"|"Fallow"`)
)

// ValidStatus reports whether s is a field status.
func ValidStatus(s string) bool {
	return s == "Active" || s == "Fallow"
}

// EnsureIndexes creates the owner index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "farmer_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}

// GetByID loads a field by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Field, error) {
	var f models.Field
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListByFarmer returns a farmer's fields, newest first.
func (s *Store) ListByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.Field, error) {
	cursor, err := s.c.Find(ctx, bson.M{"farmer_id": farmerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Field
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new field after normalizing & validating.
func (s *Store) Create(ctx context.Context, f models.Field) (models.Field, error) {
	f.ID = primitive.NewObjectID()
	f.Name = strings.TrimSpace(f.Name)
	f.NameCI = text.Fold(f.Name)
	if f.Name == "" {
		return models.Field{}, errBadName
	}
	if f.Status == "" {
		f.Status = "Active"
	}
	if !ValidStatus(f.Status) {
		return models.Field{}, errBadStatus
	}

	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.Field{}, err
	}
	return f, nil
}

// Update holds the editable field attributes.
type Update struct {
	Name         string
	Crop         string
	Location     string
	AreaHectares float64
	SoilType     string
	Status       string
}

// UpdateOwned updates a field if it belongs to the given farmer.
// Returns the number of documents matched (0 or 1).
func (s *Store) UpdateOwned(ctx context.Context, id, farmerID primitive.ObjectID, upd Update) (int64, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	if upd.Name == "" {
		return 0, errBadName
	}
	if !ValidStatus(upd.Status) {
		return 0, errBadStatus
	}

	set := bson.M{
		"name":          upd.Name,
		"name_ci":       text.Fold(upd.Name),
		"crop":          upd.Crop,
		"location":      upd.Location,
		"area_hectares": upd.AreaHectares,
		"soil_type":     upd.SoilType,
		"status":        upd.Status,
		"updated_at":    time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "farmer_id": farmerID}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteOwned deletes a field if it belongs to the given farmer.
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteOwned(ctx context.Context, id, farmerID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "farmer_id": farmerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
