package harveststore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agrihub/agrihub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("harvests")}
}

var (
	errBadCrop     = errors.New("harvest crop is required")
	errBadQuantity = errors.New("harvest quantity must be positive")
	errBadStatus   = errors.New(`status must be "Stored"|"Sold"|"Donated"`)
)

// ValidStatus reports whether s is a harvest status.
func ValidStatus(s string) bool {
	return s == "Stored" || s == "Sold" || s == "Donated"
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

// GetByID loads a harvest by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Harvest, error) {
	var h models.Harvest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ListByFarmer returns a farmer's harvests, newest first.
func (s *Store) ListByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.Harvest, error) {
	cursor, err := s.c.Find(ctx, bson.M{"farmer_id": farmerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Harvest
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new harvest after validating.
func (s *Store) Create(ctx context.Context, h models.Harvest) (models.Harvest, error) {
	h.ID = primitive.NewObjectID()
	h.Crop = strings.TrimSpace(h.Crop)
	if h.Crop == "" {
		return models.Harvest{}, errBadCrop
	}
	if h.QuantityKg <= 0 {
		return models.Harvest{}, errBadQuantity
	}
	if h.Status == "" {
		h.Status = "Stored"
	}
	if !ValidStatus(h.Status) {
		return models.Harvest{}, errBadStatus
	}

	now := time.Now()
	h.CreatedAt = now
	h.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, h); err != nil {
		return models.Harvest{}, err
	}
	return h, nil
}

// Update holds the editable harvest attributes.
type Update struct {
	Crop       string
	Season     string
	QuantityKg float64
	Quality    string
	Status     string
}

// UpdateOwned updates a harvest if it belongs to the given farmer.
// Returns the number of documents matched (0 or 1).
func (s *Store) UpdateOwned(ctx context.Context, id, farmerID primitive.ObjectID, upd Update) (int64, error) {
	upd.Crop = strings.TrimSpace(upd.Crop)
	if upd.Crop == "" {
		return 0, errBadCrop
	}
	if upd.QuantityKg <= 0 {
		return 0, errBadQuantity
	}
	if !ValidStatus(upd.Status) {
		return 0, errBadStatus
	}

	set := bson.M{
		"crop":        upd.Crop,
		"season":      upd.Season,
		"quantity_kg": upd.QuantityKg,
		"quality":     upd.Quality,
		"status":      upd.Status,
		"updated_at":  time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "farmer_id": farmerID}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteOwned deletes a harvest if it belongs to the given farmer.
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteOwned(ctx context.Context, id, farmerID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "farmer_id": farmerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Totals aggregates a farmer's harvests for the dashboard: total kilos and
// per-crop counts.
type Totals struct {
	TotalKg     float64
	RecordCount int
	ByCrop      map[string]float64
}

// TotalsByFarmer computes harvest totals for one farmer.
func (s *Store) TotalsByFarmer(ctx context.Context, farmerID primitive.ObjectID) (Totals, error) {
	rows, err := s.ListByFarmer(ctx, farmerID)
	if err != nil {
		return Totals{}, err
	}
	t := Totals{ByCrop: make(map[string]float64)}
	for _, h := range rows {
		t.TotalKg += h.QuantityKg
		t.RecordCount++
		t.ByCrop[h.Crop] += h.QuantityKg
	}
	return t, nil
}
