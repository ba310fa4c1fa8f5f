package pestalertstore

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
	return &Store{c: db.Collection("pest_alerts")}
}

var (
	errBadPest     = errors.New("pest name is required")
	errBadSeverity = errors.New(`severity must be "Low"|"Medium"|"High"|"Critical"`)
	errBadStatus   = errors.New(`status must be "Open"|"Under Treatment"|"Resolved"`)
)

// ValidSeverity reports whether s is a known severity.
func ValidSeverity(s string) bool {
	switch s {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
		return true
	}
	return false
}

// ValidStatus reports whether s is a pest alert status.
func ValidStatus(s string) bool {
	return s == "Open" || s == "Under Treatment" || s == "Resolved"
}

// EnsureIndexes creates the owner and severity indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "farmer_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "severity", Value: 1},
				{Key: "status", Value: 1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a pest alert by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.PestAlert, error) {
	var a models.PestAlert
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByFarmer returns a farmer's pest alerts, newest first.
func (s *Store) ListByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.PestAlert, error) {
	return s.list(ctx, bson.M{"farmer_id": farmerID})
}

// ListAll returns every pest alert, newest first, for agronomist triage.
func (s *Store) ListAll(ctx context.Context) ([]models.PestAlert, error) {
	return s.list(ctx, bson.M{})
}

// ListOpen returns unresolved alerts, newest first.
func (s *Store) ListOpen(ctx context.Context) ([]models.PestAlert, error) {
	return s.list(ctx, bson.M{"status": bson.M{"$ne": "Resolved"}})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.PestAlert, error) {
	cursor, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.PestAlert
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new pest alert after validating.
func (s *Store) Create(ctx context.Context, a models.PestAlert) (models.PestAlert, error) {
	a.ID = primitive.NewObjectID()
	a.Pest = strings.TrimSpace(a.Pest)
	if a.Pest == "" {
		return models.PestAlert{}, errBadPest
	}
	if a.Severity == "" {
		a.Severity = models.SeverityMedium
	}
	if !ValidSeverity(a.Severity) {
		return models.PestAlert{}, errBadSeverity
	}
	if a.Status == "" {
		a.Status = "Open"
	}
	if !ValidStatus(a.Status) {
		return models.PestAlert{}, errBadStatus
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.PestAlert{}, err
	}
	return a, nil
}

// Update holds the editable pest alert attributes.
type Update struct {
	Pest     string
	Crop     string
	Location string
	Severity string
	Status   string
	Notes    string
}

// UpdateOwned updates an alert if it belongs to the given farmer.
// Returns the number of documents matched (0 or 1).
func (s *Store) UpdateOwned(ctx context.Context, id, farmerID primitive.ObjectID, upd Update) (int64, error) {
	return s.update(ctx, bson.M{"_id": id, "farmer_id": farmerID}, upd)
}

// UpdateAny updates an alert regardless of owner, for agronomists working
// the triage queue.
func (s *Store) UpdateAny(ctx context.Context, id primitive.ObjectID, upd Update) (int64, error) {
	return s.update(ctx, bson.M{"_id": id}, upd)
}

func (s *Store) update(ctx context.Context, filter bson.M, upd Update) (int64, error) {
	upd.Pest = strings.TrimSpace(upd.Pest)
	if upd.Pest == "" {
		return 0, errBadPest
	}
	if !ValidSeverity(upd.Severity) {
		return 0, errBadSeverity
	}
	if !ValidStatus(upd.Status) {
		return 0, errBadStatus
	}

	set := bson.M{
		"pest":       upd.Pest,
		"crop":       upd.Crop,
		"location":   upd.Location,
		"severity":   upd.Severity,
		"status":     upd.Status,
		"notes":      upd.Notes,
		"updated_at": time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteOwned deletes an alert if it belongs to the given farmer.
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteOwned(ctx context.Context, id, farmerID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "farmer_id": farmerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountOpenByFarmer returns the number of unresolved alerts for a farmer,
// used by the crop health score.
func (s *Store) CountOpenByFarmer(ctx context.Context, farmerID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"farmer_id": farmerID,
		"status":    bson.M{"$ne": "Resolved"},
	})
}
