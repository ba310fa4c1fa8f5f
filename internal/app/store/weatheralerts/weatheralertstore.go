package weatheralertstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agrihub/agrihub/internal/app/system/normalize"
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
	return &Store{c: db.Collection("weather_alerts")}
}

var (
	errBadRegion = errors.New("alert region is required")
	errBadTitle  = errors.New("alert title is required")
)

// EnsureIndexes creates the region index used by the regional feed.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "region_ci", Value: 1},
			{Key: "starts_at", Value: -1},
		},
	})
	return err
}

// GetByID loads a weather alert by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.WeatherAlert, error) {
	var a models.WeatherAlert
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAll returns every weather alert, most recent start first.
func (s *Store) ListAll(ctx context.Context) ([]models.WeatherAlert, error) {
	return s.list(ctx, bson.M{})
}

// ListByRegion returns alerts for one region (case-insensitive), most
// recent start first.
func (s *Store) ListByRegion(ctx context.Context, region string) ([]models.WeatherAlert, error) {
	return s.list(ctx, bson.M{"region_ci": text.Fold(normalize.Region(region))})
}

// ListActiveByRegion returns alerts for one region whose window covers now.
func (s *Store) ListActiveByRegion(ctx context.Context, region string, now time.Time) ([]models.WeatherAlert, error) {
	return s.list(ctx, bson.M{
		"region_ci": text.Fold(normalize.Region(region)),
		"starts_at": bson.M{"$lte": now},
		"$or": []bson.M{
			{"ends_at": bson.M{"$gte": now}},
			{"ends_at": bson.M{"$exists": false}},
			{"ends_at": time.Time{}},
		},
	})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.WeatherAlert, error) {
	cursor, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "starts_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.WeatherAlert
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new weather alert after normalizing & validating.
func (s *Store) Create(ctx context.Context, a models.WeatherAlert) (models.WeatherAlert, error) {
	a.ID = primitive.NewObjectID()
	a.Region = normalize.Region(a.Region)
	a.RegionCI = text.Fold(a.Region)
	a.Title = strings.TrimSpace(a.Title)
	if a.Region == "" {
		return models.WeatherAlert{}, errBadRegion
	}
	if a.Title == "" {
		return models.WeatherAlert{}, errBadTitle
	}
	if a.Severity == "" {
		a.Severity = models.SeverityMedium
	}
	if a.StartsAt.IsZero() {
		a.StartsAt = time.Now()
	}

	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.WeatherAlert{}, err
	}
	return a, nil
}

// Update holds the editable weather alert attributes.
type Update struct {
	Region   string
	Title    string
	Severity string
	Message  string
	StartsAt time.Time
	EndsAt   time.Time
}

// Update updates a weather alert. Returns the number of documents matched
// (0 or 1).
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (int64, error) {
	upd.Region = normalize.Region(upd.Region)
	upd.Title = strings.TrimSpace(upd.Title)
	if upd.Region == "" {
		return 0, errBadRegion
	}
	if upd.Title == "" {
		return 0, errBadTitle
	}

	set := bson.M{
		"region":     upd.Region,
		"region_ci":  text.Fold(upd.Region),
		"title":      upd.Title,
		"severity":   upd.Severity,
		"message":    upd.Message,
		"starts_at":  upd.StartsAt,
		"ends_at":    upd.EndsAt,
		"updated_at": time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete deletes a weather alert by ID.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
