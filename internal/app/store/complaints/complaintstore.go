package complaintstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/agrihub/agrihub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("complaints")}
}

var (
	errBadTitle  = errors.New("complaint title is required")
	errBadStatus = errors.New(`status must be "Pending"|"In Progress"|"Resolved"`)
)

// ValidStatus reports whether s is a complaint status.
func ValidStatus(s string) bool {
	switch s {
	case models.ComplaintPending, models.ComplaintInProgress, models.ComplaintResolved:
		return true
	}
	return false
}

// EnsureIndexes creates the owner and reference indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "farmer_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a complaint by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Complaint, error) {
	var c models.Complaint
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByReference loads a public complaint by its tracking code.
func (s *Store) GetByReference(ctx context.Context, ref string) (*models.Complaint, error) {
	var c models.Complaint
	err := s.c.FindOne(ctx, bson.M{"reference": strings.ToUpper(strings.TrimSpace(ref))}).Decode(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByFarmer returns a farmer's complaints, newest first.
func (s *Store) ListByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.Complaint, error) {
	return s.list(ctx, bson.M{"farmer_id": farmerID})
}

// ListAll returns every complaint, newest first, for the admin screen.
func (s *Store) ListAll(ctx context.Context) ([]models.Complaint, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Complaint, error) {
	cursor, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Complaint
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new complaint after normalizing & validating fields.
// A nil FarmerID marks a public submission and gets a tracking reference.
func (s *Store) Create(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	c.ID = primitive.NewObjectID()
	c.Title = strings.TrimSpace(c.Title)
	c.TitleCI = text.Fold(c.Title)
	if c.Title == "" {
		return models.Complaint{}, errBadTitle
	}
	if c.Status == "" {
		c.Status = models.ComplaintPending
	}
	if !ValidStatus(c.Status) {
		return models.Complaint{}, errBadStatus
	}
	if c.FarmerID == nil && c.Reference == "" {
		c.Reference = newReference()
	}

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// Update holds the editable complaint fields.
type Update struct {
	Title       string
	Type        string
	Description string
	Location    string
	Status      string
}

// UpdateOwned updates a complaint, but only if it belongs to the given
// farmer. Returns the number of documents matched (0 or 1).
func (s *Store) UpdateOwned(ctx context.Context, id, farmerID primitive.ObjectID, upd Update) (int64, error) {
	return s.update(ctx, bson.M{"_id": id, "farmer_id": farmerID}, upd)
}

// UpdateAny updates a complaint regardless of owner, for admin and
// agronomist screens.
func (s *Store) UpdateAny(ctx context.Context, id primitive.ObjectID, upd Update) (int64, error) {
	return s.update(ctx, bson.M{"_id": id}, upd)
}

func (s *Store) update(ctx context.Context, filter bson.M, upd Update) (int64, error) {
	upd.Title = strings.TrimSpace(upd.Title)
	if upd.Title == "" {
		return 0, errBadTitle
	}
	if !ValidStatus(upd.Status) {
		return 0, errBadStatus
	}

	set := bson.M{
		"title":       upd.Title,
		"title_ci":    text.Fold(upd.Title),
		"type":        upd.Type,
		"description": upd.Description,
		"location":    upd.Location,
		"status":      upd.Status,
		"updated_at":  time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// SetPhotoPath records the storage path of a complaint photo.
func (s *Store) SetPhotoPath(ctx context.Context, id primitive.ObjectID, path string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"photo_path": path,
		"updated_at": time.Now(),
	}})
	return err
}

// DeleteOwned deletes a complaint if it belongs to the given farmer.
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteOwned(ctx context.Context, id, farmerID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "farmer_id": farmerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteAny deletes a complaint regardless of owner.
func (s *Store) DeleteAny(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// newReference builds a short tracking code like "AGC-1A2B3C4D" that a
// public submitter can quote to follow up.
func newReference() string {
	return "AGC-" + strings.ToUpper(uuid.New().String()[:8])
}
