package programstore

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
	return &Store{c: db.Collection("programs")}
}

var (
	errBadName   = errors.New("program name is required")
	errBadStatus = errors.New(`status must be "Planned"|"Active"|"Completed"`)
)

// ValidStatus reports whether s is a program status.
func ValidStatus(s string) bool {
	return s == "Planned" || s == "Active" || s == "Completed"
}

// EnsureIndexes creates the leader index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "leader_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}

// GetByID loads a program by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Program, error) {
	var p models.Program
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByLeader returns a leader's programs, newest first.
func (s *Store) ListByLeader(ctx context.Context, leaderID primitive.ObjectID) ([]models.Program, error) {
	return s.list(ctx, bson.M{"leader_id": leaderID})
}

// ListAll returns every program, newest first. Donors browse this list to
// choose where contributions go.
func (s *Store) ListAll(ctx context.Context) ([]models.Program, error) {
	return s.list(ctx, bson.M{})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Program, error) {
	cursor, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Program
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new program after normalizing & validating.
func (s *Store) Create(ctx context.Context, p models.Program) (models.Program, error) {
	p.ID = primitive.NewObjectID()
	p.Name = strings.TrimSpace(p.Name)
	p.NameCI = text.Fold(p.Name)
	if p.Name == "" {
		return models.Program{}, errBadName
	}
	if p.Status == "" {
		p.Status = "Planned"
	}
	if !ValidStatus(p.Status) {
		return models.Program{}, errBadStatus
	}

	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Program{}, err
	}
	return p, nil
}

// Update holds the editable program attributes.
type Update struct {
	Name        string
	Description string
	Location    string
	Status      string
	BudgetCents int64
}

// UpdateOwned updates a program if it belongs to the given leader.
// Returns the number of documents matched (0 or 1).
func (s *Store) UpdateOwned(ctx context.Context, id, leaderID primitive.ObjectID, upd Update) (int64, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	if upd.Name == "" {
		return 0, errBadName
	}
	if !ValidStatus(upd.Status) {
		return 0, errBadStatus
	}

	set := bson.M{
		"name":         upd.Name,
		"name_ci":      text.Fold(upd.Name),
		"description":  upd.Description,
		"location":     upd.Location,
		"status":       upd.Status,
		"budget_cents": upd.BudgetCents,
		"updated_at":   time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "leader_id": leaderID}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteOwned deletes a program if it belongs to the given leader.
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteOwned(ctx context.Context, id, leaderID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "leader_id": leaderID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
