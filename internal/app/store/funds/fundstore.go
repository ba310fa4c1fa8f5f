package fundstore

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
	return &Store{c: db.Collection("funds")}
}

var (
	errBadName   = errors.New("fund entry name is required")
	errBadAmount = errors.New("fund amount must be positive")
	errBadKind   = errors.New(`kind must be "Allocation"|"Disbursement"`)
	errBadStatus = errors.New(`status must be "Pending"|"Approved"|"Released"`)
)

// ValidKind reports whether k is a ledger entry kind.
func ValidKind(k string) bool {
	return k == models.FundAllocation || k == models.FundDisbursement
}

// ValidStatus reports whether s is a fund status.
func ValidStatus(s string) bool {
	return s == "Pending" || s == "Approved" || s == "Released"
}

// EnsureIndexes creates the program and kind indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "program_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "kind", Value: 1},
				{Key: "status", Value: 1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a fund entry by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Fund, error) {
	var f models.Fund
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListAll returns every ledger entry, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Fund, error) {
	return s.list(ctx, bson.M{})
}

// ListByProgram returns ledger entries for one program, newest first.
func (s *Store) ListByProgram(ctx context.Context, programID primitive.ObjectID) ([]models.Fund, error) {
	return s.list(ctx, bson.M{"program_id": programID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Fund, error) {
	cursor, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Fund
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new ledger entry after validating.
func (s *Store) Create(ctx context.Context, f models.Fund) (models.Fund, error) {
	f.ID = primitive.NewObjectID()
	f.Name = strings.TrimSpace(f.Name)
	f.NameCI = text.Fold(f.Name)
	if f.Name == "" {
		return models.Fund{}, errBadName
	}
	if f.AmountCents <= 0 {
		return models.Fund{}, errBadAmount
	}
	if !ValidKind(f.Kind) {
		return models.Fund{}, errBadKind
	}
	if f.Status == "" {
		f.Status = "Pending"
	}
	if !ValidStatus(f.Status) {
		return models.Fund{}, errBadStatus
	}

	now := time.Now()
	f.CreatedAt = now
	f.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, f); err != nil {
		return models.Fund{}, err
	}
	return f, nil
}

// Update holds the editable fund entry attributes.
type Update struct {
	Name        string
	AmountCents int64
	Status      string
}

// Update updates a ledger entry. Returns the number of documents matched
// (0 or 1).
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (int64, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	if upd.Name == "" {
		return 0, errBadName
	}
	if upd.AmountCents <= 0 {
		return 0, errBadAmount
	}
	if !ValidStatus(upd.Status) {
		return 0, errBadStatus
	}

	set := bson.M{
		"name":         upd.Name,
		"name_ci":      text.Fold(upd.Name),
		"amount_cents": upd.AmountCents,
		"status":       upd.Status,
		"updated_at":   time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// Delete deletes a ledger entry by ID.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
