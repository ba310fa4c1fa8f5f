package contributionstore

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
	return &Store{c: db.Collection("contributions")}
}

var (
	errBadAmount = errors.New("contribution amount must be positive")
	errBadStatus = errors.New(`status must be "Pledged"|"Received"|"Refunded"`)
)

// ValidStatus reports whether s is a contribution status.
func ValidStatus(s string) bool {
	return s == "Pledged" || s == "Received" || s == "Refunded"
}

// EnsureIndexes creates the donor and program indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "donor_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "program_id", Value: 1}},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a contribution by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contribution, error) {
	var c models.Contribution
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByDonor returns a donor's contributions, newest first.
func (s *Store) ListByDonor(ctx context.Context, donorID primitive.ObjectID) ([]models.Contribution, error) {
	return s.list(ctx, bson.M{"donor_id": donorID})
}

// ListAll returns every contribution, newest first, for finance screens.
func (s *Store) ListAll(ctx context.Context) ([]models.Contribution, error) {
	return s.list(ctx, bson.M{})
}

// ListByProgram returns contributions toward one program, newest first.
func (s *Store) ListByProgram(ctx context.Context, programID primitive.ObjectID) ([]models.Contribution, error) {
	return s.list(ctx, bson.M{"program_id": programID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Contribution, error) {
	cursor, err := s.c.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Contribution
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new contribution after validating.
func (s *Store) Create(ctx context.Context, c models.Contribution) (models.Contribution, error) {
	c.ID = primitive.NewObjectID()
	if c.AmountCents <= 0 {
		return models.Contribution{}, errBadAmount
	}
	if c.Status == "" {
		c.Status = "Pledged"
	}
	if !ValidStatus(c.Status) {
		return models.Contribution{}, errBadStatus
	}
	if c.Currency == "" {
		c.Currency = "KES"
	}
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))

	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Contribution{}, err
	}
	return c, nil
}

// Update holds the editable contribution attributes.
type Update struct {
	ProgramID   *primitive.ObjectID
	AmountCents int64
	Method      string
	Status      string
	Note        string
}

// UpdateOwned updates a contribution if it belongs to the given donor.
// Returns the number of documents matched (0 or 1).
func (s *Store) UpdateOwned(ctx context.Context, id, donorID primitive.ObjectID, upd Update) (int64, error) {
	return s.update(ctx, bson.M{"_id": id, "donor_id": donorID}, upd)
}

// UpdateAny updates a contribution regardless of donor, for finance staff
// reconciling payments.
func (s *Store) UpdateAny(ctx context.Context, id primitive.ObjectID, upd Update) (int64, error) {
	return s.update(ctx, bson.M{"_id": id}, upd)
}

func (s *Store) update(ctx context.Context, filter bson.M, upd Update) (int64, error) {
	if upd.AmountCents <= 0 {
		return 0, errBadAmount
	}
	if !ValidStatus(upd.Status) {
		return 0, errBadStatus
	}

	set := bson.M{
		"program_id":   upd.ProgramID,
		"amount_cents": upd.AmountCents,
		"method":       upd.Method,
		"status":       upd.Status,
		"note":         upd.Note,
		"updated_at":   time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// DeleteOwned deletes a contribution if it belongs to the given donor.
// Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteOwned(ctx context.Context, id, donorID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "donor_id": donorID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// TotalReceivedCents sums received contributions, optionally scoped to a
// program (nil means platform-wide).
func (s *Store) TotalReceivedCents(ctx context.Context, programID *primitive.ObjectID) (int64, error) {
	match := bson.M{"status": "Received"}
	if programID != nil {
		match["program_id"] = *programID
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$amount_cents"},
		}}},
	}
	cursor, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
