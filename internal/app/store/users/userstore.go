package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/agrihub/agrihub/internal/app/system/normalize"
	"github.com/agrihub/agrihub/internal/app/system/status"
	"github.com/agrihub/agrihub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	return &Store{c: db.Collection("users")}
}

// EnsureIndexes creates the unique email index and the role/name indexes
// used by the admin list.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "full_name_ci", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "region", Value: 1}},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetFarmerByID loads a user by ObjectID, returning an error if the user
// does not exist or is not a farmer.
func (s *Store) GetFarmerByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "role": "farmer"}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users sorted by folded name. The admin user screen
// filters and paginates in memory, so this is the whole collection.
func (s *Store) List(ctx context.Context) ([]models.User, error) {
	cursor, err := s.c.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "full_name_ci", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListByRegion returns users in a region, used for weather alert fan-out.
func (s *Store) ListByRegion(ctx context.Context, region string) ([]models.User, error) {
	cursor, err := s.c.Find(ctx, bson.M{"region": normalize.Region(region)})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	errBadRole        = errors.New(`role must be "farmer"|"agronomist"|"leader"|"donor"|"finance"|"admin"`)
	errBadStatus      = errors.New(`status must be "active"|"disabled"`)
)

// ValidRole reports whether role is one of the platform roles.
func ValidRole(role string) bool {
	switch role {
	case "farmer", "agronomist", "leader", "donor", "finance", "admin":
		return true
	}
	return false
}

// Create inserts a new user after normalizing & validating fields.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	u.Region = normalize.Region(u.Region)
	if u.Status == "" {
		u.Status = status.Active
	}
	if u.AuthMethod == "" {
		u.AuthMethod = "internal"
	}

	if !ValidRole(u.Role) {
		return models.User{}, errBadRole
	}
	if !status.IsValid(u.Status) {
		return models.User{}, errBadStatus
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// Update holds the fields an admin can change on a user.
type Update struct {
	FullName string
	Email    string
	Role     string
	Status   string
	Region   string
	Phone    string
}

// Update updates a user's fields.
// Returns ErrDuplicateEmail if the email already exists for another user.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	if !ValidRole(normalize.Role(upd.Role)) {
		return errBadRole
	}
	if !status.IsValid(normalize.Status(upd.Status)) {
		return errBadStatus
	}

	set := bson.M{
		"full_name":    normalize.Name(upd.FullName),
		"full_name_ci": text.Fold(upd.FullName),
		"email":        normalize.Email(upd.Email),
		"role":         normalize.Role(upd.Role),
		"status":       normalize.Status(upd.Status),
		"region":       normalize.Region(upd.Region),
		"phone":        upd.Phone,
		"updated_at":   time.Now(),
	}

	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// UpdateProfile updates the fields a user may change on their own account.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, fullName, phone, region string) error {
	set := bson.M{
		"full_name":    normalize.Name(fullName),
		"full_name_ci": text.Fold(fullName),
		"phone":        phone,
		"region":       normalize.Region(region),
		"updated_at":   time.Now(),
	}
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	return err
}

// SetPicturePath records the storage path of a user's profile picture.
func (s *Store) SetPicturePath(ctx context.Context, id primitive.ObjectID, path string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"picture_path": path,
		"updated_at":   time.Now(),
	}})
	return err
}

// SetPasswordHash replaces a user's password hash.
func (s *Store) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now(),
	}})
	return err
}

// Delete deletes a user by ID.
// Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EmailExistsForOther checks if an email already exists for a user other than the given ID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email": normalize.Email(email),
		"_id":   bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}
