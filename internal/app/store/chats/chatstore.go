package chatstore

import (
	"context"
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
	return &Store{c: db.Collection("chats")}
}

// EnsureIndexes creates the per-user history index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	return err
}

// Save inserts an advisory exchange. Callers treat failures as
// best-effort: the diagnosis already went back to the farmer.
func (s *Store) Save(ctx context.Context, chat models.Chat) (models.Chat, error) {
	chat.ID = primitive.NewObjectID()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	if _, err := s.c.InsertOne(ctx, chat); err != nil {
		return models.Chat{}, err
	}
	return chat, nil
}

// ListByUser returns a user's advisory history, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Chat, error) {
	if limit <= 0 {
		limit = 50
	}
	cursor, err := s.c.Find(ctx, bson.M{"user_id": userID},
		options.Find().
			SetSort(bson.D{{Key: "created_at", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Chat
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
