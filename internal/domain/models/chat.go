// internal/domain/models/chat.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat is one advisory exchange: the farmer's uploaded image plus the
// diagnosis that came back. Persisted best-effort for history display only.
type Chat struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Note   string             `bson:"note,omitempty" json:"note,omitempty"`

	Disease     string   `bson:"disease,omitempty" json:"disease,omitempty"`
	Confidence  float64  `bson:"confidence,omitempty" json:"confidence,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Treatment   []string `bson:"treatment,omitempty" json:"treatment,omitempty"`
	Message     string   `bson:"message,omitempty" json:"message,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
