// internal/domain/models/program.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a leader-run community initiative (training, seed
// distribution, irrigation works) that contributions flow into.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeaderID    primitive.ObjectID `bson:"leader_id" json:"leader_id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	Status      string             `bson:"status" json:"status"` // Planned | Active | Completed
	BudgetCents int64              `bson:"budget_cents,omitempty" json:"budget_cents,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
