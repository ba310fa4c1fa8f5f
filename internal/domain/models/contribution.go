// internal/domain/models/contribution.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contribution is a donor gift toward a program. Amounts are stored in
// cents to avoid float arithmetic on money.
type Contribution struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DonorID     primitive.ObjectID  `bson:"donor_id" json:"donor_id"`
	ProgramID   *primitive.ObjectID `bson:"program_id,omitempty" json:"program_id,omitempty"`
	DonorName   string              `bson:"donor_name" json:"donor_name"`
	AmountCents int64               `bson:"amount_cents" json:"amount_cents"`
	Currency    string              `bson:"currency" json:"currency"`
	Method      string              `bson:"method,omitempty" json:"method,omitempty"` // e.g. "mobile money", "bank transfer"
	Status      string              `bson:"status" json:"status"`                     // Pledged | Received | Refunded
	Note        string              `bson:"note,omitempty" json:"note,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
