// internal/domain/models/fund.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fund kinds.
const (
	FundAllocation   = "Allocation"
	FundDisbursement = "Disbursement"
)

// Fund is a finance-ledger entry: money allocated to or disbursed from a
// program budget.
type Fund struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProgramID   *primitive.ObjectID `bson:"program_id,omitempty" json:"program_id,omitempty"`
	Name        string              `bson:"name" json:"name"`
	NameCI      string              `bson:"name_ci" json:"-"`
	Kind        string              `bson:"kind" json:"kind"`
	AmountCents int64               `bson:"amount_cents" json:"amount_cents"`
	Status      string              `bson:"status" json:"status"` // Pending | Approved | Released
	RecordedBy  primitive.ObjectID  `bson:"recorded_by" json:"recorded_by"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
