// internal/domain/models/complaint.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint statuses move Pending -> In Progress -> Resolved.
const (
	ComplaintPending    = "Pending"
	ComplaintInProgress = "In Progress"
	ComplaintResolved   = "Resolved"
)

// Complaint is a crop-issue report filed by a farmer (or anonymously via
// the public form, in which case FarmerID is nil and Reference is set).
type Complaint struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FarmerID    *primitive.ObjectID `bson:"farmer_id,omitempty" json:"farmer_id,omitempty"`
	Title       string              `bson:"title" json:"title"`
	TitleCI     string              `bson:"title_ci" json:"-"`
	Type        string              `bson:"type" json:"type"` // e.g. "Pest Attack", "Animal Damage", "Irrigation"
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Location    string              `bson:"location,omitempty" json:"location,omitempty"`
	Status      string              `bson:"status" json:"status"`
	SubmittedBy string              `bson:"submitted_by,omitempty" json:"submitted_by,omitempty"`
	PhotoPath   string              `bson:"photo_path,omitempty" json:"photo_path,omitempty"`
	Reference   string              `bson:"reference,omitempty" json:"reference,omitempty"` // public-complaint tracking code

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
