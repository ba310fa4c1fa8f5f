// internal/domain/models/pestalert.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pest alert severities, lowest to highest.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// PestAlert is a farmer-reported pest or disease sighting. Agronomists may
// update status and notes on any alert.
type PestAlert struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FarmerID primitive.ObjectID `bson:"farmer_id" json:"farmer_id"`
	Pest     string             `bson:"pest" json:"pest"`
	Crop     string             `bson:"crop,omitempty" json:"crop,omitempty"`
	Location string             `bson:"location,omitempty" json:"location,omitempty"`
	Severity string             `bson:"severity" json:"severity"`
	Status   string             `bson:"status" json:"status"` // Open | Under Treatment | Resolved
	Notes    string             `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
