// internal/domain/models/harvest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Harvest is a yield record for one crop in one season.
type Harvest struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	FarmerID   primitive.ObjectID  `bson:"farmer_id" json:"farmer_id"`
	FieldID    *primitive.ObjectID `bson:"field_id,omitempty" json:"field_id,omitempty"`
	Crop       string              `bson:"crop" json:"crop"`
	Season     string              `bson:"season,omitempty" json:"season,omitempty"`
	QuantityKg float64             `bson:"quantity_kg" json:"quantity_kg"`
	Quality    string              `bson:"quality,omitempty" json:"quality,omitempty"` // Premium | Standard | Reject
	Status     string              `bson:"status" json:"status"`                       // Stored | Sold | Donated

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
