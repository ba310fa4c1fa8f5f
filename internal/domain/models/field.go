// internal/domain/models/field.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Field is a farm plot registered by a farmer.
type Field struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FarmerID     primitive.ObjectID `bson:"farmer_id" json:"farmer_id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"`
	Crop         string             `bson:"crop,omitempty" json:"crop,omitempty"`
	Location     string             `bson:"location,omitempty" json:"location,omitempty"`
	AreaHectares float64            `bson:"area_hectares,omitempty" json:"area_hectares,omitempty"`
	SoilType     string             `bson:"soil_type,omitempty" json:"soil_type,omitempty"`
	Status       string             `bson:"status" json:"status"` // Active | Fallow

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
