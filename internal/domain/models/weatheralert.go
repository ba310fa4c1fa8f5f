// internal/domain/models/weatheralert.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeatherAlert is a region-scoped advisory published by admins.
type WeatherAlert struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Region   string             `bson:"region" json:"region"`
	RegionCI string             `bson:"region_ci" json:"-"`
	Title    string             `bson:"title" json:"title"`
	Severity string             `bson:"severity" json:"severity"` // same scale as pest alerts
	Message  string             `bson:"message,omitempty" json:"message,omitempty"`
	StartsAt time.Time          `bson:"starts_at" json:"starts_at"`
	EndsAt   time.Time          `bson:"ends_at,omitempty" json:"ends_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
