// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents every account on the platform: farmers, agronomists,
// leaders, donors, finance staff, and admins.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // internal | google
	Role         string             `bson:"role" json:"role"`                                   // farmer | agronomist | leader | donor | finance | admin
	Status       string             `bson:"status,omitempty" json:"status,omitempty"`           // active | disabled
	Region       string             `bson:"region,omitempty" json:"region,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PicturePath  string             `bson:"picture_path,omitempty" json:"picture_path,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
