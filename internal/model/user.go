package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a directory record for an authenticated quiz taker. The identity
// provider supplies the stable UserID; this record only decorates it.
type User struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	UserID     string             `json:"userId" bson:"user_id"`
	Email      string             `json:"email" bson:"email"`
	Name       string             `json:"name" bson:"name"`
	GivenName  string             `json:"givenName,omitempty" bson:"given_name,omitempty"`
	FamilyName string             `json:"familyName,omitempty" bson:"family_name,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
	LastActive time.Time          `json:"lastActive" bson:"last_active"`
	IsActive   bool               `json:"isActive" bson:"is_active"`
}

// DisplayName prefers the given/family pair, then the free-form name, then
// the email address.
func (u *User) DisplayName() string {
	switch {
	case u.GivenName != "" && u.FamilyName != "":
		return u.GivenName + " " + u.FamilyName
	case u.GivenName != "":
		return u.GivenName
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}
