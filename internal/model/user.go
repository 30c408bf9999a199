package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role enumerates the two staff roles.  Travellers submitting reviews and
// complaints are anonymous and never hold an account.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOperator Role = "OPERATOR"
)

// User represents an admin or operator account.  Emails are stored
// lowercased; the passwordHash field is never serialized into JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Summary is the owner/issuer identity attachment used on aggregated
// responses.  It deliberately carries no credential material.
type Summary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Role  Role               `json:"role"`
}

// Summary returns the public identity view of the user.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
