package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is anonymous public feedback on a toilet.  Reviews are immutable
// once stored; there is no update or delete path.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Toilet    primitive.ObjectID `bson:"toilet" json:"toilet"`
	Username  string             `bson:"username" json:"username"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	Photos    []string           `bson:"photos,omitempty" json:"photos,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// ValidRating reports whether r is inside the 1..5 star range.
func ValidRating(r int) bool { return r >= 1 && r <= 5 }
