package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PenaltyStatus enum
type PenaltyStatus string

const (
	PenaltyUnpaid PenaltyStatus = "Unpaid"
	PenaltyPaid   PenaltyStatus = "Paid"
)

// Penalty is a monetary sanction issued by an admin against an operator.
// The field is named "operator" everywhere; the sanctioned account is the
// only one allowed to pay it, exactly once.
type Penalty struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Operator primitive.ObjectID `bson:"operator" json:"operator"`
	IssuedBy primitive.ObjectID `bson:"issuedBy" json:"issuedBy"`
	Reason   string             `bson:"reason" json:"reason"`
	Amount   float64            `bson:"amount" json:"amount"`
	Status   PenaltyStatus      `bson:"status" json:"status"`
	IssuedAt time.Time          `bson:"issuedAt" json:"issuedAt"`
	PaidAt   *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
}
