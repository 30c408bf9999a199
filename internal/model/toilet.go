package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ToiletStatus enum
type ToiletStatus string

const (
	StatusOpen             ToiletStatus = "Open"
	StatusClosed           ToiletStatus = "Closed"
	StatusUnderMaintenance ToiletStatus = "Under Maintenance"
)

// ValidToiletStatus reports whether s is a known facility status.
func ValidToiletStatus(s ToiletStatus) bool {
	switch s {
	case StatusOpen, StatusClosed, StatusUnderMaintenance:
		return true
	}
	return false
}

// Facility type values.  A toilet advertises at least one of these.
const (
	TypeGents  = "Gents"
	TypeLadies = "Ladies"
	TypeUnisex = "Unisex"
)

// ValidToiletTypes reports whether types is a non-empty subset of the known
// facility type values.
func ValidToiletTypes(types []string) bool {
	if len(types) == 0 {
		return false
	}
	for _, t := range types {
		switch t {
		case TypeGents, TypeLadies, TypeUnisex:
		default:
			return false
		}
	}
	return true
}

// Location pins a toilet to a point on a highway.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address" json:"address"`
}

// Image is a base64-encoded photo stored inline on the toilet document.
type Image struct {
	Data       string    `bson:"data" json:"data"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Toilet is a physical highway facility.  CreatedBy is immutable after
// creation and anchors the ownership chain for reviews and complaints.
type Toilet struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Highway    string             `bson:"highway" json:"highway"`
	Location   Location           `bson:"location" json:"location"`
	Types      []string           `bson:"types" json:"types"`
	Accessible bool               `bson:"accessible" json:"accessible"`
	Status     ToiletStatus       `bson:"status" json:"status"`
	Images     []Image            `bson:"images" json:"images"`
	CreatedBy  primitive.ObjectID `bson:"createdBy" json:"createdBy"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
