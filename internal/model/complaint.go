package model

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplaintStatus enum
type ComplaintStatus string

const (
	ComplaintPending    ComplaintStatus = "Pending"
	ComplaintInProgress ComplaintStatus = "In Progress"
	ComplaintResolved   ComplaintStatus = "Resolved"
	ComplaintRejected   ComplaintStatus = "Rejected"
)

// ValidComplaintStatus reports whether s is a known complaint status.
func ValidComplaintStatus(s ComplaintStatus) bool {
	switch s {
	case ComplaintPending, ComplaintInProgress, ComplaintResolved, ComplaintRejected:
		return true
	}
	return false
}

// mobileRe matches a 10-digit Indian mobile number (leading digit 6-9).
var mobileRe = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// ValidMobile reports whether m is a well-formed Indian mobile number.
func ValidMobile(m string) bool { return mobileRe.MatchString(m) }

// Complaint is an anonymous public report against a toilet.  Status and the
// operator response are the only mutable fields, writable by the toilet's
// owning operator or an admin.
type Complaint struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Toilet      primitive.ObjectID `bson:"toilet" json:"toilet"`
	Username    string             `bson:"username" json:"username"`
	Mobile      string             `bson:"mobile" json:"mobile"`
	Description string             `bson:"description" json:"description"`
	Status      ComplaintStatus    `bson:"status" json:"status"`
	Response    string             `bson:"response,omitempty" json:"response,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
