// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names.  Both queues are declared durable by publisher and consumer.
const (
	PenaltyIssuedQueue    = "penalty.issued"
	ComplaintUpdatedQueue = "complaint.updated"
)

// PenaltyIssuedEvent is published when an admin issues a penalty against an
// operator.  It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type PenaltyIssuedEvent struct {
	PenaltyID     string  `json:"penalty_id"`
	OperatorID    string  `json:"operator_id"`
	OperatorEmail string  `json:"operator_email"`
	IssuedByID    string  `json:"issued_by_id"`
	Reason        string  `json:"reason"`
	Amount        float64 `json:"amount"`
	IssuedAt      string  `json:"issued_at"`
}

// ComplaintUpdatedEvent is published when a complaint's status changes.
type ComplaintUpdatedEvent struct {
	ComplaintID string `json:"complaint_id"`
	ToiletID    string `json:"toilet_id"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	Response    string `json:"response,omitempty"`
	UpdatedBy   string `json:"updated_by"`
	UpdatedAt   string `json:"updated_at"`
}
