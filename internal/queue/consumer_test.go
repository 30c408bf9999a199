package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPenaltyIssued(t *testing.T) {
	ev := PenaltyIssuedEvent{
		PenaltyID:     "66f000000000000000000001",
		OperatorID:    "66f000000000000000000002",
		OperatorEmail: "op@example.com",
		IssuedByID:    "66f000000000000000000003",
		Reason:        "hygiene violation",
		Amount:        500,
		IssuedAt:      "2026-08-28T10:00:00Z",
	}
	body, err := json.Marshal(ev)
	assert.NoError(t, err)

	line, err := formatPenaltyIssued(body)
	assert.NoError(t, err)
	assert.Contains(t, line, "Penalty issued")
	assert.Contains(t, line, "penalty_id=66f000000000000000000001")
	assert.Contains(t, line, "op@example.com")
	assert.Contains(t, line, "amount=500.00")
	assert.Contains(t, line, `reason="hygiene violation"`)
	assert.Equal(t, uint8('\n'), line[len(line)-1])
}

func TestFormatComplaintUpdated(t *testing.T) {
	ev := ComplaintUpdatedEvent{
		ComplaintID: "66f000000000000000000004",
		ToiletID:    "66f000000000000000000005",
		OldStatus:   "Pending",
		NewStatus:   "In Progress",
		UpdatedBy:   "66f000000000000000000006",
		UpdatedAt:   "2026-08-28T10:00:00Z",
	}
	body, err := json.Marshal(ev)
	assert.NoError(t, err)

	line, err := formatComplaintUpdated(body)
	assert.NoError(t, err)
	assert.Contains(t, line, "Complaint updated")
	assert.Contains(t, line, "Pending -> In Progress")
	assert.Contains(t, line, "toilet=66f000000000000000000005")
}

func TestFormatters_RejectGarbage(t *testing.T) {
	_, err := formatPenaltyIssued([]byte("not json"))
	assert.Error(t, err)
	_, err = formatComplaintUpdated([]byte("{"))
	assert.Error(t, err)
}
