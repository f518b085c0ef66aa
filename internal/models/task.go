package models

import (
	"time"

	"github.com/google/uuid"
)

// Task lifecycle: open -> claimed -> submitted -> approved | rejected.
// Approved and rejected are terminal; there is no path back to open and no
// re-claim after rejection.
const (
	TaskStatusOpen      = "open"
	TaskStatusClaimed   = "claimed"
	TaskStatusSubmitted = "submitted"
	TaskStatusApproved  = "approved"
	TaskStatusRejected  = "rejected"
)

type Task struct {
	ID             uuid.UUID  `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Tags           []string   `json:"tags"`
	Bounty         int        `json:"bounty"`
	PosterID       uuid.UUID  `json:"poster_id"`
	Status         string     `json:"status"`
	ClaimedBy      *uuid.UUID `json:"claimed_by,omitempty"`
	SubmissionNote string     `json:"submission_note,omitempty"`
	RejectReason   string     `json:"reject_reason,omitempty"`
	PlatformFee    int        `json:"platform_fee"`
	Escrow         int        `json:"escrow"`
	CreatedAt      time.Time  `json:"created_at"`
}

// IsTerminal reports whether the task has reached a final state. Terminal
// tasks always have zero escrow.
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusApproved || t.Status == TaskStatusRejected
}
