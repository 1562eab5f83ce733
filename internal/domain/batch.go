package domain

import "time"

// Batch lifecycle states. A batch moves pending -> completed or
// pending -> failed exactly once and is never reopened.
const (
	BatchStatusPending   = "pending"
	BatchStatusCompleted = "completed"
	BatchStatusFailed    = "failed"
)

// Per-item verification statuses.
const (
	EmailStatusValid   = "valid"
	EmailStatusInvalid = "invalid"
	EmailStatusRisky   = "risky"
	EmailStatusUnknown = "unknown"
)

// VerificationBatch is one invocation's worth of emails submitted together.
// PK: batch_id. GSI: user_id-created_at for per-owner listing.
// Counter invariant: valid+invalid+risky+unknown == processed <= total.
type VerificationBatch struct {
	BatchID     string     `json:"batch_id" dynamodbav:"batch_id"`
	UserID      string     `json:"user_id" dynamodbav:"user_id"`
	Total       int        `json:"total_emails" dynamodbav:"total_emails"`
	Processed   int        `json:"processed_emails" dynamodbav:"processed_emails"`
	Valid       int        `json:"valid_emails" dynamodbav:"valid_emails"`
	Invalid     int        `json:"invalid_emails" dynamodbav:"invalid_emails"`
	Risky       int        `json:"risky_emails" dynamodbav:"risky_emails"`
	Unknown     int        `json:"unknown_emails" dynamodbav:"unknown_emails"`
	Status      string     `json:"status" dynamodbav:"status"`
	CreatedAt   time.Time  `json:"created_at" dynamodbav:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" dynamodbav:"completed_at"`
}

// Percent returns batch progress as 0-100.
func (b *VerificationBatch) Percent() int {
	if b.Total == 0 {
		return 0
	}
	return b.Processed * 100 / b.Total
}

// VerificationResult is the classification outcome for a single email.
// Immutable once written. PK: verification_id. GSI: batch_id-seq so results
// read back in input order.
type VerificationResult struct {
	VerificationID string    `json:"verification_id" dynamodbav:"verification_id"`
	BatchID        string    `json:"batch_id" dynamodbav:"batch_id"`
	UserID         string    `json:"user_id" dynamodbav:"user_id"`
	Seq            int       `json:"seq" dynamodbav:"seq"`
	Email          string    `json:"email" dynamodbav:"email"`
	Status         string    `json:"status" dynamodbav:"status"`
	Reason         string    `json:"reason" dynamodbav:"reason"`
	VerifiedAt     time.Time `json:"verification_date" dynamodbav:"verification_date"`
}

type VerifyEmailsRequest struct {
	Emails []string `json:"emails" validate:"required,min=1,dive,max=320"`
}
