package domain

import "time"

// Campaign channel types.
const (
	CampaignTypeEmail = "email"
	CampaignTypeSMS   = "sms"
)

// Campaign lifecycle states. Forward-only except pause/cancel/reset, which
// are explicit user actions.
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusScheduled = "scheduled"
	CampaignStatusSending   = "sending"
	CampaignStatusSent      = "sent"
	CampaignStatusPaused    = "paused"
	CampaignStatusCancelled = "cancelled"
)

// Campaign is a message template targeted at a contact list.
// PK: campaign_id. GSI: user_id-created_at.
type Campaign struct {
	CampaignID    string     `json:"campaign_id" dynamodbav:"campaign_id"`
	UserID        string     `json:"user_id" dynamodbav:"user_id"`
	Name          string     `json:"name" dynamodbav:"name"`
	Type          string     `json:"type" dynamodbav:"type"`
	Subject       string     `json:"subject,omitempty" dynamodbav:"subject"`
	Content       string     `json:"content" dynamodbav:"content"`
	ContactListID string     `json:"contact_list_id" dynamodbav:"contact_list_id"`
	Status        string     `json:"status" dynamodbav:"status"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty" dynamodbav:"scheduled_at"`
	SentAt        *time.Time `json:"sent_at,omitempty" dynamodbav:"sent_at"`
	CreatedAt     time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

// Startable reports whether a dispatch run may begin for this campaign.
func (c *Campaign) Startable() bool {
	return c.Status == CampaignStatusDraft || c.Status == CampaignStatusScheduled
}

// CampaignAnalytics is one append-only row per dispatch run.
// PK: analytics_id. GSI: campaign_id-created_at.
type CampaignAnalytics struct {
	AnalyticsID  string    `json:"analytics_id" dynamodbav:"analytics_id"`
	CampaignID   string    `json:"campaign_id" dynamodbav:"campaign_id"`
	TotalSent    int       `json:"total_sent" dynamodbav:"total_sent"`
	Delivered    int       `json:"delivered" dynamodbav:"delivered"`
	Bounced      int       `json:"bounced" dynamodbav:"bounced"`
	Clicked      int       `json:"clicked" dynamodbav:"clicked"`
	Opened       int       `json:"opened" dynamodbav:"opened"`
	Unsubscribed int       `json:"unsubscribed" dynamodbav:"unsubscribed"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateCampaignRequest struct {
	Name          string  `json:"name" validate:"required,max=200"`
	Type          string  `json:"type" validate:"required,oneof=email sms"`
	Subject       string  `json:"subject" validate:"required_if=Type email,max=500"`
	Content       string  `json:"content" validate:"required"`
	ContactListID string  `json:"contact_list_id" validate:"required"`
	ScheduledAt   *string `json:"scheduled_at"` // RFC3339
}

type SendCampaignRequest struct {
	CampaignID string `json:"campaign_id" validate:"required"`
}
