package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-marketing-api/internal/domain"
	"github.com/go-marketing-api/internal/pkg/id"
)

// fallbackFirstName substitutes for contacts without a first name.
const fallbackFirstName = "there"

// DispatchReport summarizes one dispatch run. TotalSent counts every
// attempt; Delivered only confirmed provider successes.
type DispatchReport struct {
	CampaignID string `json:"campaign_id"`
	TotalSent  int    `json:"total_sent"`
	Delivered  int    `json:"delivered"`
	Failed     int    `json:"failed"`
}

// Dispatch sends a campaign to every reachable member of its contact list.
// A send failure for one contact never stops the rest of the run. On
// completion one analytics row is appended and the campaign transitions to
// sent exactly once. Context cancellation stops scheduling further sends
// and leaves the campaign in sending with no analytics row.
func (s *service) Dispatch(ctx context.Context, userID, campaignID string) (*DispatchReport, error) {
	c, err := s.authorize(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	if c.Status == domain.CampaignStatusSent {
		return nil, fmt.Errorf("campaign %s: %w", campaignID, domain.ErrAlreadySent)
	}
	if !c.Startable() {
		return nil, fmt.Errorf("campaign %s is %s: %w", campaignID, c.Status, domain.ErrConflict)
	}

	var requiredField string
	switch c.Type {
	case domain.CampaignTypeSMS:
		requiredField = domain.ContactFieldPhone
		if s.smsSender == nil || !s.smsSender.Configured() {
			return nil, fmt.Errorf("sms transport: %w", domain.ErrMissingProviderCredentials)
		}
	default:
		requiredField = domain.ContactFieldEmail
		if s.mailer == nil {
			return nil, fmt.Errorf("email transport: %w", domain.ErrMissingProviderCredentials)
		}
	}

	contacts, err := s.contacts.ListContactsForList(ctx, c.ContactListID, requiredField)
	if err != nil {
		return nil, fmt.Errorf("resolve contact list %s: %w", c.ContactListID, domain.ErrPersistenceFailed)
	}

	if err := s.campaigns.UpdateStatus(ctx, campaignID, domain.CampaignStatusSending); err != nil {
		return nil, err
	}

	report := &DispatchReport{CampaignID: campaignID}
	for i := range contacts {
		if ctx.Err() != nil {
			slog.Warn("dispatch cancelled", "campaign_id", campaignID, "attempted", report.TotalSent)
			return report, ctx.Err()
		}
		contact := &contacts[i]
		body := renderContent(c.Content, contact)

		var sendErr error
		if c.Type == domain.CampaignTypeSMS {
			_, sendErr = s.smsSender.SendSMS(ctx, contact.Phone, body)
		} else {
			_, sendErr = s.mailer.SendEmail(ctx, contact.Email, c.Subject, body)
		}
		report.TotalSent++
		if sendErr != nil {
			report.Failed++
			slog.Warn("send failed for contact",
				"campaign_id", campaignID, "contact_id", contact.ContactID,
				"err", fmt.Errorf("%w: %v", domain.ErrProviderSendFailed, sendErr))
			continue
		}
		report.Delivered++
	}

	a := &domain.CampaignAnalytics{
		AnalyticsID: id.New(),
		CampaignID:  campaignID,
		TotalSent:   report.TotalSent,
		Delivered:   report.Delivered,
		Bounced:     report.Failed,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.analytics.Put(ctx, a); err != nil {
		return report, fmt.Errorf("append analytics: %w", domain.ErrPersistenceFailed)
	}

	if err := s.campaigns.MarkSent(ctx, campaignID, time.Now().UTC()); err != nil {
		return report, err
	}
	slog.Info("campaign dispatched",
		"campaign_id", campaignID, "type", c.Type,
		"total_sent", report.TotalSent, "delivered", report.Delivered)
	return report, nil
}

// renderContent substitutes contact placeholders into the campaign body.
func renderContent(content string, c *domain.Contact) string {
	first := c.FirstName
	if first == "" {
		first = fallbackFirstName
	}
	return strings.NewReplacer(
		"{{first_name}}", first,
		"{{last_name}}", c.LastName,
	).Replace(content)
}
