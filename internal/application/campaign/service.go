package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/go-marketing-api/internal/domain"
	"github.com/go-marketing-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateCampaignRequest) (*domain.Campaign, error)
	List(ctx context.Context, userID string) ([]domain.Campaign, error)
	Get(ctx context.Context, userID, campaignID string) (*Details, error)
	Dispatch(ctx context.Context, userID, campaignID string) (*DispatchReport, error)
	Pause(ctx context.Context, userID, campaignID string) error
	CancelCampaign(ctx context.Context, userID, campaignID string) error
	Reset(ctx context.Context, userID, campaignID string) error
}

type campaignStore interface {
	Put(ctx context.Context, c *domain.Campaign) error
	Get(ctx context.Context, campaignID string) (*domain.Campaign, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Campaign, error)
	UpdateStatus(ctx context.Context, campaignID, status string) error
	// MarkSent transitions sending -> sent and stamps sent_at. It must fail
	// for a campaign that is not currently sending, so the terminal
	// transition happens at most once per run.
	MarkSent(ctx context.Context, campaignID string, sentAt time.Time) error
	// Reset returns a campaign to draft and clears sent_at.
	Reset(ctx context.Context, campaignID string) error
}

type analyticsStore interface {
	Put(ctx context.Context, a *domain.CampaignAnalytics) error
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.CampaignAnalytics, error)
}

type contactResolver interface {
	// ListContactsForList returns the member contacts of a list that have a
	// non-empty requiredField ("email" or "phone").
	ListContactsForList(ctx context.Context, contactListID, requiredField string) ([]domain.Contact, error)
}

type listStore interface {
	Get(ctx context.Context, contactListID string) (*domain.ContactList, error)
}

// Mailer delivers one rendered email through the configured channel
// provider and returns the provider message id.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, html string) (string, error)
}

// SMSSender delivers one rendered SMS. Configured reports whether the
// transport has usable credentials; dispatch fails fast when it does not.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
	Configured() bool
}

// Details is a campaign together with its per-run analytics history.
type Details struct {
	domain.Campaign
	Analytics []domain.CampaignAnalytics `json:"analytics"`
}

type service struct {
	campaigns campaignStore
	analytics analyticsStore
	contacts  contactResolver
	lists     listStore
	mailer    Mailer
	smsSender SMSSender
}

func NewService(campaigns campaignStore, analytics analyticsStore, contacts contactResolver, lists listStore, mailer Mailer, smsSender SMSSender) Service {
	return &service{
		campaigns: campaigns,
		analytics: analytics,
		contacts:  contacts,
		lists:     lists,
		mailer:    mailer,
		smsSender: smsSender,
	}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateCampaignRequest) (*domain.Campaign, error) {
	list, err := s.lists.Get(ctx, req.ContactListID)
	if err != nil {
		return nil, fmt.Errorf("contact list %s: %w", req.ContactListID, domain.ErrNotFound)
	}
	if list.UserID != userID {
		return nil, fmt.Errorf("contact list %s belongs to another user: %w", req.ContactListID, domain.ErrForbidden)
	}

	now := time.Now().UTC()
	c := &domain.Campaign{
		CampaignID:    id.New(),
		UserID:        userID,
		Name:          req.Name,
		Type:          req.Type,
		Subject:       req.Subject,
		Content:       req.Content,
		ContactListID: req.ContactListID,
		Status:        domain.CampaignStatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.ScheduledAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ScheduledAt)
		if err != nil {
			return nil, fmt.Errorf("scheduled_at must be RFC3339: %w", domain.ErrBadRequest)
		}
		c.ScheduledAt = &t
		c.Status = domain.CampaignStatusScheduled
	}
	if err := s.campaigns.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Campaign, error) {
	return s.campaigns.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID, campaignID string) (*Details, error) {
	c, err := s.authorize(ctx, userID, campaignID)
	if err != nil {
		return nil, err
	}
	analytics, err := s.analytics.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	return &Details{Campaign: *c, Analytics: analytics}, nil
}

func (s *service) Pause(ctx context.Context, userID, campaignID string) error {
	c, err := s.authorize(ctx, userID, campaignID)
	if err != nil {
		return err
	}
	if c.Status != domain.CampaignStatusScheduled && c.Status != domain.CampaignStatusSending {
		return fmt.Errorf("cannot pause a %s campaign: %w", c.Status, domain.ErrConflict)
	}
	return s.campaigns.UpdateStatus(ctx, campaignID, domain.CampaignStatusPaused)
}

func (s *service) CancelCampaign(ctx context.Context, userID, campaignID string) error {
	c, err := s.authorize(ctx, userID, campaignID)
	if err != nil {
		return err
	}
	if c.Status == domain.CampaignStatusSent {
		return fmt.Errorf("cannot cancel a sent campaign: %w", domain.ErrConflict)
	}
	return s.campaigns.UpdateStatus(ctx, campaignID, domain.CampaignStatusCancelled)
}

// Reset is the explicit user action that makes a sent, paused or cancelled
// campaign dispatchable again.
func (s *service) Reset(ctx context.Context, userID, campaignID string) error {
	c, err := s.authorize(ctx, userID, campaignID)
	if err != nil {
		return err
	}
	if c.Status == domain.CampaignStatusSending {
		return fmt.Errorf("cannot reset a campaign mid-dispatch: %w", domain.ErrConflict)
	}
	return s.campaigns.Reset(ctx, campaignID)
}

// authorize loads a campaign and enforces owner scoping.
func (s *service) authorize(ctx context.Context, userID, campaignID string) (*domain.Campaign, error) {
	c, err := s.campaigns.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("campaign %s belongs to another user: %w", campaignID, domain.ErrForbidden)
	}
	return c, nil
}
