package contact

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-marketing-api/internal/domain"
	"github.com/go-marketing-api/internal/pkg/id"
)

type Service interface {
	CreateContact(ctx context.Context, userID string, req domain.CreateContactRequest) (*domain.Contact, error)
	ListContacts(ctx context.Context, userID string) ([]domain.Contact, error)
	DeleteContact(ctx context.Context, userID, contactID string) error

	CreateList(ctx context.Context, userID string, req domain.CreateContactListRequest) (*domain.ContactList, error)
	ListLists(ctx context.Context, userID string) ([]domain.ContactList, error)
	AddMember(ctx context.Context, userID, contactListID, contactID string) (*domain.ContactListMembership, error)
	RemoveMember(ctx context.Context, userID, contactListID, contactID string) error
	ListMembers(ctx context.Context, userID, contactListID string) ([]domain.Contact, error)

	ImportCSV(ctx context.Context, userID, contactListID, filename string, r io.Reader) (*domain.ImportSummary, error)
}

type contactStore interface {
	Put(ctx context.Context, c *domain.Contact) error
	Get(ctx context.Context, contactID string) (*domain.Contact, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Contact, error)
	Delete(ctx context.Context, contactID string) error
}

type listStore interface {
	Put(ctx context.Context, l *domain.ContactList) error
	Get(ctx context.Context, contactListID string) (*domain.ContactList, error)
	ListByUser(ctx context.Context, userID string) ([]domain.ContactList, error)
}

type membershipStore interface {
	Put(ctx context.Context, m *domain.ContactListMembership) error
	ListByList(ctx context.Context, contactListID string) ([]domain.ContactListMembership, error)
	Delete(ctx context.Context, membershipID string) error
	ListContactsForList(ctx context.Context, contactListID, requiredField string) ([]domain.Contact, error)
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type service struct {
	contacts    contactStore
	lists       listStore
	memberships membershipStore
	objects     objectStore
}

func NewService(contacts contactStore, lists listStore, memberships membershipStore, objects objectStore) Service {
	return &service{contacts: contacts, lists: lists, memberships: memberships, objects: objects}
}

func (s *service) CreateContact(ctx context.Context, userID string, req domain.CreateContactRequest) (*domain.Contact, error) {
	if req.Email == "" && req.Phone == "" {
		return nil, fmt.Errorf("contact needs an email or a phone: %w", domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	c := &domain.Contact{
		ContactID: id.New(),
		UserID:    userID,
		Email:     req.Email,
		Phone:     req.Phone,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.contacts.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListContacts(ctx context.Context, userID string) ([]domain.Contact, error) {
	return s.contacts.ListByUser(ctx, userID)
}

func (s *service) DeleteContact(ctx context.Context, userID, contactID string) error {
	c, err := s.contacts.Get(ctx, contactID)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return fmt.Errorf("contact %s belongs to another user: %w", contactID, domain.ErrForbidden)
	}
	return s.contacts.Delete(ctx, contactID)
}

func (s *service) CreateList(ctx context.Context, userID string, req domain.CreateContactListRequest) (*domain.ContactList, error) {
	now := time.Now().UTC()
	l := &domain.ContactList{
		ContactListID: id.New(),
		UserID:        userID,
		Name:          req.Name,
		Description:   req.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.lists.Put(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *service) ListLists(ctx context.Context, userID string) ([]domain.ContactList, error) {
	return s.lists.ListByUser(ctx, userID)
}

func (s *service) AddMember(ctx context.Context, userID, contactListID, contactID string) (*domain.ContactListMembership, error) {
	if _, err := s.authorizeList(ctx, userID, contactListID); err != nil {
		return nil, err
	}
	c, err := s.contacts.Get(ctx, contactID)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, fmt.Errorf("contact %s belongs to another user: %w", contactID, domain.ErrForbidden)
	}
	m := &domain.ContactListMembership{
		MembershipID:  id.New(),
		ContactListID: contactListID,
		ContactID:     contactID,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.memberships.Put(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RemoveMember detaches a contact from a list. The contact itself is kept.
func (s *service) RemoveMember(ctx context.Context, userID, contactListID, contactID string) error {
	if _, err := s.authorizeList(ctx, userID, contactListID); err != nil {
		return err
	}
	memberships, err := s.memberships.ListByList(ctx, contactListID)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		if m.ContactID == contactID {
			return s.memberships.Delete(ctx, m.MembershipID)
		}
	}
	return fmt.Errorf("contact %s is not a member of list %s: %w", contactID, contactListID, domain.ErrNotFound)
}

func (s *service) ListMembers(ctx context.Context, userID, contactListID string) ([]domain.Contact, error) {
	if _, err := s.authorizeList(ctx, userID, contactListID); err != nil {
		return nil, err
	}
	return s.memberships.ListContactsForList(ctx, contactListID, "")
}

func (s *service) authorizeList(ctx context.Context, userID, contactListID string) (*domain.ContactList, error) {
	l, err := s.lists.Get(ctx, contactListID)
	if err != nil {
		return nil, err
	}
	if l.UserID != userID {
		return nil, fmt.Errorf("contact list %s belongs to another user: %w", contactListID, domain.ErrForbidden)
	}
	return l, nil
}
