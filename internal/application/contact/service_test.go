package contact

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/go-marketing-api/internal/domain"
)

// --- mocks ---

type mockContactStore struct{ mock.Mock }

func (m *mockContactStore) Put(ctx context.Context, c *domain.Contact) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockContactStore) Get(ctx context.Context, contactID string) (*domain.Contact, error) {
	args := m.Called(ctx, contactID)
	if c, _ := args.Get(0).(*domain.Contact); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockContactStore) ListByUser(ctx context.Context, userID string) ([]domain.Contact, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Contact), args.Error(1)
}
func (m *mockContactStore) Delete(ctx context.Context, contactID string) error {
	return m.Called(ctx, contactID).Error(0)
}

type mockListStore struct{ mock.Mock }

func (m *mockListStore) Put(ctx context.Context, l *domain.ContactList) error {
	return m.Called(ctx, l).Error(0)
}
func (m *mockListStore) Get(ctx context.Context, contactListID string) (*domain.ContactList, error) {
	args := m.Called(ctx, contactListID)
	if l, _ := args.Get(0).(*domain.ContactList); l != nil {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockListStore) ListByUser(ctx context.Context, userID string) ([]domain.ContactList, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.ContactList), args.Error(1)
}

type mockMembershipStore struct{ mock.Mock }

func (m *mockMembershipStore) Put(ctx context.Context, mem *domain.ContactListMembership) error {
	return m.Called(ctx, mem).Error(0)
}
func (m *mockMembershipStore) ListByList(ctx context.Context, contactListID string) ([]domain.ContactListMembership, error) {
	args := m.Called(ctx, contactListID)
	return args.Get(0).([]domain.ContactListMembership), args.Error(1)
}
func (m *mockMembershipStore) Delete(ctx context.Context, membershipID string) error {
	return m.Called(ctx, membershipID).Error(0)
}
func (m *mockMembershipStore) ListContactsForList(ctx context.Context, contactListID, requiredField string) ([]domain.Contact, error) {
	args := m.Called(ctx, contactListID, requiredField)
	return args.Get(0).([]domain.Contact), args.Error(1)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

// --- helpers ---

func ownedList() *domain.ContactList {
	return &domain.ContactList{ContactListID: "l1", UserID: "u1", Name: "Newsletter"}
}

func newTestService() (Service, *mockContactStore, *mockListStore, *mockMembershipStore, *mockObjectStore) {
	cs := new(mockContactStore)
	ls := new(mockListStore)
	ms := new(mockMembershipStore)
	os := new(mockObjectStore)
	return NewService(cs, ls, ms, os), cs, ls, ms, os
}

// --- tests ---

func TestCreateContact_RequiresEmailOrPhone(t *testing.T) {
	svc, cs, _, _, _ := newTestService()

	_, err := svc.CreateContact(context.Background(), "u1", domain.CreateContactRequest{
		FirstName: "Jane",
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	cs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestCreateContact_PhoneOnlyIsFine(t *testing.T) {
	svc, cs, _, _, _ := newTestService()
	cs.On("Put", mock.Anything, mock.Anything).Return(nil)

	c, err := svc.CreateContact(context.Background(), "u1", domain.CreateContactRequest{
		Phone: "+14155552671",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ContactID)
	assert.Equal(t, "u1", c.UserID)
}

func TestDeleteContact_Forbidden(t *testing.T) {
	svc, cs, _, _, _ := newTestService()
	cs.On("Get", mock.Anything, "ct1").Return(&domain.Contact{ContactID: "ct1", UserID: "someone-else"}, nil)

	err := svc.DeleteContact(context.Background(), "u1", "ct1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	cs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAddMember_ContactFromAnotherUser(t *testing.T) {
	svc, cs, ls, ms, _ := newTestService()
	ls.On("Get", mock.Anything, "l1").Return(ownedList(), nil)
	cs.On("Get", mock.Anything, "ct1").Return(&domain.Contact{ContactID: "ct1", UserID: "someone-else"}, nil)

	_, err := svc.AddMember(context.Background(), "u1", "l1", "ct1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	ms.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestListMembers_ForeignList(t *testing.T) {
	svc, _, ls, _, _ := newTestService()
	foreign := ownedList()
	foreign.UserID = "someone-else"
	ls.On("Get", mock.Anything, "l1").Return(foreign, nil)

	_, err := svc.ListMembers(context.Background(), "u1", "l1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// --- import ---

const sampleCSV = `email,phone,first_name,last_name
jane@example.com,+14155552671,Jane,Doe
john@example.com,,John,
,,NoReach,Person
bob@example.com,,Bob,Builder
`

func TestImportCSV_HappyPath(t *testing.T) {
	svc, cs, ls, ms, os := newTestService()
	ls.On("Get", mock.Anything, "l1").Return(ownedList(), nil)
	os.On("Upload", mock.Anything, mock.Anything, mock.Anything, "text/csv").
		Return("s3://bucket/imports/file.csv", nil)
	cs.On("Put", mock.Anything, mock.Anything).Return(nil)
	ms.On("Put", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.ImportCSV(context.Background(), "u1", "l1", "contacts.csv", strings.NewReader(sampleCSV))
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Total, "header row is not counted")
	assert.Equal(t, 3, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "no email or phone")
	assert.Equal(t, "s3://bucket/imports/file.csv", summary.FileURL)
	cs.AssertNumberOfCalls(t, "Put", 3)
	ms.AssertNumberOfCalls(t, "Put", 3)
}

func TestImportCSV_NoHeaderRow(t *testing.T) {
	svc, cs, ls, ms, os := newTestService()
	ls.On("Get", mock.Anything, "l1").Return(ownedList(), nil)
	os.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)

	var imported []*domain.Contact
	cs.On("Put", mock.Anything, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) { imported = append(imported, args.Get(1).(*domain.Contact)) })
	ms.On("Put", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.ImportCSV(context.Background(), "u1", "l1", "x.csv",
		strings.NewReader("jane@example.com,,Jane,Doe\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	require.Len(t, imported, 1)
	assert.Equal(t, "jane@example.com", imported[0].Email)
	assert.Equal(t, "Jane", imported[0].FirstName)
}

func TestImportCSV_EmptyFile(t *testing.T) {
	svc, _, ls, _, _ := newTestService()
	ls.On("Get", mock.Anything, "l1").Return(ownedList(), nil)

	_, err := svc.ImportCSV(context.Background(), "u1", "l1", "x.csv", strings.NewReader(""))
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestImportCSV_ArchiveFailureDoesNotAbort(t *testing.T) {
	svc, cs, ls, ms, os := newTestService()
	ls.On("Get", mock.Anything, "l1").Return(ownedList(), nil)
	os.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket gone"))
	cs.On("Put", mock.Anything, mock.Anything).Return(nil)
	ms.On("Put", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.ImportCSV(context.Background(), "u1", "l1", "x.csv",
		strings.NewReader("jane@example.com,,Jane,Doe\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Empty(t, summary.FileURL)
}

func TestImportCSV_RowFailureIsolated(t *testing.T) {
	svc, cs, ls, ms, os := newTestService()
	ls.On("Get", mock.Anything, "l1").Return(ownedList(), nil)
	os.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("url", nil)
	cs.On("Put", mock.Anything, mock.MatchedBy(func(c *domain.Contact) bool {
		return c.Email == "john@example.com"
	})).Return(errors.New("throttled"))
	cs.On("Put", mock.Anything, mock.Anything).Return(nil)
	ms.On("Put", mock.Anything, mock.Anything).Return(nil)

	summary, err := svc.ImportCSV(context.Background(), "u1", "l1", "x.csv",
		strings.NewReader("jane@example.com,,Jane,Doe\njohn@example.com,,John,Doe\nbob@example.com,,Bob,B\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
}

func TestImportCSV_ForeignList(t *testing.T) {
	svc, _, ls, _, os := newTestService()
	foreign := ownedList()
	foreign.UserID = "someone-else"
	ls.On("Get", mock.Anything, "l1").Return(foreign, nil)

	_, err := svc.ImportCSV(context.Background(), "u1", "l1", "x.csv", strings.NewReader(sampleCSV))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	os.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "contacts.csv", sanitizeFilename("contacts.csv"))
	assert.Equal(t, "my_list__final_.csv", sanitizeFilename("my list (final).csv"))
	assert.Equal(t, "upload.csv", sanitizeFilename("  "))
}

func TestRemoveMember_DeletesMembership(t *testing.T) {
	svc, _, ls, ms, _ := newTestService()
	ls.On("Get", mock.Anything, "l1").Return(ownedList(), nil)
	ms.On("ListByList", mock.Anything, "l1").Return([]domain.ContactListMembership{
		{MembershipID: "m1", ContactListID: "l1", ContactID: "ct1"},
		{MembershipID: "m2", ContactListID: "l1", ContactID: "ct2"},
	}, nil)
	ms.On("Delete", mock.Anything, "m2").Return(nil)

	require.NoError(t, svc.RemoveMember(context.Background(), "u1", "l1", "ct2"))
	ms.AssertExpectations(t)
}

func TestRemoveMember_NotAMember(t *testing.T) {
	svc, _, ls, ms, _ := newTestService()
	ls.On("Get", mock.Anything, "l1").Return(ownedList(), nil)
	ms.On("ListByList", mock.Anything, "l1").Return([]domain.ContactListMembership{}, nil)

	err := svc.RemoveMember(context.Background(), "u1", "l1", "ct9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	ms.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
