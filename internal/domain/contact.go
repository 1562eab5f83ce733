package domain

import "time"

// Channel fields a contact may be reached on. Used when resolving a contact
// list for dispatch: contacts missing the required field are skipped.
const (
	ContactFieldEmail = "email"
	ContactFieldPhone = "phone"
)

// Contact is a single addressable person owned by one user.
// PK: contact_id. GSI: user_id-created_at.
type Contact struct {
	ContactID string    `json:"contact_id" dynamodbav:"contact_id"`
	UserID    string    `json:"user_id" dynamodbav:"user_id"`
	Email     string    `json:"email,omitempty" dynamodbav:"email"`
	Phone     string    `json:"phone,omitempty" dynamodbav:"phone"`
	FirstName string    `json:"first_name,omitempty" dynamodbav:"first_name"`
	LastName  string    `json:"last_name,omitempty" dynamodbav:"last_name"`
	CreatedAt time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// ContactList is a named grouping of contacts targeted by campaigns.
// PK: contact_list_id. GSI: user_id-created_at.
type ContactList struct {
	ContactListID string    `json:"contact_list_id" dynamodbav:"contact_list_id"`
	UserID        string    `json:"user_id" dynamodbav:"user_id"`
	Name          string    `json:"name" dynamodbav:"name"`
	Description   string    `json:"description,omitempty" dynamodbav:"description"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

// ContactListMembership joins contacts to lists (many-to-many).
// PK: membership_id. GSI: contact_list_id-created_at.
type ContactListMembership struct {
	MembershipID  string    `json:"membership_id" dynamodbav:"membership_id"`
	ContactListID string    `json:"contact_list_id" dynamodbav:"contact_list_id"`
	ContactID     string    `json:"contact_id" dynamodbav:"contact_id"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at"`
}

type CreateContactRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone" validate:"omitempty,e164"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

type CreateContactListRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=1000"`
}

type AddListMemberRequest struct {
	ContactID string `json:"contact_id" validate:"required"`
}

// ImportSummary reports the outcome of a CSV contact import.
type ImportSummary struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
	FileURL  string   `json:"file_url,omitempty"`
}
