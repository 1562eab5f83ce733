package contact

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-marketing-api/internal/domain"
	"github.com/go-marketing-api/internal/pkg/id"
)

// Expected CSV columns, in order. A first row containing "email" is treated
// as a header and skipped.
var csvColumns = []string{"email", "phone", "first_name", "last_name"}

// ImportCSV parses a contact CSV, archives the raw upload in object storage,
// creates one contact per usable row and attaches each to the target list.
// Bad rows are skipped and reported, never aborting the import.
func (s *service) ImportCSV(ctx context.Context, userID, contactListID, filename string, r io.Reader) (*domain.ImportSummary, error) {
	if _, err := s.authorizeList(ctx, userID, contactListID); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", domain.ErrBadRequest)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty file: %w", domain.ErrEmptyInput)
	}

	summary := &domain.ImportSummary{}

	// Archive the original upload so imports are auditable and replayable.
	key := fmt.Sprintf("imports/%s/%s/%s-%s", userID, contactListID, id.New(), sanitizeFilename(filename))
	if s.objects != nil {
		url, err := s.objects.Upload(ctx, key, bytes.NewReader(raw), "text/csv")
		if err != nil {
			slog.Warn("could not archive import file", "key", key, "err", err)
		} else {
			summary.FileURL = url
		}
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("malformed csv: %w", domain.ErrBadRequest)
	}

	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		summary.Total++
		c := rowToContact(userID, row)
		if c.Email == "" && c.Phone == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: no email or phone", i+1))
			continue
		}
		if err := s.contacts.Put(ctx, c); err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: could not save contact", i+1))
			slog.Warn("import row failed", "row", i+1, "err", err)
			continue
		}
		m := &domain.ContactListMembership{
			MembershipID:  id.New(),
			ContactListID: contactListID,
			ContactID:     c.ContactID,
			CreatedAt:     time.Now().UTC(),
		}
		if err := s.memberships.Put(ctx, m); err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: could not attach to list", i+1))
			slog.Warn("import membership failed", "row", i+1, "err", err)
			continue
		}
		summary.Imported++
	}
	return summary, nil
}

func isHeaderRow(row []string) bool {
	for _, field := range row {
		if strings.EqualFold(strings.TrimSpace(field), csvColumns[0]) {
			return true
		}
	}
	return false
}

func rowToContact(userID string, row []string) *domain.Contact {
	field := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	now := time.Now().UTC()
	return &domain.Contact{
		ContactID: id.New(),
		UserID:    userID,
		Email:     field(0),
		Phone:     field(1),
		FirstName: field(2),
		LastName:  field(3),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "upload.csv"
	}
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	return name
}
