package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// Batch pipeline errors.
	ErrEmptyInput          = errors.New("empty input")
	ErrBatchCreationFailed = errors.New("batch creation failed")

	// Campaign dispatch errors.
	ErrAlreadySent                = errors.New("campaign already sent")
	ErrMissingProviderCredentials = errors.New("missing provider credentials")
	ErrProviderSendFailed         = errors.New("provider send failed")

	// Persistence errors. Repositories return this wrapped so per-item
	// failures can be told apart from "no rows".
	ErrPersistenceFailed = errors.New("persistence failed")
)
