package domain

import "errors"

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Billing/membership error kinds. Usecases wrap these in apperror so handlers
// get an HTTP code while tests and callers can still match with errors.Is.
var (
	ErrInvalidPlan         = errors.New("invalid membership plan")
	ErrAlreadyActive       = errors.New("membership already active")
	ErrNoActiveMembership  = errors.New("no active membership")
	ErrDuplicatePlacement  = errors.New("placement already recorded")
	ErrUnpaidInvoiceExists = errors.New("team has unpaid invoices")
)
