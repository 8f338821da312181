package domain

import (
	"context"
	"errors"
)

// CreateSessionRequest describes a hosted checkout transaction. Amount is in
// the smallest currency unit.
type CreateSessionRequest struct {
	AmountMinor   int64
	Currency      string
	Description   string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// Session is the provider's checkout transaction reference plus the hosted
// redirect URL the client is sent to.
type Session struct {
	Ref string
	URL string
}

// SessionStatus is the terminal state of a checkout transaction as reported
// by the provider.
type SessionStatus struct {
	Settled   bool
	ChargeRef string
	Metadata  map[string]string
}

// CheckoutProvider wraps the external hosted checkout provider. Implementations
// never retry automatically; checkout transactions must not be silently
// duplicated, so retries are the caller's decision.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (Session, error)
	RetrieveSession(ctx context.Context, ref string) (SessionStatus, error)
}

var (
	// ErrProvider normalizes all provider-specific failures; the wrapped
	// message stays human-readable.
	ErrProvider = errors.New("payment_provider_error")

	// ErrSessionNotFound means the provider reports no such transaction.
	ErrSessionNotFound = errors.New("checkout_session_not_found")
)
