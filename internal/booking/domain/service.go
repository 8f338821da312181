package domain

import (
	"context"
	"errors"
)

type CreateBookingRequest struct {
	CourseID    string
	CourseName  string
	TeacherName string
	Price       string
	Notes       string
	Email       string
	StudentName string

	// OriginHint and HostHint come from the inbound request and are only
	// consulted when no explicit frontend URL is configured.
	OriginHint string
	HostHint   string
}

type CreateBookingResponse struct {
	Booking Booking `json:"booking"`
	// CheckoutURL is empty for free courses; the client is redirected to it
	// for paid ones.
	CheckoutURL string `json:"checkout_url,omitempty"`
}

type EnrollmentStatus struct {
	Enrolled bool     `json:"enrolled"`
	Booking  *Booking `json:"booking"`
}

type Service interface {
	Create(ctx context.Context, req CreateBookingRequest) (CreateBookingResponse, error)
	Reconcile(ctx context.Context, sessionRef string) (Booking, error)
	CheckEnrollment(ctx context.Context, courseRef string) (EnrollmentStatus, error)
	ListByUser(ctx context.Context) ([]Booking, error)
}

var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidCourse       = errors.New("invalid_course")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidSession      = errors.New("invalid_session")
	ErrNotFound            = errors.New("not_found")
	ErrDuplicateBooking    = errors.New("duplicate_booking")
	ErrProviderUnavailable = errors.New("payment_provider_unavailable")
	ErrPaymentNotCompleted = errors.New("payment_not_completed")
	ErrNoRedirectBase      = errors.New("no_redirect_base")

	// ErrPartialFailure marks a checkout session that was created at the
	// provider while the local booking insert failed. The session is orphaned
	// and reconciled or expired out of band, never silently retried.
	ErrPartialFailure = errors.New("partial_failure")
)
