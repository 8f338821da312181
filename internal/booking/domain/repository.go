package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, booking *Booking) error
	FindByBookingID(ctx context.Context, db *gorm.DB, bookingID string) (*Booking, error)
	FindBySessionRef(ctx context.Context, db *gorm.DB, sessionRef string) (*Booking, error)
	FindLatestForCourse(ctx context.Context, db *gorm.DB, userID, courseRef string) (*Booking, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]*Booking, error)

	// MarkPaid applies the Paid/Confirmed transition only while the booking is
	// still unpaid. The conditional update is the sole serialization point for
	// concurrent reconciliations; applied reports whether this call won.
	MarkPaid(ctx context.Context, db *gorm.DB, bookingID, chargeRef string, paidAt time.Time) (applied bool, err error)
}
