package repository

import (
	"context"
	"time"

	"github.com/coursebay/coursebay/internal/booking/domain"
	"github.com/coursebay/coursebay/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, booking *domain.Booking) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO bookings (
			id, booking_id, user_id, student_name, course_ref, course_name,
			teacher_name, price, payment_method, payment_status, order_status,
			gateway_session_ref, gateway_charge_ref, paid_at, notes, metadata, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		booking.ID,
		booking.BookingID,
		booking.UserID,
		booking.StudentName,
		booking.CourseRef,
		booking.CourseName,
		booking.TeacherName,
		booking.Price,
		booking.PaymentMethod,
		booking.PaymentStatus,
		booking.OrderStatus,
		booking.GatewaySessionRef,
		booking.GatewayChargeRef,
		booking.PaidAt,
		booking.Notes,
		booking.Metadata,
		booking.CreatedAt,
	).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicateBooking
	}
	return err
}

func (r *repo) FindByBookingID(ctx context.Context, conn *gorm.DB, bookingID string) (*domain.Booking, error) {
	return r.findOne(ctx, conn,
		`SELECT * FROM bookings WHERE booking_id = ?`,
		bookingID,
	)
}

func (r *repo) FindBySessionRef(ctx context.Context, conn *gorm.DB, sessionRef string) (*domain.Booking, error) {
	return r.findOne(ctx, conn,
		`SELECT * FROM bookings WHERE gateway_session_ref = ? ORDER BY created_at DESC LIMIT 1`,
		sessionRef,
	)
}

func (r *repo) FindLatestForCourse(ctx context.Context, conn *gorm.DB, userID, courseRef string) (*domain.Booking, error) {
	return r.findOne(ctx, conn,
		`SELECT * FROM bookings WHERE user_id = ? AND course_ref = ? ORDER BY created_at DESC LIMIT 1`,
		userID,
		courseRef,
	)
}

func (r *repo) ListByUser(ctx context.Context, conn *gorm.DB, userID string) ([]*domain.Booking, error) {
	var bookings []*domain.Booking
	err := conn.WithContext(ctx).Raw(
		`SELECT * FROM bookings WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	).Scan(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repo) MarkPaid(ctx context.Context, conn *gorm.DB, bookingID, chargeRef string, paidAt time.Time) (bool, error) {
	res := conn.WithContext(ctx).Exec(
		`UPDATE bookings
		 SET payment_status = ?, order_status = ?, gateway_charge_ref = ?, paid_at = ?
		 WHERE booking_id = ? AND payment_status = ?`,
		domain.PaymentStatusPaid,
		domain.OrderStatusConfirmed,
		chargeRef,
		paidAt,
		bookingID,
		domain.PaymentStatusUnpaid,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) findOne(ctx context.Context, conn *gorm.DB, query string, args ...any) (*domain.Booking, error) {
	var booking domain.Booking
	err := conn.WithContext(ctx).Raw(query, args...).Scan(&booking).Error
	if err != nil {
		return nil, err
	}
	if booking.ID == 0 {
		return nil, nil
	}
	return &booking, nil
}
