package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/coursebay/coursebay/internal/booking/domain"
	"github.com/coursebay/coursebay/internal/booking/repository"
	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:bookingrepo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	schema := []string{
		`CREATE TABLE bookings (
			id BIGINT PRIMARY KEY,
			booking_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			student_name TEXT NOT NULL,
			course_ref TEXT NOT NULL,
			course_name TEXT NOT NULL,
			teacher_name TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL,
			payment_method TEXT NOT NULL DEFAULT 'Online',
			payment_status TEXT NOT NULL DEFAULT 'Unpaid',
			order_status TEXT NOT NULL DEFAULT 'Pending',
			gateway_session_ref TEXT,
			gateway_charge_ref TEXT,
			paid_at TIMESTAMP,
			notes TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE UNIQUE INDEX ux_bookings_booking_id ON bookings(booking_id)`,
	}
	for _, stmt := range schema {
		if err := conn.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return conn
}

func newBooking(node *snowflake.Node, bookingID, userID, courseRef string, createdAt time.Time) *domain.Booking {
	return &domain.Booking{
		ID:            node.Generate(),
		BookingID:     bookingID,
		UserID:        userID,
		StudentName:   "Student",
		CourseRef:     courseRef,
		CourseName:    "Course " + courseRef,
		Price:         100,
		PaymentMethod: domain.PaymentMethodOnline,
		PaymentStatus: domain.PaymentStatusUnpaid,
		OrderStatus:   domain.OrderStatusPending,
		Metadata:      datatypes.JSONMap{"booking_id": bookingID},
		CreatedAt:     createdAt,
	}
}

func TestInsertEnforcesBookingIDUniqueness(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	repo := repository.Provide()

	node, err := snowflake.NewNode(3)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	now := time.Now().UTC()
	if err := repo.Insert(ctx, conn, newBooking(node, "BK-1", "u1", "C1", now)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	err = repo.Insert(ctx, conn, newBooking(node, "BK-1", "u2", "C2", now))
	if !errors.Is(err, domain.ErrDuplicateBooking) {
		t.Fatalf("expected ErrDuplicateBooking, got %v", err)
	}
}

func TestMarkPaidAppliesOnlyOnce(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	repo := repository.Provide()

	node, err := snowflake.NewNode(4)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	now := time.Now().UTC()
	if err := repo.Insert(ctx, conn, newBooking(node, "BK-1", "u1", "C1", now)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	applied, err := repo.MarkPaid(ctx, conn, "BK-1", "pi_1", now)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !applied {
		t.Fatalf("expected first transition to apply")
	}

	applied, err = repo.MarkPaid(ctx, conn, "BK-1", "pi_2", now.Add(time.Hour))
	if err != nil {
		t.Fatalf("mark paid again: %v", err)
	}
	if applied {
		t.Fatalf("expected second transition to be a no-op")
	}

	booking, err := repo.FindByBookingID(ctx, conn, "BK-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if booking == nil {
		t.Fatalf("booking not found")
	}
	if booking.GatewayChargeRef != "pi_1" {
		t.Fatalf("expected charge ref pi_1, got %s", booking.GatewayChargeRef)
	}
	if booking.PaymentStatus != domain.PaymentStatusPaid || booking.OrderStatus != domain.OrderStatusConfirmed {
		t.Fatalf("unexpected state %s/%s", booking.PaymentStatus, booking.OrderStatus)
	}
}

func TestFindLatestForCoursePicksNewest(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	repo := repository.Provide()

	node, err := snowflake.NewNode(5)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		booking := newBooking(node, fmt.Sprintf("BK-%d", i), "u1", "C1", base.Add(time.Duration(i)*time.Minute))
		if err := repo.Insert(ctx, conn, booking); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	latest, err := repo.FindLatestForCourse(ctx, conn, "u1", "C1")
	if err != nil {
		t.Fatalf("find latest: %v", err)
	}
	if latest == nil || latest.BookingID != "BK-2" {
		t.Fatalf("expected BK-2, got %+v", latest)
	}

	missing, err := repo.FindLatestForCourse(ctx, conn, "u1", "C9")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown course, got %+v", missing)
	}
}

func TestFindBySessionRef(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	repo := repository.Provide()

	node, err := snowflake.NewNode(6)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}

	booking := newBooking(node, "BK-1", "u1", "C1", time.Now().UTC())
	booking.GatewaySessionRef = "cs_test_1"
	if err := repo.Insert(ctx, conn, booking); err != nil {
		t.Fatalf("insert: %v", err)
	}

	found, err := repo.FindBySessionRef(ctx, conn, "cs_test_1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.BookingID != "BK-1" {
		t.Fatalf("expected BK-1, got %+v", found)
	}

	missing, err := repo.FindBySessionRef(ctx, conn, "cs_other")
	if err != nil {
		t.Fatalf("find missing: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown session, got %+v", missing)
	}
}
