package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	PaymentMethodOnline = "Online"

	PaymentStatusUnpaid = "Unpaid"
	PaymentStatusPaid   = "Paid"

	OrderStatusPending   = "Pending"
	OrderStatusConfirmed = "Confirmed"
)

// Booking is the durable record of one enrollment attempt. Course fields are a
// snapshot taken at booking time; later catalog changes never alter them.
type Booking struct {
	ID                snowflake.ID      `gorm:"primaryKey" json:"id"`
	BookingID         string            `gorm:"column:booking_id;not null;uniqueIndex:ux_bookings_booking_id" json:"booking_id"`
	UserID            string            `gorm:"column:user_id;not null;index" json:"user_id"`
	StudentName       string            `gorm:"not null" json:"student_name"`
	CourseRef         string            `gorm:"column:course_ref;not null" json:"course_ref"`
	CourseName        string            `gorm:"not null" json:"course_name"`
	TeacherName       string            `gorm:"not null;default:''" json:"teacher_name"`
	Price             float64           `gorm:"not null" json:"price"`
	PaymentMethod     string            `gorm:"not null;default:'Online'" json:"payment_method"`
	PaymentStatus     string            `gorm:"not null;default:'Unpaid'" json:"payment_status"`
	OrderStatus       string            `gorm:"not null;default:'Pending'" json:"order_status"`
	GatewaySessionRef string            `gorm:"column:gateway_session_ref" json:"gateway_session_ref,omitempty"`
	GatewayChargeRef  string            `gorm:"column:gateway_charge_ref" json:"gateway_charge_ref,omitempty"`
	PaidAt            *time.Time        `json:"paid_at,omitempty"`
	Notes             string            `gorm:"not null;default:''" json:"notes,omitempty"`
	Metadata          datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt         time.Time         `gorm:"not null" json:"created_at"`
}

func (Booking) TableName() string { return "bookings" }

// Settled reports whether the booking counts as an enrollment. Stored state is
// checked case-insensitively because earlier data versions mixed casing.
func (b Booking) Settled() bool {
	return strings.EqualFold(b.PaymentStatus, PaymentStatusPaid) ||
		strings.EqualFold(b.OrderStatus, OrderStatusConfirmed) ||
		b.PaidAt != nil
}
