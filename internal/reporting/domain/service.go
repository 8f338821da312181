package domain

import (
	"context"

	bookingdomain "github.com/coursebay/coursebay/internal/booking/domain"
)

type ListBookingsRequest struct {
	Search   string
	Status   string
	Page     int
	PageSize int
}

type ListBookingsResponse struct {
	Bookings []bookingdomain.Booking `json:"bookings"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"limit"`
	Count    int                     `json:"count"`
}

type CourseStat struct {
	CourseName string  `json:"course_name"`
	Count      int64   `json:"count"`
	Revenue    float64 `json:"revenue"`
}

type StatsResponse struct {
	TotalBookings     int64        `json:"total_bookings"`
	TotalRevenue      float64      `json:"total_revenue"`
	BookingsLast7Days int64        `json:"bookings_last_7_days"`
	TopCourses        []CourseStat `json:"top_courses"`
}

// Service reads the booking store for dashboards and listings. It never
// mutates bookings; state transitions stay with the booking service.
type Service interface {
	List(ctx context.Context, req ListBookingsRequest) (ListBookingsResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
}
