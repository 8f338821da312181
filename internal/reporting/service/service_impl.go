package service

import (
	"context"
	"strings"

	bookingdomain "github.com/coursebay/coursebay/internal/booking/domain"
	"github.com/coursebay/coursebay/internal/clock"
	"github.com/coursebay/coursebay/internal/reporting/domain"
	"github.com/coursebay/coursebay/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const topCourseLimit = 6

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("reporting.service"),
		clock: p.Clock,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListBookingsRequest) (domain.ListBookingsResponse, error) {
	page := pagination.Pagination{Page: req.Page, PageSize: req.PageSize}.Clamp()

	stmt := s.db.WithContext(ctx).Model(&bookingdomain.Booking{})

	if status := strings.TrimSpace(req.Status); status != "" {
		stmt = stmt.Where("order_status = ?", status)
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		stmt = stmt.Where(
			`LOWER(booking_id) LIKE ? OR LOWER(course_name) LIKE ? OR LOWER(teacher_name) LIKE ?
			 OR LOWER(user_id) LIKE ? OR LOWER(student_name) LIKE ?`,
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var items []bookingdomain.Booking
	err := stmt.
		Order("created_at desc").
		Limit(page.Limit()).
		Offset(page.Offset()).
		Find(&items).Error
	if err != nil {
		return domain.ListBookingsResponse{}, err
	}

	return domain.ListBookingsResponse{
		Bookings: items,
		Page:     page.Page,
		PageSize: page.PageSize,
		Count:    len(items),
	}, nil
}

// Stats is computed from current store state on every call. This is a
// low-frequency admin view; freshness wins over caching.
func (s *Service) Stats(ctx context.Context) (domain.StatsResponse, error) {
	var total int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM bookings`,
	).Scan(&total).Error; err != nil {
		return domain.StatsResponse{}, err
	}

	var revenue float64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(price), 0) FROM bookings WHERE payment_status = ?`,
		bookingdomain.PaymentStatusPaid,
	).Scan(&revenue).Error; err != nil {
		return domain.StatsResponse{}, err
	}

	sevenDaysAgo := s.clock.Now().AddDate(0, 0, -7)
	var recent int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM bookings WHERE created_at >= ?`,
		sevenDaysAgo,
	).Scan(&recent).Error; err != nil {
		return domain.StatsResponse{}, err
	}

	var topCourses []domain.CourseStat
	if err := s.db.WithContext(ctx).Raw(
		`SELECT course_name, COUNT(1) AS count, COALESCE(SUM(price), 0) AS revenue
		 FROM bookings
		 GROUP BY course_name
		 ORDER BY count DESC
		 LIMIT ?`,
		topCourseLimit,
	).Scan(&topCourses).Error; err != nil {
		return domain.StatsResponse{}, err
	}

	return domain.StatsResponse{
		TotalBookings:     total,
		TotalRevenue:      revenue,
		BookingsLast7Days: recent,
		TopCourses:        topCourses,
	}, nil
}
