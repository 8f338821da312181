package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/coursebay/coursebay/internal/booking/domain"
	"github.com/coursebay/coursebay/internal/clock"
	"github.com/coursebay/coursebay/internal/config"
	gatewaydomain "github.com/coursebay/coursebay/internal/gateway/domain"
	"github.com/coursebay/coursebay/internal/identity"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Cfg      config.Config
	Repo     domain.Repository
	Provider gatewaydomain.CheckoutProvider `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	cfg      config.Config
	repo     domain.Repository
	provider gatewaydomain.CheckoutProvider
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("booking.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		cfg:      p.Cfg,
		repo:     p.Repo,
		provider: p.Provider,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBookingRequest) (domain.CreateBookingResponse, error) {
	userID, ok := identity.UserIDFromContext(ctx)
	if !ok {
		return domain.CreateBookingResponse{}, domain.ErrUnauthorized
	}

	courseID := strings.TrimSpace(req.CourseID)
	courseName := strings.TrimSpace(req.CourseName)
	if courseID == "" || courseName == "" {
		return domain.CreateBookingResponse{}, domain.ErrInvalidCourse
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return domain.CreateBookingResponse{}, err
	}

	studentName := resolveStudentName(req.StudentName, req.Email, userID)
	bookingID := "BK-" + uuid.NewString()
	now := s.clock.Now()

	booking := domain.Booking{
		ID:            s.genID.Generate(),
		BookingID:     bookingID,
		UserID:        userID,
		StudentName:   studentName,
		CourseRef:     courseID,
		CourseName:    courseName,
		TeacherName:   strings.TrimSpace(req.TeacherName),
		Price:         price,
		PaymentMethod: domain.PaymentMethodOnline,
		PaymentStatus: domain.PaymentStatusUnpaid,
		OrderStatus:   domain.OrderStatusPending,
		Notes:         strings.TrimSpace(req.Notes),
		Metadata: datatypes.JSONMap{
			"booking_id":   bookingID,
			"course_id":    courseID,
			"user_id":      userID,
			"student_name": studentName,
		},
		CreatedAt: now,
	}

	// Free course: no gateway involved, confirmed at creation.
	if price == 0 {
		paidAt := now
		booking.PaymentStatus = domain.PaymentStatusPaid
		booking.OrderStatus = domain.OrderStatusConfirmed
		booking.PaidAt = &paidAt

		if err := s.repo.Insert(ctx, s.db, &booking); err != nil {
			return domain.CreateBookingResponse{}, err
		}
		return domain.CreateBookingResponse{Booking: booking}, nil
	}

	if s.provider == nil {
		return domain.CreateBookingResponse{}, domain.ErrProviderUnavailable
	}

	base, ok := resolveRedirectBase(s.cfg.FrontendURL, req.OriginHint, req.HostHint)
	if !ok {
		return domain.CreateBookingResponse{}, domain.ErrNoRedirectBase
	}

	session, err := s.provider.CreateSession(ctx, gatewaydomain.CreateSessionRequest{
		AmountMinor:   int64(math.Round(price * 100)),
		Currency:      s.cfg.CheckoutCurrency,
		Description:   courseName,
		CustomerEmail: strings.TrimSpace(req.Email),
		SuccessURL:    base + "/booking/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     base + "/booking/cancel",
		Metadata: map[string]string{
			"booking_id":   bookingID,
			"course_id":    courseID,
			"user_id":      userID,
			"student_name": studentName,
		},
	})
	if err != nil {
		return domain.CreateBookingResponse{}, err
	}

	booking.GatewaySessionRef = session.Ref
	if err := s.repo.Insert(ctx, s.db, &booking); err != nil {
		// The checkout session already exists at the provider. It has to be
		// reconciled or expired out of band, so log enough to find it.
		s.log.Error("booking insert failed after checkout session was created",
			zap.String("booking_id", bookingID),
			zap.String("gateway_session_ref", session.Ref),
			zap.Error(err),
		)
		return domain.CreateBookingResponse{}, fmt.Errorf("%w: checkout session %s has no booking record", domain.ErrPartialFailure, session.Ref)
	}

	return domain.CreateBookingResponse{Booking: booking, CheckoutURL: session.URL}, nil
}

func (s *Service) Reconcile(ctx context.Context, sessionRef string) (domain.Booking, error) {
	if _, ok := identity.UserIDFromContext(ctx); !ok {
		return domain.Booking{}, domain.ErrUnauthorized
	}

	sessionRef = strings.TrimSpace(sessionRef)
	if sessionRef == "" {
		return domain.Booking{}, domain.ErrInvalidSession
	}

	if s.provider == nil {
		return domain.Booking{}, domain.ErrProviderUnavailable
	}

	status, err := s.provider.RetrieveSession(ctx, sessionRef)
	if err != nil {
		if errors.Is(err, gatewaydomain.ErrSessionNotFound) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	if !status.Settled {
		return domain.Booking{}, domain.ErrPaymentNotCompleted
	}

	booking, err := s.repo.FindBySessionRef(ctx, s.db, sessionRef)
	if err != nil {
		return domain.Booking{}, err
	}
	if booking == nil {
		if ref := status.Metadata["booking_id"]; ref != "" {
			booking, err = s.repo.FindByBookingID(ctx, s.db, ref)
			if err != nil {
				return domain.Booking{}, err
			}
		}
	}
	if booking == nil {
		return domain.Booking{}, domain.ErrNotFound
	}

	// Whether this call wins the conditional update or an earlier or
	// concurrent reconcile already did, re-read so the caller always sees
	// the stored record after the transition.
	if _, err := s.repo.MarkPaid(ctx, s.db, booking.BookingID, status.ChargeRef, s.clock.Now()); err != nil {
		return domain.Booking{}, err
	}

	updated, err := s.repo.FindByBookingID(ctx, s.db, booking.BookingID)
	if err != nil {
		return domain.Booking{}, err
	}
	if updated == nil {
		return domain.Booking{}, domain.ErrNotFound
	}
	return *updated, nil
}

func (s *Service) CheckEnrollment(ctx context.Context, courseRef string) (domain.EnrollmentStatus, error) {
	userID, ok := identity.UserIDFromContext(ctx)
	if !ok {
		// Intentionally permissive: the caller decides whether to prompt login.
		return domain.EnrollmentStatus{}, nil
	}

	courseRef = strings.TrimSpace(courseRef)
	if courseRef == "" {
		return domain.EnrollmentStatus{}, domain.ErrInvalidCourse
	}

	booking, err := s.repo.FindLatestForCourse(ctx, s.db, userID, courseRef)
	if err != nil {
		return domain.EnrollmentStatus{}, err
	}
	if booking == nil {
		return domain.EnrollmentStatus{}, nil
	}

	return domain.EnrollmentStatus{Enrolled: booking.Settled(), Booking: booking}, nil
}

func (s *Service) ListByUser(ctx context.Context) ([]domain.Booking, error) {
	userID, ok := identity.UserIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	items, err := s.repo.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		bookings = append(bookings, *item)
	}
	return bookings, nil
}

func parsePrice(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, domain.ErrInvalidPrice
	}
	price, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, domain.ErrInvalidPrice
	}
	return price, nil
}

// resolveStudentName picks a display name: explicit name, then email, then a
// placeholder derived from the user id.
func resolveStudentName(name, email, userID string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	if trimmed := strings.TrimSpace(email); trimmed != "" {
		return trimmed
	}
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "User-" + prefix
}

// resolveRedirectBase picks the checkout return base by precedence: explicit
// configuration, then the request origin, then the request host.
func resolveRedirectBase(configured, origin, host string) (string, bool) {
	if configured != "" {
		return strings.TrimRight(configured, "/"), true
	}
	if trimmed := strings.TrimSpace(origin); trimmed != "" {
		return strings.TrimRight(trimmed, "/"), true
	}
	if trimmed := strings.TrimSpace(host); trimmed != "" {
		return strings.TrimRight(trimmed, "/"), true
	}
	return "", false
}
