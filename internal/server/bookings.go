package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	bookingdomain "github.com/coursebay/coursebay/internal/booking/domain"
	reportingdomain "github.com/coursebay/coursebay/internal/reporting/domain"
)

type createBookingRequest struct {
	CourseID    string `json:"courseId"`
	CourseName  string `json:"courseName"`
	TeacherName string `json:"teacherName"`
	Price       any    `json:"price"`
	Notes       string `json:"notes"`
	Email       string `json:"email"`
	StudentName string `json:"studentName"`
}

// ListBookings is the public listing with optional search, status filter and
// paging.
func (s *Server) ListBookings(c *gin.Context) {
	resp, err := s.reportingSvc.List(c.Request.Context(), reportingdomain.ListBookingsRequest{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Page:     parseIntDefault(c.Query("page"), 1),
		PageSize: parseIntDefault(c.Query("limit"), 0),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"bookings": resp.Bookings,
		"meta": gin.H{
			"page":  resp.Page,
			"limit": resp.PageSize,
			"count": resp.Count,
		},
	})
}

func (s *Server) GetStats(c *gin.Context) {
	stats, err := s.reportingSvc.Stats(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (s *Server) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	resp, err := s.bookingSvc.Create(c.Request.Context(), bookingdomain.CreateBookingRequest{
		CourseID:    req.CourseID,
		CourseName:  req.CourseName,
		TeacherName: req.TeacherName,
		Price:       rawNumber(req.Price),
		Notes:       req.Notes,
		Email:       req.Email,
		StudentName: req.StudentName,
		OriginHint:  c.GetHeader("Origin"),
		HostHint:    requestBase(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"booking":     resp.Booking,
		"checkoutUrl": nullableString(resp.CheckoutURL),
	})
}

func (s *Server) CheckEnrollment(c *gin.Context) {
	status, err := s.bookingSvc.CheckEnrollment(c.Request.Context(), c.Query("courseId"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"enrolled": status.Enrolled,
		"booking":  status.Booking,
	})
}

func (s *Server) ConfirmPayment(c *gin.Context) {
	booking, err := s.bookingSvc.Reconcile(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

func (s *Server) GetUserBookings(c *gin.Context) {
	bookings, err := s.bookingSvc.ListByUser(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "bookings": bookings})
}

func requestBase(c *gin.Context) string {
	host := c.Request.Host
	if host == "" {
		return ""
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + host
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
