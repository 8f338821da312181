package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coursebay/coursebay/internal/booking"
	bookingdomain "github.com/coursebay/coursebay/internal/booking/domain"
	"github.com/coursebay/coursebay/internal/config"
	"github.com/coursebay/coursebay/internal/gateway"
	"github.com/coursebay/coursebay/internal/reporting"
	reportingdomain "github.com/coursebay/coursebay/internal/reporting/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	gateway.Module,
	booking.Module,
	reporting.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) {
		s.RegisterAPIRoutes()
	}),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	bookingSvc   bookingdomain.Service
	reportingSvc reportingdomain.Service
}

type ServerParams struct {
	fx.In

	Engine       *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	BookingSvc   bookingdomain.Service
	ReportingSvc reportingdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Engine,
		cfg:          p.Cfg,
		log:          p.Log.Named("server"),
		bookingSvc:   p.BookingSvc,
		reportingSvc: p.ReportingSvc,
	}
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(Identity())

	bookings := api.Group("/booking")
	bookings.GET("", s.ListBookings)
	bookings.GET("/stats", s.GetStats)
	bookings.POST("/create", s.CreateBooking)
	bookings.GET("/check", s.CheckEnrollment)
	bookings.GET("/confirm", s.ConfirmPayment)
	bookings.GET("/my", s.GetUserBookings)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
