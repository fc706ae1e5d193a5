package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/Nonie001/chns/internal/audit/domain"
	"github.com/Nonie001/chns/internal/config"
	donationdomain "github.com/Nonie001/chns/internal/donation/domain"
	"github.com/Nonie001/chns/internal/observability/logger"
	"github.com/Nonie001/chns/internal/observability/tracing"
	settingsdomain "github.com/Nonie001/chns/internal/settings/domain"
	"github.com/Nonie001/chns/internal/storage"
)

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	DonationSvc donationdomain.Service
	SettingsSvc settingsdomain.Service
	AuditSvc    auditdomain.Service
	Store       storage.ObjectStore
}

type Server struct {
	cfg         config.Config
	log         *zap.Logger
	db          *gorm.DB
	donationSvc donationdomain.Service
	settingsSvc settingsdomain.Service
	auditSvc    auditdomain.Service
	store       storage.ObjectStore

	loginLimiter  *rateLimiter
	submitLimiter *rateLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:         p.Cfg,
		log:         p.Log.Named("server"),
		db:          p.DB,
		donationSvc: p.DonationSvc,
		settingsSvc: p.SettingsSvc,
		auditSvc:    p.AuditSvc,
		store:       p.Store,
		// Brute-force and spam protection on the two unauthenticated routes.
		loginLimiter:  newRateLimiter(10, time.Minute),
		submitLimiter: newRateLimiter(30, time.Minute),
	}
}

// NewEngine builds the gin engine. It depends on the tracer provider so
// tracing is installed before the first request; the tracing middleware runs
// ahead of the request logger, which reads the span from the context.
func NewEngine(cfg config.Config, _ *sdktrace.TracerProvider) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(tracing.GinMiddleware())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz"},
	}))
	return engine
}

func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	api.POST("/auth/login", s.Login)
	api.POST("/donations", s.CreateDonation)
	api.POST("/donations/slip", s.UploadSlip)

	admin := api.Group("", s.AdminRequired())
	admin.GET("/donations", s.ListDonations)
	admin.GET("/donations/:id", s.GetDonation)
	admin.POST("/donations/:id/approve", s.ApproveDonation)
	admin.POST("/donations/:id/reject", s.RejectDonation)
	admin.DELETE("/donations/:id", s.DeleteDonation)
	admin.POST("/receipts/preview", s.PreviewReceipt)
	admin.GET("/settings/email", s.GetEmailSettings)
	admin.POST("/settings/email", s.UpdateEmailSettings)
	admin.POST("/settings/signature", s.UploadSignature)
}

// RunHTTP starts the HTTP server under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine, s *Server) {
	s.RegisterRoutes(engine)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RunHTTP),
)
