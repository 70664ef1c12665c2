package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/ahmedooo1/nfeat/internal/chat"
	"github.com/ahmedooo1/nfeat/internal/clock"
	"github.com/ahmedooo1/nfeat/internal/config"
	"github.com/ahmedooo1/nfeat/internal/observability/logger"
	"github.com/ahmedooo1/nfeat/internal/observability/metrics"
	ordersdomain "github.com/ahmedooo1/nfeat/internal/orders/domain"
	profiledomain "github.com/ahmedooo1/nfeat/internal/profile/domain"
	receiptdomain "github.com/ahmedooo1/nfeat/internal/receipt/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(run),
)

type Params struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	DB          *gorm.DB
	Clock       clock.Clock
	ProfileSvc  profiledomain.Service
	OrderSvc    ordersdomain.Service
	ReceiptSvc  receiptdomain.Service
	Widget      chat.Widget
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
}

// Server owns the HTTP surface: profile CRUD, receipt generation, chat
// widget bootstrap.
type Server struct {
	cfg            config.Config
	log            *zap.Logger
	db             *gorm.DB
	clock          clock.Clock
	profileSvc     profiledomain.Service
	orderSvc       ordersdomain.Service
	receiptSvc     receiptdomain.Service
	widget         chat.Widget
	receiptLimiter *rateLimiter
	engine         *gin.Engine
}

func NewServer(p Params) *Server {
	if p.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:            p.Cfg,
		log:            p.Log.Named("server"),
		db:             p.DB,
		clock:          p.Clock,
		profileSvc:     p.ProfileSvc,
		orderSvc:       p.OrderSvc,
		receiptSvc:     p.ReceiptSvc,
		widget:         p.Widget,
		receiptLimiter: newRateLimiter(p.Cfg.ReceiptRateLimit, p.Cfg.ReceiptRateWindow),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{SkipPaths: []string{"/healthz", "/metrics"}}))
	if p.HTTPMetrics != nil {
		engine.Use(metrics.GinMiddleware(p.HTTPMetrics))
	}

	engine.GET("/healthz", s.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.GET("/chat/widget", s.ChatWidget)

	authed := api.Group("")
	authed.Use(s.identityMiddleware())
	authed.GET("/user/profile", s.GetProfile)
	authed.PUT("/user/profile", s.UpdateProfile)
	authed.PUT("/user/profile/password", s.UpdatePassword)
	authed.POST("/orders", s.CreateOrder)
	authed.GET("/orders/:id/receipt", s.OrderReceipt)

	s.engine = engine
	return s
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) Health(c *gin.Context) {
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func run(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				s.log.Info("http server listening", zap.String("addr", s.cfg.ListenAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
