package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/utilitydesk/internal/audit"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	"github.com/smallbiznis/utilitydesk/internal/auth"
	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"github.com/smallbiznis/utilitydesk/internal/auth/session"
	"github.com/smallbiznis/utilitydesk/internal/authorization"
	"github.com/smallbiznis/utilitydesk/internal/billing"
	billingdomain "github.com/smallbiznis/utilitydesk/internal/billing/domain"
	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/smallbiznis/utilitydesk/internal/customer"
	customerdomain "github.com/smallbiznis/utilitydesk/internal/customer/domain"
	"github.com/smallbiznis/utilitydesk/internal/meter"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
	"github.com/smallbiznis/utilitydesk/internal/observability"
	obsmiddleware "github.com/smallbiznis/utilitydesk/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/utilitydesk/internal/observability/metrics"
	obstracing "github.com/smallbiznis/utilitydesk/internal/observability/tracing"
	"github.com/smallbiznis/utilitydesk/internal/ratelimit"
	"github.com/smallbiznis/utilitydesk/internal/tariff"
	tariffdomain "github.com/smallbiznis/utilitydesk/internal/tariff/domain"
	"github.com/smallbiznis/utilitydesk/internal/utility"
	utilitydomain "github.com/smallbiznis/utilitydesk/internal/utility/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	authorization.Module,
	audit.Module,
	auth.Module,
	billing.Module,
	customer.Module,
	meter.Module,
	tariff.Module,
	utility.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	authsvc      authdomain.Service
	sessions     *session.Manager
	authzSvc     authorization.Service
	auditSvc     auditdomain.Service
	billingSvc   billingdomain.Service
	customerSvc  customerdomain.Service
	meterSvc     meterdomain.Service
	tariffSvc    tariffdomain.Service
	utilitySvc   utilitydomain.Service
	loginLimiter *ratelimit.LoginLimiter
	metrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	Authsvc      authdomain.Service
	Sessions     *session.Manager
	AuthzSvc     authorization.Service
	AuditSvc     auditdomain.Service
	BillingSvc   billingdomain.Service
	CustomerSvc  customerdomain.Service
	MeterSvc     meterdomain.Service
	TariffSvc    tariffdomain.Service
	UtilitySvc   utilitydomain.Service
	LoginLimiter *ratelimit.LoginLimiter `optional:"true"`
	Metrics      *obsmetrics.Metrics     `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	limiter := p.LoginLimiter
	if limiter == nil {
		limiter = &ratelimit.LoginLimiter{}
	}

	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		authsvc:      p.Authsvc,
		sessions:     p.Sessions,
		authzSvc:     p.AuthzSvc,
		auditSvc:     p.AuditSvc,
		billingSvc:   p.BillingSvc,
		customerSvc:  p.CustomerSvc,
		meterSvc:     p.MeterSvc,
		tariffSvc:    p.TariffSvc,
		utilitySvc:   p.UtilitySvc,
		loginLimiter: limiter,
		metrics:      p.Metrics,
	}

	s.RegisterAuthRoutes()
	s.RegisterAPIRoutes()
	return s
}

func (s *Server) RegisterAuthRoutes() {
	group := s.engine.Group("/auth")
	group.POST("/login", s.LoginRateLimit(), s.Login)
	group.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	api.POST("/readings", s.RequireCapability(authorization.ActionReadingSubmit), s.SubmitReading)
	api.POST("/bills", s.RequireCapability(authorization.ActionBillGenerate), s.GenerateBill)
	api.POST("/payments", s.RequireCapability(authorization.ActionPaymentRecord), s.RecordPayment)

	api.GET("/bills", s.RequireCapability(authorization.ActionLedgerView), s.ListBills)
	api.GET("/bills/:id", s.RequireCapability(authorization.ActionLedgerView), s.GetBill)
	api.GET("/billable-customers", s.RequireCapability(authorization.ActionLedgerView), s.ListBillableCustomers)
	api.GET("/route-sheet", s.RequireCapability(authorization.ActionLedgerView), s.RouteSheet)

	api.GET("/customers", s.RequireCapability(authorization.ActionLedgerView), s.ListCustomers)
	api.GET("/customers/:id", s.RequireCapability(authorization.ActionLedgerView), s.GetCustomerByID)
	api.POST("/customers", s.RequireCapability(authorization.ActionCustomerManage), s.CreateCustomer)
	api.PUT("/customers/:id", s.RequireCapability(authorization.ActionCustomerManage), s.UpdateCustomer)
	api.DELETE("/customers/:id", s.RequireCapability(authorization.ActionCustomerDelete), s.DeleteCustomer)

	api.GET("/meters", s.RequireCapability(authorization.ActionLedgerView), s.ListMeters)
	api.GET("/meters/:id", s.RequireCapability(authorization.ActionLedgerView), s.GetMeterByID)
	api.GET("/meters/:id/readings", s.RequireCapability(authorization.ActionLedgerView), s.ListMeterReadings)
	api.POST("/meters", s.RequireCapability(authorization.ActionMeterManage), s.CreateMeter)
	api.PATCH("/meters/:id", s.RequireCapability(authorization.ActionMeterManage), s.UpdateMeter)
	api.DELETE("/meters/:id", s.RequireCapability(authorization.ActionMeterDelete), s.DeleteMeter)

	api.GET("/tariffs", s.RequireCapability(authorization.ActionLedgerView), s.ListTariffs)
	api.GET("/tariffs/:id", s.RequireCapability(authorization.ActionLedgerView), s.GetTariffByID)
	api.POST("/tariffs", s.RequireCapability(authorization.ActionTariffManage), s.CreateTariff)
	api.PATCH("/tariffs/:id", s.RequireCapability(authorization.ActionTariffManage), s.UpdateTariff)
	api.DELETE("/tariffs/:id", s.RequireCapability(authorization.ActionTariffDelete), s.DeleteTariff)

	api.GET("/utility-types", s.RequireCapability(authorization.ActionLedgerView), s.ListUtilityTypes)
	api.GET("/utility-types/:id", s.RequireCapability(authorization.ActionLedgerView), s.GetUtilityTypeByID)
	api.POST("/utility-types", s.RequireCapability(authorization.ActionUtilityManage), s.CreateUtilityType)

	api.GET("/staff", s.RequireCapability(authorization.ActionStaffManage), s.ListStaff)
	api.GET("/staff/:id", s.RequireCapability(authorization.ActionStaffManage), s.GetStaff)
	api.POST("/staff", s.RequireCapability(authorization.ActionStaffManage), s.CreateStaff)

	api.GET("/audit-logs", s.RequireCapability(authorization.ActionAuditLogView), s.ListAuditLogs)
}

// recordAudit writes an audit entry outside any transaction. Failures are
// logged by the audit service and do not fail the request.
func (s *Server) recordAudit(c *gin.Context, entry auditdomain.Entry) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(c.Request.Context(), nil, entry)
}
