package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/portal-gateway/api/controllers"
	"github.com/moyoez/portal-gateway/api/middlewares"
	"github.com/moyoez/portal-gateway/api/notifyhub"
	"github.com/moyoez/portal-gateway/portal"
	"github.com/moyoez/portal-gateway/tool"
	"github.com/moyoez/portal-gateway/types"
)

const shutdownTimeout = 5 * time.Second

// Server is the captive portal HTTP server. It is only ever built in portal mode.
type Server struct {
	addr      string
	svc       *portal.Service
	hub       *notifyhub.Hub
	restarter tool.Restarter
	cfg       types.AppConfig

	engine *gin.Engine
	server *http.Server
}

// NewServer wires the portal service into a gin engine. restarter is invoked after a
// credential deploy or reboot request.
func NewServer(cfg types.AppConfig, svc *portal.Service, hub *notifyhub.Hub, restarter tool.Restarter) *Server {
	s := &Server{
		addr:      cfg.HTTPAddr,
		svc:       svc,
		hub:       hub,
		restarter: restarter,
		cfg:       cfg,
	}
	s.engine = s.setupRoutes()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the routed engine, mostly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.RequestLogger())

	portalCtrl := controllers.NewPortalController(s.svc, s.cfg.PortalURL,
		middlewares.NewClientLimiter(s.cfg.Submit.Rate, s.cfg.Submit.Burst))
	adminCtrl := controllers.NewAdminController(s.svc, s.restarter, s.cfg.RestartDelay)

	// OS connectivity checks
	for _, path := range controllers.ProbePaths {
		engine.GET(path, portalCtrl.HandleProbe)
	}

	engine.GET("/portal", portalCtrl.HandleLanding)
	engine.POST("/submit-message", portalCtrl.HandleSubmitMessage)
	engine.GET("/healthz", portalCtrl.HandleHealth)
	engine.GET("/qr.png", portalCtrl.HandleQRCode)
	if s.hub != nil {
		engine.GET("/wall/ws", notifyhub.HandleWallWS(s.hub))
	}

	engine.GET("/admin", adminCtrl.HandleLoginForm)
	engine.POST("/admin", adminCtrl.HandleLogin)

	admin := engine.Group("/", middlewares.RequireAdmin(s.svc))
	{
		admin.POST("/log", adminCtrl.HandleLog)
		admin.POST("/exportlog", adminCtrl.HandleExportLog)
		admin.POST("/clearlog", adminCtrl.HandleClearLog)
		admin.POST("/clearwall", adminCtrl.HandleClearWall)
		admin.POST("/save-settings", adminCtrl.HandleSaveSettings)
		admin.POST("/editor", adminCtrl.HandleEditor)
		admin.POST("/save-landing", adminCtrl.HandleSaveLanding)
		admin.POST("/reset-landing", adminCtrl.HandleResetLanding)
		admin.POST("/save", adminCtrl.HandleDeploy)
		admin.POST("/reboot", adminCtrl.HandleReboot)
	}

	// Everything else, on any host the DNS responder sent here, is the landing page.
	engine.NoRoute(portalCtrl.HandleLanding)

	return engine
}

// Start serves until Shutdown is called. It returns nil on a clean shutdown, also when
// Shutdown ran first.
func (s *Server) Start() error {
	tool.DefaultLogger.Infof("Starting portal server on %s", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits up to shutdownTimeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}
