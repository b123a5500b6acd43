package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moyoez/portal-gateway/api/middlewares"
	"github.com/moyoez/portal-gateway/portal"
	"github.com/moyoez/portal-gateway/store"
	"github.com/moyoez/portal-gateway/tool"
)

// AdminController serves the admin pages. Every handler except the login form runs
// behind middlewares.RequireAdmin.
type AdminController struct {
	svc          *portal.Service
	restarter    tool.Restarter
	restartDelay time.Duration
}

func NewAdminController(svc *portal.Service, restarter tool.Restarter, restartDelay time.Duration) *AdminController {
	return &AdminController{svc: svc, restarter: restarter, restartDelay: restartDelay}
}

func textError(c *gin.Context, code int, msg string) {
	c.Data(code, "text/plain; charset=utf-8", []byte(msg))
}

func (ctrl *AdminController) page(c *gin.Context, code int, html string, err error) {
	if err != nil {
		tool.DefaultLogger.Errorf("[Admin] Failed to render page: %v", err)
		textError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.Data(code, htmlContentType, []byte(html))
}

func (ctrl *AdminController) notice(c *gin.Context, title, message string) {
	html, err := ctrl.svc.RenderNotice(title, message, true)
	ctrl.page(c, http.StatusOK, html, err)
}

func (ctrl *AdminController) storageFailed(c *gin.Context, action string, err error) {
	tool.DefaultLogger.Errorf("[Admin] %s failed: %v", action, err)
	textError(c, http.StatusInternalServerError, "Storage error")
}

// HandleLoginForm is GET /admin.
func (ctrl *AdminController) HandleLoginForm(c *gin.Context) {
	html, err := ctrl.svc.RenderLogin(false)
	ctrl.page(c, http.StatusOK, html, err)
}

// HandleLogin is POST /admin: the dashboard when authorized, the login form with an error otherwise.
func (ctrl *AdminController) HandleLogin(c *gin.Context) {
	if !middlewares.IsAuthorized(c, ctrl.svc) {
		tool.DefaultLogger.Infof("[Admin] Rejected login from %s", c.ClientIP())
		html, err := ctrl.svc.RenderLogin(true)
		ctrl.page(c, http.StatusOK, html, err)
		return
	}
	html, err := ctrl.svc.RenderDashboard()
	ctrl.page(c, http.StatusOK, html, err)
}

func (ctrl *AdminController) HandleLog(c *gin.Context) {
	html, err := ctrl.svc.RenderLog()
	ctrl.page(c, http.StatusOK, html, err)
}

func (ctrl *AdminController) HandleExportLog(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="log.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(ctrl.svc.LogText()))
}

func (ctrl *AdminController) HandleClearLog(c *gin.Context) {
	if err := ctrl.svc.ClearLog(); err != nil {
		ctrl.storageFailed(c, "clear log", err)
		return
	}
	ctrl.notice(c, "Log cleared", "The connection log is empty now.")
}

func (ctrl *AdminController) HandleClearWall(c *gin.Context) {
	if err := ctrl.svc.ClearWall(); err != nil {
		ctrl.storageFailed(c, "clear wall", err)
		return
	}
	ctrl.notice(c, "Wall cleared", "All public messages were removed.")
}

// HandleSaveSettings reads ap_ssid, site_name and the public_wall checkbox. An absent
// checkbox means the wall is disabled.
func (ctrl *AdminController) HandleSaveSettings(c *gin.Context) {
	_, publicWall := c.GetPostForm("public_wall")
	settings, err := ctrl.svc.SaveSettings(c.PostForm("ap_ssid"), c.PostForm("site_name"), publicWall)
	if err != nil {
		ctrl.storageFailed(c, "save settings", err)
		return
	}
	tool.DefaultLogger.Infof("[Admin] Settings saved: ap=%q site=%q wall=%t", settings.APName, settings.SiteName, settings.PublicWallEnabled)
	ctrl.notice(c, "Settings saved", "A new access point name is broadcast after the next reboot.")
}

func (ctrl *AdminController) HandleEditor(c *gin.Context) {
	html, err := ctrl.svc.RenderEditor()
	ctrl.page(c, http.StatusOK, html, err)
}

func (ctrl *AdminController) HandleSaveLanding(c *gin.Context) {
	err := ctrl.svc.SaveLanding(c.PostForm("html"))
	switch {
	case errors.Is(err, store.ErrLandingTooLarge):
		textError(c, http.StatusBadRequest, "Landing page too large")
		return
	case errors.Is(err, store.ErrLandingInvalid):
		textError(c, http.StatusBadRequest, "Landing page must contain an <html> tag")
		return
	case err != nil:
		ctrl.storageFailed(c, "save landing page", err)
		return
	}
	ctrl.notice(c, "Landing page saved", "Visitors see the new landing page now.")
}

func (ctrl *AdminController) HandleResetLanding(c *gin.Context) {
	if err := ctrl.svc.ResetLanding(); err != nil {
		ctrl.storageFailed(c, "reset landing page", err)
		return
	}
	ctrl.notice(c, "Landing page reset", "The built-in landing page is active again.")
}

// HandleDeploy stores station credentials and restarts the device to try them.
func (ctrl *AdminController) HandleDeploy(c *gin.Context) {
	err := ctrl.svc.DeployCredentials(c.PostForm("ssid"), c.PostForm("password"))
	switch {
	case errors.Is(err, portal.ErrEmptySSID):
		textError(c, http.StatusBadRequest, "SSID required")
		return
	case err != nil:
		ctrl.storageFailed(c, "save credentials", err)
		return
	}
	tool.DefaultLogger.Infof("[Admin] Station credentials deployed, restarting")
	html, err := ctrl.svc.RenderNotice("Saved", "Credentials saved. The device restarts and joins the network.", false)
	ctrl.page(c, http.StatusOK, html, err)
	tool.RestartAfter(ctrl.restarter, ctrl.restartDelay)
}

func (ctrl *AdminController) HandleReboot(c *gin.Context) {
	tool.DefaultLogger.Infof("[Admin] Reboot requested from %s", c.ClientIP())
	html, err := ctrl.svc.RenderNotice("Rebooting", "The device restarts now.", false)
	ctrl.page(c, http.StatusOK, html, err)
	tool.RestartAfter(ctrl.restarter, ctrl.restartDelay)
}
