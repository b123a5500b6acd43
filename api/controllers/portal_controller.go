package controllers

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"github.com/moyoez/portal-gateway/api/middlewares"
	"github.com/moyoez/portal-gateway/portal"
	"github.com/moyoez/portal-gateway/tool"
	"github.com/moyoez/portal-gateway/types"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	qrSize          = 256
)

// ProbePaths are the connectivity-check URLs phones and laptops fetch right after joining
// a network. Redirecting them makes the OS open its captive portal sheet.
var ProbePaths = []string{
	"/generate_204",
	"/gen_204",
	"/hotspot-detect.html",
	"/library/test/success.html",
	"/ncsi.txt",
	"/connecttest.txt",
	"/redirect",
	"/success.txt",
	"/canonical.html",
	"/fwlink",
}

// PortalController serves the unauthenticated visitor side.
type PortalController struct {
	svc       *portal.Service
	portalURL string
	limiter   *middlewares.ClientLimiter
}

func NewPortalController(svc *portal.Service, portalURL string, limiter *middlewares.ClientLimiter) *PortalController {
	if portalURL == "" {
		portalURL = "/portal"
	}
	return &PortalController{svc: svc, portalURL: portalURL, limiter: limiter}
}

// HandleProbe redirects OS connectivity checks to the portal.
func (ctrl *PortalController) HandleProbe(c *gin.Context) {
	c.Redirect(http.StatusFound, ctrl.portalURL)
}

// HandleLanding renders the landing page. Also used for every unmatched path.
func (ctrl *PortalController) HandleLanding(c *gin.Context) {
	c.Data(http.StatusOK, htmlContentType, []byte(ctrl.svc.RenderLanding()))
}

// HandleSubmitMessage records a visitor message and always redirects back to the portal.
func (ctrl *PortalController) HandleSubmitMessage(c *gin.Context) {
	defer c.Redirect(http.StatusSeeOther, "/portal")

	msg, ok := c.GetPostForm("msg")
	if !ok {
		return
	}
	if !ctrl.limiter.Allow(c.ClientIP()) {
		tool.DefaultLogger.Debugf("[Portal] Dropped message from %s: rate limited", c.ClientIP())
		return
	}
	if _, err := ctrl.svc.SubmitMessage(msg); err != nil {
		tool.DefaultLogger.Errorf("[Portal] Failed to record message: %v", err)
	}
}

// HandleHealth reports the running mode and counters.
func (ctrl *PortalController) HandleHealth(c *gin.Context) {
	payload, err := sonic.Marshal(types.HealthResponse{
		Mode:   types.ModePortal.String(),
		Uptime: ctrl.svc.Uptime(),
		Wall:   len(ctrl.svc.WallEntries()),
	})
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/json", payload)
}

// HandleQRCode returns a PNG that joins the open portal network when scanned.
func (ctrl *PortalController) HandleQRCode(c *gin.Context) {
	png, err := qrcode.Encode(WiFiQRPayload(ctrl.svc.Settings().APName), qrcode.Medium, qrSize)
	if err != nil {
		tool.DefaultLogger.Errorf("[Portal] Failed to encode QR code: %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// WiFiQRPayload builds the WIFI: URI for an open network, escaping the reserved characters.
func WiFiQRPayload(ssid string) string {
	escaped := make([]rune, 0, len(ssid))
	for _, r := range ssid {
		switch r {
		case '\\', ';', ',', ':', '"':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, r)
	}
	return fmt.Sprintf("WIFI:T:nopass;S:%s;;", string(escaped))
}
