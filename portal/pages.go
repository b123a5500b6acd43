package portal

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/moyoez/portal-gateway/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Template data types
type loginData struct {
	SiteName string
	Failed   bool
}

type dashboardData struct {
	Admin       types.AdminConfig
	Settings    types.Settings
	Uptime      string
	WallCount   int
	LogCount    int
	StationSSID string
}

type logData struct {
	Admin types.AdminConfig
	Log   string
}

type editorData struct {
	Admin    types.AdminConfig
	HTML     string
	Custom   bool
	MaxBytes int
}

type noticeData struct {
	Admin   types.AdminConfig
	Title   string
	Message string
}

func renderPage(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
