package portal

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/moyoez/portal-gateway/store"
	"github.com/moyoez/portal-gateway/tool"
	"github.com/moyoez/portal-gateway/types"
)

var ErrEmptySSID = errors.New("ssid must not be empty")

// Options wires a Service to its stores.
type Options struct {
	Configs *store.ConfigStore
	Log     *store.RecordStore
	Wall    *store.RecordStore
	Landing *store.LandingStore
	Clock   *tool.Uptime
	Admin   types.AdminConfig
}

// Service is the portal session engine. It owns the in-memory settings mirror; the stores
// stay the source of truth and the mirror is reloaded on every portal entry.
type Service struct {
	mu       sync.RWMutex
	settings types.Settings

	configs *store.ConfigStore
	log     *store.RecordStore
	wall    *store.RecordStore
	landing *store.LandingStore
	clock   *tool.Uptime
	admin   types.AdminConfig

	onWallPost func(types.WallFrame)
}

func New(opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = tool.NewUptime()
	}
	s := &Service{
		configs: opts.Configs,
		log:     opts.Log,
		wall:    opts.Wall,
		landing: opts.Landing,
		clock:   clock,
		admin:   opts.Admin,
	}
	s.Reload()
	return s
}

// Reload re-derives the settings mirror from the config store.
func (s *Service) Reload() types.Settings {
	settings := s.configs.LoadSettingsOnly()
	s.mu.Lock()
	s.settings = settings
	s.mu.Unlock()
	return settings
}

func (s *Service) Settings() types.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// OnWallPost registers fn to be called after each public wall post.
func (s *Service) OnWallPost(fn func(types.WallFrame)) {
	s.mu.Lock()
	s.onWallPost = fn
	s.mu.Unlock()
}

// Authorized reports whether user and pass exactly match the admin pair.
func (s *Service) Authorized(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(s.admin.User)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(s.admin.Pass)) == 1
	return userOK && passOK
}

// Uptime returns the record timestamp for now.
func (s *Service) Uptime() string {
	return s.clock.Stamp()
}

// WallEntries returns the stored wall lines, newest first. Read errors yield no entries.
func (s *Service) WallEntries() []string {
	entries, err := s.wall.ReadAll()
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to read wall: %v", err)
		return nil
	}
	return entries
}

// MessageSection builds the submission form and, when the wall is public, its entries.
func (s *Service) MessageSection() string {
	var entries []string
	if s.Settings().PublicWallEnabled {
		entries = s.WallEntries()
	}
	return buildMessageSection(entries)
}

// LandingTemplate returns the custom landing page, or the built-in one.
func (s *Service) LandingTemplate() (string, bool) {
	if tpl, ok := s.landing.Load(); ok {
		return tpl, true
	}
	return defaultLanding, false
}

// RenderLanding merges the landing template with the site name and message section.
func (s *Service) RenderLanding() string {
	tpl, _ := s.LandingTemplate()
	out := Render(tpl, map[string]string{PlaceholderSiteName: Escape(s.Settings().SiteName)})

	section := s.MessageSection()
	if strings.Contains(out, PlaceholderMessageSection) {
		return strings.ReplaceAll(out, PlaceholderMessageSection, section)
	}
	if strings.Contains(out, section) {
		return out
	}
	return spliceBeforeBody(out, section)
}

// SubmitMessage records a visitor message. Blank messages are ignored (posted=false).
// With the public wall enabled the message goes to the wall and the log, otherwise only
// to the log.
func (s *Service) SubmitMessage(msg string) (bool, error) {
	text := strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
	if text == "" {
		return false, nil
	}
	text = truncateRunes(text, types.MaxMessageLength)
	stamp := s.clock.Stamp()

	s.mu.RLock()
	public := s.settings.PublicWallEnabled
	notify := s.onWallPost
	s.mu.RUnlock()

	if !public {
		if err := s.log.Append(fmt.Sprintf("[%s] MSG: %s", stamp, text)); err != nil {
			return false, err
		}
		return true, nil
	}

	// log first: a failed log write leaves both records untouched, a failed wall write
	// leaves a WALL line for a post that never reached the wall
	if err := s.log.Append(fmt.Sprintf("[%s] WALL: %s", stamp, text)); err != nil {
		return false, err
	}
	if err := s.wall.Append(stamp + "|" + text); err != nil {
		return false, err
	}
	if notify != nil {
		notify(types.WallFrame{Time: stamp, Text: text})
	}
	return true, nil
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

func (s *Service) RenderLogin(failed bool) (string, error) {
	return renderPage("login", loginData{SiteName: s.Settings().SiteName, Failed: failed})
}

func (s *Service) RenderDashboard() (string, error) {
	creds, _, _ := s.configs.Load()
	return renderPage("dashboard", dashboardData{
		Admin:       s.admin,
		Settings:    s.Settings(),
		Uptime:      s.clock.Stamp(),
		WallCount:   s.wall.Len(),
		LogCount:    s.log.Len(),
		StationSSID: creds.SSID,
	})
}

// LogText returns the raw log, or the no-entries sentinel when it is empty or unreadable.
func (s *Service) LogText() string {
	raw, err := s.log.Raw()
	if err != nil {
		tool.DefaultLogger.Errorf("Failed to read log: %v", err)
		return types.NoLogEntries
	}
	if strings.TrimSpace(raw) == "" {
		return types.NoLogEntries
	}
	return raw
}

func (s *Service) RenderLog() (string, error) {
	return renderPage("log", logData{Admin: s.admin, Log: s.LogText()})
}

func (s *Service) ClearLog() error {
	return s.log.Clear()
}

func (s *Service) ClearWall() error {
	return s.wall.Clear()
}

// SaveSettings persists new settings and refreshes the mirror. Blank names fall back
// to the defaults.
func (s *Service) SaveSettings(apName, siteName string, publicWall bool) (types.Settings, error) {
	settings := types.Settings{
		APName:            strings.TrimSpace(apName),
		SiteName:          strings.TrimSpace(siteName),
		PublicWallEnabled: publicWall,
	}
	if settings.APName == "" {
		settings.APName = types.DefaultAPName
	}
	if settings.SiteName == "" {
		settings.SiteName = types.DefaultSiteName
	}
	// persist and mirror update under one lock
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.configs.SaveSettings(settings); err != nil {
		return s.settings, err
	}
	s.settings = settings
	return settings, nil
}

func (s *Service) RenderEditor() (string, error) {
	tpl, custom := s.LandingTemplate()
	return renderPage("editor", editorData{
		Admin:    s.admin,
		HTML:     tpl,
		Custom:   custom,
		MaxBytes: types.MaxLandingSaveBytes,
	})
}

// SaveLanding stores a custom landing page; see store.ValidateLanding for the rules.
func (s *Service) SaveLanding(html string) error {
	return s.landing.Save(html)
}

func (s *Service) ResetLanding() error {
	return s.landing.Reset()
}

// DeployCredentials stores a new station target, keeping the current settings.
func (s *Service) DeployCredentials(ssid, passphrase string) error {
	ssid = strings.TrimSpace(ssid)
	if ssid == "" {
		return ErrEmptySSID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.configs.Save(types.Credentials{SSID: ssid, Passphrase: passphrase}, s.settings)
}

// RenderNotice renders a fixed confirmation page. withBack adds a form back to the dashboard.
func (s *Service) RenderNotice(title, message string, withBack bool) (string, error) {
	data := noticeData{Title: title, Message: message}
	if withBack {
		data.Admin = s.admin
	}
	return renderPage("notice", data)
}
