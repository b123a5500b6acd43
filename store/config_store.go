package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/moyoez/portal-gateway/storage"
	"github.com/moyoez/portal-gateway/types"
)

const (
	keyAPName     = "ap_ssid"
	keySiteName   = "site_name"
	keyPublicWall = "public_wall"
)

// ConfigStore persists credentials and settings in one line-oriented record:
//
//	ssid
//	passphrase
//	ap_ssid=...
//	site_name=...
//	public_wall=0|1
//
// The first two lines are positional and always written, possibly empty.
type ConfigStore struct {
	mu      sync.Mutex
	storage storage.Storage
}

func NewConfigStore(s storage.Storage) *ConfigStore {
	return &ConfigStore{storage: s}
}

// Load reads credentials and settings. found is false when the record is missing or
// unreadable; callers treat that the same as an empty ssid.
func (c *ConfigStore) Load() (types.Credentials, types.Settings, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLocked()
}

// LoadSettingsOnly returns the settings, or the defaults when nothing is stored.
func (c *ConfigStore) LoadSettingsOnly() types.Settings {
	_, settings, _ := c.Load()
	return settings
}

// Save writes credentials and settings. Empty ap/site names fall back to their defaults.
func (c *ConfigStore) Save(creds types.Credentials, settings types.Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(creds, settings)
}

// SaveSettings rewrites the settings while carrying the stored credentials over unchanged.
// Empty credential slots are written only when no record exists yet; any other read
// failure is returned and nothing is written.
func (c *ConfigStore) SaveSettings(settings types.Settings) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	creds, _, err := c.readLocked()
	switch {
	case errors.Is(err, storage.ErrNotExist):
		creds = types.Credentials{}
	case err != nil:
		return fmt.Errorf("failed to read config before saving settings: %w", err)
	}
	return c.writeLocked(creds, settings)
}

func (c *ConfigStore) loadLocked() (types.Credentials, types.Settings, bool) {
	creds, settings, err := c.readLocked()
	if err != nil {
		return types.Credentials{}, types.DefaultSettings(), false
	}
	return creds, settings, true
}

func (c *ConfigStore) readLocked() (types.Credentials, types.Settings, error) {
	data, err := c.storage.Read(storage.RecordConfig)
	if err != nil {
		return types.Credentials{}, types.DefaultSettings(), err
	}
	creds, settings := parseConfig(string(data))
	return creds, settings, nil
}

func (c *ConfigStore) writeLocked(creds types.Credentials, settings types.Settings) error {
	if err := c.storage.Write(storage.RecordConfig, []byte(formatConfig(creds, settings))); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func parseConfig(data string) (types.Credentials, types.Settings) {
	var creds types.Credentials
	settings := types.DefaultSettings()

	lines := strings.Split(data, "\n")
	if len(lines) > 0 {
		creds.SSID = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		creds.Passphrase = strings.TrimSpace(lines[1])
	}
	for i := 2; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		idx := strings.Index(line, "=")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		switch key {
		case keyAPName:
			if value != "" {
				settings.APName = value
			}
		case keySiteName:
			if value != "" {
				settings.SiteName = value
			}
		case keyPublicWall:
			settings.PublicWallEnabled = value == "1" || value == "true"
		}
	}
	return creds, settings
}

func formatConfig(creds types.Credentials, settings types.Settings) string {
	apName := strings.TrimSpace(settings.APName)
	if apName == "" {
		apName = types.DefaultAPName
	}
	siteName := strings.TrimSpace(settings.SiteName)
	if siteName == "" {
		siteName = types.DefaultSiteName
	}
	wall := "0"
	if settings.PublicWallEnabled {
		wall = "1"
	}

	var b strings.Builder
	b.WriteString(oneLine(creds.SSID) + "\n")
	b.WriteString(oneLine(creds.Passphrase) + "\n")
	b.WriteString(keyAPName + "=" + oneLine(apName) + "\n")
	b.WriteString(keySiteName + "=" + oneLine(siteName) + "\n")
	b.WriteString(keyPublicWall + "=" + wall + "\n")
	return b.String()
}

// oneLine keeps a value from spilling into the next positional slot.
func oneLine(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}
