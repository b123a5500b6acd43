package types

const (
	DefaultAPName   = "SetupWiFi"
	DefaultSiteName = "funnyportal"

	// MaxWallEntries is the number of messages the public wall keeps.
	MaxWallEntries = 50
	// MaxMessageLength is counted in runes.
	MaxMessageLength = 200

	MaxLandingLoadBytes = 30000
	MaxLandingSaveBytes = 25000

	// NoLogEntries is rendered in place of an empty log.
	NoLogEntries = "no log entries yet"
)

// Credentials is the station target. An empty SSID means no target is configured.
type Credentials struct {
	SSID       string
	Passphrase string
}

// Configured reports whether the credentials name a network to join.
func (c Credentials) Configured() bool {
	return c.SSID != ""
}

// Settings are the portal settings persisted after the credential slots.
type Settings struct {
	APName            string
	SiteName          string
	PublicWallEnabled bool
}

func DefaultSettings() Settings {
	return Settings{
		APName:            DefaultAPName,
		SiteName:          DefaultSiteName,
		PublicWallEnabled: true,
	}
}
