package tool

import (
	"fmt"
	"time"
)

// Uptime stamps records with time since boot. The device has no trustworthy wall clock,
// so stamps wrap every 24h and never reflect the date.
type Uptime struct {
	start time.Time
	now   func() time.Time
}

func NewUptime() *Uptime {
	return &Uptime{start: time.Now(), now: time.Now}
}

// NewUptimeAt is for tests: elapsed is measured from start using now.
func NewUptimeAt(start time.Time, now func() time.Time) *Uptime {
	return &Uptime{start: start, now: now}
}

func (u *Uptime) Elapsed() time.Duration {
	// time.Time carries a monotonic reading, Sub uses it when both sides have one.
	return u.now().Sub(u.start)
}

// Stamp returns HH:MM:SS of the uptime modulo 24h.
func (u *Uptime) Stamp() string {
	return FormatStamp(u.Elapsed())
}

func FormatStamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	h := (secs / 3600) % 24
	m := (secs / 60) % 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
