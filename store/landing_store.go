package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/moyoez/portal-gateway/storage"
	"github.com/moyoez/portal-gateway/types"
)

var (
	ErrLandingTooLarge = errors.New("landing page exceeds the size limit")
	ErrLandingInvalid  = errors.New("landing page does not contain an <html tag")
)

// LandingStore keeps the optional custom landing page.
type LandingStore struct {
	mu      sync.Mutex
	storage storage.Storage
}

func NewLandingStore(s storage.Storage) *LandingStore {
	return &LandingStore{storage: s}
}

// Load returns the custom page capped to MaxLandingLoadBytes, or ok=false when there is none.
func (l *LandingStore) Load() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, err := l.storage.Read(storage.RecordLanding)
	if err != nil || len(data) == 0 {
		return "", false
	}
	if len(data) > types.MaxLandingLoadBytes {
		// never cut a multi-byte rune in half
		cut := types.MaxLandingLoadBytes
		for cut > 0 && !utf8.RuneStart(data[cut]) {
			cut--
		}
		data = data[:cut]
	}
	return string(data), true
}

// Save validates and stores a custom page. Nothing is written when validation fails.
func (l *LandingStore) Save(html string) error {
	if err := ValidateLanding(html); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.storage.Write(storage.RecordLanding, []byte(html)); err != nil {
		return fmt.Errorf("failed to write landing page: %w", err)
	}
	return nil
}

// Reset removes the custom page so the built-in one is served again.
func (l *LandingStore) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.storage.Remove(storage.RecordLanding); err != nil {
		return fmt.Errorf("failed to remove landing page: %w", err)
	}
	return nil
}

func ValidateLanding(html string) error {
	if len(html) > types.MaxLandingSaveBytes {
		return ErrLandingTooLarge
	}
	if !strings.Contains(strings.ToLower(html), "<html") {
		return ErrLandingInvalid
	}
	return nil
}
