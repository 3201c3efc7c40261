package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/golang-jwt/jwt/v5"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
)

// Storage persists the session between runs.
type Storage interface {
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, session models.Session) error
	Clear(ctx context.Context) error
}

// Manager owns the current [models.Session].
type Manager struct {
	mu      sync.RWMutex
	current models.Session
	storage Storage
	logger  *log.Logger
}

// NewManager creates a Manager initialized from storage.
//
// A storage read failure is logged and the manager starts anonymous.
func NewManager(ctx context.Context, storage Storage, logger *log.Logger) *Manager {
	m := &Manager{storage: storage, logger: logger}

	s, err := storage.Load(ctx)
	switch {
	case err != nil:
		logger.Warn("failed to restore session", "error", err)
	case !s.Valid():
		logger.Warn("discarding half-populated session")
	default:
		m.current = s
		if s.Authenticated() {
			logger.Debug("session restored", "identity", s.Identity)
		}
	}

	return m
}

// Get returns the in-memory session.
func (m *Manager) Get() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set persists identity and token, then makes them current.
func (m *Manager) Set(ctx context.Context, identity, token string) error {
	s := models.Session{Identity: identity, Token: token}
	if !s.Authenticated() {
		return fmt.Errorf("%w: identity and token are both required", shared.ErrInvalidInput)
	}

	if err := m.storage.Save(ctx, s); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	m.mu.Lock()
	m.current = s
	m.mu.Unlock()

	m.logger.Info("session started", "identity", identity)
	return nil
}

// Clear removes the session from storage and memory.
//
// Callers that already copied the token keep using it.
func (m *Manager) Clear(ctx context.Context) error {
	storeErr := m.storage.Clear(ctx)

	m.mu.Lock()
	m.current = models.Session{}
	m.mu.Unlock()

	if storeErr != nil {
		return fmt.Errorf("failed to clear stored session: %w", storeErr)
	}

	m.logger.Info("session cleared")
	return nil
}

// Expiry reads the exp claim from a JWT bearer token without verifying it.
//
// ok is false for opaque tokens or tokens without an expiry.
func Expiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// MemoryStorage implements [Storage] in memory for tests and ephemeral runs.
type MemoryStorage struct {
	mu      sync.RWMutex
	session models.Session
	saves   int
}

// NewMemoryStorage returns a MemoryStorage holding s.
func NewMemoryStorage(s models.Session) *MemoryStorage {
	return &MemoryStorage{session: s}
}

func (s *MemoryStorage) Load(_ context.Context) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session, nil
}

func (s *MemoryStorage) Save(_ context.Context, session models.Session) error {
	s.mu.Lock()
	s.session = session
	s.saves++
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	s.session = models.Session{}
	s.mu.Unlock()
	return nil
}

// Saves reports how many times Save was called. Useful for tests.
func (s *MemoryStorage) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
