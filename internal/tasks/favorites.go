package tasks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/services"
	"github.com/desertthunder/dish/internal/shared"
)

// State is the lifecycle of the favorites collection.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	default:
		return ""
	}
}

// FavoritesStore keeps an in-memory copy of the user's favorites in sync with the backend.
//
// Mutations are two-phase: the request is sent first and the local collection is
// patched only after the backend confirms it. The lock is never held across a request.
type FavoritesStore struct {
	backend services.Backend
	logger  *log.Logger

	mu        sync.Mutex
	token     string
	favorites []models.FavoriteEntry
	state     State
	err       error
	loadGen   uint64
	// epoch changes whenever the collection stops belonging to the current token.
	epoch uint64
}

// NewFavoritesStore creates an idle, empty store.
func NewFavoritesStore(backend services.Backend, logger *log.Logger) *FavoritesStore {
	return &FavoritesStore{backend: backend, logger: logger, favorites: []models.FavoriteEntry{}}
}

// Load fetches the collection for token and replaces the local copy.
//
// An empty token leaves the store empty and idle without a request. On failure
// the previous collection is kept and the store is marked errored.
func (s *FavoritesStore) Load(ctx context.Context, token string) error {
	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	if token != s.token {
		s.epoch++
		s.favorites = []models.FavoriteEntry{}
	}
	s.token = token
	s.err = nil
	if token == "" {
		s.state = StateIdle
		s.mu.Unlock()
		return nil
	}
	s.state = StateLoading
	s.mu.Unlock()

	favorites, err := s.backend.ListFavorites(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.loadGen {
		return err
	}

	if err != nil {
		s.state = StateErrored
		s.err = err
		s.logger.Warn("failed to fetch favorites", "error", err)
		return err
	}

	s.favorites = favorites
	s.state = StateLoaded
	s.logger.Debug("favorites loaded", "count", len(favorites))
	return nil
}

// Refresh reloads the collection with the current token.
func (s *FavoritesStore) Refresh(ctx context.Context) error {
	return s.Load(ctx, s.Token())
}

// Add saves meal as a favorite.
//
// Without a token it fails with [shared.ErrNotAuthenticated] and sends nothing.
// A duplicate returns [shared.ErrDuplicateFavorite] and leaves the collection unchanged.
// If the store was reset or loaded with another token while the request ran, the
// confirmed change is not applied locally.
func (s *FavoritesStore) Add(ctx context.Context, meal models.MealSummary) error {
	token, epoch := s.current()
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	entry := models.NewFavoriteEntry(meal)
	if err := s.backend.AddFavorite(ctx, token, entry); err != nil {
		return s.fail("add", epoch, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.logger.Debug("session changed during add, skipping local update", "meal_id", entry.MealID)
		return nil
	}
	if !s.containsLocked(entry.MealID) {
		s.favorites = append(s.favorites, entry)
	}
	s.logger.Info("favorite added", "meal_id", entry.MealID, "meal_name", entry.MealName)
	return nil
}

// Remove deletes the favorite with mealID. Removing an absent id is a local no-op.
func (s *FavoritesStore) Remove(ctx context.Context, mealID string) error {
	token, epoch := s.current()
	if token == "" {
		return shared.ErrNotAuthenticated
	}

	if err := s.backend.RemoveFavorite(ctx, token, mealID); err != nil {
		return s.fail("remove", epoch, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		s.logger.Debug("session changed during remove, skipping local update", "meal_id", mealID)
		return nil
	}
	s.favorites = slices.DeleteFunc(s.favorites, func(f models.FavoriteEntry) bool { return f.MealID == mealID })
	s.logger.Info("favorite removed", "meal_id", mealID)
	return nil
}

// Toggle adds meal if absent, otherwise removes it. It reports whether meal is a favorite afterwards.
func (s *FavoritesStore) Toggle(ctx context.Context, meal models.MealSummary) (bool, error) {
	if s.Contains(meal.ID) {
		if err := s.Remove(ctx, meal.ID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.Add(ctx, meal); err != nil {
		return errors.Is(err, shared.ErrDuplicateFavorite), err
	}
	return true, nil
}

// fail records err for display and passes it through. Soft errors and errors
// from a previous session do not change state.
func (s *FavoritesStore) fail(op string, epoch uint64, err error) error {
	if shared.IsSoft(err) {
		s.logger.Debug("favorite "+op+" soft failure", "error", err)
		return err
	}

	s.mu.Lock()
	if epoch == s.epoch {
		s.err = err
	}
	s.mu.Unlock()

	s.logger.Warn("failed to "+op+" favorite", "error", err)
	if errors.Is(err, shared.ErrSessionExpired) {
		return err
	}
	return fmt.Errorf("failed to %s favorite: %w", op, err)
}

// Favorites returns a copy of the collection.
func (s *FavoritesStore) Favorites() []models.FavoriteEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.favorites)
}

// Contains reports whether mealID is in the collection.
func (s *FavoritesStore) Contains(mealID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.containsLocked(mealID)
}

func (s *FavoritesStore) containsLocked(mealID string) bool {
	return slices.ContainsFunc(s.favorites, func(f models.FavoriteEntry) bool { return f.MealID == mealID })
}

// State returns the current lifecycle state.
func (s *FavoritesStore) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the last hard error, if any.
func (s *FavoritesStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Token returns the token the store was last loaded with.
func (s *FavoritesStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *FavoritesStore) current() (string, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.epoch
}

// Reset empties the store and returns it to idle.
func (s *FavoritesStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadGen++
	s.epoch++
	s.token = ""
	s.favorites = []models.FavoriteEntry{}
	s.state = StateIdle
	s.err = nil
}
