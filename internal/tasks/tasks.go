// package tasks implements the client-side core: meal lookup, favorites synchronization, and the login flow that ties them to the session.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/services"
	"github.com/desertthunder/dish/internal/shared"
)

// SessionContext is the shared authentication state the engine reads and writes.
type SessionContext interface {
	Get() models.Session
	Set(ctx context.Context, identity, token string) error
	Clear(ctx context.Context) error
}

// Engine wires the session, both remote services, and the two stores together.
type Engine struct {
	session   SessionContext
	backend   services.Backend
	catalog   services.Catalog
	lookup    *MealLookup
	favorites *FavoritesStore
	logger    *log.Logger
}

// NewEngine creates an Engine. The favorites store starts idle; call [Engine.Restore] to load it.
func NewEngine(session SessionContext, backend services.Backend, catalog services.Catalog, logger *log.Logger) *Engine {
	return &Engine{
		session:   session,
		backend:   backend,
		catalog:   catalog,
		lookup:    NewMealLookup(catalog, shared.WithLogger(logger, "store", "lookup")),
		favorites: NewFavoritesStore(backend, shared.WithLogger(logger, "store", "favorites")),
		logger:    logger,
	}
}

// Lookup returns the meal lookup store.
func (e *Engine) Lookup() *MealLookup { return e.lookup }

// Favorites returns the favorites store.
func (e *Engine) Favorites() *FavoritesStore { return e.favorites }

// Catalog returns the catalog client.
func (e *Engine) Catalog() services.Catalog { return e.catalog }

// Session returns the current session.
func (e *Engine) Session() models.Session { return e.session.Get() }

// Login authenticates, stores the session, then loads favorites with the new token.
//
// A favorites failure after a successful login is left in the store's state and
// does not fail the login.
func (e *Engine) Login(ctx context.Context, email, password string) (models.Session, error) {
	s, err := e.backend.Login(ctx, email, password)
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	if err := e.session.Set(ctx, s.Identity, s.Token); err != nil {
		return models.Session{}, err
	}

	if err := e.favorites.Load(ctx, s.Token); err != nil {
		e.logger.Warn("logged in but favorites could not be loaded", "error", err)
	}
	return s, nil
}

// Register creates an account. It does not log in.
func (e *Engine) Register(ctx context.Context, username, password, email string) error {
	if err := e.backend.Register(ctx, username, password, email); err != nil {
		return err
	}
	e.logger.Info("account registered", "username", username)
	return nil
}

// Logout clears the session and empties the favorites store.
func (e *Engine) Logout(ctx context.Context) error {
	err := e.session.Clear(ctx)
	e.favorites.Reset()
	return err
}

// Restore loads favorites for the current session. Anonymous sessions load nothing.
func (e *Engine) Restore(ctx context.Context) error {
	return e.favorites.Load(ctx, e.session.Get().Token)
}

// ResolveMeal looks up a meal by name, turning a not-found result into [shared.ErrMealNotFound].
func (e *Engine) ResolveMeal(ctx context.Context, name string) (*models.MealDetail, error) {
	res := e.lookup.FetchDetail(ctx, name)
	switch {
	case res.Err != nil:
		return nil, res.Err
	case res.NotFound:
		return nil, fmt.Errorf("%w: %q", shared.ErrMealNotFound, name)
	default:
		return res.Meal, nil
	}
}

// AddFavoriteByName resolves name and saves the meal as a favorite.
func (e *Engine) AddFavoriteByName(ctx context.Context, name string) (*models.MealDetail, error) {
	if !e.session.Get().Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	meal, err := e.ResolveMeal(ctx, name)
	if err != nil {
		return nil, err
	}
	return meal, e.favorites.Add(ctx, meal.Summary())
}

// RemoveFavorite deletes the favorite with mealID.
func (e *Engine) RemoveFavorite(ctx context.Context, mealID string) error {
	if !e.session.Get().Authenticated() {
		return shared.ErrNotAuthenticated
	}
	if err := e.ensureLoaded(ctx); err != nil {
		return err
	}
	return e.favorites.Remove(ctx, mealID)
}

// ensureLoaded loads favorites if the store is not yet tracking the session token.
func (e *Engine) ensureLoaded(ctx context.Context) error {
	token := e.session.Get().Token
	if e.favorites.Token() == token && e.favorites.State() == StateLoaded {
		return nil
	}
	if err := e.favorites.Load(ctx, token); err != nil {
		if errors.Is(err, shared.ErrSessionExpired) {
			return err
		}
		return fmt.Errorf("failed to fetch favorites: %w", err)
	}
	return nil
}
