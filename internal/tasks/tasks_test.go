package tasks

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/session"
	"github.com/desertthunder/dish/internal/shared"
	tu "github.com/desertthunder/dish/internal/testing"
)

var (
	arrabiata = models.MealDetail{
		ID:           "52771",
		Name:         "Spicy Arrabiata Penne",
		Image:        "https://www.themealdb.com/images/media/meals/ustsqw1468250014.jpg",
		Category:     "Vegetarian",
		Area:         "Italian",
		Instructions: "Bring a large pot of water to a boil.",
		Ingredients:  []string{"penne rigate", "olive oil", "garlic"},
		Measures:     []string{"1 pound", "1/4 cup", "3 cloves"},
	}
	salmon = models.MealDetail{
		ID:       "52959",
		Name:     "Baked salmon with fennel & tomatoes",
		Image:    "https://www.themealdb.com/images/media/meals/1548772327.jpg",
		Category: "Seafood",
		Area:     "British",
	}
)

type testEngine struct {
	engine  *Engine
	manager *session.Manager
	storage *session.MemoryStorage
	backend *tu.MockBackend
	catalog *tu.MockCatalog
}

func newTestEngine(t *testing.T, initial models.Session, favorites ...models.FavoriteEntry) *testEngine {
	t.Helper()
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)

	storage := session.NewMemoryStorage(initial)
	manager := session.NewManager(ctx, storage, logger)
	backend := &tu.MockBackend{
		Session:   models.Session{Identity: "testuser", Token: "testtoken"},
		Favorites: slices.Clone(favorites),
	}
	catalog := &tu.MockCatalog{Meals: []models.MealDetail{arrabiata, salmon}}

	return &testEngine{
		engine:  NewEngine(manager, backend, catalog, logger),
		manager: manager,
		storage: storage,
		backend: backend,
		catalog: catalog,
	}
}

func TestEngine(t *testing.T) {
	ctx := context.Background()
	saved := models.NewFavoriteEntry(arrabiata.Summary())

	t.Run("Login", func(t *testing.T) {
		t.Run("sets session and loads favorites with the new token", func(t *testing.T) {
			te := newTestEngine(t, models.Session{}, saved)

			s, err := te.engine.Login(ctx, "test@example.com", "secret")
			if err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if s.Identity != "testuser" || s.Token != "testtoken" {
				t.Errorf("unexpected session %+v", s)
			}

			if got := te.manager.Get(); got.Identity != "testuser" || got.Token != "testtoken" {
				t.Errorf("session context not updated, got %+v", got)
			}
			if te.storage.Saves() != 1 {
				t.Errorf("expected one persisted save, got %d", te.storage.Saves())
			}

			store := te.engine.Favorites()
			if store.State() != StateLoaded {
				t.Errorf("expected favorites loaded, got %s", store.State())
			}
			if !slices.Equal(store.Favorites(), []models.FavoriteEntry{saved}) {
				t.Errorf("unexpected favorites %v", store.Favorites())
			}
			if tokens := te.backend.Tokens(); len(tokens) != 1 || tokens[0] != "testtoken" {
				t.Errorf("expected favorites fetched with testtoken, got %v", tokens)
			}
		})

		t.Run("failure leaves session anonymous", func(t *testing.T) {
			te := newTestEngine(t, models.Session{})
			te.backend.LoginErr = shared.ErrInvalidCredentials

			_, err := te.engine.Login(ctx, "test@example.com", "wrong")
			if !errors.Is(err, shared.ErrAuthFailed) || !errors.Is(err, shared.ErrInvalidCredentials) {
				t.Errorf("expected auth failure wrapping invalid credentials, got %v", err)
			}
			if te.manager.Get().Authenticated() {
				t.Error("session should stay anonymous")
			}
			if te.backend.Calls("ListFavorites") != 0 {
				t.Error("favorites should not be fetched after a failed login")
			}
		})

		t.Run("favorites failure does not fail login", func(t *testing.T) {
			te := newTestEngine(t, models.Session{})
			te.backend.ListErr = shared.ErrServiceUnavailable

			if _, err := te.engine.Login(ctx, "test@example.com", "secret"); err != nil {
				t.Fatalf("Login failed: %v", err)
			}
			if !te.manager.Get().Authenticated() {
				t.Error("session should be set")
			}
			if te.engine.Favorites().State() != StateErrored {
				t.Errorf("expected errored favorites, got %s", te.engine.Favorites().State())
			}
		})
	})

	t.Run("Register does not log in", func(t *testing.T) {
		te := newTestEngine(t, models.Session{})

		if err := te.engine.Register(ctx, "newuser", "secret", "new@example.com"); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if te.manager.Get().Authenticated() {
			t.Error("register should not create a session")
		}

		te.backend.RegisterErr = shared.ErrAPIRequest
		if err := te.engine.Register(ctx, "newuser", "secret", "new@example.com"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Logout clears session and favorites", func(t *testing.T) {
		te := newTestEngine(t, models.Session{Identity: "testuser", Token: "testtoken"}, saved)
		if err := te.engine.Restore(ctx); err != nil {
			t.Fatalf("Restore failed: %v", err)
		}

		if err := te.engine.Logout(ctx); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if !te.manager.Get().IsZero() {
			t.Errorf("expected anonymous session, got %+v", te.manager.Get())
		}
		if len(te.engine.Favorites().Favorites()) != 0 || te.engine.Favorites().State() != StateIdle {
			t.Error("expected empty idle favorites")
		}
	})

	t.Run("Restore", func(t *testing.T) {
		t.Run("persisted session loads favorites", func(t *testing.T) {
			te := newTestEngine(t, models.Session{Identity: "testuser", Token: "persisted"}, saved)

			if err := te.engine.Restore(ctx); err != nil {
				t.Fatalf("Restore failed: %v", err)
			}
			if !te.engine.Favorites().Contains(saved.MealID) {
				t.Error("expected restored favorites")
			}
			if tokens := te.backend.Tokens(); len(tokens) != 1 || tokens[0] != "persisted" {
				t.Errorf("expected persisted token, got %v", tokens)
			}
		})

		t.Run("anonymous session sends nothing", func(t *testing.T) {
			te := newTestEngine(t, models.Session{}, saved)

			if err := te.engine.Restore(ctx); err != nil {
				t.Fatalf("Restore failed: %v", err)
			}
			if te.backend.Calls("ListFavorites") != 0 {
				t.Error("expected no request")
			}
		})
	})

	t.Run("ResolveMeal", func(t *testing.T) {
		te := newTestEngine(t, models.Session{})

		meal, err := te.engine.ResolveMeal(ctx, "arrabiata")
		if err != nil || meal.ID != arrabiata.ID {
			t.Fatalf("expected arrabiata, got %v %v", meal, err)
		}

		if _, err := te.engine.ResolveMeal(ctx, "zzzz"); !errors.Is(err, shared.ErrMealNotFound) {
			t.Errorf("expected ErrMealNotFound, got %v", err)
		}
	})

	t.Run("AddFavoriteByName", func(t *testing.T) {
		t.Run("requires a session", func(t *testing.T) {
			te := newTestEngine(t, models.Session{})

			if _, err := te.engine.AddFavoriteByName(ctx, "salmon"); !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if te.catalog.Calls("SearchByName") != 0 {
				t.Error("expected no catalog request")
			}
		})

		t.Run("loads then adds", func(t *testing.T) {
			te := newTestEngine(t, models.Session{Identity: "testuser", Token: "testtoken"}, saved)

			meal, err := te.engine.AddFavoriteByName(ctx, "salmon")
			if err != nil {
				t.Fatalf("AddFavoriteByName failed: %v", err)
			}
			if meal.ID != salmon.ID {
				t.Errorf("expected salmon, got %s", meal.ID)
			}
			if !te.engine.Favorites().Contains(salmon.ID) || !te.engine.Favorites().Contains(saved.MealID) {
				t.Errorf("unexpected favorites %v", te.engine.Favorites().Favorites())
			}
		})

		t.Run("duplicate is soft", func(t *testing.T) {
			te := newTestEngine(t, models.Session{Identity: "testuser", Token: "testtoken"}, saved)
			te.backend.AddErr = shared.ErrDuplicateFavorite

			_, err := te.engine.AddFavoriteByName(ctx, "arrabiata")
			if !shared.IsSoft(err) {
				t.Errorf("expected soft error, got %v", err)
			}
			if n := len(te.engine.Favorites().Favorites()); n != 1 {
				t.Errorf("expected collection unchanged, got %d entries", n)
			}
		})

		t.Run("expired session while loading", func(t *testing.T) {
			te := newTestEngine(t, models.Session{Identity: "testuser", Token: "stale"})
			te.backend.ListErr = shared.ErrSessionExpired

			_, err := te.engine.AddFavoriteByName(ctx, "salmon")
			if shared.Classify(err) != shared.KindSessionExpired {
				t.Errorf("expected session expired, got %v", err)
			}
		})
	})

	t.Run("RemoveFavorite", func(t *testing.T) {
		te := newTestEngine(t, models.Session{Identity: "testuser", Token: "testtoken"}, saved)

		if err := te.engine.RemoveFavorite(ctx, saved.MealID); err != nil {
			t.Fatalf("RemoveFavorite failed: %v", err)
		}
		if te.engine.Favorites().Contains(saved.MealID) {
			t.Error("favorite should be removed")
		}
		if te.backend.Calls("ListFavorites") != 1 {
			t.Errorf("expected a single load, got %d", te.backend.Calls("ListFavorites"))
		}

		anon := newTestEngine(t, models.Session{})
		if err := anon.engine.RemoveFavorite(ctx, saved.MealID); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}
