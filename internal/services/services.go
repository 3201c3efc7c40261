// package services defines the remote collaborators of the client: the meal catalog and the auth/favorites backend
package services

import (
	"context"

	"github.com/desertthunder/dish/internal/models"
)

// Catalog is the read-only external meal database.
type Catalog interface {
	// Filter returns summaries matching query for the given filter type.
	// An empty result is not an error.
	Filter(ctx context.Context, ft models.FilterType, query string) ([]models.MealSummary, error)

	// SearchByName returns full records whose name matches name.
	SearchByName(ctx context.Context, name string) ([]models.MealDetail, error)

	// LookupByID returns the record with id, or [shared.ErrMealNotFound].
	LookupByID(ctx context.Context, id string) (*models.MealDetail, error)

	// Random returns one random record.
	Random(ctx context.Context) (*models.MealDetail, error)
}

// Backend is the auth and favorites service.
type Backend interface {
	// Login exchanges credentials for an authenticated session.
	Login(ctx context.Context, email, password string) (models.Session, error)

	// Register creates an account.
	Register(ctx context.Context, username, password, email string) error

	// ListFavorites returns the caller's favorites.
	ListFavorites(ctx context.Context, token string) ([]models.FavoriteEntry, error)

	// AddFavorite saves entry. A duplicate yields [shared.ErrDuplicateFavorite].
	AddFavorite(ctx context.Context, token string, entry models.FavoriteEntry) error

	// RemoveFavorite deletes the favorite with mealID.
	RemoveFavorite(ctx context.Context, token, mealID string) error
}
