// Auth and favorites [Backend] implementation
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
)

// DefaultBackendURL is the hosted auth/favorites service.
const DefaultBackendURL = "https://dishdelight-backend.onrender.com"

// BackendService implements [Backend] over the REST backend.
type BackendService struct {
	api    *APIService
	logger *log.Logger
}

// NewBackendService creates a backend client.
func NewBackendService(baseURL string, client *http.Client, logger *log.Logger) *BackendService {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBackendURL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &BackendService{
		api:    NewAPIService(baseURL, client, shared.WithLogger(logger, "service", "backend")),
		logger: logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type loginResponse struct {
	User  json.RawMessage `json:"user"`
	Token string          `json:"token"`
}

// identity extracts a display name from the "user" field, which is either a
// string or an object carrying username.
func (r loginResponse) identity() string {
	if len(r.User) == 0 || string(r.User) == "null" {
		return ""
	}

	var name string
	if err := json.Unmarshal(r.User, &name); err == nil {
		return strings.TrimSpace(name)
	}

	var user struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(r.User, &user); err != nil {
		return ""
	}
	if user.Username != "" {
		return user.Username
	}
	return user.Email
}

// Login implements [Backend].
//
// A response without a user is [shared.ErrInvalidCredentials] whatever its status.
func (b *BackendService) Login(ctx context.Context, email, password string) (models.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.Session{}, fmt.Errorf("%w: email and password are required", shared.ErrInvalidInput)
	}

	resp, err := b.api.Post(ctx, "/users/login", loginRequest{Email: email, Password: password}, "")
	if err != nil {
		return models.Session{}, err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return models.Session{}, statusError(resp, "login")
	}

	var parsed loginResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil || parsed.identity() == "" {
		return models.Session{}, shared.ErrInvalidCredentials
	}
	if parsed.Token == "" {
		return models.Session{}, fmt.Errorf("%w: login response has no token", shared.ErrAuthFailed)
	}

	return models.Session{Identity: parsed.identity(), Token: parsed.Token}, nil
}

// Register implements [Backend].
func (b *BackendService) Register(ctx context.Context, username, password, email string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		return fmt.Errorf("%w: username, email and password are required", shared.ErrInvalidInput)
	}

	resp, err := b.api.Post(ctx, "/users/register", registerRequest{Username: username, Password: password, Email: email}, "")
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%w: signup failed (status %d)", shared.ErrAPIRequest, resp.StatusCode)
	}
	return nil
}

// ListFavorites implements [Backend].
func (b *BackendService) ListFavorites(ctx context.Context, token string) ([]models.FavoriteEntry, error) {
	resp, err := b.api.Get(ctx, "/favorites", token)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, statusError(resp, "fetch favorites")
	}

	var favorites []models.FavoriteEntry
	if err := resp.Decode(&favorites); err != nil {
		return nil, err
	}
	if favorites == nil {
		favorites = []models.FavoriteEntry{}
	}
	return favorites, nil
}

// AddFavorite implements [Backend].
func (b *BackendService) AddFavorite(ctx context.Context, token string, entry models.FavoriteEntry) error {
	resp, err := b.api.Post(ctx, "/favorites", entry, token)
	if err != nil {
		return err
	}
	if resp.StatusCode == http.StatusConflict {
		return shared.ErrDuplicateFavorite
	}
	if !resp.OK() {
		return statusError(resp, "add favorite")
	}
	return nil
}

// RemoveFavorite implements [Backend].
func (b *BackendService) RemoveFavorite(ctx context.Context, token, mealID string) error {
	resp, err := b.api.Delete(ctx, "/favorites/"+url.PathEscape(mealID), token)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return statusError(resp, "remove favorite")
	}
	return nil
}

// statusError maps a non-2xx backend response onto the error taxonomy.
// A conflict is only meaningful for adds and is handled there.
func statusError(resp *APIResponse, action string) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s returned status %d", shared.ErrSessionExpired, action, resp.StatusCode)
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %w: %s returned status %d", shared.ErrAPIRequest, shared.ErrServiceUnavailable, action, resp.StatusCode)
	default:
		return fmt.Errorf("%w: failed to %s (status %d)", shared.ErrAPIRequest, action, resp.StatusCode)
	}
}
