package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
)

func TestBackendService(t *testing.T) {
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		tc := []struct {
			name     string
			status   int
			body     string
			identity string
			wantErr  error
		}{
			{name: "user object", status: 200, body: `{"user":{"username":"testuser","email":"t@example.com"},"token":"testtoken"}`, identity: "testuser"},
			{name: "user string", status: 200, body: `{"user":"testuser","token":"testtoken"}`, identity: "testuser"},
			{name: "missing user", status: 200, body: `{"message":"No such user"}`, wantErr: shared.ErrInvalidCredentials},
			{name: "null user with 400", status: 400, body: `{"user":null}`, wantErr: shared.ErrInvalidCredentials},
			{name: "non-json body", status: 401, body: `Unauthorized`, wantErr: shared.ErrInvalidCredentials},
			{name: "missing token", status: 200, body: `{"user":"testuser"}`, wantErr: shared.ErrAuthFailed},
			{name: "server error", status: 500, body: ``, wantErr: shared.ErrAPIRequest},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if r.Method != http.MethodPost || r.URL.Path != "/users/login" {
						t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
					}
					var body loginRequest
					if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
						t.Errorf("failed to decode body: %v", err)
					}
					if body.Email != "t@example.com" || body.Password != "secret" {
						t.Errorf("unexpected credentials %+v", body)
					}
					w.WriteHeader(tt.status)
					w.Write([]byte(tt.body))
				}))
				defer server.Close()

				svc := NewBackendService(server.URL, nil, nil)
				session, err := svc.Login(ctx, "t@example.com", "secret")

				if tt.wantErr != nil {
					if !errors.Is(err, tt.wantErr) {
						t.Errorf("expected %v, got %v", tt.wantErr, err)
					}
					if !session.IsZero() {
						t.Errorf("expected zero session on failure, got %+v", session)
					}
					return
				}

				if err != nil {
					t.Fatalf("Login failed: %v", err)
				}
				if session.Identity != tt.identity || session.Token != "testtoken" {
					t.Errorf("unexpected session %+v", session)
				}
			})
		}

		t.Run("empty credentials issue no request", func(t *testing.T) {
			svc := NewBackendService("http://127.0.0.1:0", nil, nil)
			if _, err := svc.Login(ctx, "", ""); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("Register", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/users/register" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				var body registerRequest
				json.NewDecoder(r.Body).Decode(&body)
				if body.Username != "jane" || body.Email != "j@example.com" || body.Password != "pw" {
					t.Errorf("unexpected body %+v", body)
				}
				w.WriteHeader(http.StatusCreated)
			}))
			defer server.Close()

			svc := NewBackendService(server.URL, nil, nil)
			if err := svc.Register(ctx, "jane", "pw", "j@example.com"); err != nil {
				t.Errorf("Register failed: %v", err)
			}
		})

		t.Run("conflict is a generic failure", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
			}))
			defer server.Close()

			svc := NewBackendService(server.URL, nil, nil)
			err := svc.Register(ctx, "jane", "pw", "j@example.com")
			if !errors.Is(err, shared.ErrAPIRequest) || errors.Is(err, shared.ErrDuplicateFavorite) {
				t.Errorf("expected plain ErrAPIRequest, got %v", err)
			}
		})
	})

	t.Run("ListFavorites", func(t *testing.T) {
		t.Run("success", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer tok" {
					t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
				}
				w.Write([]byte(`[{"meal_id":"52771","meal_name":"Spaghetti Arrabiata","image_url":"https://img/a.jpg"}]`))
			}))
			defer server.Close()

			svc := NewBackendService(server.URL, nil, nil)
			favorites, err := svc.ListFavorites(ctx, "tok")
			if err != nil {
				t.Fatalf("ListFavorites failed: %v", err)
			}
			want := models.FavoriteEntry{MealID: "52771", MealName: "Spaghetti Arrabiata", ImageURL: "https://img/a.jpg"}
			if len(favorites) != 1 || favorites[0] != want {
				t.Errorf("unexpected favorites %+v", favorites)
			}
		})

		t.Run("null body is empty list", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`null`))
			}))
			defer server.Close()

			svc := NewBackendService(server.URL, nil, nil)
			favorites, err := svc.ListFavorites(ctx, "tok")
			if err != nil {
				t.Fatalf("ListFavorites failed: %v", err)
			}
			if favorites == nil || len(favorites) != 0 {
				t.Errorf("expected empty non-nil list, got %#v", favorites)
			}
		})
	})

	t.Run("status mapping", func(t *testing.T) {
		tc := []struct {
			status int
			want   error
		}{
			{http.StatusUnauthorized, shared.ErrSessionExpired},
			{http.StatusForbidden, shared.ErrSessionExpired},
			{http.StatusServiceUnavailable, shared.ErrServiceUnavailable},
			{http.StatusInternalServerError, shared.ErrAPIRequest},
			{http.StatusBadRequest, shared.ErrAPIRequest},
		}

		for _, tt := range tc {
			t.Run(http.StatusText(tt.status), func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
				}))
				defer server.Close()

				svc := NewBackendService(server.URL, nil, nil)
				entry := models.FavoriteEntry{MealID: "1", MealName: "A", ImageURL: "u"}

				if err := svc.AddFavorite(ctx, "tok", entry); !errors.Is(err, tt.want) {
					t.Errorf("AddFavorite: expected %v, got %v", tt.want, err)
				}
				if _, err := svc.ListFavorites(ctx, "tok"); !errors.Is(err, tt.want) {
					t.Errorf("ListFavorites: expected %v, got %v", tt.want, err)
				}
				if err := svc.RemoveFavorite(ctx, "tok", "1"); !errors.Is(err, tt.want) {
					t.Errorf("RemoveFavorite: expected %v, got %v", tt.want, err)
				}
			})
		}
	})

	t.Run("conflict is a duplicate only when adding", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		}))
		defer server.Close()

		svc := NewBackendService(server.URL, nil, nil)
		entry := models.FavoriteEntry{MealID: "1", MealName: "A", ImageURL: "u"}

		if err := svc.AddFavorite(ctx, "tok", entry); !errors.Is(err, shared.ErrDuplicateFavorite) {
			t.Errorf("AddFavorite: expected ErrDuplicateFavorite, got %v", err)
		}

		err := svc.RemoveFavorite(ctx, "tok", "1")
		if !errors.Is(err, shared.ErrAPIRequest) || errors.Is(err, shared.ErrDuplicateFavorite) {
			t.Errorf("RemoveFavorite: expected generic error, got %v", err)
		}
		if shared.IsSoft(err) {
			t.Errorf("RemoveFavorite conflict should not be soft: %v", err)
		}

		if _, err := svc.ListFavorites(ctx, "tok"); errors.Is(err, shared.ErrDuplicateFavorite) {
			t.Errorf("ListFavorites: conflict should not be a duplicate, got %v", err)
		}
	})

	t.Run("AddFavorite sends wire format", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["meal_id"] != "52771" || body["meal_name"] != "Spaghetti Arrabiata" || body["image_url"] != "https://img/a.jpg" {
				t.Errorf("unexpected body %v", body)
			}
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		svc := NewBackendService(server.URL, nil, nil)
		entry := models.FavoriteEntry{MealID: "52771", MealName: "Spaghetti Arrabiata", ImageURL: "https://img/a.jpg"}
		if err := svc.AddFavorite(ctx, "tok", entry); err != nil {
			t.Errorf("AddFavorite failed: %v", err)
		}
	})

	t.Run("RemoveFavorite escapes id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE, got %s", r.Method)
			}
			if r.URL.EscapedPath() != "/favorites/a%2Fb" {
				t.Errorf("unexpected path %s", r.URL.EscapedPath())
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		svc := NewBackendService(server.URL, nil, nil)
		if err := svc.RemoveFavorite(ctx, "tok", "a/b"); err != nil {
			t.Errorf("RemoveFavorite failed: %v", err)
		}
	})
}
