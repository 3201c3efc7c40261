package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/dish/internal/repositories"
	"github.com/desertthunder/dish/internal/session"
	"github.com/desertthunder/dish/internal/tasks"
)

// AuthStatusOutput is the JSON shape of `dish auth status`.
type AuthStatusOutput struct {
	Authenticated bool       `json:"authenticated"`
	Identity      string     `json:"identity,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Expired       bool       `json:"expired"`
	SavedAt       *time.Time `json:"saved_at,omitempty"`
	Favorites     string     `json:"favorites"`
	FavoriteCount int        `json:"favorite_count"`
}

// AuthLogin logs in, stores the session, and loads favorites with the new token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	email := cmd.String("email")
	r.logger.Info("logging in", "email", email)

	s, err := r.engine.Login(ctx, email, cmd.String("password"))
	if err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s\n", s.Identity)

	store := r.engine.Favorites()
	if store.State() == tasks.StateLoaded {
		return r.writePlain("%d favorites loaded\n", len(store.Favorites()))
	}
	return r.writePlain("Favorites could not be loaded: %v\n", store.Err())
}

// AuthRegister creates an account. It does not log in.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	username := cmd.String("username")
	if err := r.engine.Register(ctx, username, cmd.String("password"), cmd.String("email")); err != nil {
		return err
	}

	r.writePlain("✓ Account %s created\n", username)
	return r.writePlain("Run 'dish auth login' to sign in.\n")
}

// AuthLogout forgets the stored session.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	if !r.engine.Session().Authenticated() {
		return r.writePlain("Not logged in\n")
	}
	if err := r.engine.Logout(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports the stored session, its token expiry, and whether favorites load with it.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	s := r.engine.Session()
	out := AuthStatusOutput{Authenticated: s.Authenticated(), Identity: s.Identity}

	if s.Authenticated() {
		if exp, ok := session.Expiry(s.Token); ok {
			out.ExpiresAt = &exp
			out.Expired = time.Now().After(exp)
		}
		if repo, ok := r.storage.(*repositories.SessionRepository); ok {
			if at, found, err := repo.UpdatedAt(ctx); err != nil {
				r.logger.Warn("failed to read session timestamp", "error", err)
			} else if found {
				out.SavedAt = &at
			}
		}

		if err := r.engine.Restore(ctx); err != nil {
			r.logger.Debug("favorites check failed", "error", err)
		}
		store := r.engine.Favorites()
		out.Favorites = store.State().String()
		out.FavoriteCount = len(store.Favorites())
	} else {
		out.Favorites = tasks.StateIdle.String()
	}

	if cmd.Bool("json") {
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if !out.Authenticated {
		return r.writePlain("✗ Not logged in\n")
	}

	r.writePlain("✓ Logged in as %s\n", out.Identity)
	if out.SavedAt != nil {
		r.writePlain("Session saved: %s\n", out.SavedAt.Local().Format(time.RFC1123))
	}
	switch {
	case out.ExpiresAt == nil:
		r.writePlain("Token expiry: unknown\n")
	case out.Expired:
		r.writePlain("Token expired: %s\n", out.ExpiresAt.Local().Format(time.RFC1123))
	default:
		r.writePlain("Token expires: %s\n", out.ExpiresAt.Local().Format(time.RFC1123))
	}
	return r.writePlain("Favorites: %s (%d)\n", out.Favorites, out.FavoriteCount)
}
