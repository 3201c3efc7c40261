package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/dish/internal/shared"
	"github.com/desertthunder/dish/internal/tasks"
)

// requireSession fails before any request when nobody is logged in.
func (r *Runner) requireSession(ctx context.Context) error {
	if err := r.ready(ctx); err != nil {
		return err
	}
	if !r.engine.Session().Authenticated() {
		return shared.ErrNotAuthenticated
	}
	return nil
}

// FavoritesList prints the saved favorites.
func (r *Runner) FavoritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	if err := r.engine.Restore(ctx); err != nil {
		return err
	}
	favorites := r.engine.Favorites().Favorites()

	if cmd.Bool("json") {
		return r.writeJSON(favorites, cmd.Bool("pretty"))
	}

	if len(favorites) == 0 {
		return r.writePlain("No favorites yet. Add one with 'dish favorites add <meal name>'.\n")
	}
	r.writePlainHeader(fmt.Sprintf("Favorites for %s (%d)", r.engine.Session().Identity, len(favorites)))
	for _, f := range favorites {
		r.writePlain("%-8s %s\n", f.MealID, f.MealName)
	}
	return nil
}

// FavoritesAdd resolves a meal by name and saves it.
func (r *Runner) FavoritesAdd(ctx context.Context, cmd *cli.Command) error {
	name := argText(cmd)
	if name == "" {
		return fmt.Errorf("%w: meal name", shared.ErrMissingArgument)
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	meal, err := r.engine.AddFavoriteByName(ctx, name)
	if err != nil {
		return err
	}
	return r.writePlain("★ Saved %s (#%s)\n", meal.Name, meal.ID)
}

// FavoritesRemove deletes a favorite by meal id.
func (r *Runner) FavoritesRemove(ctx context.Context, cmd *cli.Command) error {
	id := argText(cmd)
	if id == "" {
		return fmt.Errorf("%w: meal id", shared.ErrMissingArgument)
	}
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	if err := r.engine.RemoveFavorite(ctx, id); err != nil {
		return err
	}
	return r.writePlain("✓ Removed #%s\n", id)
}

// FavoritesExport writes a recipe card per favorite, a favorites CSV, and a manifest.
func (r *Runner) FavoritesExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(ctx); err != nil {
		return err
	}

	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  r.config.Catalog.RateLimit,
		Images:     cmd.Bool("images"),
		HTTPClient: r.httpClient,
	}

	r.logger.Info("starting favorites export", "format", opts.Format, "workers", opts.NumWorkers)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.LoadFavorites:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ResolveMeal:
				r.logger.Debug(update.Message)
			case tasks.WriteCard:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.engine.ExportFavorites(ctx, progressCh, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("═══════════════════════════════════════")
	r.writePlain("Export Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Output: %s\n", result.OutputDirectory)
	r.writePlain("Cards: %d/%d written\n", result.Succeeded, result.Total)
	r.writePlain("CSV: %s\n", filepath.Base(result.CSVPath))

	if result.Failed > 0 {
		r.writePlain("\nFailed to export %d favorites:\n", result.Failed)
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %s (#%s): %v\n", res.MealName, res.MealID, res.Error)
			}
		}
	}

	return nil
}
