package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/dish/internal/formatter"
	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
	"github.com/desertthunder/dish/internal/tasks"
)

// argText joins the positional arguments so meal names do not need quoting.
func argText(cmd *cli.Command) string {
	return strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
}

// MealsSearch lists meals matching --type and the query argument.
func (r *Runner) MealsSearch(ctx context.Context, cmd *cli.Command) error {
	query := argText(cmd)
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	ft, _ := models.ParseFilterType(cmd.String("type"))
	return r.listMeals(ctx, cmd, ft, query)
}

// MealsBrowse lists meals in the configured default category.
func (r *Runner) MealsBrowse(ctx context.Context, cmd *cli.Command) error {
	return r.listMeals(ctx, cmd, models.FilterCategory, r.config.Catalog.DefaultCategory)
}

func (r *Runner) listMeals(ctx context.Context, cmd *cli.Command, ft models.FilterType, query string) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	r.logger.Debug("searching meals", "filter", ft, "query", query)
	meals, err := r.engine.Lookup().SearchByFilter(ctx, ft, query)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(meals, cmd.Bool("pretty"))
	}

	if len(meals) == 0 {
		return r.writePlain("No meals found for %s %q\n", ft, query)
	}
	r.writePlainHeader(fmt.Sprintf("%s: %s (%d meals)", ft, query, len(meals)))
	return r.writeRaw(formatter.SummariesToText(meals))
}

// MealsShow prints a recipe resolved by name.
func (r *Runner) MealsShow(ctx context.Context, cmd *cli.Command) error {
	name := argText(cmd)
	if name == "" {
		return fmt.Errorf("%w: meal name", shared.ErrMissingArgument)
	}
	if err := r.ready(ctx); err != nil {
		return err
	}

	meal, err := r.engine.ResolveMeal(ctx, name)
	if errors.Is(err, shared.ErrMealNotFound) {
		return r.writePlain("No recipe found for %q\n", name)
	}
	if err != nil {
		return err
	}
	return r.writeMeal(meal, cmd.String("format"))
}

// MealsRandom prints a random recipe.
func (r *Runner) MealsRandom(ctx context.Context, cmd *cli.Command) error {
	if err := r.ready(ctx); err != nil {
		return err
	}

	meal, err := r.engine.Catalog().Random(ctx)
	if err != nil {
		return err
	}
	return r.writeMeal(meal, cmd.String("format"))
}

func (r *Runner) writeMeal(meal *models.MealDetail, format string) error {
	switch format {
	case formatter.FormatText, "text", "":
		return r.writeRaw(formatter.MealToText(meal))
	case formatter.FormatMarkdown, "md":
		return r.writeRaw(formatter.MealToMarkdown(meal, ""))
	case formatter.FormatJSON:
		data, err := formatter.MealToJSON(meal)
		if err != nil {
			return err
		}
		if err := r.writeRaw(data); err != nil {
			return err
		}
		return r.writePlain("\n")
	default:
		return fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
}

// MealsSuggest prints known areas or categories starting with the prefix argument.
func (r *Runner) MealsSuggest(ctx context.Context, cmd *cli.Command) error {
	ft, ok := models.ParseFilterType(cmd.String("type"))
	if !ok || (ft != models.FilterArea && ft != models.FilterCategory) {
		return fmt.Errorf("%w: suggestions are available for area and category", shared.ErrInvalidFilter)
	}

	matches := tasks.Suggest(ft, argText(cmd))
	if len(matches) == 0 {
		return r.writePlain("No suggestions\n")
	}
	return r.writePlain("%s\n", strings.Join(matches, "\n"))
}

// MealsOpen opens a recipe's source page, or its video with --video.
func (r *Runner) MealsOpen(ctx context.Context, cmd *cli.Command) error {
	name := argText(cmd)
	if name == "" {
		return fmt.Errorf("%w: meal name", shared.ErrMissingArgument)
	}
	if err := r.ready(ctx); err != nil {
		return err
	}

	meal, err := r.engine.ResolveMeal(ctx, name)
	if errors.Is(err, shared.ErrMealNotFound) {
		return r.writePlain("No recipe found for %q\n", name)
	}
	if err != nil {
		return err
	}

	link, kind := meal.Source, "source"
	if cmd.Bool("video") || link == "" {
		link, kind = meal.Video, "video"
	}
	if link == "" {
		return fmt.Errorf("%w: %s has no source or video link", shared.ErrMissingArgument, meal.Name)
	}

	r.logger.Info("opening browser", "meal", meal.Name, "link", kind)
	if err := r.openURL(link); err != nil {
		return err
	}
	return r.writePlain("Opened %s for %s: %s\n", kind, meal.Name, link)
}
