package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
	"github.com/desertthunder/dish/internal/ui"
)

// TUI launches the interactive recipe browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/dish-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	fileLogger.SetLevel(r.logger.GetLevel())
	r.SetLogger(fileLogger)

	if err := r.ready(ctx); err != nil {
		return err
	}

	ft, _ := models.ParseFilterType(cmd.String("type"))
	query := cmd.String("query")
	if query == "" {
		ft, query = models.FilterCategory, r.config.Catalog.DefaultCategory
	}

	model := ui.NewModel(ctx, r.engine, ft, query)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
