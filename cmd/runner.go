package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/dish/internal/repositories"
	"github.com/desertthunder/dish/internal/services"
	"github.com/desertthunder/dish/internal/session"
	"github.com/desertthunder/dish/internal/shared"
	"github.com/desertthunder/dish/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	catalog    services.Catalog
	backend    services.Backend
	storage    session.Storage
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	session    *session.Manager
	engine     *tasks.Engine
	openURL    func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A nil Storage means the SQLite database from the config is opened on first use.
type RunnerOpts struct {
	Config     *shared.Config
	Catalog    services.Catalog
	Backend    services.Backend
	Storage    session.Storage
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Config.HTTP.Timeout()}
	}
	if opts.Catalog == nil {
		opts.Catalog = services.NewMealDBService(
			opts.Config.Catalog.BaseURL,
			opts.HTTPClient,
			opts.Config.Catalog.RateLimit,
			shared.WithLogger(opts.Logger, "service", "catalog"),
		)
	}
	if opts.Backend == nil {
		opts.Backend = services.NewBackendService(
			opts.Config.Backend.BaseURL,
			opts.HTTPClient,
			shared.WithLogger(opts.Logger, "service", "backend"),
		)
	}

	return &Runner{
		config:     opts.Config,
		catalog:    opts.Catalog,
		backend:    opts.Backend,
		storage:    opts.Storage,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		openURL:    shared.OpenBrowser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, mealsCommand, favoritesCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// ready opens session storage and builds the engine on first use.
func (r *Runner) ready(ctx context.Context) error {
	if r.engine != nil {
		return nil
	}

	if r.storage == nil {
		db, err := r.openDatabase(ctx)
		if err != nil {
			return err
		}
		r.db = db
		r.storage = repositories.NewSessionRepository(db)
	}

	r.session = session.NewManager(ctx, r.storage, shared.WithLogger(r.logger, "component", "session"))
	r.engine = tasks.NewEngine(r.session, r.backend, r.catalog, r.logger)
	return nil
}

func (r *Runner) openDatabase(ctx context.Context) (*sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// Close releases the database if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SetLogger replaces the logger used by the runner and anything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// exitCode reports err to the user and returns the process exit status.
//
// A duplicate favorite is a successful no-op.
func (r *Runner) exitCode(err error) int {
	switch shared.Classify(err) {
	case shared.KindNone:
		return 0
	case shared.KindConflict:
		r.writePlain("Already in favorites\n")
		return 0
	case shared.KindSessionExpired:
		r.logger.Error("session expired", "error", err)
		r.writePlain("Your session has expired. Run 'dish auth login' to sign in again.\n")
		return 1
	case shared.KindUnauthenticated:
		r.writePlain("Not logged in. Run 'dish auth login' first.\n")
		return 1
	case shared.KindNotFound:
		r.logger.Warn(err.Error())
		return 1
	default:
		r.logger.Errorf("application error: %v", err)
		return 1
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeRaw(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
