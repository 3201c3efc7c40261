package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/dish/internal/formatter"
	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
)

// ExportOpts contains configuration for favorites exports.
type ExportOpts struct {
	Format     string       // Card format: json, markdown, txt
	OutputDir  string       // Base output directory (default: dish_export_{epoch})
	NumWorkers int          // Concurrent card writers (default: 5, max: 10)
	RateLimit  float64      // Catalog lookups per second (default: 5)
	Images     bool         // Download thumbnails for Markdown cards
	HTTPClient *http.Client // Client for thumbnail downloads
}

// CardResult is the outcome of exporting one favorite.
type CardResult struct {
	MealID   string
	MealName string
	Files    []string
	Error    error
	index    int
}

// ExportResult summarizes a favorites export.
type ExportResult struct {
	Total           int
	Succeeded       int
	Failed          int
	OutputDirectory string
	CSVPath         string
	ManifestPath    string
	Results         []CardResult
}

type exportJob struct {
	index int
	entry models.FavoriteEntry
	meal  *models.MealDetail
}

// ExportFavorites writes a recipe card for every favorite plus a favorites CSV and a manifest.
//
// Favorites are resolved against the catalog by id under a rate limit, and cards are
// written by a worker pool. A favorite that cannot be resolved or written is recorded
// in the manifest without stopping the export.
func (e *Engine) ExportFavorites(ctx context.Context, prog chan<- ProgressUpdate, opts ExportOpts) (*ExportResult, error) {
	if !e.session.Get().Authenticated() {
		return nil, shared.ErrNotAuthenticated
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if !formatter.ValidFormat(opts.Format) {
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("dish_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	sendProgress(prog, loadingFavoritesUpdate())
	if err := e.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	favorites := e.favorites.Favorites()
	sendProgress(prog, loadedFavoritesUpdate(len(favorites)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		Total:           len(favorites),
		OutputDirectory: opts.OutputDir,
		Results:         make([]CardResult, 0, len(favorites)),
	}

	csvPath := filepath.Join(opts.OutputDir, "favorites.csv")
	if err := formatter.WriteFavoritesCSV(favorites, csvPath); err != nil {
		return nil, err
	}
	result.CSVPath = csvPath

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(favorites))
	results := make(chan CardResult, len(favorites))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, fav := range favorites {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			sendProgress(prog, resolvingMealUpdate(i+1, len(favorites), fav.MealName))
			meal, err := e.catalog.LookupByID(ctx, fav.MealID)
			if err != nil {
				results <- CardResult{
					MealID:   fav.MealID,
					MealName: fav.MealName,
					Error:    fmt.Errorf("failed to fetch recipe: %w", err),
					index:    i,
				}
				continue
			}

			jobs <- exportJob{index: i, entry: fav, meal: meal}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Error == nil {
			result.Succeeded++
			sendProgress(prog, cardWrittenUpdate(completed, len(favorites), res.MealName, len(res.Files)))
		} else {
			result.Failed++
			sendProgress(prog, cardFailedUpdate(completed, len(favorites), res.MealName, res.Error))
		}
	}

	sort.Slice(result.Results, func(i, j int) bool {
		return result.Results[i].index < result.Results[j].index
	})

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteExportManifest(buildManifest(result, opts.Format), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestWrittenUpdate(manifestPath))

	return result, nil
}

// exportWorker writes cards for jobs until the channel closes.
func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	results chan<- CardResult,
	opts ExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := CardResult{MealID: job.entry.MealID, MealName: job.entry.MealName, index: job.index}

		if err := ctx.Err(); err != nil {
			res.Error = err
			results <- res
			continue
		}

		files, err := formatter.WriteMealCard(ctx, job.meal, formatter.CardOptions{
			Format:     opts.Format,
			OutputDir:  opts.OutputDir,
			Images:     opts.Images,
			HTTPClient: opts.HTTPClient,
		})
		if err != nil {
			res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		} else {
			res.Files = files
		}
		results <- res
	}
}

func buildManifest(result *ExportResult, format string) *formatter.ExportManifest {
	manifest := &formatter.ExportManifest{
		CreatedAt:    time.Now().UTC(),
		Format:       format,
		Total:        result.Total,
		Succeeded:    result.Succeeded,
		Failed:       result.Failed,
		FavoritesCSV: filepath.Base(result.CSVPath),
		Entries:      make([]formatter.ManifestEntry, 0, len(result.Results)),
	}

	for _, r := range result.Results {
		entry := formatter.ManifestEntry{MealID: r.MealID, MealName: r.MealName}
		for _, f := range r.Files {
			if rel, err := filepath.Rel(result.OutputDirectory, f); err == nil {
				f = rel
			}
			entry.Files = append(entry.Files, f)
		}
		if r.Error != nil {
			entry.Error = r.Error.Error()
		}
		manifest.Entries = append(manifest.Entries, entry)
	}

	return manifest
}
