package tasks

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/services"
	"github.com/desertthunder/dish/internal/shared"
)

// Areas and Categories are the catalog's known filter values, used for suggestions.
var (
	Areas = []string{
		"American", "British", "Canadian", "Chinese", "Croatian", "Dutch", "Egyptian", "Filipino",
		"French", "Greek", "Indian", "Irish", "Italian", "Jamaican", "Japanese", "Kenyan", "Malaysian",
		"Mexican", "Moroccan", "Polish", "Portuguese", "Russian", "Spanish", "Thai", "Tunisian",
		"Turkish", "Ukrainian", "Vietnamese",
	}
	Categories = []string{
		"Beef", "Breakfast", "Chicken", "Dessert", "Goat", "Lamb", "Miscellaneous", "Pasta", "Pork",
		"Seafood", "Side", "Starter", "Vegan", "Vegetarian",
	}
)

// DetailResult is the outcome of one [MealLookup.FetchDetail] call.
//
// Exactly one of Meal, NotFound or Err describes the outcome. Stale marks a
// response that resolved after a newer lookup began.
type DetailResult struct {
	Name     string
	Meal     *models.MealDetail
	NotFound bool
	Stale    bool
	Err      error
}

// MealLookup holds the current search results and meal detail.
type MealLookup struct {
	catalog services.Catalog
	logger  *log.Logger

	mu        sync.Mutex
	results   []models.MealSummary
	searchGen uint64
	detailGen uint64
	current   DetailResult
}

// NewMealLookup creates a MealLookup over catalog.
func NewMealLookup(catalog services.Catalog, logger *log.Logger) *MealLookup {
	return &MealLookup{catalog: catalog, logger: logger}
}

// SearchByFilter replaces the result set with meals matching query.
//
// An unrecognized filter issues no request and returns the unchanged results
// with [shared.ErrInvalidFilter]. Any failure leaves the previous results intact.
func (l *MealLookup) SearchByFilter(ctx context.Context, ft models.FilterType, query string) ([]models.MealSummary, error) {
	if !ft.Valid() {
		return l.Results(), fmt.Errorf("%w: %q", shared.ErrInvalidFilter, ft)
	}

	l.mu.Lock()
	l.searchGen++
	gen := l.searchGen
	l.mu.Unlock()

	meals, err := l.catalog.Filter(ctx, ft, query)
	if err != nil {
		l.logger.Warn("search failed", "filter", ft, "query", query, "error", err)
		return l.Results(), err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.searchGen {
		l.logger.Debug("discarding stale search", "filter", ft, "query", query)
		return slices.Clone(l.results), nil
	}

	l.results = meals
	l.logger.Debug("search complete", "filter", ft, "query", query, "count", len(meals))
	return slices.Clone(meals), nil
}

// FetchDetail resolves name to a full record.
//
// Failures are reported in the result, never returned or panicked. A result
// that resolves after a newer FetchDetail began is marked Stale and does not
// replace [MealLookup.Current].
func (l *MealLookup) FetchDetail(ctx context.Context, name string) DetailResult {
	name = strings.TrimSpace(name)

	l.mu.Lock()
	l.detailGen++
	gen := l.detailGen
	l.mu.Unlock()

	result := DetailResult{Name: name}
	if name == "" {
		result.Err = fmt.Errorf("%w: meal name is required", shared.ErrInvalidInput)
	} else if meals, err := l.catalog.SearchByName(ctx, name); err != nil {
		result.Err = err
	} else if meal := pickMeal(meals, name); meal == nil {
		result.NotFound = true
	} else {
		result.Meal = meal
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.detailGen {
		result.Stale = true
		l.logger.Debug("discarding stale detail", "name", name)
		return result
	}

	l.current = result
	if result.Err != nil {
		l.logger.Warn("detail lookup failed", "name", name, "error", result.Err)
	}
	return result
}

// pickMeal prefers an exact case-insensitive name match, falling back to the first record.
func pickMeal(meals []models.MealDetail, name string) *models.MealDetail {
	if len(meals) == 0 {
		return nil
	}
	for i := range meals {
		if strings.EqualFold(meals[i].Name, name) {
			return &meals[i]
		}
	}
	return &meals[0]
}

// Results returns a copy of the current search results.
func (l *MealLookup) Results() []models.MealSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.results)
}

// Current returns the most recent non-stale detail result.
func (l *MealLookup) Current() DetailResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Suggest returns known areas or categories starting with prefix, case-insensitively.
// Other filter types have no suggestions.
func Suggest(ft models.FilterType, prefix string) []string {
	var source []string
	switch ft {
	case models.FilterArea:
		source = Areas
	case models.FilterCategory:
		source = Categories
	default:
		return nil
	}

	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var matches []string
	for _, s := range source {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			matches = append(matches, s)
		}
	}
	return matches
}
