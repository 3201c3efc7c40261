// TheMealDB [Catalog] implementation
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
)

// DefaultCatalogURL is TheMealDB's public v1 API.
const DefaultCatalogURL = "https://www.themealdb.com/api/json/v1/1"

const (
	ingredientPrefix = "strIngredient"
	measurePrefix    = "strMeasure"
)

// mealRecord is one entry of a TheMealDB "meals" array. Values are strings or null.
type mealRecord map[string]any

func (r mealRecord) str(key string) string {
	if v, ok := r[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

type mealsResponse struct {
	Meals []mealRecord `json:"meals"`
}

// MealDBService implements [Catalog] over TheMealDB.
type MealDBService struct {
	api     *APIService
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewMealDBService creates a catalog client limited to rps requests per second.
//
// rps <= 0 disables limiting.
func NewMealDBService(baseURL string, client *http.Client, rps float64, logger *log.Logger) *MealDBService {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultCatalogURL
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	}

	return &MealDBService{
		api:     NewAPIService(baseURL, client, shared.WithLogger(logger, "service", "catalog")),
		limiter: limiter,
		logger:  logger,
	}
}

// Filter implements [Catalog].
//
// category, area and ingredient use filter.php; firstLetter uses search.php?f=.
func (m *MealDBService) Filter(ctx context.Context, ft models.FilterType, query string) ([]models.MealSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", shared.ErrInvalidInput)
	}

	var endpoint string
	switch ft {
	case models.FilterCategory:
		endpoint = "/filter.php?c=" + url.QueryEscape(query)
	case models.FilterArea:
		endpoint = "/filter.php?a=" + url.QueryEscape(query)
	case models.FilterIngredient:
		endpoint = "/filter.php?i=" + url.QueryEscape(query)
	case models.FilterFirstLetter:
		if utf8.RuneCountInString(query) != 1 {
			return nil, fmt.Errorf("%w: first letter filter takes a single character, got %q", shared.ErrInvalidInput, query)
		}
		endpoint = "/search.php?f=" + url.QueryEscape(query)
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidFilter, ft)
	}

	records, err := m.fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.MealSummary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, models.MealSummary{
			ID:    r.str("idMeal"),
			Name:  r.str("strMeal"),
			Image: r.str("strMealThumb"),
		})
	}
	return summaries, nil
}

// SearchByName implements [Catalog].
func (m *MealDBService) SearchByName(ctx context.Context, name string) ([]models.MealDetail, error) {
	records, err := m.fetch(ctx, "/search.php?s="+url.QueryEscape(strings.TrimSpace(name)))
	if err != nil {
		return nil, err
	}

	meals := make([]models.MealDetail, 0, len(records))
	for _, r := range records {
		meals = append(meals, parseMeal(r))
	}
	return meals, nil
}

// LookupByID implements [Catalog].
func (m *MealDBService) LookupByID(ctx context.Context, id string) (*models.MealDetail, error) {
	records, err := m.fetch(ctx, "/lookup.php?i="+url.QueryEscape(strings.TrimSpace(id)))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: id %s", shared.ErrMealNotFound, id)
	}

	meal := parseMeal(records[0])
	return &meal, nil
}

// Random implements [Catalog].
func (m *MealDBService) Random(ctx context.Context) (*models.MealDetail, error) {
	records, err := m.fetch(ctx, "/random.php")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, shared.ErrMealNotFound
	}

	meal := parseMeal(records[0])
	return &meal, nil
}

// fetch waits on the limiter, then returns the "meals" array. null decodes to an empty slice.
func (m *MealDBService) fetch(ctx context.Context, endpoint string) ([]mealRecord, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", shared.ErrAPIRequest, err)
	}

	resp, err := m.api.Get(ctx, endpoint, "")
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: catalog returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var parsed mealsResponse
	if err := resp.Decode(&parsed); err != nil {
		return nil, err
	}
	return parsed.Meals, nil
}

// parseMeal maps a raw catalog record onto [models.MealDetail].
//
// Ingredients are taken in numeric suffix order; blank ones are dropped along with their measure.
func parseMeal(r mealRecord) models.MealDetail {
	meal := models.MealDetail{
		ID:           r.str("idMeal"),
		Name:         r.str("strMeal"),
		Image:        r.str("strMealThumb"),
		Category:     r.str("strCategory"),
		Area:         r.str("strArea"),
		Source:       r.str("strSource"),
		Video:        r.str("strYoutube"),
		Instructions: r.str("strInstructions"),
		Ingredients:  []string{},
	}

	for _, tag := range strings.Split(r.str("strTags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			meal.Tags = append(meal.Tags, tag)
		}
	}

	var indexes []int
	for key := range r {
		suffix, ok := strings.CutPrefix(key, ingredientPrefix)
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(suffix); err == nil {
			indexes = append(indexes, n)
		}
	}
	sort.Ints(indexes)

	for _, n := range indexes {
		ingredient := r.str(ingredientPrefix + strconv.Itoa(n))
		if ingredient == "" {
			continue
		}
		meal.Ingredients = append(meal.Ingredients, ingredient)
		meal.Measures = append(meal.Measures, r.str(measurePrefix+strconv.Itoa(n)))
	}

	return meal
}
