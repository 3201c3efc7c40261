package tasks

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
	tu "github.com/desertthunder/dish/internal/testing"
)

func TestMealLookup(t *testing.T) {
	ctx := context.Background()
	logger := shared.NewLogger(io.Discard)

	seafood := []models.MealSummary{
		{ID: "52959", Name: "Baked salmon with fennel & tomatoes", Image: "https://img/salmon.jpg"},
		{ID: "52819", Name: "Cajun spiced fish tacos", Image: "https://img/tacos.jpg"},
	}

	t.Run("SearchByFilter", func(t *testing.T) {
		t.Run("replaces results", func(t *testing.T) {
			catalog := &tu.MockCatalog{Summaries: seafood}
			lookup := NewMealLookup(catalog, logger)

			got, err := lookup.SearchByFilter(ctx, models.FilterCategory, "Seafood")
			if err != nil {
				t.Fatalf("SearchByFilter failed: %v", err)
			}
			if !slices.Equal(got, seafood) || !slices.Equal(lookup.Results(), seafood) {
				t.Errorf("expected seafood results, got %v", lookup.Results())
			}

			catalog.Summaries = seafood[:1]
			if _, err := lookup.SearchByFilter(ctx, models.FilterArea, "British"); err != nil {
				t.Fatalf("SearchByFilter failed: %v", err)
			}
			if len(lookup.Results()) != 1 {
				t.Errorf("expected results replaced wholesale, got %v", lookup.Results())
			}
		})

		t.Run("unrecognized filter is a no-op", func(t *testing.T) {
			catalog := &tu.MockCatalog{Summaries: seafood}
			lookup := NewMealLookup(catalog, logger)

			if _, err := lookup.SearchByFilter(ctx, models.FilterCategory, "Seafood"); err != nil {
				t.Fatalf("SearchByFilter failed: %v", err)
			}

			got, err := lookup.SearchByFilter(ctx, models.FilterType("calories"), "100")
			if !errors.Is(err, shared.ErrInvalidFilter) {
				t.Errorf("expected ErrInvalidFilter, got %v", err)
			}
			if !slices.Equal(got, seafood) || !slices.Equal(lookup.Results(), seafood) {
				t.Errorf("results should be unchanged, got %v", lookup.Results())
			}
			if catalog.Calls("Filter") != 1 {
				t.Errorf("expected no request for invalid filter, got %d calls", catalog.Calls("Filter"))
			}
		})

		t.Run("failure keeps previous results", func(t *testing.T) {
			catalog := &tu.MockCatalog{Summaries: seafood}
			lookup := NewMealLookup(catalog, logger)
			lookup.SearchByFilter(ctx, models.FilterCategory, "Seafood")

			catalog.FilterFunc = func(context.Context, models.FilterType, string) ([]models.MealSummary, error) {
				return nil, shared.ErrAPIRequest
			}
			if _, err := lookup.SearchByFilter(ctx, models.FilterCategory, "Beef"); !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
			if !slices.Equal(lookup.Results(), seafood) {
				t.Errorf("results should be unchanged, got %v", lookup.Results())
			}
		})
	})

	t.Run("FetchDetail", func(t *testing.T) {
		t.Run("found", func(t *testing.T) {
			catalog := &tu.MockCatalog{Meals: []models.MealDetail{{
				ID: "52771", Name: "Spaghetti Arrabiata", Category: "Pasta", Ingredients: []string{"Pasta"},
			}}}
			lookup := NewMealLookup(catalog, logger)

			res := lookup.FetchDetail(ctx, "Arrabiata")
			if res.Err != nil || res.NotFound || res.Stale {
				t.Fatalf("unexpected result %+v", res)
			}
			if res.Meal.Name != "Spaghetti Arrabiata" || res.Meal.Category != "Pasta" {
				t.Errorf("unexpected meal %+v", res.Meal)
			}
			if !slices.Equal(res.Meal.Ingredients, []string{"Pasta"}) {
				t.Errorf("expected [Pasta], got %v", res.Meal.Ingredients)
			}
			if lookup.Current().Meal != res.Meal {
				t.Error("Current should hold the latest result")
			}
		})

		t.Run("prefers exact name match", func(t *testing.T) {
			catalog := &tu.MockCatalog{Meals: []models.MealDetail{
				{ID: "1", Name: "Chicken Curry Pie"},
				{ID: "2", Name: "Chicken Curry"},
			}}
			lookup := NewMealLookup(catalog, logger)

			res := lookup.FetchDetail(ctx, "chicken curry")
			if res.Meal == nil || res.Meal.ID != "2" {
				t.Errorf("expected exact match id 2, got %+v", res.Meal)
			}
		})

		t.Run("not found is not an error", func(t *testing.T) {
			lookup := NewMealLookup(&tu.MockCatalog{}, logger)

			res := lookup.FetchDetail(ctx, "Nonexistent")
			if res.Err != nil {
				t.Errorf("expected no error, got %v", res.Err)
			}
			if !res.NotFound || res.Meal != nil {
				t.Errorf("expected not found, got %+v", res)
			}
		})

		t.Run("transport failure is reported in the result", func(t *testing.T) {
			catalog := &tu.MockCatalog{SearchByNameFunc: func(context.Context, string) ([]models.MealDetail, error) {
				return nil, shared.ErrAPIRequest
			}}
			lookup := NewMealLookup(catalog, logger)

			res := lookup.FetchDetail(ctx, "Arrabiata")
			if !errors.Is(res.Err, shared.ErrAPIRequest) || res.NotFound || res.Meal != nil {
				t.Errorf("expected errored result, got %+v", res)
			}
			if !errors.Is(lookup.Current().Err, shared.ErrAPIRequest) {
				t.Error("Current should be marked errored")
			}
		})

		t.Run("empty name issues no request", func(t *testing.T) {
			catalog := &tu.MockCatalog{}
			lookup := NewMealLookup(catalog, logger)

			res := lookup.FetchDetail(ctx, "  ")
			if !errors.Is(res.Err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", res.Err)
			}
			if catalog.Calls("SearchByName") != 0 {
				t.Error("expected no catalog request")
			}
		})

		t.Run("stale response does not overwrite newer result", func(t *testing.T) {
			release := make(chan struct{})
			started := make(chan struct{})

			catalog := &tu.MockCatalog{SearchByNameFunc: func(_ context.Context, name string) ([]models.MealDetail, error) {
				if name == "Arrabiata" {
					close(started)
					<-release
				}
				return []models.MealDetail{{ID: name, Name: name}}, nil
			}}
			lookup := NewMealLookup(catalog, logger)

			slow := make(chan DetailResult)
			go func() { slow <- lookup.FetchDetail(ctx, "Arrabiata") }()
			<-started

			fast := lookup.FetchDetail(ctx, "Teriyaki")
			if fast.Stale || fast.Meal.Name != "Teriyaki" {
				t.Fatalf("unexpected fast result %+v", fast)
			}

			close(release)
			old := <-slow
			if !old.Stale {
				t.Error("older response should be marked stale")
			}
			if got := lookup.Current(); got.Meal == nil || got.Meal.Name != "Teriyaki" {
				t.Errorf("current should remain Teriyaki, got %+v", got)
			}
		})
	})
}

func TestSuggest(t *testing.T) {
	tc := []struct {
		name   string
		ft     models.FilterType
		prefix string
		want   []string
	}{
		{"area prefix", models.FilterArea, "it", []string{"Italian"}},
		{"area case-insensitive", models.FilterArea, "JA", []string{"Jamaican", "Japanese"}},
		{"category prefix", models.FilterCategory, "s", []string{"Seafood", "Side", "Starter"}},
		{"empty prefix lists all", models.FilterCategory, "", Categories},
		{"no match", models.FilterArea, "zz", nil},
		{"ingredient has no suggestions", models.FilterIngredient, "chi", nil},
		{"first letter has no suggestions", models.FilterFirstLetter, "a", nil},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := Suggest(tt.ft, tt.prefix); !slices.Equal(got, tt.want) {
				t.Errorf("Suggest(%s, %q) = %v, want %v", tt.ft, tt.prefix, got, tt.want)
			}
		})
	}
}
