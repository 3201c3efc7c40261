package testing

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/shared"
)

// MockCatalog is a test double for services.Catalog.
//
// Function fields override the canned data when set.
type MockCatalog struct {
	mu    sync.Mutex
	calls map[string]int

	Summaries []models.MealSummary
	Meals     []models.MealDetail

	FilterFunc       func(ctx context.Context, ft models.FilterType, query string) ([]models.MealSummary, error)
	SearchByNameFunc func(ctx context.Context, name string) ([]models.MealDetail, error)
	LookupByIDFunc   func(ctx context.Context, id string) (*models.MealDetail, error)
}

func (m *MockCatalog) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

// Calls reports how many times op was invoked.
func (m *MockCatalog) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *MockCatalog) Filter(ctx context.Context, ft models.FilterType, query string) ([]models.MealSummary, error) {
	m.record("Filter")
	if m.FilterFunc != nil {
		return m.FilterFunc(ctx, ft, query)
	}
	return slices.Clone(m.Summaries), nil
}

func (m *MockCatalog) SearchByName(ctx context.Context, name string) ([]models.MealDetail, error) {
	m.record("SearchByName")
	if m.SearchByNameFunc != nil {
		return m.SearchByNameFunc(ctx, name)
	}

	var found []models.MealDetail
	for _, meal := range m.Meals {
		if strings.Contains(strings.ToLower(meal.Name), strings.ToLower(name)) {
			found = append(found, meal)
		}
	}
	return found, nil
}

func (m *MockCatalog) LookupByID(ctx context.Context, id string) (*models.MealDetail, error) {
	m.record("LookupByID")
	if m.LookupByIDFunc != nil {
		return m.LookupByIDFunc(ctx, id)
	}

	for _, meal := range m.Meals {
		if meal.ID == id {
			return &meal, nil
		}
	}
	return nil, shared.ErrMealNotFound
}

func (m *MockCatalog) Random(ctx context.Context) (*models.MealDetail, error) {
	m.record("Random")
	if len(m.Meals) == 0 {
		return nil, shared.ErrMealNotFound
	}
	meal := m.Meals[0]
	return &meal, nil
}

// MockBackend is a test double for services.Backend.
//
// Favorites is the server-side list; errors injected through the *Err fields are
// returned instead of touching it. Tokens passed to each call are recorded.
type MockBackend struct {
	mu sync.Mutex

	Session   models.Session
	Favorites []models.FavoriteEntry

	LoginErr    error
	RegisterErr error
	ListErr     error
	AddErr      error
	RemoveErr   error

	calls  map[string]int
	tokens []string
}

func (m *MockBackend) record(op, token string) {
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
	if token != "" {
		m.tokens = append(m.tokens, token)
	}
}

// Calls reports how many times op was invoked.
func (m *MockBackend) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Tokens returns the bearer tokens seen, in call order.
func (m *MockBackend) Tokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.tokens)
}

func (m *MockBackend) Login(_ context.Context, email, password string) (models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Login", "")
	if m.LoginErr != nil {
		return models.Session{}, m.LoginErr
	}
	return m.Session, nil
}

func (m *MockBackend) Register(_ context.Context, username, password, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Register", "")
	return m.RegisterErr
}

func (m *MockBackend) ListFavorites(_ context.Context, token string) ([]models.FavoriteEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("ListFavorites", token)
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return slices.Clone(m.Favorites), nil
}

func (m *MockBackend) AddFavorite(_ context.Context, token string, entry models.FavoriteEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("AddFavorite", token)
	if m.AddErr != nil {
		return m.AddErr
	}
	m.Favorites = append(m.Favorites, entry)
	return nil
}

func (m *MockBackend) RemoveFavorite(_ context.Context, token, mealID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("RemoveFavorite", token)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.Favorites = slices.DeleteFunc(m.Favorites, func(f models.FavoriteEntry) bool { return f.MealID == mealID })
	return nil
}
