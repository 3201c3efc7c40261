// package models defines the data model for the recipe browsing client
package models

import "strings"

// Session is the client's authentication state.
//
// Identity and Token are both set (authenticated) or both empty (anonymous).
type Session struct {
	Identity string `json:"identity"`
	Token    string `json:"token"`
}

// Authenticated reports whether the session carries credentials.
func (s Session) Authenticated() bool {
	return s.Identity != "" && s.Token != ""
}

// IsZero reports whether the session is anonymous.
func (s Session) IsZero() bool {
	return s.Identity == "" && s.Token == ""
}

// Valid reports whether the session satisfies the both-or-neither invariant.
func (s Session) Valid() bool {
	return s.Authenticated() || s.IsZero()
}

// MealSummary is a catalog entry as returned by filter and search endpoints.
type MealSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// MealDetail is a full catalog record for a single meal.
type MealDetail struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Image        string   `json:"image"`
	Category     string   `json:"category"`
	Area         string   `json:"area"`
	Source       string   `json:"source,omitempty"`
	Video        string   `json:"video,omitempty"`
	Instructions string   `json:"instructions"`
	Tags         []string `json:"tags,omitempty"`
	Ingredients  []string `json:"ingredients"`
	Measures     []string `json:"measures,omitempty"` // index-aligned with Ingredients
}

// Summary projects the detail onto a [MealSummary].
func (m MealDetail) Summary() MealSummary {
	return MealSummary{ID: m.ID, Name: m.Name, Image: m.Image}
}

// FavoriteEntry is a saved meal as stored by the backend.
type FavoriteEntry struct {
	MealID   string `json:"meal_id"`
	MealName string `json:"meal_name"`
	ImageURL string `json:"image_url"`
}

// NewFavoriteEntry builds the entry the backend expects for meal.
func NewFavoriteEntry(meal MealSummary) FavoriteEntry {
	return FavoriteEntry{MealID: meal.ID, MealName: meal.Name, ImageURL: meal.Image}
}

// Summary projects the entry onto a [MealSummary].
func (f FavoriteEntry) Summary() MealSummary {
	return MealSummary{ID: f.MealID, Name: f.MealName, Image: f.ImageURL}
}

// FilterType selects which catalog search is performed.
type FilterType string

const (
	FilterCategory    FilterType = "category"
	FilterArea        FilterType = "area"
	FilterIngredient  FilterType = "ingredient"
	FilterFirstLetter FilterType = "firstLetter"
)

// FilterTypes lists every supported filter in display order.
var FilterTypes = []FilterType{FilterCategory, FilterArea, FilterIngredient, FilterFirstLetter}

// Valid reports whether f is one of the supported filters.
func (f FilterType) Valid() bool {
	switch f {
	case FilterCategory, FilterArea, FilterIngredient, FilterFirstLetter:
		return true
	default:
		return false
	}
}

// ParseFilterType resolves user input such as "Category" or "first-letter" to a [FilterType].
func ParseFilterType(s string) (FilterType, bool) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)) {
	case "category", "c":
		return FilterCategory, true
	case "area", "a":
		return FilterArea, true
	case "ingredient", "i":
		return FilterIngredient, true
	case "firstletter", "letter", "f":
		return FilterFirstLetter, true
	default:
		return FilterType(s), false
	}
}
