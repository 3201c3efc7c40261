package ui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/dish/internal/models"
)

var (
	_ list.Item = mealItem{}
	_ list.Item = favoriteItem{}
)

// mealItem wraps [models.MealSummary] to implement [list.Item].
type mealItem struct {
	meal     models.MealSummary
	favorite bool
}

func (i mealItem) FilterValue() string { return i.meal.Name }
func (i mealItem) Title() string {
	if i.favorite {
		return "★ " + i.meal.Name
	}
	return i.meal.Name
}
func (i mealItem) Description() string { return "#" + i.meal.ID }

// favoriteItem wraps [models.FavoriteEntry] to implement [list.Item].
type favoriteItem struct {
	entry models.FavoriteEntry
}

func (i favoriteItem) FilterValue() string { return i.entry.MealName }
func (i favoriteItem) Title() string       { return i.entry.MealName }
func (i favoriteItem) Description() string { return "#" + i.entry.MealID }

func mealItems(meals []models.MealSummary, isFavorite func(id string) bool) []list.Item {
	items := make([]list.Item, len(meals))
	for i, meal := range meals {
		items[i] = mealItem{meal: meal, favorite: isFavorite(meal.ID)}
	}
	return items
}

func favoriteItems(favorites []models.FavoriteEntry) []list.Item {
	items := make([]list.Item, len(favorites))
	for i, f := range favorites {
		items[i] = favoriteItem{entry: f}
	}
	return items
}
