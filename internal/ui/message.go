package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/dish/internal/models"
	"github.com/desertthunder/dish/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMealsFetched MsgKind = iota
	MsgDetailFetched
	MsgFavoritesLoaded
	MsgFavoriteToggled
	MsgBrowserOpened
)

type mealsFetched struct {
	meals []models.MealSummary
	err   error
}

type favoriteToggled struct {
	meal models.MealSummary
	on   bool
	err  error
}

// mealsFetchedMsg is the constructor for [MsgMealsFetched]
func mealsFetchedMsg(meals []models.MealSummary, err error) Msg {
	return Msg{kind: MsgMealsFetched, data: mealsFetched{meals, err}}
}

// detailFetchedMsg is the constructor for [MsgDetailFetched]
func detailFetchedMsg(result tasks.DetailResult) Msg {
	return Msg{kind: MsgDetailFetched, data: result}
}

// favoritesLoadedMsg is the constructor for [MsgFavoritesLoaded]
func favoritesLoadedMsg(err error) Msg {
	return Msg{kind: MsgFavoritesLoaded, data: err}
}

// favoriteToggledMsg is the constructor for [MsgFavoriteToggled]
func favoriteToggledMsg(meal models.MealSummary, on bool, err error) Msg {
	return Msg{kind: MsgFavoriteToggled, data: favoriteToggled{meal, on, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}
