// Package ui implements an interactive recipe browser using bubbletea's Elm architecture.
//
// The TUI has four views:
//  1. [MealListView] : Browse meals matching the current filter
//  2. [SearchView] : Pick a filter type and enter a query
//  3. [DetailView] : Read a recipe and toggle it as a favorite
//  4. [FavoritesView] : Browse and open saved favorites
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// All catalog and backend work goes through the [tasks.Engine] stores, so the TUI never
// holds state the stores do not already track.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, f, v, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
