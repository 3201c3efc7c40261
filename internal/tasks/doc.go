// Package tasks holds the client-side state that sits between the views and the remote services.
//
// # Meal Lookup
//
// [MealLookup] owns the current search results and the current meal detail.
//
//  1. [MealLookup.SearchByFilter] : replaces the result set wholesale
//     - An unrecognized filter type is rejected before any request
//     - Failures keep the previous results
//
//  2. [MealLookup.FetchDetail] : resolves a meal name to a [models.MealDetail]
//     - "Not found" is a result, not an error
//     - Each call takes a generation number; a response that arrives after a newer
//     call started is marked Stale and never replaces [MealLookup.Current]
//
// # Favorites
//
// [FavoritesStore] moves through Idle → Loading → Loaded | Errored and re-enters
// Loading on every token change or refresh. Adds and removes are two-phase: the
// local collection changes only after the backend confirms. A 409 on add is soft:
// [shared.ErrDuplicateFavorite] is returned and the collection is left as is.
//
// # Engine
//
// [Engine] wires the session to both stores. [Engine.Login] authenticates, stores
// the session, and then loads favorites with the new token.
//
// # Progress Reporting
//
// [Engine.ExportFavorites] reports through a [ProgressUpdate] channel. Sends use
// select with default, so a slow reader drops updates instead of stalling the export.
package tasks
