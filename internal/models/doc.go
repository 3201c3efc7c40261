// Package models defines the data types shared by the catalog, backend, and presentation layers.
//
// Catalog types are read-only snapshots produced by search and lookup:
//   - [MealSummary] : id, name and thumbnail, as returned by filter endpoints
//   - [MealDetail] : full recipe with compacted ingredient list
//
// Backend types:
//   - [FavoriteEntry] : one saved meal, in the backend's snake_case wire format
//   - [Session] : identity plus bearer token, both present or both absent
//
// [FilterType] enumerates the catalog's search modes.
package models
