// Package services implements the HTTP clients for the two upstream services: the meal [Catalog] and the auth/favorites [Backend].
//
// # Transport
//
// Both clients sit on [APIService], which encodes JSON bodies, stamps every request with an
// X-Request-ID, and attaches bearer tokens through an [oauth2.Transport] built per call. The
// token is fixed when the request is built, so clearing the session never affects a request
// already in flight.
//
// # Catalog
//
// [MealDBService] talks to TheMealDB. A {"meals": null} body means no results. Requests pass
// through a [rate.Limiter] since the catalog is a free public API. Raw records are compacted:
// blank strIngredientN fields are dropped and the remaining ingredients keep catalog order.
//
// # Backend
//
// [BackendService] maps non-2xx statuses onto shared errors:
//   - 401, 403 : [shared.ErrSessionExpired]
//   - 409 : [shared.ErrDuplicateFavorite]
//   - anything else : [shared.ErrAPIRequest]
//
// Transport failures and timeouts also wrap [shared.ErrAPIRequest].
package services
