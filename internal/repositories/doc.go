// Package repositories implements SQLite persistence for client-side state.
//
// The only durable state is the session: two well-known keys ([KeyIdentity], [KeyToken])
// in the session_values table, written and cleared together in one transaction so a
// half-populated session never reaches disk.
//
// Key Implementations:
//   - [SessionRepository] : session.Storage backed by the session_values table
package repositories
