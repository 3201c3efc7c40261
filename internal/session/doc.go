// Package session holds the process-wide authentication state.
//
// A [Manager] is created once at startup, reads its [Storage] a single time, and from then on
// serves [models.Session] values from memory. Set and Clear write through to storage before
// changing the in-memory value.
package session
