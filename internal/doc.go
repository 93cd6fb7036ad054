// Package internal documents the TicketHub server internals.
//
// The internal tree is organized by responsibility:
// - api: HTTP handlers, middleware, problem responses, and routing
// - domain: business logic and domain models (users, accounts, events)
// - storage: database access and repositories (pgx + Postgres)
// - auth, config, metrics, telemetry: shared infrastructure
//
// Code in internal/ is not meant for external import.
package internal
