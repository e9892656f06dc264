// Package database exposes the tables behind a single provider-agnostic
// query contract. Two providers implement it: a SQL-synthesizing one
// that talks to any Postgres-compatible server through database/sql, and
// a delegating one that forwards to the Supabase PostgREST API. Both are
// selected exactly once at startup.
package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nuriajuanca/casamiento/internal/config"
)

type Provider string

const (
	ProviderSupabase Provider = "supabase"
	ProviderNeon     Provider = "neon"
)

// Client is the capability every provider exposes.
type Client interface {
	From(table string) Builder
	Close() error
}

// Builder accumulates query intent through chainable calls. Every call
// returns a new builder value, so partially built queries can be stored
// and extended without affecting each other. No I/O happens until Exec,
// which runs exactly one query and returns the rows as JSON: an array
// for plain queries, a single object (or null for no match) after
// Single. Execution failures are always reported through the returned
// error, never as a panic.
type Builder interface {
	Select(columns string) Builder
	Insert(values any) Builder
	Update(values map[string]any) Builder
	Delete() Builder
	Eq(column string, value any) Builder
	Order(column string, ascending bool) Builder
	Limit(count int) Builder
	Single() Builder
	Exec(ctx context.Context) (json.RawMessage, error)
}

// New selects the concrete provider from configuration. The returned
// client is created once per process and reused across requests.
func New(cfg *config.Config) (Client, error) {
	switch Provider(cfg.DatabaseProvider) {
	case ProviderNeon:
		return NewNeonClient(cfg.DatabaseURL)
	case ProviderSupabase:
		return NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
	default:
		return nil, fmt.Errorf("unsupported database provider %q", cfg.DatabaseProvider)
	}
}

// isNullResult reports whether a query produced no usable row, which is
// how both providers signal "not found" for Single queries.
func isNullResult(data json.RawMessage) bool {
	return len(data) == 0 || string(data) == "null"
}
