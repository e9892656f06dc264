package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/supabase-community/postgrest-go"
)

// SupabaseClient adapts the hosted PostgREST query API to the common
// contract. It performs no SQL generation: accumulated calls are
// replayed against the postgrest fluent client at execution time and
// its response is passed through as-is.
type SupabaseClient struct {
	rest *postgrest.Client
}

func NewSupabaseClient(rawURL, serviceKey string) (*SupabaseClient, error) {
	if rawURL == "" || serviceKey == "" {
		return nil, errors.New("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY are required for the supabase provider")
	}

	rest := postgrest.NewClient(strings.TrimRight(rawURL, "/")+"/rest/v1", "public", map[string]string{
		"apikey":        serviceKey,
		"Authorization": "Bearer " + serviceKey,
	})
	if rest.ClientError != nil {
		return nil, fmt.Errorf("failed to create postgrest client: %w", rest.ClientError)
	}

	return &SupabaseClient{rest: rest}, nil
}

func (c *SupabaseClient) From(table string) Builder {
	return supabaseBuilder{rest: c.rest, table: table, columns: "*"}
}

func (c *SupabaseClient) Close() error {
	return nil
}

type supaCond struct {
	column string
	value  any
}

type supabaseBuilder struct {
	rest        *postgrest.Client
	table       string
	columns     string
	where       []supaCond
	orderColumn string
	orderDesc   bool
	limitCount  int
	hasLimit    bool
	insertData  any
	hasInsert   bool
	updateData  map[string]any
	deleteQuery bool
	single      bool
}

func (b supabaseBuilder) Select(columns string) Builder {
	if columns == "" {
		columns = "*"
	}
	b.columns = columns
	return b
}

func (b supabaseBuilder) Insert(values any) Builder {
	b.insertData = values
	b.hasInsert = true
	return b
}

func (b supabaseBuilder) Update(values map[string]any) Builder {
	b.updateData = values
	return b
}

func (b supabaseBuilder) Delete() Builder {
	b.deleteQuery = true
	return b
}

func (b supabaseBuilder) Eq(column string, value any) Builder {
	b.where = append(slices.Clone(b.where), supaCond{column: column, value: value})
	return b
}

func (b supabaseBuilder) Order(column string, ascending bool) Builder {
	b.orderColumn = column
	b.orderDesc = !ascending
	return b
}

func (b supabaseBuilder) Limit(count int) Builder {
	b.limitCount = count
	b.hasLimit = true
	return b
}

func (b supabaseBuilder) Single() Builder {
	b.single = true
	return b
}

func (b supabaseBuilder) Exec(ctx context.Context) (json.RawMessage, error) {
	query := b.rest.From(b.table)

	var filter *postgrest.FilterBuilder
	switch {
	case b.hasInsert:
		if b.insertData == nil {
			return nil, errors.New("no insert data provided")
		}
		filter = query.Insert(b.insertData, false, "", "representation", "")
	case b.updateData != nil:
		filter = query.Update(b.updateData, "representation", "")
	case b.deleteQuery:
		filter = query.Delete("representation", "")
	default:
		filter = query.Select(b.columns, "", false)
	}

	for _, cond := range b.where {
		filter = filter.Eq(cond.column, fmt.Sprintf("%v", cond.value))
	}
	if b.orderColumn != "" {
		filter = filter.Order(b.orderColumn, &postgrest.OrderOpts{Ascending: !b.orderDesc})
	}
	if b.hasLimit {
		filter = filter.Limit(b.limitCount, "")
	}
	if b.single {
		filter = filter.Single()
	}

	data, _, err := filter.ExecuteWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgrest query failed: %w", err)
	}
	if len(data) == 0 {
		if b.single {
			return json.RawMessage("null"), nil
		}
		return json.RawMessage("[]"), nil
	}
	return json.RawMessage(data), nil
}
