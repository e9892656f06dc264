package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"go.uber.org/multierr"
)

// NeonClient synthesizes parameterized SQL statements from the builder
// calls and runs them over a plain Postgres connection. It works against
// Neon's Postgres endpoint or any other Postgres-compatible server.
type NeonClient struct {
	db *sql.DB
}

func NewNeonClient(databaseURL string) (*NeonClient, error) {
	if databaseURL == "" {
		return nil, errors.New("a Postgres connection string is required for the neon provider")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close() // Ignore close error, we're already returning ping error
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &NeonClient{db: db}, nil
}

// NewNeonClientWithDB wraps an existing handle. Used by tests.
func NewNeonClientWithDB(db *sql.DB) *NeonClient {
	return &NeonClient{db: db}
}

func (c *NeonClient) From(table string) Builder {
	return neonBuilder{db: c.db, table: table, columns: "*"}
}

func (c *NeonClient) Close() error {
	return c.db.Close()
}

func (c *NeonClient) Migrate() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(c.db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// eqCond carries an equality condition. The placeholder index is baked
// into the fragment when Eq is called, so fragments and values stay in
// lockstep and must never be reordered afterwards.
type eqCond struct {
	fragment string
	value    any
}

type neonBuilder struct {
	db          *sql.DB
	table       string
	columns     string
	where       []eqCond
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

func (b neonBuilder) Select(columns string) Builder {
	if columns == "" {
		columns = "*"
	}
	b.columns = columns
	return b
}

func (b neonBuilder) Insert(values any) Builder {
	b.insertData = values
	b.hasInsert = true
	return b
}

func (b neonBuilder) Update(values map[string]any) Builder {
	b.updateData = maps.Clone(values)
	return b
}

func (b neonBuilder) Delete() Builder {
	b.deleteQuery = true
	return b
}

func (b neonBuilder) Eq(column string, value any) Builder {
	fragment := fmt.Sprintf("%s = $%d", column, len(b.where)+1)
	b.where = append(slices.Clone(b.where), eqCond{fragment: fragment, value: value})
	return b
}

func (b neonBuilder) Order(column string, ascending bool) Builder {
	b.orderColumn = column
	b.orderDesc = !ascending
	return b
}

func (b neonBuilder) Limit(count int) Builder {
	b.limitCount = count
	b.hasLimit = true
	return b
}

func (b neonBuilder) Single() Builder {
	b.single = true
	return b
}

func (b neonBuilder) Exec(ctx context.Context) (json.RawMessage, error) {
	query, args, err := b.build()
	if err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	records, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	if b.single {
		if len(records) == 0 {
			return json.RawMessage("null"), nil
		}
		return json.Marshal(records[0])
	}
	return json.Marshal(records)
}

// build dispatches to one of the four statement builders. Insert takes
// priority over update, update over delete, and a plain chain means
// select.
func (b neonBuilder) build() (string, []any, error) {
	switch {
	case b.hasInsert:
		return b.buildInsert()
	case b.updateData != nil:
		return b.buildUpdate()
	case b.deleteQuery:
		query, args := b.buildDelete()
		return query, args, nil
	default:
		query, args := b.buildSelect()
		return query, args, nil
	}
}

func (b neonBuilder) buildSelect() (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s", b.columns, b.table)

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.whereClause(0))
	}
	if b.orderColumn != "" {
		direction := "ASC"
		if b.orderDesc {
			direction = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY %s %s", b.orderColumn, direction)
	}
	if b.hasLimit {
		fmt.Fprintf(&sb, " LIMIT %d", b.limitCount)
	}

	return sb.String(), b.whereValues()
}

func (b neonBuilder) buildInsert() (string, []any, error) {
	insertRows, err := normalizeInsertRows(b.insertData)
	if err != nil {
		return "", nil, err
	}

	// Go maps are unordered, so the column order is fixed by sorting;
	// values are bound in the same order.
	columns := slices.Sorted(maps.Keys(insertRows[0]))

	args := make([]any, 0, len(insertRows)*len(columns))
	tuples := make([]string, 0, len(insertRows))
	for _, row := range insertRows {
		if len(row) != len(columns) {
			return "", nil, errors.New("insert rows have mismatched columns")
		}
		placeholders := make([]string, 0, len(columns))
		for _, column := range columns {
			value, ok := row[column]
			if !ok {
				return "", nil, errors.New("insert rows have mismatched columns")
			}
			args = append(args, value)
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		tuples = append(tuples, "("+strings.Join(placeholders, ", ")+")")
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s RETURNING *",
		b.table, strings.Join(columns, ", "), strings.Join(tuples, ", "))
	return query, args, nil
}

func (b neonBuilder) buildUpdate() (string, []any, error) {
	if len(b.updateData) == 0 {
		return "", nil, errors.New("no update data provided")
	}

	columns := slices.Sorted(maps.Keys(b.updateData))
	setPairs := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns)+len(b.where))
	for i, column := range columns {
		setPairs = append(setPairs, fmt.Sprintf("%s = $%d", column, i+1))
		args = append(args, b.updateData[column])
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "UPDATE %s SET %s", b.table, strings.Join(setPairs, ", "))
	if len(b.where) > 0 {
		// WHERE placeholders continue after the SET clause's own.
		sb.WriteString(" WHERE ")
		sb.WriteString(b.whereClause(len(columns)))
		args = append(args, b.whereValues()...)
	}
	sb.WriteString(" RETURNING *")

	return sb.String(), args, nil
}

func (b neonBuilder) buildDelete() (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DELETE FROM %s", b.table)
	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(b.whereClause(0))
	}
	sb.WriteString(" RETURNING *")

	return sb.String(), b.whereValues()
}

// whereClause joins the accumulated fragments with AND, renumbering the
// baked placeholders when earlier clauses already consumed indices.
func (b neonBuilder) whereClause(offset int) string {
	fragments := make([]string, 0, len(b.where))
	for i, cond := range b.where {
		fragment := cond.fragment
		if offset > 0 {
			fragment = strings.Replace(fragment,
				fmt.Sprintf("$%d", i+1), fmt.Sprintf("$%d", offset+i+1), 1)
		}
		fragments = append(fragments, fragment)
	}
	return strings.Join(fragments, " AND ")
}

func (b neonBuilder) whereValues() []any {
	values := make([]any, 0, len(b.where))
	for _, cond := range b.where {
		values = append(values, cond.value)
	}
	return values
}

func normalizeInsertRows(data any) ([]map[string]any, error) {
	switch v := data.(type) {
	case map[string]any:
		return []map[string]any{v}, nil
	case []map[string]any:
		if len(v) == 0 {
			return nil, errors.New("insert data array is empty")
		}
		return v, nil
	case nil:
		return nil, errors.New("no insert data provided")
	default:
		return nil, fmt.Errorf("unsupported insert payload type %T", data)
	}
}

func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("reading columns: %w", err), rows.Close())
	}

	records := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, multierr.Append(fmt.Errorf("scanning row: %w", err), rows.Close())
		}
		record := make(map[string]any, len(columns))
		for i, column := range columns {
			record[column] = normalizeValue(values[i])
		}
		records = append(records, record)
	}

	if err := multierr.Combine(rows.Err(), rows.Close()); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return records, nil
}

func normalizeValue(value any) any {
	if b, ok := value.([]byte); ok {
		return string(b)
	}
	return value
}
