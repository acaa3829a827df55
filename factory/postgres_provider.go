// Package factory wires concrete gviz.DataProvider implementations:
// PostgreSQL and DuckDB (both CapabilitySQL), S3-backed DuckDB, and a
// local CSV file (CapabilitySelect only).
package factory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/lychee-technology/gviz"
)

// pgxQuerier is the narrow slice of *pgxpool.Pool this provider needs.
// Depending on an interface rather than the concrete pool type lets
// tests substitute pgxmock.PgxPoolIface without a live database,
// grounded on the teacher's pgxmock-driven repository tests
// (internal/postgres_persistent_repository_main_table_test.go).
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresProvider executes the SQL-capable portion of a query directly
// against a PostgreSQL table via pgx, grounded on the teacher's
// PostgresAttributeRepository pgx.Pool usage.
type PostgresProvider struct {
	pool  pgxQuerier
	table string
	log   *zap.Logger
}

// NewPostgresProvider wraps an already-configured pgxpool.Pool to read table.
func NewPostgresProvider(pool *pgxpool.Pool, table string, log *zap.Logger) *PostgresProvider {
	return &PostgresProvider{pool: pool, table: table, log: log}
}

// NewPostgresProviderWithQuerier wraps any pgxQuerier (a real pool or a
// pgxmock.PgxPoolIface in tests) to read table.
func NewPostgresProviderWithQuerier(pool pgxQuerier, table string, log *zap.Logger) *PostgresProvider {
	return &PostgresProvider{pool: pool, table: table, log: log}
}

func (p *PostgresProvider) Capabilities(ctx context.Context) gviz.Capability {
	return gviz.CapabilitySQL
}

func (p *PostgresProvider) Describe(ctx context.Context) ([]gviz.ColumnDescription, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = $1
		ORDER BY ordinal_position`, p.table)
	if err != nil {
		return nil, classifyPgError(err)
	}
	defer rows.Close()

	var cols []gviz.ColumnDescription
	for rows.Next() {
		var name, dataType string
		if err := rows.Scan(&name, &dataType); err != nil {
			return nil, gviz.NewInternalError(err)
		}
		cols = append(cols, gviz.ColumnDescription{ID: name, Type: pgTypeToValueType(dataType), Label: name})
	}
	return cols, rows.Err()
}

func (p *PostgresProvider) Generate(ctx context.Context, q *gviz.Query, reqCtx gviz.RequestContext) (*gviz.Table, error) {
	sqlText, args, err := buildPostgresSQL(p.table, q)
	if err != nil {
		return nil, err
	}
	if p.log != nil {
		p.log.Debug("postgres provider query", zap.String("sql", sqlText))
	}
	rows, err := p.pool.Query(ctx, sqlText, args...)
	if err != nil {
		return nil, classifyPgError(err)
	}
	defer rows.Close()
	return scanPgxRows(rows, reqCtx.Locale)
}

func buildPostgresSQL(table string, q *gviz.Query) (string, []interface{}, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	selectList, err := buildSelectList(q.Selection)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(selectList)
	sb.WriteString(" FROM ")
	sb.WriteString(quoteIdent(table))

	var args []interface{}
	if q.Filter != nil {
		clause, clauseArgs, err := filterToSQL(q.Filter, &args)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(clause)
		args = clauseArgs
	}
	if len(q.Group) > 0 {
		groupList, err := buildGroupByList(q.Group)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" GROUP BY ")
		sb.WriteString(groupList)
	}
	if len(q.Sort) > 0 {
		sb.WriteString(" ORDER BY ")
		parts := make([]string, len(q.Sort))
		for i, s := range q.Sort {
			dir := "ASC"
			if s.Order == gviz.Descending {
				dir = "DESC"
			}
			parts[i] = quoteIdent(s.Column.ID()) + " " + dir
		}
		sb.WriteString(strings.Join(parts, ", "))
	}
	if q.RowLimit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.RowLimit)
	}
	if q.RowOffset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", q.RowOffset)
	}
	return sb.String(), args, nil
}

// filterToSQL lowers a Filter tree to a WHERE clause with every literal
// written inline (see sqlLiteral); args is passed through unchanged,
// grounded on the teacher's CompositeCondition/KvCondition-to-SQL
// recursion in condition.go, generalized from the EAV key/value shape to
// plain column predicates.
func filterToSQL(f gviz.Filter, args *[]interface{}) (string, []interface{}, error) {
	switch v := f.(type) {
	case gviz.ColumnValue:
		lit, err := v.Value.QueryLiteral()
		if err != nil {
			return "", nil, gviz.NewInternalError(err)
		}
		return fmt.Sprintf("%s %s %s", quoteIdent(v.Column), v.Op, sqlLiteral(lit)), *args, nil
	case gviz.ColumnColumn:
		return fmt.Sprintf("%s %s %s", quoteIdent(v.Left), v.Op, quoteIdent(v.Right)), *args, nil
	case gviz.ColumnIsNull:
		if v.Negate {
			return quoteIdent(v.Column) + " IS NOT NULL", *args, nil
		}
		return quoteIdent(v.Column) + " IS NULL", *args, nil
	case gviz.CompoundFilter:
		if len(v.Children) == 0 {
			if v.Op == gviz.CompoundAnd {
				return "TRUE", *args, nil
			}
			return "FALSE", *args, nil
		}
		op := " AND "
		if v.Op == gviz.CompoundOr {
			op = " OR "
		}
		parts := make([]string, len(v.Children))
		for i, c := range v.Children {
			clause, newArgs, err := filterToSQL(c, args)
			if err != nil {
				return "", nil, err
			}
			*args = newArgs
			parts[i] = "(" + clause + ")"
		}
		return strings.Join(parts, op), *args, nil
	case gviz.NegationFilter:
		clause, newArgs, err := filterToSQL(v.Child, args)
		if err != nil {
			return "", nil, err
		}
		*args = newArgs
		return "NOT (" + clause + ")", *args, nil
	default:
		return "", nil, gviz.NewUnsupportedOperationError("unknown filter node %T", f)
	}
}

func sqlLiteral(gvizLiteral string) string {
	// gviz literals (e.g. "'abc'", "date '2020-01-01'") already use SQL-
	// compatible quoting for every type postgres natively shares, except
	// that gviz escapes an embedded quote as \' where SQL doubles it.
	lit := strings.TrimPrefix(strings.TrimPrefix(gvizLiteral, "date "), "datetime ")
	return strings.ReplaceAll(lit, `\'`, `''`)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func pgTypeToValueType(dataType string) gviz.ValueType {
	switch dataType {
	case "integer", "bigint", "smallint", "numeric", "real", "double precision":
		return gviz.TypeNumber
	case "boolean":
		return gviz.TypeBoolean
	case "date":
		return gviz.TypeDate
	case "timestamp without time zone", "timestamp with time zone":
		return gviz.TypeDateTime
	case "time without time zone":
		return gviz.TypeTimeOfDay
	default:
		return gviz.TypeText
	}
}

func scanPgxRows(rows pgx.Rows, locale string) (*gviz.Table, error) {
	fields := rows.FieldDescriptions()
	t := gviz.NewTable(locale)
	for _, f := range fields {
		if err := t.AddColumn(gviz.ColumnDescription{ID: string(f.Name), Type: gviz.TypeText, Label: string(f.Name)}); err != nil {
			return nil, err
		}
	}
	typed := make([]bool, len(fields))
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, gviz.NewInternalError(err)
		}
		cells := make([]gviz.Cell, len(vals))
		for i, v := range vals {
			val := pgxValueToGviz(v)
			if v != nil && !typed[i] {
				// The first non-null value fixes the column's type; every
				// earlier cell in the column is null and is retyped to match.
				typed[i] = true
				t.Columns[i].Type = val.Type()
				for r := range t.Rows {
					t.Rows[r].Cells[i].Value = gviz.Null(val.Type())
				}
			}
			if val.IsNull() {
				val = gviz.Null(t.Columns[i].Type)
			}
			cells[i] = gviz.Cell{Value: val}
		}
		if err := t.AddRow(gviz.Row{Cells: cells}); err != nil {
			return nil, err
		}
	}
	return t, rows.Err()
}

// classifyPgError maps a PostgreSQL driver error to a wire Reason by
// SQLSTATE class, attaching the human-readable error name lib/pq keeps
// in its own ErrorCode table (github.com/lib/pq's pq.Error never
// actually surfaces here since pgx reports pgconn.PgError, but the
// SQLSTATE code format both drivers share is the same five-character
// string lib/pq's table is keyed on). Grounded on the teacher's
// driver-guard error family in errors.go (NewPostgreSQLOnlyDriverError
// and friends), generalized from "wrong driver" to "any SQLSTATE".
func classifyPgError(err error) *gviz.QueryError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return gviz.NewInternalError(err)
	}
	name := pq.ErrorCode(pgErr.Code).Name()
	switch {
	case strings.HasPrefix(pgErr.Code, "42"):
		return gviz.NewInvalidQueryError(gviz.MsgParseError, "%s (%s)", pgErr.Message, name)
	case strings.HasPrefix(pgErr.Code, "57"):
		return gviz.NewTimeoutError(err)
	default:
		return gviz.NewInternalError(err)
	}
}

func pgxValueToGviz(v interface{}) gviz.Value {
	switch x := v.(type) {
	case nil:
		return gviz.Null(gviz.TypeText)
	case string:
		return gviz.Text(x)
	case int32:
		return gviz.Number(float64(x))
	case int64:
		return gviz.Number(float64(x))
	case float32:
		return gviz.Number(float64(x))
	case float64:
		return gviz.Number(x)
	case bool:
		return gviz.Bool(x)
	default:
		return gviz.Text(fmt.Sprintf("%v", x))
	}
}
