package factory

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"

	"github.com/lychee-technology/gviz"
)

// DuckDBProvider executes the SQL-capable portion of a query against a
// DuckDB database/sql connection, grounded on the teacher's
// duckdb_conn.go client + duckdb_sql_generator.go SQL-building pair.
// It reads the CSV file named by Relation through DuckDB's read_csv_auto;
// other file formats are not read.
type DuckDBProvider struct {
	db       *sql.DB
	Relation string
	log      *zap.Logger
}

// NewDuckDBProvider opens a new DuckDB database/sql connection
// at dsn (":memory:" for an ephemeral one) reading from relation.
func NewDuckDBProvider(dsn, relation string, log *zap.Logger) (*DuckDBProvider, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &DuckDBProvider{db: db, Relation: relation, log: log}, nil
}

// InstallExtension runs INSTALL/LOAD for ext (e.g. "httpfs", "parquet").
func (p *DuckDBProvider) InstallExtension(ctx context.Context, ext string) error {
	if _, err := p.db.ExecContext(ctx, fmt.Sprintf("INSTALL %s;", ext)); err != nil {
		return fmt.Errorf("install %s: %w", ext, err)
	}
	_, err := p.db.ExecContext(ctx, fmt.Sprintf("LOAD %s;", ext))
	return err
}

func (p *DuckDBProvider) Capabilities(ctx context.Context) gviz.Capability {
	return gviz.CapabilitySQL
}

func (p *DuckDBProvider) Close() error { return p.db.Close() }

func (p *DuckDBProvider) Generate(ctx context.Context, q *gviz.Query, reqCtx gviz.RequestContext) (*gviz.Table, error) {
	sqlText, err := buildDuckDBSQL(p.Relation, q)
	if err != nil {
		return nil, err
	}
	if p.log != nil {
		p.log.Debug("duckdb provider query", zap.String("sql", sqlText))
	}
	rows, err := p.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, gviz.NewInternalError(err)
	}
	defer rows.Close()
	return scanSQLRows(rows, reqCtx.Locale)
}

func buildDuckDBSQL(relation string, q *gviz.Query) (string, error) {
	var sb strings.Builder
	sb.WriteString("SELECT ")
	selectList, err := buildSelectList(q.Selection)
	if err != nil {
		return "", err
	}
	sb.WriteString(selectList)
	fmt.Fprintf(&sb, " FROM read_csv_auto(%s)", sqlQuote(relation))

	if q.Filter != nil {
		var args []interface{}
		clause, _, err := filterToSQL(q.Filter, &args)
		if err != nil {
			return "", err
		}
		sb.WriteString(" WHERE ")
		sb.WriteString(clause)
	}
	if len(q.Group) > 0 {
		groupList, err := buildGroupByList(q.Group)
		if err != nil {
			return "", err
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
	return sb.String(), nil
}

func sqlQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func scanSQLRows(rows *sql.Rows, locale string) (*gviz.Table, error) {
	names, err := rows.Columns()
	if err != nil {
		return nil, gviz.NewInternalError(err)
	}
	t := gviz.NewTable(locale)
	for _, n := range names {
		if err := t.AddColumn(gviz.ColumnDescription{ID: n, Type: gviz.TypeText, Label: n}); err != nil {
			return nil, err
		}
	}
	typed := make([]bool, len(names))
	for rows.Next() {
		raw := make([]interface{}, len(names))
		ptrs := make([]interface{}, len(names))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, gviz.NewInternalError(err)
		}
		cells := make([]gviz.Cell, len(raw))
		for i, v := range raw {
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
