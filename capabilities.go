package gviz

import "context"

// Capability describes how much of a query a DataProvider can satisfy on
// its own; the rest is finished in-process by the engine. The ordering
// is significant: each level is a strict superset of the one before it.
type Capability int

const (
	// CapabilityNone means the provider returns its full table and the
	// engine must execute the entire query in-process.
	CapabilityNone Capability = iota
	// CapabilitySelect means the provider can project columns.
	CapabilitySelect
	// CapabilitySortAndPagination additionally handles ORDER BY/LIMIT/OFFSET.
	CapabilitySortAndPagination
	// CapabilitySQL means the provider accepts a SQL-capable query
	// (filter, group, aggregate, sort, paginate). It does not pivot: for a
	// pivot query the provider only groups by the group and pivot columns
	// together, and the engine fans the result out into pivot columns.
	CapabilitySQL
	// CapabilityAll means the provider can satisfy a query completely,
	// including calculated columns, labels, and formatting.
	CapabilityAll
)

func (c Capability) String() string {
	switch c {
	case CapabilityNone:
		return "NONE"
	case CapabilitySelect:
		return "SELECT"
	case CapabilitySortAndPagination:
		return "SORT_AND_PAGINATION"
	case CapabilitySQL:
		return "SQL"
	case CapabilityAll:
		return "ALL"
	default:
		return "UNKNOWN"
	}
}

// RequestContext carries per-request state passed down to a DataProvider:
// the locale for collation/formatting. Cancellation and deadlines travel
// in the separate context.Context argument of Generate.
type RequestContext struct {
	Locale string
}

// DataProvider is the interface implemented by every backing data
// source (PostgreSQL, DuckDB, S3+DuckDB, local CSV). The engine queries
// its capability once, then asks it to execute the largest prefix of
// the query it can handle, returning a Table of whatever it completed.
// What remains for the engine to finish is the ResidualQuery produced by
// SplitQuery, not something the provider returns.
type DataProvider interface {
	// Capabilities reports the provider's capability level.
	Capabilities(ctx context.Context) Capability

	// Generate executes as much of q as the provider's capability
	// allows and returns the resulting Table. residual, returned by
	// SplitQuery, describes the part of q still owed by the in-process
	// engine; Generate never needs to inspect it — the caller always
	// finishes the residual against the returned Table.
	Generate(ctx context.Context, q *Query, reqCtx RequestContext) (*Table, error)
}

// Schema reports a provider's available columns without running a full
// query; optional interface a provider may additionally implement.
type Schema interface {
	Describe(ctx context.Context) ([]ColumnDescription, error)
}
