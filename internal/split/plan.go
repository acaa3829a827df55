// Package split implements capability-aware query factoring: given a
// Query and a provider's declared Capability, it produces a ProviderQuery
// (the largest prefix of the query the provider can execute) and a
// ResidualQuery (what the in-process engine must still finish), plus an
// ExecutionPlan diagnostic describing the decision.
package split

import (
	"go.uber.org/zap"

	"github.com/lychee-technology/gviz"
)

// ExecutionPlan is a diagnostic snapshot of how a query was split across
// a provider and the in-process engine. It is for observability only and
// never affects query semantics.
type ExecutionPlan struct {
	Capability gviz.Capability
	Source     DataSourcePlan
	Notes      []string
}

// DataSourcePlan captures what was pushed down to the provider.
type DataSourcePlan struct {
	Engine            string
	PushedFilter      bool
	PushedGroupPivot  bool
	PushedSort        bool
	PushedPagination  bool
	PushedSelect      bool
	Reason            string
}

// ProviderQuery is the sub-query sent to DataProvider.Generate.
type ProviderQuery = gviz.Query

// ResidualQuery is what the in-process engine must still apply to the
// Table a provider returns.
type ResidualQuery struct {
	Filter            gviz.Filter
	Group             []gviz.AbstractColumn
	Pivot             []gviz.AbstractColumn
	Sort              []gviz.SortSpec
	RowSkipping       int
	RowOffset         int
	RowLimit          int
	Selection         []gviz.AbstractColumn
	Labels            map[string]string
	UserFormatOptions map[string]string
	Options           gviz.QueryOptions

	// PrecomputedAggregates holds the AggregationColumn.ID()s whose value
	// the provider has already computed (aliased under that same id in
	// its result Table) as part of a group+pivot SQL pushdown. The engine
	// must not re-apply the original aggregation to these columns; it
	// only transposes the already-aggregated rows into pivot columns.
	PrecomputedAggregates map[string]bool
}

func logPlan(log *zap.Logger, plan ExecutionPlan) {
	if log == nil {
		return
	}
	log.Debug("query split",
		zap.String("capability", plan.Capability.String()),
		zap.String("engine", plan.Source.Engine),
		zap.Bool("pushed_filter", plan.Source.PushedFilter),
		zap.Bool("pushed_group_pivot", plan.Source.PushedGroupPivot),
		zap.Bool("pushed_sort", plan.Source.PushedSort),
		zap.Bool("pushed_pagination", plan.Source.PushedPagination),
		zap.String("reason", plan.Source.Reason),
	)
}
