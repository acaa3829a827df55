package split

import (
	"go.uber.org/zap"

	"github.com/lychee-technology/gviz"
)

// SplitQuery factors q into the portion a provider of capability cap can
// execute and the residual the in-process engine must still apply. Each
// capability level is a strict superset of the one below it: NONE pushes
// nothing, SELECT adds projection, SQL adds filter and (where the
// selection shape allows it) group/aggregation, ALL additionally
// finishes calculated columns, labels, and formatting. SORT_AND_PAGINATION
// and ALL pushdown only fire once any GROUP BY/PIVOT the query asked for
// has either been fully resolved by the provider or was never there to
// begin with — ordering and limiting a grouped result must happen after
// the grouping, never before it.
func SplitQuery(q *gviz.Query, cap gviz.Capability, log *zap.Logger) (*ProviderQuery, *ResidualQuery, *ExecutionPlan) {
	provider := &gviz.Query{}
	residual := &ResidualQuery{
		Filter:            q.Filter,
		Group:             q.Group,
		Pivot:             q.Pivot,
		Sort:              q.Sort,
		RowSkipping:       q.RowSkipping,
		RowOffset:         q.RowOffset,
		RowLimit:          q.RowLimit,
		Selection:         q.Selection,
		Labels:            q.Labels,
		UserFormatOptions: q.UserFormatOptions,
		Options:           q.Options,
	}
	plan := &ExecutionPlan{Capability: cap}
	plan.Source.Reason = "provider capability " + cap.String()

	if cap >= gviz.CapabilitySelect {
		provider.Selection = selectSourceColumns(q)
		plan.Source.PushedSelect = true
		// The engine always re-projects down to exactly q.Selection once
		// calculated columns/labels/formats are applied, so Selection
		// stays in the residual regardless of capability level.
	}

	groupPushed := false
	if cap >= gviz.CapabilitySQL {
		provider.Filter = q.Filter
		residual.Filter = nil
		plan.Source.PushedFilter = q.Filter != nil

		switch {
		case len(q.Group) == 0 && len(q.Pivot) == 0:
			// Nothing to group or pivot.
		case len(q.Pivot) == 0 && canPushAggregation(q.Selection, q.Group):
			provider.Group = q.Group
			provider.Selection = q.Selection
			residual.Group = nil
			groupPushed = true
			plan.Source.PushedGroupPivot = true
			plan.Notes = append(plan.Notes, "group and aggregation pushed to provider SQL")
		case len(q.Pivot) > 0 && canPushAggregation(q.Selection, nil):
			// A SQL provider can't fan a pivot out into columns, but it
			// can group by (group, pivot) and compute every aggregation
			// over that finer key; the engine then only has to transpose
			// the already-aggregated, one-row-per-key result. Re-deriving
			// each value with MIN during transpose is safe because MIN of
			// a one-element bucket is always that element, regardless of
			// the aggregation that produced it.
			provider.Group = append(append([]gviz.AbstractColumn{}, q.Group...), q.Pivot...)
			provider.Selection = q.Selection
			residual.Group = q.Group
			residual.Pivot = q.Pivot
			residual.PrecomputedAggregates = precomputedAggregateSet(q.Selection)
			plan.Source.PushedGroupPivot = true
			plan.Notes = append(plan.Notes, "group+pivot keys and aggregations pushed to provider SQL, transpose and MIN re-aggregation finished in-process")
		default:
			plan.Notes = append(plan.Notes, "group/pivot not pushed: selection shape unsupported by provider SQL")
		}
	}

	// Pushing ORDER BY/LIMIT/OFFSET (and, below, labels/formatting) is
	// only safe once grouping has been fully resolved — either there was
	// none, or the branch above pushed it all the way to the provider.
	finishable := groupPushed || (len(q.Group) == 0 && len(q.Pivot) == 0)

	if cap >= gviz.CapabilitySortAndPagination && finishable {
		provider.Sort = q.Sort
		residual.Sort = nil
		plan.Source.PushedSort = len(q.Sort) > 0
		// Skipping is never pushed down, and it runs before offset/limit,
		// so offset/limit stay in-process too whenever skipping is set.
		if q.RowSkipping == 0 {
			provider.RowOffset = q.RowOffset
			provider.RowLimit = q.RowLimit
			residual.RowOffset = 0
			residual.RowLimit = 0
			plan.Source.PushedPagination = q.RowOffset > 0 || q.RowLimit > 0
		}
	}

	if cap >= gviz.CapabilityAll && finishable {
		residual.Labels = nil
		residual.UserFormatOptions = nil
		residual.Options = gviz.QueryOptions{}
		provider.Labels = q.Labels
		provider.UserFormatOptions = q.UserFormatOptions
		provider.Options = q.Options
	}

	logPlan(log, *plan)
	return provider, residual, plan
}

// canPushAggregation reports whether every entry of selection is either a
// SimpleColumn that also appears in group, or an AggregationColumn over a
// SimpleColumn — the only shapes a provider's SQL GROUP BY can express.
// Anything else (scalar functions, constants, aggregations over anything
// but a plain column) forces the engine to keep doing the grouping itself.
func canPushAggregation(selection, group []gviz.AbstractColumn) bool {
	groupIDs := map[string]bool{}
	for _, g := range group {
		sc, ok := g.(gviz.SimpleColumn)
		if !ok {
			return false
		}
		groupIDs[sc.ColumnID] = true
	}
	for _, c := range selection {
		switch v := c.(type) {
		case gviz.SimpleColumn:
			if !groupIDs[v.ColumnID] {
				return false
			}
		case gviz.AggregationColumn:
			if _, ok := v.Column.(gviz.SimpleColumn); !ok {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// precomputedAggregateSet collects the AggregationColumn.ID()s in
// selection, the set the provider will have already computed (aliased
// under that id) once group+pivot pushdown runs.
func precomputedAggregateSet(selection []gviz.AbstractColumn) map[string]bool {
	set := map[string]bool{}
	for _, c := range selection {
		if ac, ok := c.(gviz.AggregationColumn); ok {
			set[ac.ID()] = true
		}
	}
	return set
}

// selectSourceColumns flattens every AbstractColumn the query touches
// down to the underlying SimpleColumn ids a provider must fetch, since a
// provider below CapabilitySQL only understands flat projection, not
// aggregation or scalar-function expressions.
func selectSourceColumns(q *gviz.Query) []gviz.AbstractColumn {
	seen := map[string]bool{}
	var out []gviz.AbstractColumn
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			out = append(out, gviz.SimpleColumn{ColumnID: id})
		}
	}
	for _, c := range q.Selection {
		for _, id := range gviz.SourceColumns(c) {
			add(id)
		}
	}
	if q.Filter != nil {
		for _, id := range q.Filter.Columns() {
			add(id)
		}
	}
	for _, c := range q.Group {
		for _, id := range gviz.SourceColumns(c) {
			add(id)
		}
	}
	for _, c := range q.Pivot {
		for _, id := range gviz.SourceColumns(c) {
			add(id)
		}
	}
	for _, s := range q.Sort {
		for _, id := range gviz.SourceColumns(s.Column) {
			add(id)
		}
	}
	return out
}
