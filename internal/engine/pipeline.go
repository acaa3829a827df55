// Package engine implements the fixed in-process query pipeline that
// finishes whatever a DataProvider could not execute itself: filter,
// group/pivot, aggregate, calculated columns, sort, skip, offset/limit,
// project, labels, format, and options, applied in that order to every
// query regardless of provider capability.
package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/internal/collator"
	"github.com/lychee-technology/gviz/internal/split"
)

// Run executes residual against src and returns the finished Table. src
// is never mutated; every stage either returns src unchanged or builds a
// fresh Table.
func Run(ctx context.Context, src *gviz.Table, residual *split.ResidualQuery, locale string, log *zap.Logger) (*gviz.Table, error) {
	col := collator.New(locale)

	t := src
	var err error

	if residual.Filter != nil {
		t, err = applyFilter(t, residual.Filter)
		if err != nil {
			return nil, gviz.NewInternalError(err)
		}
	}

	if len(residual.Group) > 0 || len(residual.Pivot) > 0 {
		t, err = groupAndPivot(t, residual.Group, residual.Pivot, residual.Selection, col, residual.PrecomputedAggregates)
		if err != nil {
			return nil, err
		}
	} else if hasCalculatedColumns(residual.Selection) {
		t, err = applyCalculatedColumns(t, residual.Selection)
		if err != nil {
			return nil, err
		}
	}

	if len(residual.Sort) > 0 {
		t, err = applySort(t, residual.Sort, col)
		if err != nil {
			return nil, err
		}
	}

	t = applySkip(t, residual.RowSkipping)
	t = applyOffsetLimit(t, residual.RowOffset, residual.RowLimit)

	if len(residual.Selection) > 0 {
		t, err = project(t, residual.Selection)
		if err != nil {
			return nil, err
		}
	}

	if len(residual.Labels) > 0 {
		t = applyLabels(t, residual.Labels)
	}
	if len(residual.UserFormatOptions) > 0 {
		t, err = applyFormats(t, residual.UserFormatOptions, col)
		if err != nil {
			return nil, err
		}
	}

	t = applyOptions(t, residual.Options)

	if log != nil {
		log.Debug("engine pipeline complete", zap.Int("rows", t.NumRows()), zap.Int("cols", t.NumColumns()))
	}
	return t, nil
}

func hasCalculatedColumns(sel []gviz.AbstractColumn) bool {
	for _, c := range sel {
		switch c.(type) {
		case gviz.ScalarFunctionColumn, gviz.ConstantColumn:
			return true
		}
	}
	return false
}
