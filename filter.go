package gviz

import (
	"fmt"
	"regexp"
	"strings"
)

// CompareOp is the closed set of binary comparison/pattern operators the
// WHERE clause supports.
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNE
	OpLT
	OpGT
	OpLE
	OpGE
	OpContains
	OpStartsWith
	OpEndsWith
	OpLike
	OpMatches
)

func (op CompareOp) String() string {
	switch op {
	case OpEQ:
		return "="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpGT:
		return ">"
	case OpLE:
		return "<="
	case OpGE:
		return ">="
	case OpContains:
		return "CONTAINS"
	case OpStartsWith:
		return "STARTS WITH"
	case OpEndsWith:
		return "ENDS WITH"
	case OpLike:
		return "LIKE"
	case OpMatches:
		return "MATCHES"
	default:
		return "?"
	}
}

// Filter is the sum type implemented by every WHERE-clause node. It
// mirrors the teacher's Condition interface: each variant knows how to
// evaluate itself against a row, and how to report the columns it
// references (used by the structural validator).
type Filter interface {
	Evaluate(t *Table, row int) (bool, error)
	Columns() []string
	isFilter()
}

// ColumnValue compares a column's cell against a constant Value.
type ColumnValue struct {
	Column string
	Op     CompareOp
	Value  Value
}

func (ColumnValue) isFilter() {}

func (f ColumnValue) Columns() []string { return []string{f.Column} }

func (f ColumnValue) Evaluate(t *Table, row int) (bool, error) {
	idx, ok := t.ColumnIndex(f.Column)
	if !ok {
		return false, fmt.Errorf("no such column %q", f.Column)
	}
	cell := t.Rows[row].Cells[idx]
	return evalCompare(f.Op, cell.Value, f.Value)
}

// ColumnColumn compares two columns' cells in the same row.
type ColumnColumn struct {
	Left  string
	Op    CompareOp
	Right string
}

func (ColumnColumn) isFilter() {}

func (f ColumnColumn) Columns() []string { return []string{f.Left, f.Right} }

func (f ColumnColumn) Evaluate(t *Table, row int) (bool, error) {
	li, ok := t.ColumnIndex(f.Left)
	if !ok {
		return false, fmt.Errorf("no such column %q", f.Left)
	}
	ri, ok := t.ColumnIndex(f.Right)
	if !ok {
		return false, fmt.Errorf("no such column %q", f.Right)
	}
	left := t.Rows[row].Cells[li].Value
	right := t.Rows[row].Cells[ri].Value
	return evalCompare(f.Op, left, right)
}

// ColumnIsNull tests whether a column's cell is null, optionally negated.
type ColumnIsNull struct {
	Column string
	Negate bool
}

func (ColumnIsNull) isFilter() {}

func (f ColumnIsNull) Columns() []string { return []string{f.Column} }

func (f ColumnIsNull) Evaluate(t *Table, row int) (bool, error) {
	idx, ok := t.ColumnIndex(f.Column)
	if !ok {
		return false, fmt.Errorf("no such column %q", f.Column)
	}
	isNull := t.Rows[row].Cells[idx].Value.IsNull()
	if f.Negate {
		return !isNull, nil
	}
	return isNull, nil
}

// CompoundOp is AND or OR.
type CompoundOp int

const (
	CompoundAnd CompoundOp = iota
	CompoundOr
)

// CompoundFilter combines child filters with AND/OR. Per spec §4.3, an
// AND with zero children matches everything; an OR with zero children
// matches nothing.
type CompoundFilter struct {
	Op       CompoundOp
	Children []Filter
}

func (CompoundFilter) isFilter() {}

func (f CompoundFilter) Columns() []string {
	var cols []string
	for _, c := range f.Children {
		cols = append(cols, c.Columns()...)
	}
	return cols
}

func (f CompoundFilter) Evaluate(t *Table, row int) (bool, error) {
	if len(f.Children) == 0 {
		return f.Op == CompoundAnd, nil
	}
	switch f.Op {
	case CompoundAnd:
		for _, c := range f.Children {
			ok, err := c.Evaluate(t, row)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case CompoundOr:
		for _, c := range f.Children {
			ok, err := c.Evaluate(t, row)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("unknown compound op %v", f.Op)
	}
}

// NegationFilter inverts a child filter.
type NegationFilter struct {
	Child Filter
}

func (NegationFilter) isFilter() {}

func (f NegationFilter) Columns() []string { return f.Child.Columns() }

func (f NegationFilter) Evaluate(t *Table, row int) (bool, error) {
	ok, err := f.Child.Evaluate(t, row)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

// evalCompare applies op to a, b. A comparison against or between null
// values always evaluates to false — null never satisfies a predicate,
// matching spec §4.3's null-propagates-to-false rule. Pattern operators
// (CONTAINS/STARTS_WITH/ENDS_WITH/LIKE/MATCHES) only apply to TEXT.
func evalCompare(op CompareOp, a, b Value) (bool, error) {
	if a.IsNull() || b.IsNull() {
		return false, nil
	}
	switch op {
	case OpContains, OpStartsWith, OpEndsWith, OpLike, OpMatches:
		if a.Type() != TypeText || b.Type() != TypeText {
			return false, fmt.Errorf("%s requires TEXT operands", op)
		}
		return evalPattern(op, a.AsText(), b.AsText())
	}
	c, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	switch op {
	case OpEQ:
		return c == 0, nil
	case OpNE:
		return c != 0, nil
	case OpLT:
		return c < 0, nil
	case OpGT:
		return c > 0, nil
	case OpLE:
		return c <= 0, nil
	case OpGE:
		return c >= 0, nil
	default:
		return false, fmt.Errorf("unknown compare op %v", op)
	}
}

func evalPattern(op CompareOp, text, pattern string) (bool, error) {
	switch op {
	case OpContains:
		return strings.Contains(text, pattern), nil
	case OpStartsWith:
		return strings.HasPrefix(text, pattern), nil
	case OpEndsWith:
		return strings.HasSuffix(text, pattern), nil
	case OpLike:
		return likeMatch(text, pattern), nil
	case OpMatches:
		return regexMatch(text, pattern)
	default:
		return false, fmt.Errorf("unknown pattern op %v", op)
	}
}

func regexMatch(text, pattern string) (bool, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Errorf("invalid MATCHES pattern %q: %w", pattern, err)
	}
	return re.MatchString(text), nil
}

// likeMatch implements SQL LIKE semantics with % and _ wildcards.
func likeMatch(text, pattern string) bool {
	return likeMatchRunes([]rune(text), []rune(pattern))
}

func likeMatchRunes(text, pattern []rune) bool {
	if len(pattern) == 0 {
		return len(text) == 0
	}
	switch pattern[0] {
	case '%':
		if likeMatchRunes(text, pattern[1:]) {
			return true
		}
		for i := range text {
			if likeMatchRunes(text[i+1:], pattern[1:]) {
				return true
			}
		}
		return false
	case '_':
		if len(text) == 0 {
			return false
		}
		return likeMatchRunes(text[1:], pattern[1:])
	default:
		if len(text) == 0 || text[0] != pattern[0] {
			return false
		}
		return likeMatchRunes(text[1:], pattern[1:])
	}
}
