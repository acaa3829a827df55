package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lychee-technology/gviz"
)

// ParseQueryString parses the gviz query-language text carried by the
// "tq" request parameter into a *gviz.Query. It implements the clause
// grammar of spec §2: select/where/group by/pivot/order by/limit/
// offset/skipping/label/format/options. Clauses are accepted in any
// order; a clause given twice replaces the earlier one.
func ParseQueryString(tq string) (*gviz.Query, error) {
	q := &gviz.Query{}
	if strings.TrimSpace(tq) == "" {
		return q, nil
	}
	toks, err := tokenize(tq)
	if err != nil {
		return nil, err
	}
	p := &qparser{toks: toks}

	for !p.done() {
		kw := strings.ToLower(p.peek())
		switch kw {
		case "select":
			p.next()
			cols, err := p.parseColumnList()
			if err != nil {
				return nil, err
			}
			q.Selection = cols
		case "where":
			p.next()
			f, err := p.parseFilterExpr()
			if err != nil {
				return nil, err
			}
			q.Filter = f
		case "group":
			p.next()
			p.expectKeyword("by")
			cols, err := p.parseColumnList()
			if err != nil {
				return nil, err
			}
			q.Group = cols
		case "pivot":
			p.next()
			cols, err := p.parseColumnList()
			if err != nil {
				return nil, err
			}
			q.Pivot = cols
		case "order":
			p.next()
			p.expectKeyword("by")
			specs, err := p.parseSortSpecs()
			if err != nil {
				return nil, err
			}
			q.Sort = specs
		case "limit":
			p.next()
			n, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			q.RowLimit = n
		case "offset":
			p.next()
			n, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			q.RowOffset = n
		case "skipping":
			p.next()
			n, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			q.RowSkipping = n
		case "label":
			p.next()
			labels, err := p.parseLabelOrFormatList()
			if err != nil {
				return nil, err
			}
			q.Labels = labels
		case "format":
			p.next()
			formats, err := p.parseLabelOrFormatList()
			if err != nil {
				return nil, err
			}
			q.UserFormatOptions = formats
		case "options":
			p.next()
			opts, err := p.parseOptions()
			if err != nil {
				return nil, err
			}
			q.Options = opts
		default:
			return nil, fmt.Errorf("unexpected token %q", p.peek())
		}
	}
	return q, nil
}

type qparser struct {
	toks []string
	pos  int
}

func (p *qparser) done() bool   { return p.pos >= len(p.toks) }
func (p *qparser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.pos]
}
func (p *qparser) next() string {
	t := p.peek()
	p.pos++
	return t
}
func (p *qparser) expectKeyword(kw string) error {
	if strings.ToLower(p.peek()) != kw {
		return fmt.Errorf("expected %q, got %q", kw, p.peek())
	}
	p.next()
	return nil
}

func (p *qparser) parseInt() (int, error) {
	tok := p.next()
	return strconv.Atoi(tok)
}

// parseColumnList parses a comma-separated AbstractColumn list until the
// next clause keyword or end of input.
func (p *qparser) parseColumnList() ([]gviz.AbstractColumn, error) {
	var out []gviz.AbstractColumn
	for {
		if p.done() || isClauseKeyword(p.peek()) {
			break
		}
		c, err := p.parseColumn()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		if p.peek() == "," {
			p.next()
			continue
		}
		break
	}
	return out, nil
}

func (p *qparser) parseColumn() (gviz.AbstractColumn, error) {
	tok := p.next()
	lower := strings.ToLower(tok)
	switch lower {
	case "count", "sum", "avg", "min", "max":
		if p.peek() != "(" {
			return nil, fmt.Errorf("expected '(' after %s", tok)
		}
		p.next()
		inner, err := p.parseColumn()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("expected ')' after %s(...)", tok)
		}
		p.next()
		return gviz.AggregationColumn{Type: gviz.AggType(lower), Column: inner}, nil
	}
	if _, ok := gviz.LookupFunction(gviz.FunctionName(tok)); ok && p.peek() == "(" {
		p.next()
		var args []gviz.AbstractColumn
		for p.peek() != ")" {
			a, err := p.parseColumn()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.peek() == "," {
				p.next()
			}
		}
		p.next()
		return gviz.ScalarFunctionColumn{Function: gviz.FunctionName(tok), Args: args}, nil
	}
	if strings.HasPrefix(tok, "'") {
		return gviz.ConstantColumn{Value: gviz.Text(strings.Trim(tok, "'"))}, nil
	}
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return gviz.ConstantColumn{Value: gviz.Number(n)}, nil
	}
	return gviz.SimpleColumn{ColumnID: tok}, nil
}

func (p *qparser) parseSortSpecs() ([]gviz.SortSpec, error) {
	var out []gviz.SortSpec
	for {
		c, err := p.parseColumn()
		if err != nil {
			return nil, err
		}
		order := gviz.Ascending
		switch strings.ToLower(p.peek()) {
		case "asc":
			p.next()
		case "desc":
			order = gviz.Descending
			p.next()
		}
		out = append(out, gviz.SortSpec{Column: c, Order: order})
		if p.peek() == "," {
			p.next()
			continue
		}
		break
	}
	return out, nil
}

func (p *qparser) parseLabelOrFormatList() (map[string]string, error) {
	out := map[string]string{}
	for {
		if p.done() || isClauseKeyword(p.peek()) {
			break
		}
		id := p.next()
		lit := p.next()
		out[id] = strings.Trim(lit, "'")
		if p.peek() == "," {
			p.next()
			continue
		}
		break
	}
	return out, nil
}

func (p *qparser) parseOptions() (gviz.QueryOptions, error) {
	var opts gviz.QueryOptions
	for !p.done() && !isClauseKeyword(p.peek()) {
		switch strings.ToLower(p.next()) {
		case "no_values":
			opts.NoValues = true
		case "no_format":
			opts.NoFormat = true
		}
		if p.peek() == "," {
			p.next()
		}
	}
	return opts, nil
}

// parseFilterExpr parses an OR-of-ANDs boolean expression with optional
// NOT and parenthesization, grounded on the same recursive shape as the
// engine's CompoundFilter tree.
func (p *qparser) parseFilterExpr() (gviz.Filter, error) {
	left, err := p.parseAndExpr()
	if err != nil {
		return nil, err
	}
	children := []gviz.Filter{left}
	for strings.ToLower(p.peek()) == "or" {
		p.next()
		right, err := p.parseAndExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return gviz.CompoundFilter{Op: gviz.CompoundOr, Children: children}, nil
}

func (p *qparser) parseAndExpr() (gviz.Filter, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	children := []gviz.Filter{left}
	for strings.ToLower(p.peek()) == "and" {
		p.next()
		right, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}
	if len(children) == 1 {
		return children[0], nil
	}
	return gviz.CompoundFilter{Op: gviz.CompoundAnd, Children: children}, nil
}

func (p *qparser) parseUnaryExpr() (gviz.Filter, error) {
	if strings.ToLower(p.peek()) == "not" {
		p.next()
		inner, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return gviz.NegationFilter{Child: inner}, nil
	}
	if p.peek() == "(" {
		p.next()
		inner, err := p.parseFilterExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("expected ')'")
		}
		p.next()
		return inner, nil
	}
	return p.parsePredicate()
}

func (p *qparser) parsePredicate() (gviz.Filter, error) {
	colTok := p.next()
	op := strings.ToLower(p.peek())

	if op == "is" {
		p.next()
		negate := false
		if strings.ToLower(p.peek()) == "not" {
			negate = true
			p.next()
		}
		if err := p.expectKeyword("null"); err != nil {
			return nil, err
		}
		return gviz.ColumnIsNull{Column: colTok, Negate: negate}, nil
	}

	cmpOp, ok := opFromToken(op)
	if !ok {
		return nil, fmt.Errorf("unexpected comparison operator %q", op)
	}
	p.next()
	rhs := p.next()
	if isIdentifier(rhs) {
		return gviz.ColumnColumn{Left: colTok, Op: cmpOp, Right: rhs}, nil
	}
	val, err := literalToValue(rhs)
	if err != nil {
		return nil, err
	}
	return gviz.ColumnValue{Column: colTok, Op: cmpOp, Value: val}, nil
}

func opFromToken(tok string) (gviz.CompareOp, bool) {
	switch tok {
	case "=":
		return gviz.OpEQ, true
	case "!=", "<>":
		return gviz.OpNE, true
	case "<":
		return gviz.OpLT, true
	case ">":
		return gviz.OpGT, true
	case "<=":
		return gviz.OpLE, true
	case ">=":
		return gviz.OpGE, true
	case "contains":
		return gviz.OpContains, true
	case "starts_with":
		return gviz.OpStartsWith, true
	case "ends_with":
		return gviz.OpEndsWith, true
	case "like":
		return gviz.OpLike, true
	case "matches":
		return gviz.OpMatches, true
	default:
		return 0, false
	}
}

func isIdentifier(tok string) bool {
	if tok == "" || strings.HasPrefix(tok, "'") {
		return false
	}
	if _, err := strconv.ParseFloat(tok, 64); err == nil {
		return false
	}
	return unicode.IsLetter(rune(tok[0])) || tok[0] == '_'
}

func literalToValue(tok string) (gviz.Value, error) {
	if strings.HasPrefix(tok, "'") && strings.HasSuffix(tok, "'") {
		return gviz.Text(strings.Trim(tok, "'")), nil
	}
	if tok == "true" || tok == "false" {
		return gviz.Bool(tok == "true"), nil
	}
	if n, err := strconv.ParseFloat(tok, 64); err == nil {
		return gviz.Number(n), nil
	}
	return gviz.Value{}, fmt.Errorf("unrecognized literal %q", tok)
}

func isClauseKeyword(tok string) bool {
	switch strings.ToLower(tok) {
	case "where", "group", "pivot", "order", "limit", "offset", "skipping", "label", "format", "options":
		return true
	default:
		return false
	}
}

// tokenize splits a query string into a flat token stream: identifiers,
// numbers, quoted string literals, and punctuation, skipping whitespace.
func tokenize(s string) ([]string, error) {
	var toks []string
	r := []rune(s)
	i := 0
	for i < len(r) {
		c := r[i]
		switch {
		case unicode.IsSpace(c):
			i++
		case c == '\'':
			j := i + 1
			for j < len(r) && r[j] != '\'' {
				j++
			}
			if j >= len(r) {
				return nil, fmt.Errorf("unterminated string literal")
			}
			toks = append(toks, string(r[i:j+1]))
			i = j + 1
		case c == '(' || c == ')' || c == ',':
			toks = append(toks, string(c))
			i++
		case c == '<' || c == '>' || c == '!' || c == '=':
			j := i + 1
			if j < len(r) && r[j] == '=' {
				j++
			}
			toks = append(toks, string(r[i:j]))
			i = j
		default:
			j := i
			for j < len(r) && !unicode.IsSpace(r[j]) && r[j] != '(' && r[j] != ')' && r[j] != ',' {
				j++
			}
			toks = append(toks, string(r[i:j]))
			i = j
		}
	}
	return toks, nil
}
