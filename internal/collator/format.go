package collator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/lychee-technology/gviz"
)

// Format renders v according to pattern in the Collator's locale.
// NUMBER patterns use a "#,##0.00"-style decimal-count hint (only the
// fractional digit count past '.' is honored, matching the subset of
// ICU DecimalFormat the wire protocol's user-supplied formats actually
// exercise); DATE/DATETIME/TIMEOFDAY patterns use the strftime-like
// tokens yyyy/MM/dd/HH/mm/ss.
func (c *Collator) Format(v gviz.Value, pattern string) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	tag, err := language.Parse(c.locale)
	if err != nil {
		tag = language.Und
	}
	p := message.NewPrinter(tag)

	switch v.Type() {
	case gviz.TypeNumber:
		decimals := countDecimalDigits(pattern)
		return p.Sprintf("%v", number.Decimal(v.AsNumber(), number.MaxFractionDigits(decimals), number.MinFractionDigits(decimals))), nil
	case gviz.TypeText:
		return v.AsText(), nil
	case gviz.TypeBoolean:
		return fmt.Sprintf("%v", v.AsBool()), nil
	case gviz.TypeDate:
		y, m, d := v.DateParts()
		return renderDatePattern(pattern, y, m, d, 0, 0, 0, 0), nil
	case gviz.TypeDateTime:
		y, m, d := v.DateParts()
		h, mi, s, ms := v.TimeParts()
		return renderDatePattern(pattern, y, m, d, h, mi, s, ms), nil
	case gviz.TypeTimeOfDay:
		h, mi, s, ms := v.TimeParts()
		return renderDatePattern(pattern, 0, 0, 0, h, mi, s, ms), nil
	default:
		return "", fmt.Errorf("unsupported format type %v", v.Type())
	}
}

func countDecimalDigits(pattern string) int {
	idx := strings.IndexByte(pattern, '.')
	if idx < 0 {
		return 0
	}
	n := 0
	for _, r := range pattern[idx+1:] {
		if r != '0' && r != '#' {
			break
		}
		n++
	}
	return n
}

func renderDatePattern(pattern string, year, month, day, hour, minute, second, millisecond int) string {
	out := pattern
	out = strings.ReplaceAll(out, "yyyy", fmt.Sprintf("%04d", year))
	out = strings.ReplaceAll(out, "MM", fmt.Sprintf("%02d", month+1))
	out = strings.ReplaceAll(out, "dd", fmt.Sprintf("%02d", day))
	out = strings.ReplaceAll(out, "HH", fmt.Sprintf("%02d", hour))
	out = strings.ReplaceAll(out, "mm", fmt.Sprintf("%02d", minute))
	out = strings.ReplaceAll(out, "ss", fmt.Sprintf("%02d", second))
	out = strings.ReplaceAll(out, "SSS", fmt.Sprintf("%03d", millisecond))
	return out
}
