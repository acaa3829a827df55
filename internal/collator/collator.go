// Package collator provides locale-aware TEXT comparison and number/date
// formatting for the engine's sort and format stages.
package collator

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/lychee-technology/gviz"
)

// Collator wraps a golang.org/x/text/collate.Collator tied to one
// locale, giving the engine's sort stage locale-correct TEXT ordering
// instead of a byte-wise strings.Compare.
type Collator struct {
	locale string
	coll   *collate.Collator
}

// New builds a Collator for locale (BCP 47, e.g. "en-US"). An
// unparsable or empty locale falls back to language.Und, which collate
// treats as root-locale ordering.
func New(locale string) *Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Und
	}
	return &Collator{locale: locale, coll: collate.New(tag)}
}

// Compare orders a and b. For TEXT it defers to the locale collator; all
// other types defer to gviz.Compare's type-correct comparison.
func (c *Collator) Compare(a, b gviz.Value) (int, error) {
	if a.Type() == gviz.TypeText && b.Type() == gviz.TypeText {
		if a.IsNull() || b.IsNull() {
			return gviz.Compare(a, b)
		}
		return c.coll.CompareString(a.AsText(), b.AsText()), nil
	}
	return gviz.Compare(a, b)
}
