package grid

import (
	"cmp"
	"strconv"

	"golang.org/x/text/collate"
)

type keyKind uint8

const (
	keyNone keyKind = iota
	keyNumber
	keyText
)

// SortKey is the value a cell is ordered by. The zero value is "no key".
type SortKey struct {
	kind keyKind
	num  float64
	text string
}

// Number returns a numeric sort key.
func Number(v float64) SortKey {
	return SortKey{kind: keyNumber, num: v}
}

// Text returns a textual sort key.
func Text(s string) SortKey {
	return SortKey{kind: keyText, text: s}
}

// Defined reports whether the key carries a value.
func (k SortKey) Defined() bool { return k.kind != keyNone }

// IsNumber reports whether the key is numeric.
func (k SortKey) IsNumber() bool { return k.kind == keyNumber }

// String formats the key for debugging and test output.
func (k SortKey) String() string {
	switch k.kind {
	case keyNumber:
		return strconv.FormatFloat(k.num, 'g', -1, 64)
	case keyText:
		return strconv.Quote(k.text)
	default:
		return "<none>"
	}
}

// compareKeys orders a before b under dir. Undefined keys compare equal to
// everything, and numbers sort ahead of text when ascending.
func compareKeys(a, b SortKey, dir Direction, coll *collate.Collator) int {
	if !a.Defined() || !b.Defined() {
		return 0
	}

	var c int
	switch {
	case a.kind == keyNumber && b.kind == keyNumber:
		c = cmp.Compare(a.num, b.num)
	case a.kind == keyText && b.kind == keyText:
		c = coll.CompareString(a.text, b.text)
	case a.kind == keyNumber:
		c = -1
	default:
		c = 1
	}

	if dir == Descending {
		return -c
	}
	return c
}
