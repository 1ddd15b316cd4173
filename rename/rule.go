package rename

import (
	"fmt"
	"strings"
)

// Position selects where inserted text goes relative to the name.
type Position int

const (
	Prefix Position = iota
	Suffix
)

func (p Position) String() string {
	if p == Suffix {
		return "suffix"
	}
	return "prefix"
}

// ParsePosition accepts "prefix" or "suffix", case-insensitively.
func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix":
		return Prefix, nil
	case "suffix":
		return Suffix, nil
	}
	return Prefix, fmt.Errorf("invalid position %q (use 'prefix' or 'suffix')", s)
}

const (
	DefaultStart     = 1
	DefaultDigits    = 3
	DefaultSeparator = "_"
)

// Rule is one rename rule. The set of rules is closed: NumeralConversion,
// TextInsertion, IndexInsertion and LiteralReplace.
type Rule interface {
	// Rename returns the proposed name for name at batch position pos.
	Rename(name string, pos int) string
	rule()
}

// NumeralConversion turns Chinese numerals into Arabic digits.
type NumeralConversion struct {
	ChapterOnly bool
}

// TextInsertion adds Text before the name or before its extension.
type TextInsertion struct {
	Text     string
	Position Position
}

// IndexInsertion adds a zero-padded running number. Start and Digits fall
// back to their defaults when zero; a nil Separator means "_".
type IndexInsertion struct {
	Start     int
	Digits    int
	Separator *string
	Position  Position
}

// LiteralReplace replaces every occurrence of Search with Replacement.
type LiteralReplace struct {
	Search      string
	Replacement string
}

func (NumeralConversion) rule() {}
func (TextInsertion) rule()     {}
func (IndexInsertion) rule()    {}
func (LiteralReplace) rule()    {}

// Sep is a convenience for setting IndexInsertion.Separator.
func Sep(s string) *string { return &s }
