// Package rename computes proposed file names for a batch under one rule.
// Nothing here touches the filesystem; applying a preview is the caller's
// job.
package rename

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sokinpui/bren/numeral"
)

// FileDescriptor is one input file. Only Name is read by the engine.
type FileDescriptor struct {
	Name string
	Path string
}

// Preview is the proposed name for one file. Changed is false when the rule
// left the name as it was.
type Preview struct {
	OriginalName string
	ProposedName string
	Changed      bool
}

// GeneratePreview returns one Preview per file, in input order. The
// position of a file in files is its index for IndexInsertion.
func GeneratePreview(files []FileDescriptor, r Rule) []Preview {
	out := make([]Preview, len(files))
	for i, f := range files {
		proposed := f.Name
		if r != nil {
			proposed = r.Rename(f.Name, i)
		}
		out[i] = Preview{
			OriginalName: f.Name,
			ProposedName: proposed,
			Changed:      proposed != f.Name,
		}
	}
	return out
}

func (r NumeralConversion) Rename(name string, _ int) string {
	return numeral.Convert(name, r.ChapterOnly)
}

func (r LiteralReplace) Rename(name string, _ int) string {
	if r.Search == "" {
		return name
	}
	return strings.ReplaceAll(name, r.Search, r.Replacement)
}

func (r TextInsertion) Rename(name string, _ int) string {
	if strings.TrimFunc(r.Text, isBlank) == "" {
		return name
	}
	return insert(name, r.Text, r.Position)
}

func (r IndexInsertion) Rename(name string, pos int) string {
	start := r.Start
	if start == 0 {
		start = DefaultStart
	}
	width := r.Digits
	if width == 0 {
		width = DefaultDigits
	}
	sep := DefaultSeparator
	if r.Separator != nil {
		sep = *r.Separator
	}

	index := pad(start+pos, width)
	if r.Position == Prefix {
		return index + sep + name
	}
	return insert(name, sep+index, Suffix)
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// pad zero-fills n to at least width characters. Wider values are kept
// whole.
func pad(n, width int) string {
	if width < 1 {
		width = 1
	}
	return fmt.Sprintf("%0*d", width, n)
}

// insert puts text in front of name, or before the extension for Suffix.
// A leading dot alone is not an extension.
func insert(name, text string, p Position) string {
	if p == Prefix {
		return text + name
	}
	if dot := strings.LastIndex(name, "."); dot > 0 {
		return name[:dot] + text + name[dot:]
	}
	return name + text
}
