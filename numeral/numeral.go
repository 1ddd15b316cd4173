// Package numeral converts Chinese numerals in file names to Arabic digits.
//
// The grammar is permissive: a run that looks numeric always
// yields a number, even when its magnitude markers are out of order. Runs
// that cannot be read at all are echoed back unchanged.
package numeral

import (
	"math/big"
	"regexp"
	"strings"
)

var digits = map[rune]int64{
	'零': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

var magnitudes = map[rune]int64{
	'十': 10,
	'百': 100,
	'千': 1000,
}

const tenThousand = '万'

var (
	runPattern     = regexp.MustCompile(`[零一二三四五六七八九十百千万]+`)
	chapterPattern = regexp.MustCompile(`第([零一二三四五六七八九十百千万]+)回`)
)

// ToArabic returns the decimal form of a run of numeral characters, or the
// run itself when it cannot be converted.
func ToArabic(run string) string {
	if run == "十" {
		return "10"
	}

	if v, ok := tensIdiom(run); ok {
		return big.NewInt(v).String()
	}

	if strings.ContainsAny(run, "百千万") {
		return accumulate(run).String()
	}

	r := []rune(run)
	if len(r) == 1 {
		if d, ok := digits[r[0]]; ok {
			return big.NewInt(d).String()
		}
	}
	return run
}

// tensIdiom handles the colloquial two-digit forms 十X, X十 and X十Y.
func tensIdiom(run string) (int64, bool) {
	if !strings.ContainsRune(run, '十') {
		return 0, false
	}
	r := []rune(run)

	switch {
	case r[0] == '十':
		if len(r) == 2 {
			if d, ok := digits[r[1]]; ok {
				return 10 + d, true
			}
		}
	case r[len(r)-1] == '十':
		if len(r) == 2 {
			if d, ok := digits[r[0]]; ok {
				return d * 10, true
			}
		}
	default:
		parts := strings.Split(run, "十")
		if len(parts) != 2 {
			return 0, false
		}
		tens, ok1 := singleDigit(parts[0])
		ones, ok2 := singleDigit(parts[1])
		if ok1 && ok2 {
			return tens*10 + ones, true
		}
	}
	return 0, false
}

func singleDigit(s string) (int64, bool) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, false
	}
	d, ok := digits[r[0]]
	return d, ok
}

// accumulate reads runs carrying 百, 千 or 万. A marker with no digit in
// front of it counts as one of that magnitude; 万 scales everything read so
// far.
func accumulate(run string) *big.Int {
	total := new(big.Int)
	var pending int64

	orOne := func(n int64) int64 {
		if n == 0 {
			return 1
		}
		return n
	}

	for _, c := range run {
		if d, ok := digits[c]; ok {
			pending = d
			continue
		}
		if m, ok := magnitudes[c]; ok {
			total.Add(total, big.NewInt(orOne(pending)*m))
			pending = 0
			continue
		}
		if c == tenThousand {
			total.Add(total, big.NewInt(orOne(pending)))
			total.Mul(total, big.NewInt(10000))
			pending = 0
		}
	}
	return total.Add(total, big.NewInt(pending))
}

// Convert rewrites the numerals in name. With chapterOnly set, only runs
// framed as 第…回 are touched. Otherwise every run is replaced, but only
// when it converts to plain digits.
func Convert(name string, chapterOnly bool) string {
	if chapterOnly {
		return convertChapters(name)
	}
	return runPattern.ReplaceAllStringFunc(name, func(run string) string {
		if converted := ToArabic(run); isDecimal(converted) {
			return converted
		}
		return run
	})
}

func convertChapters(name string) string {
	matches := chapterPattern.FindAllStringSubmatchIndex(name, -1)
	if len(matches) == 0 {
		return name
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		b.WriteString(name[last:start])
		b.WriteString(ToArabic(name[start:end]))
		last = end
	}
	b.WriteString(name[last:])
	return b.String()
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
