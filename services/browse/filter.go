package browse

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"moviescope/models"
)

var japaneseRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x3040, Hi: 0x309f, Stride: 1}, // hiragana
		{Lo: 0x30a0, Hi: 0x30ff, Stride: 1}, // katakana
		{Lo: 0x4e00, Hi: 0x9faf, Stride: 1}, // CJK unified ideographs
	},
}

// ContainsJapanese reports whether s has at least one hiragana, katakana or
// kanji character.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if unicode.Is(japaneseRanges, r) {
			return true
		}
	}
	return false
}

// fold normalises a title for matching: full-width latin becomes ASCII,
// half-width katakana becomes full-width with its voicing marks composed,
// and case is folded.
func fold(s string) string {
	return cases.Fold().String(width.Fold.String(norm.NFKC.String(s)))
}

// Filter returns the movies whose title contains term. Titles starting with
// the term come first; order is otherwise preserved. An empty term returns
// every movie.
func Filter(movies []models.MovieSummary, term string) []models.MovieSummary {
	needle := fold(strings.TrimSpace(term))
	if needle == "" {
		return append([]models.MovieSummary(nil), movies...)
	}

	var prefix, contains []models.MovieSummary
	for _, m := range movies {
		title := fold(m.Title)
		switch {
		case strings.HasPrefix(title, needle):
			prefix = append(prefix, m)
		case strings.Contains(title, needle):
			contains = append(contains, m)
		}
	}
	return append(prefix, contains...)
}
