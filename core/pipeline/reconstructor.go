package pipeline

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/siherrmann/scilex/model"
)

// hyphenBreaks are the characters treated as a line-break hyphen at the end
// of a word fragment: ASCII hyphen, soft hyphen, unicode hyphen and
// non-breaking hyphen, written as escapes so the characters stay visible
const hyphenBreaks = "-\u00AD\u2010\u2011"

// invisibles are zero-width and formatting characters stripped from tokens
// before validity checks: zero-width space, soft hyphen, non-breaking hyphen
// and byte order mark, written as escapes so the characters stay visible
const invisibles = "\u200B\u00AD\u2011\uFEFF"

// DefaultReconstructor applies reading-order sorting, hyphen merging and
// phrase grouping in sequence
func DefaultReconstructor(config model.PipelineConfig) ReconstructFunc {
	return func(words []model.PositionedWord) ([]model.PositionedWord, []model.Phrase) {
		sorted := SortReadingOrder(words, config.LineBucket)
		merged := MergeHyphenBreaks(sorted)
		phrases := GroupPhrases(merged, config)
		return merged, phrases
	}
}

// SortReadingOrder sorts words by (round(y/lineBucket), x). Bucketing the
// vertical position tolerates small baseline jitter from font metrics, so
// words on the same visual line order left to right without a full
// line-detection pass.
func SortReadingOrder(words []model.PositionedWord, lineBucket float64) []model.PositionedWord {
	if lineBucket <= 0 {
		lineBucket = 1
	}

	sorted := make([]model.PositionedWord, len(words))
	copy(sorted, words)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Page != sorted[j].Page {
			return sorted[i].Page < sorted[j].Page
		}
		lineI := math.Round(sorted[i].Y / lineBucket)
		lineJ := math.Round(sorted[j].Y / lineBucket)
		if lineI != lineJ {
			return lineI < lineJ
		}
		return sorted[i].X < sorted[j].X
	})

	return sorted
}

// MergeHyphenBreaks concatenates hyphen-broken words in a single greedy
// left-to-right pass. A word ending in a hyphen absorbs the following word
// (and keeps absorbing while the result still ends in a hyphen), keeping the
// first fragment's position. A hyphen at the true end of a line's content
// merges incorrectly with the next line's leading word; true hyphenated
// breaks are far more common in scientific prose, so the tradeoff holds.
func MergeHyphenBreaks(words []model.PositionedWord) []model.PositionedWord {
	merged := make([]model.PositionedWord, 0, len(words))

	for i := 0; i < len(words); {
		current := words[i]
		i++
		for endsWithHyphen(current.Text) && i < len(words) {
			current.Text = strings.TrimRight(current.Text, hyphenBreaks) + words[i].Text
			i++
		}
		merged = append(merged, current)
	}

	return merged
}

func endsWithHyphen(s string) bool {
	if s == "" {
		return false
	}
	r := []rune(s)
	return strings.ContainsRune(hyphenBreaks, r[len(r)-1])
}

// GroupPhrases walks the merged, sorted sequence and groups valid adjacent
// same-line words into phrases. An invalid token is a hard separator: it
// discards the open run. A valid token that fails the same-line or adjacency
// predicate flushes the open phrase and starts a new one. Phrases of length
// one are legitimate output.
func GroupPhrases(words []model.PositionedWord, config model.PipelineConfig) []model.Phrase {
	var phrases []model.Phrase
	var open []model.PositionedWord

	flush := func() {
		if len(open) > 0 {
			phrases = append(phrases, model.NewPhrase(open))
			open = nil
		}
	}

	for _, word := range words {
		if !ValidToken(word.Text) {
			open = nil
			continue
		}

		if len(open) > 0 {
			prev := open[len(open)-1]
			if prev.Page != word.Page ||
				!sameLine(prev, word, config.SameLineTolerance) ||
				!adjacent(prev, word, config.MinGap, config.MaxGap) {
				flush()
			}
		}

		open = append(open, word)
	}
	flush()

	return phrases
}

func sameLine(prev, cur model.PositionedWord, tolerance float64) bool {
	return math.Abs(prev.Y-cur.Y) < tolerance
}

func adjacent(prev, cur model.PositionedWord, minGap, maxGap float64) bool {
	gap := cur.X - (prev.X + prev.Width)
	return gap >= minGap && gap < maxGap
}

// ValidToken reports whether a token may be part of a phrase: after
// stripping surrounding punctuation and invisible formatting characters it
// must consist of letters, digits and hyphens only
func ValidToken(s string) bool {
	stripped := StripToken(s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// StripToken removes invisible formatting characters anywhere in the token
// and trims surrounding punctuation
func StripToken(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(invisibles, r) {
			return -1
		}
		return r
	}, s)

	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
