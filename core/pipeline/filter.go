package pipeline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/siherrmann/scilex/lexicon"
	"github.com/siherrmann/scilex/model"
)

var (
	// Characters outside letters, digits and hyphens are stripped before
	// single-word checks
	cleanPattern = regexp.MustCompile(`[^A-Za-z0-9\-]`)

	// Author and citation shapes
	authorCommaPattern  = regexp.MustCompile(`^[A-Z][a-z]+,$`)
	citationPairPattern = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`)
	citationYearPattern = regexp.MustCompile(`^[A-Z][a-z]+, \d{4}$`)

	// Gene-like tokens: a short run of letters followed by digits
	genePattern = regexp.MustCompile(`^[A-Za-z]{2,6}\d+[A-Za-z0-9]*$`)
	// Strain designations: uppercase letters then digits
	strainPattern = regexp.MustCompile(`^[A-Z]{1,4}\d{1,4}[A-Za-z0-9]*$`)

	// Simple capitalized word, the shape shared by surnames and genus names
	capitalizedPattern = regexp.MustCompile(`^[A-Z][a-z]+$`)
	// Capitalized word with interior capitals, e.g. gene or product names
	mixedCapsPattern = regexp.MustCompile(`^[A-Z][a-zA-Z]*[A-Z][a-zA-Z]*$`)

	// Species shapes
	genusPattern       = regexp.MustCompile(`^[A-Z][a-z]{2,}$`)
	epithetPattern     = regexp.MustCompile(`^[a-z]{2,}$`)
	abbreviatedSpecies = regexp.MustCompile(`^[A-Z]\. [a-z]{2,}$`)
)

// DefaultWordFilter builds the single-word candidacy predicate. A word is a
// candidate when, after stripping to letters/digits/hyphens, it is long
// enough, is not a stopword, number, author name or bare acronym, and matches
// a scientific morpheme, a gene or strain naming pattern, or a capitalized
// taxonomic shape. High-recall mode additionally accepts any alphabetic
// non-stopword token of length >= 5.
func DefaultWordFilter(lex *lexicon.Lexicon, config model.PipelineConfig) WordFilterFunc {
	return func(word string) bool {
		clean := cleanPattern.ReplaceAllString(word, "")

		if len(clean) < config.MinTokenLength {
			return false
		}
		if lex.IsStopword(clean) {
			return false
		}
		if isNumber(clean) {
			return false
		}
		if authorCommaPattern.MatchString(strings.TrimSpace(word)) {
			return false
		}
		// Standalone acronyms are usually abbreviations spelled out elsewhere
		if isAcronym(clean) {
			return false
		}

		lower := strings.ToLower(clean)

		if clean == lower {
			// Lowercase words need an explicit allowance or a morpheme match
			if lex.IsAllowedLower(lower) || lex.HasSciPrefix(lower) || lex.HasSciSuffix(lower) {
				return true
			}
			return config.HighRecall && isAlphabetic(clean) && len(clean) >= 5
		}

		if genePattern.MatchString(clean) {
			return true
		}
		if strainPattern.MatchString(clean) {
			return true
		}
		if mixedCapsPattern.MatchString(clean) {
			return true
		}
		if capitalizedPattern.MatchString(clean) {
			// A capitalized simple word is taxonomic-looking only with a
			// scientific morpheme; otherwise it is treated as an author name
			if lex.HasSciPrefix(lower) || lex.HasSciSuffix(lower) {
				return true
			}
			return config.HighRecall && len(clean) >= 5 && !lex.IsStopword(lower)
		}
		if lex.HasSciPrefix(lower) || lex.HasSciSuffix(lower) {
			return true
		}

		return config.HighRecall && isAlphabetic(clean) && len(clean) >= 5
	}
}

// DefaultPhraseFilter builds the phrase candidacy predicate. Citations and
// boilerplate are rejected outright; species-like phrases and phrases
// carrying strain/serotype/subspecies markers are accepted; any other phrase
// is accepted when at least one constituent passes the single-word filter.
func DefaultPhraseFilter(lex *lexicon.Lexicon, config model.PipelineConfig) PhraseFilterFunc {
	wordFilter := DefaultWordFilter(lex, config)

	return func(phrase string) bool {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			return false
		}

		if IsCitation(phrase) {
			return false
		}
		if lex.IsBoilerplate(phrase) {
			return false
		}

		tokens := strings.Fields(phrase)
		if allAuthorNames(tokens) {
			return false
		}

		if isSpeciesBinomial(tokens, lex) || abbreviatedSpecies.MatchString(phrase) {
			return true
		}

		lower := strings.ToLower(phrase)
		if strings.Contains(lower, "strain") ||
			strings.Contains(lower, "serotype") ||
			strings.Contains(lower, "subspecies") {
			return true
		}

		for _, token := range tokens {
			if wordFilter(token) {
				return true
			}
		}
		return false
	}
}

// IsCitation reports whether a phrase looks like a literature citation
func IsCitation(phrase string) bool {
	if strings.Contains(strings.ToLower(phrase), "et al") {
		return true
	}
	if citationPairPattern.MatchString(phrase) {
		return true
	}
	return citationYearPattern.MatchString(phrase)
}

// NGrams generates all contiguous n-grams of the token list for n from
// min(maxN, len(tokens)) down to 1, longest first. Grams shorter than
// minCompacted characters with spaces removed are skipped.
func NGrams(tokens []string, maxN int, minCompacted int) []string {
	var grams []string

	longest := maxN
	if longest > len(tokens) {
		longest = len(tokens)
	}

	for size := longest; size >= 1; size-- {
		for start := 0; start+size <= len(tokens); start++ {
			gram := strings.Join(tokens[start:start+size], " ")
			if len(strings.ReplaceAll(gram, " ", "")) < minCompacted {
				continue
			}
			grams = append(grams, gram)
		}
	}

	return grams
}

func isSpeciesBinomial(tokens []string, lex *lexicon.Lexicon) bool {
	if len(tokens) != 2 {
		return false
	}
	if !genusPattern.MatchString(tokens[0]) || !epithetPattern.MatchString(tokens[1]) {
		return false
	}
	return !lex.IsStopword(tokens[0]) && !lex.IsStopword(tokens[1])
}

func allAuthorNames(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, token := range tokens {
		if !capitalizedPattern.MatchString(token) && !authorCommaPattern.MatchString(token) {
			return false
		}
	}
	return true
}

func isAcronym(s string) bool {
	return len(s) >= 3 && s == strings.ToUpper(s) && isAlphabetic(s)
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}
