package lexicon

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/siherrmann/scilex/model"
)

//go:embed data/glossary.json
var glossaryJSON []byte

//go:embed data/synonyms.json
var synonymsJSON []byte

//go:embed data/stopwords.json
var stopwordsJSON []byte

//go:embed data/morphemes.json
var morphemesJSON []byte

//go:embed data/allowed_lower.json
var allowedLowerJSON []byte

//go:embed data/boilerplate.json
var boilerplateJSON []byte

// Entry is one local glossary definition, keyed by its term
type Entry struct {
	Term       string         `json:"term"`
	Label      string         `json:"label"`
	Definition string         `json:"definition"`
	IRI        string         `json:"iri,omitempty"`
	Metadata   model.Metadata `json:"metadata,omitempty"`
}

// Lexicon bundles the process-lifetime lookup tables used by the candidate
// filter and the definition resolver: local definitions, synonym
// canonicalization, stopwords, morpheme lists and boilerplate fragments.
// All keys are indexed case-normalized once at load time; a Lexicon is never
// mutated after construction.
type Lexicon struct {
	phrases      map[string]*Entry
	words        map[string]*Entry
	synonyms     map[string]string
	stopwords    map[string]bool
	allowedLower map[string]bool
	boilerplate  []string
	prefixes     []string
	suffixes     []string
}

type morphemes struct {
	Prefixes []string `json:"prefixes"`
	Suffixes []string `json:"suffixes"`
}

// Load builds a Lexicon from the embedded default data
func Load() (*Lexicon, error) {
	var entries []*Entry
	if err := json.Unmarshal(glossaryJSON, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse embedded glossary: %w", err)
	}

	var synonyms map[string]string
	if err := json.Unmarshal(synonymsJSON, &synonyms); err != nil {
		return nil, fmt.Errorf("failed to parse embedded synonyms: %w", err)
	}

	var stopwords []string
	if err := json.Unmarshal(stopwordsJSON, &stopwords); err != nil {
		return nil, fmt.Errorf("failed to parse embedded stopwords: %w", err)
	}

	var morph morphemes
	if err := json.Unmarshal(morphemesJSON, &morph); err != nil {
		return nil, fmt.Errorf("failed to parse embedded morphemes: %w", err)
	}

	var allowedLower []string
	if err := json.Unmarshal(allowedLowerJSON, &allowedLower); err != nil {
		return nil, fmt.Errorf("failed to parse embedded allowed lower terms: %w", err)
	}

	var boilerplate []string
	if err := json.Unmarshal(boilerplateJSON, &boilerplate); err != nil {
		return nil, fmt.Errorf("failed to parse embedded boilerplate fragments: %w", err)
	}

	return New(entries, synonyms, stopwords, morph.Prefixes, morph.Suffixes, allowedLower, boilerplate), nil
}

// New builds a Lexicon from explicit tables, normalizing all keys once
func New(
	entries []*Entry,
	synonyms map[string]string,
	stopwords []string,
	prefixes []string,
	suffixes []string,
	allowedLower []string,
	boilerplate []string,
) *Lexicon {
	l := &Lexicon{
		phrases:      map[string]*Entry{},
		words:        map[string]*Entry{},
		synonyms:     map[string]string{},
		stopwords:    map[string]bool{},
		allowedLower: map[string]bool{},
	}

	l.addEntries(entries)

	for variant, canonical := range synonyms {
		l.synonyms[Normalize(variant)] = Normalize(canonical)
	}
	for _, w := range stopwords {
		l.stopwords[strings.ToLower(w)] = true
	}
	for _, w := range allowedLower {
		l.allowedLower[strings.ToLower(w)] = true
	}
	for _, p := range prefixes {
		l.prefixes = append(l.prefixes, strings.ToLower(p))
	}
	for _, s := range suffixes {
		l.suffixes = append(l.suffixes, strings.ToLower(s))
	}
	for _, b := range boilerplate {
		l.boilerplate = append(l.boilerplate, strings.ToLower(b))
	}

	return l
}

// addEntries indexes glossary entries by their normalized term. Terms
// containing a space go into the phrase table, the rest into the word table.
func (l *Lexicon) addEntries(entries []*Entry) {
	for _, entry := range entries {
		key := Normalize(entry.Term)
		if key == "" {
			continue
		}
		if strings.Contains(key, " ") {
			l.phrases[key] = entry
		} else {
			l.words[key] = entry
		}
	}
}

// WithEntries returns a copy of the lexicon extended with additional glossary
// entries, e.g. loaded from a file or a database at startup
func (l *Lexicon) WithEntries(entries []*Entry) *Lexicon {
	extended := &Lexicon{
		phrases:      make(map[string]*Entry, len(l.phrases)+len(entries)),
		words:        make(map[string]*Entry, len(l.words)),
		synonyms:     l.synonyms,
		stopwords:    l.stopwords,
		allowedLower: l.allowedLower,
		boilerplate:  l.boilerplate,
		prefixes:     l.prefixes,
		suffixes:     l.suffixes,
	}
	for k, v := range l.phrases {
		extended.phrases[k] = v
	}
	for k, v := range l.words {
		extended.words[k] = v
	}
	extended.addEntries(entries)
	return extended
}

// WithSynonyms returns a copy of the lexicon extended with additional synonym
// mappings from variant to canonical form
func (l *Lexicon) WithSynonyms(synonyms map[string]string) *Lexicon {
	extended := &Lexicon{
		phrases:      l.phrases,
		words:        l.words,
		synonyms:     make(map[string]string, len(l.synonyms)+len(synonyms)),
		stopwords:    l.stopwords,
		allowedLower: l.allowedLower,
		boilerplate:  l.boilerplate,
		prefixes:     l.prefixes,
		suffixes:     l.suffixes,
	}
	for k, v := range l.synonyms {
		extended.synonyms[k] = v
	}
	for variant, canonical := range synonyms {
		extended.synonyms[Normalize(variant)] = Normalize(canonical)
	}
	return extended
}

// LoadEntriesFile reads additional glossary entries from a JSON file
func LoadEntriesFile(path string) ([]*Entry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read glossary file: %w", err)
	}
	var entries []*Entry
	if err := json.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse glossary file %v: %w", path, err)
	}
	return entries, nil
}

// LookupPhrase returns the glossary entry for a normalized multi-word term
func (l *Lexicon) LookupPhrase(normalized string) (*Entry, bool) {
	entry, ok := l.phrases[normalized]
	return entry, ok
}

// LookupWord returns the glossary entry for a normalized single word
func (l *Lexicon) LookupWord(normalized string) (*Entry, bool) {
	entry, ok := l.words[normalized]
	return entry, ok
}

// Canonical returns the canonical form of a normalized term if the synonym
// table knows a substitution for it
func (l *Lexicon) Canonical(normalized string) (string, bool) {
	canonical, ok := l.synonyms[normalized]
	return canonical, ok
}

// IsStopword reports whether a word is in the stopword set
func (l *Lexicon) IsStopword(word string) bool {
	return l.stopwords[strings.ToLower(word)]
}

// IsAllowedLower reports whether a lowercase word is explicitly allowed as a
// candidate despite matching no morphological pattern
func (l *Lexicon) IsAllowedLower(word string) bool {
	return l.allowedLower[strings.ToLower(word)]
}

// HasSciPrefix reports whether a word starts with a known scientific morpheme
func (l *Lexicon) HasSciPrefix(word string) bool {
	lower := strings.ToLower(word)
	for _, p := range l.prefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// HasSciSuffix reports whether a word ends with a known scientific morpheme
func (l *Lexicon) HasSciSuffix(word string) bool {
	lower := strings.ToLower(word)
	for _, s := range l.suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// IsBoilerplate reports whether a phrase contains one of the known
// procedural or license text fragments
func (l *Lexicon) IsBoilerplate(phrase string) bool {
	lower := strings.ToLower(phrase)
	for _, fragment := range l.boilerplate {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// PhraseCount returns the number of phrase entries
func (l *Lexicon) PhraseCount() int {
	return len(l.phrases)
}

// WordCount returns the number of single-word entries
func (l *Lexicon) WordCount() int {
	return len(l.words)
}
