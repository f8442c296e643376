package model

import "strings"

// Phrase is a contiguous run of spatially adjacent valid words on one line,
// treated as a single lookup unit. Words is never empty and never spans pages.
type Phrase struct {
	Text  string           `json:"text"`
	Words []PositionedWord `json:"words"`
}

// NewPhrase builds a Phrase from its member words, joining their text with spaces
func NewPhrase(words []PositionedWord) Phrase {
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return Phrase{
		Text:  strings.Join(texts, " "),
		Words: words,
	}
}

// Tokens returns the surface text of the member words in order
func (p Phrase) Tokens() []string {
	tokens := make([]string, len(p.Words))
	for i, w := range p.Words {
		tokens[i] = w.Text
	}
	return tokens
}

// Page returns the page the phrase lives on
func (p Phrase) Page() int {
	if len(p.Words) == 0 {
		return 0
	}
	return p.Words[0].Page
}
