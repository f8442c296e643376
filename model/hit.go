package model

// HitSource describes which resolver tier produced a definition
type HitSource string

const (
	HitSourceLocalPhrase  HitSource = "local_phrase"
	HitSourceLocalWord    HitSource = "local_word"
	HitSourceOntology     HitSource = "ontology"
	HitSourceWordFallback HitSource = "word_fallback"
)

// DefinitionHit is the immutable result of a successful lookup.
// For word_fallback hits the definition lives in WordHits, one entry per
// constituent word that resolved; Word carries that word's surface text.
type DefinitionHit struct {
	Label      string          `json:"label"`
	Definition string          `json:"definition"`
	Source     HitSource       `json:"source"`
	IRI        string          `json:"iri,omitempty"`
	Word       string          `json:"word,omitempty"`
	WordHits   []*DefinitionHit `json:"word_hits,omitempty"`
	Origin     CandidateOrigin `json:"-"`
}
