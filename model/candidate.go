package model

// CandidateOrigin describes where a candidate term came from
type CandidateOrigin string

const (
	CandidateOriginPhrase    CandidateOrigin = "phrase"
	CandidateOriginSubphrase CandidateOrigin = "subphrase"
	CandidateOriginWord      CandidateOrigin = "word"
)

// CandidateTerm is a normalized string judged worth resolving to a definition.
// Surface is the original text it was derived from; results are always keyed
// by Surface so they can be written back onto the source words and phrases.
type CandidateTerm struct {
	Surface    string          `json:"surface"`
	Normalized string          `json:"normalized"`
	Origin     CandidateOrigin `json:"origin"`
}
