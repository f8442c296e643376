package model

import "time"

// PipelineConfig holds the tunable thresholds of the reconstruction and
// filtering stages. The defaults were tuned on scientific prose; line bucket
// and gap bounds are in document units.
type PipelineConfig struct {
	// Phrase reconstruction parameters
	LineBucket        float64 `json:"line_bucket"`         // Vertical bucket size for reading-order sort
	SameLineTolerance float64 `json:"same_line_tolerance"` // Max |Δy| for two words on the same line
	MinGap            float64 `json:"min_gap"`             // Lower bound of the adjacency gap (negative tolerates kerning overlap)
	MaxGap            float64 `json:"max_gap"`             // Exclusive upper bound of the adjacency gap

	// Candidate filter parameters
	MinTokenLength     int  `json:"min_token_length"`     // Shortest token considered for candidacy
	HighRecall         bool `json:"high_recall"`          // Accept any alphabetic non-stopword token of length >= 5
	MaxNGram           int  `json:"max_ngram"`            // Longest sub-phrase n-gram generated for fallback
	MinCompactedLength int  `json:"min_compacted_length"` // Minimum n-gram length with spaces removed

	// Annotation merge parameters
	SingleAttachment bool `json:"single_attachment"` // Attach phrase hits to the first word only, marking the rest skip
}

// DefaultPipelineConfig returns a sensible default configuration
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		LineBucket:         5,
		SameLineTolerance:  5,
		MinGap:             -3,
		MaxGap:             40,
		MinTokenLength:     3,
		HighRecall:         false,
		MaxNGram:           5,
		MinCompactedLength: 4,
		SingleAttachment:   false,
	}
}

// ResolverConfig holds the resource bounds of the definition resolver
type ResolverConfig struct {
	MaxCandidates int           `json:"max_candidates"` // Hard cap on candidates resolved per document
	Concurrency   int           `json:"concurrency"`    // Max simultaneous in-flight external lookups
	LookupTimeout time.Duration `json:"lookup_timeout"` // Per-call timeout for external lookups
}

// DefaultResolverConfig returns a sensible default configuration
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		MaxCandidates: 500,
		Concurrency:   15,
		LookupTimeout: 5 * time.Second,
	}
}
