package model

import "strings"

// ResolutionTable maps original surface text to its resolved definition, plus
// the set of surface texts that exhausted the resolver with no hit.
// It is built once per document and read-only during the merge phase.
type ResolutionTable struct {
	Hits      map[string]*DefinitionHit `json:"hits"`
	Unmatched map[string]bool           `json:"unmatched"`

	// lowerIndex maps the lowercased surface to the original key so merge
	// lookups do not depend on the casing the candidate was collected with.
	lowerIndex map[string]string
}

// NewResolutionTable creates an empty resolution table
func NewResolutionTable() *ResolutionTable {
	return &ResolutionTable{
		Hits:       map[string]*DefinitionHit{},
		Unmatched:  map[string]bool{},
		lowerIndex: map[string]string{},
	}
}

// AddHit records a resolved definition under the candidate's surface text
func (t *ResolutionTable) AddHit(surface string, hit *DefinitionHit) {
	t.Hits[surface] = hit
	t.lowerIndex[strings.ToLower(surface)] = surface
}

// AddUnmatched records a surface text that could not be resolved
func (t *ResolutionTable) AddUnmatched(surface string) {
	t.Unmatched[surface] = true
}

// Lookup returns the hit for a surface text, matching exactly first and
// case-insensitively second
func (t *ResolutionTable) Lookup(surface string) (*DefinitionHit, bool) {
	if hit, ok := t.Hits[surface]; ok {
		return hit, true
	}
	if key, ok := t.lowerIndex[strings.ToLower(surface)]; ok {
		return t.Hits[key], true
	}
	return nil, false
}

// Len returns the number of resolved surface texts
func (t *ResolutionTable) Len() int {
	return len(t.Hits)
}
