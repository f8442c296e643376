package resolve

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/siherrmann/scilex/lexicon"
	"github.com/siherrmann/scilex/model"
	"github.com/siherrmann/scilex/ontology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearcher is a deterministic in-memory stand-in for the external
// ontology service
type stubSearcher struct {
	mu    sync.Mutex
	calls []string
	hits  map[string]*ontology.Hit
	fail  bool
}

func (s *stubSearcher) Search(ctx context.Context, term string) ontology.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, term)

	if s.fail {
		return ontology.Result{Status: ontology.StatusError}
	}
	if hit, ok := s.hits[term]; ok {
		return ontology.Result{Status: ontology.StatusHit, Hit: hit}
	}
	return ontology.Result{Status: ontology.StatusNoMatch}
}

func (s *stubSearcher) called(term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, call := range s.calls {
		if call == term {
			return true
		}
	}
	return false
}

func newTestResolver(t *testing.T, searcher Searcher) *Resolver {
	t.Helper()
	lex, err := lexicon.Load()
	require.NoError(t, err, "failed to load embedded lexicon")

	return NewResolver(
		lex,
		searcher,
		model.DefaultResolverConfig(),
		model.DefaultPipelineConfig(),
		slog.New(slog.DiscardHandler),
	)
}

func phraseCandidate(surface string) model.CandidateTerm {
	return model.CandidateTerm{
		Surface:    surface,
		Normalized: lexicon.Normalize(surface),
		Origin:     model.CandidateOriginPhrase,
	}
}

func wordCandidate(surface string) model.CandidateTerm {
	return model.CandidateTerm{
		Surface:    surface,
		Normalized: lexicon.Normalize(surface),
		Origin:     model.CandidateOriginWord,
	}
}

func TestResolverLocalDictionary(t *testing.T) {
	searcher := &stubSearcher{hits: map[string]*ontology.Hit{
		"quorum sensing": {Label: "should not be used", Definition: "external definition"},
	}}
	resolver := newTestResolver(t, searcher)

	t.Run("Local phrase dictionary wins over external search", func(t *testing.T) {
		table := resolver.Resolve(context.Background(), []model.CandidateTerm{
			phraseCandidate("Quorum Sensing"),
		})

		hit, ok := table.Lookup("Quorum Sensing")
		require.True(t, ok, "Expected a hit for the phrase")
		assert.Equal(t, model.HitSourceLocalPhrase, hit.Source)
		assert.Equal(t, "Quorum sensing", hit.Label)
		assert.False(t, searcher.called("quorum sensing"), "Expected no external call for a local hit")
	})

	t.Run("Local word dictionary resolves single words", func(t *testing.T) {
		table := resolver.Resolve(context.Background(), []model.CandidateTerm{
			wordCandidate("biofilm"),
		})

		hit, ok := table.Lookup("biofilm")
		require.True(t, ok)
		assert.Equal(t, model.HitSourceLocalWord, hit.Source)
		assert.NotEmpty(t, hit.Definition)
	})
}

func TestResolverSynonyms(t *testing.T) {
	searcher := &stubSearcher{}
	resolver := newTestResolver(t, searcher)

	table := resolver.Resolve(context.Background(), []model.CandidateTerm{
		wordCandidate("PCR"),
	})

	hit, ok := table.Lookup("PCR")
	require.True(t, ok, "Expected the synonym to canonicalize and resolve")
	assert.Equal(t, model.HitSourceLocalPhrase, hit.Source)
	assert.Equal(t, "Polymerase chain reaction", hit.Label)
}

func TestResolverExternalSearch(t *testing.T) {
	searcher := &stubSearcher{hits: map[string]*ontology.Hit{
		"zymogen": {
			Label:      "zymogen",
			Definition: "An inactive enzyme precursor.",
			IRI:        "http://purl.obolibrary.org/obo/NCIT_C000001",
		},
	}}
	resolver := newTestResolver(t, searcher)

	t.Run("External hit is recorded with its IRI", func(t *testing.T) {
		table := resolver.Resolve(context.Background(), []model.CandidateTerm{
			wordCandidate("zymogen"),
		})

		hit, ok := table.Lookup("zymogen")
		require.True(t, ok)
		assert.Equal(t, model.HitSourceOntology, hit.Source)
		assert.Equal(t, "An inactive enzyme precursor.", hit.Definition)
		assert.NotEmpty(t, hit.IRI)
	})

	t.Run("External failure is treated as a miss", func(t *testing.T) {
		failing := &stubSearcher{fail: true}
		failingResolver := newTestResolver(t, failing)

		table := failingResolver.Resolve(context.Background(), []model.CandidateTerm{
			wordCandidate("zymogen"),
		})

		_, ok := table.Lookup("zymogen")
		assert.False(t, ok, "Expected a transport failure to resolve nothing")
		assert.True(t, table.Unmatched["zymogen"], "Expected the term to land in unmatched")
	})
}

func TestResolverSubPhrases(t *testing.T) {
	searcher := &stubSearcher{}
	resolver := newTestResolver(t, searcher)

	table := resolver.Resolve(context.Background(), []model.CandidateTerm{
		phraseCandidate("chronic quorum sensing"),
	})

	hit, ok := table.Lookup("chronic quorum sensing")
	require.True(t, ok, "Expected the contained phrase to resolve")
	assert.Equal(t, model.HitSourceLocalPhrase, hit.Source)
	assert.Equal(t, "Quorum sensing", hit.Label)
	assert.Equal(t, model.CandidateOriginPhrase, hit.Origin, "Expected the hit to keep the candidate's origin")
}

func TestResolverWordFallback(t *testing.T) {
	searcher := &stubSearcher{}
	resolver := newTestResolver(t, searcher)

	table := resolver.Resolve(context.Background(), []model.CandidateTerm{
		phraseCandidate("xqzt biofilm"),
	})

	hit, ok := table.Lookup("xqzt biofilm")
	require.True(t, ok, "Expected the resolving constituent to produce a fallback hit")
	assert.Equal(t, model.HitSourceWordFallback, hit.Source)
	require.Len(t, hit.WordHits, 1)
	assert.Equal(t, "biofilm", hit.WordHits[0].Word)
	assert.Equal(t, model.HitSourceLocalWord, hit.WordHits[0].Source)
}

func TestResolverDeduplication(t *testing.T) {
	searcher := &stubSearcher{}
	resolver := newTestResolver(t, searcher)

	table := resolver.Resolve(context.Background(), []model.CandidateTerm{
		wordCandidate("Biofilm"),
		wordCandidate("biofilm"),
		wordCandidate("BIOFILM"),
	})

	assert.Equal(t, 1, table.Len(), "Expected candidates sharing a normalized form to resolve once")

	hit, ok := table.Lookup("biofilm")
	require.True(t, ok, "Expected case-insensitive lookup to find the representative")
	assert.Equal(t, model.HitSourceLocalWord, hit.Source)
}

func TestResolverCandidateCap(t *testing.T) {
	searcher := &stubSearcher{}
	lex, err := lexicon.Load()
	require.NoError(t, err)

	config := model.DefaultResolverConfig()
	config.MaxCandidates = 2
	resolver := NewResolver(lex, searcher, config, model.DefaultPipelineConfig(), slog.New(slog.DiscardHandler))

	table := resolver.Resolve(context.Background(), []model.CandidateTerm{
		wordCandidate("zzzzz"),
		wordCandidate("aaaaa"),
		wordCandidate("mmmmm"),
	})

	// Sorted order is deterministic, so the cap always drops the same tail
	assert.True(t, table.Unmatched["aaaaa"], "Expected aaaaa to be resolved (and missed)")
	assert.True(t, table.Unmatched["mmmmm"], "Expected mmmmm to be resolved (and missed)")
	assert.False(t, table.Unmatched["zzzzz"], "Expected zzzzz to be excluded entirely")
	_, ok := table.Lookup("zzzzz")
	assert.False(t, ok)
}

func TestResolverDeterminism(t *testing.T) {
	searcher := &stubSearcher{hits: map[string]*ontology.Hit{
		"zymogen": {Label: "zymogen", Definition: "An inactive enzyme precursor."},
	}}
	resolver := newTestResolver(t, searcher)

	candidates := []model.CandidateTerm{
		phraseCandidate("Quorum Sensing"),
		wordCandidate("biofilm"),
		wordCandidate("zymogen"),
		wordCandidate("unresolvable"),
	}

	first := resolver.Resolve(context.Background(), candidates)
	second := resolver.Resolve(context.Background(), candidates)

	assert.Equal(t, first.Hits, second.Hits, "Expected identical hits across runs")
	assert.Equal(t, first.Unmatched, second.Unmatched, "Expected identical unmatched sets across runs")
}
