package resolve

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/siherrmann/scilex/core/pipeline"
	"github.com/siherrmann/scilex/lexicon"
	"github.com/siherrmann/scilex/model"
	"github.com/siherrmann/scilex/ontology"
)

// Searcher is the external term-search dependency of the resolver. Tests
// inject a deterministic stand-in; production uses ontology.Client.
type Searcher interface {
	Search(ctx context.Context, term string) ontology.Result
}

// Resolver runs the layered definition lookup for a document's candidate
// terms: local dictionary, synonym canonicalization, external ontology
// search, sub-phrase decomposition and per-word fallback, in that order.
// External lookups run on a bounded worker pool with a per-call timeout.
type Resolver struct {
	lex      *lexicon.Lexicon
	search   Searcher
	config   model.ResolverConfig
	maxNGram int
	minGram  int
	log      *slog.Logger
}

// NewResolver creates a resolver. The pipeline configuration supplies the
// n-gram bounds used for sub-phrase decomposition.
func NewResolver(
	lex *lexicon.Lexicon,
	search Searcher,
	config model.ResolverConfig,
	pipelineConfig model.PipelineConfig,
	logger *slog.Logger,
) *Resolver {
	return &Resolver{
		lex:      lex,
		search:   search,
		config:   config,
		maxNGram: pipelineConfig.MaxNGram,
		minGram:  pipelineConfig.MinCompactedLength,
		log:      logger,
	}
}

// Resolve builds the resolution table for a candidate set. Candidates are
// deduplicated by normalized form (first surface form wins) and capped
// deterministically in sorted order; candidates beyond the cap are never
// submitted and stay out of the table entirely. The table is keyed by
// original surface text.
func (r *Resolver) Resolve(ctx context.Context, candidates []model.CandidateTerm) *model.ResolutionTable {
	deduped := dedupe(candidates)

	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i].Normalized < deduped[j].Normalized
	})
	if len(deduped) > r.config.MaxCandidates {
		r.log.Warn("Candidate cap reached, truncating",
			slog.Int("candidates", len(deduped)),
			slog.Int("cap", r.config.MaxCandidates))
		deduped = deduped[:r.config.MaxCandidates]
	}

	table := model.NewResolutionTable()

	concurrency := r.config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	for _, candidate := range deduped {
		wg.Add(1)
		sem <- struct{}{}
		go func(cand model.CandidateTerm) {
			defer wg.Done()
			defer func() { <-sem }()

			hit := r.resolveOne(ctx, cand)

			mu.Lock()
			defer mu.Unlock()
			if hit != nil {
				table.AddHit(cand.Surface, hit)
			} else {
				table.AddUnmatched(cand.Surface)
			}
		}(candidate)
	}
	wg.Wait()

	r.log.Info("Resolved candidate set",
		slog.Int("candidates", len(deduped)),
		slog.Int("matched", table.Len()),
		slog.Int("unmatched", len(table.Unmatched)))

	return table
}

// resolveOne walks one candidate through the lookup tiers until a tier
// produces a hit or every tier is exhausted
func (r *Resolver) resolveOne(ctx context.Context, cand model.CandidateTerm) *model.DefinitionHit {
	norm := cand.Normalized
	if norm == "" {
		return nil
	}

	// Tier 1: local dictionary, then synonym canonicalization and re-lookup
	if hit := r.lookupLocal(norm, cand.Origin); hit != nil {
		return hit
	}
	if canonical, ok := r.lex.Canonical(norm); ok {
		if hit := r.lookupLocal(canonical, cand.Origin); hit != nil {
			return hit
		}
		norm = canonical
	}

	// Tier 2: external ontology search on the full term
	if hit := r.searchExternal(ctx, norm, cand.Origin); hit != nil {
		return hit
	}

	tokens := strings.Fields(cand.Normalized)
	if len(tokens) < 2 {
		return nil
	}

	// Tier 3: sub-phrase decomposition, longest n-grams first
	for _, gram := range pipeline.NGrams(tokens, r.maxNGram, r.minGram) {
		if gram == cand.Normalized || !strings.Contains(gram, " ") {
			continue
		}
		if hit := r.resolveSubTerm(ctx, gram, model.CandidateOriginSubphrase); hit != nil {
			hit.Origin = cand.Origin
			return hit
		}
	}

	// Tier 4: per-word fallback, accumulating every word that resolves
	var wordHits []*model.DefinitionHit
	for _, token := range tokens {
		if hit := r.resolveSubTerm(ctx, token, model.CandidateOriginWord); hit != nil {
			hit.Word = token
			wordHits = append(wordHits, hit)
		}
	}
	if len(wordHits) > 0 {
		return &model.DefinitionHit{
			Label:    cand.Surface,
			Source:   model.HitSourceWordFallback,
			WordHits: wordHits,
			Origin:   cand.Origin,
		}
	}

	return nil
}

// resolveSubTerm runs the local/synonym/external sequence for one sub-phrase
// or constituent word
func (r *Resolver) resolveSubTerm(ctx context.Context, norm string, origin model.CandidateOrigin) *model.DefinitionHit {
	if hit := r.lookupLocal(norm, origin); hit != nil {
		return hit
	}
	if canonical, ok := r.lex.Canonical(norm); ok {
		if hit := r.lookupLocal(canonical, origin); hit != nil {
			return hit
		}
		norm = canonical
	}
	return r.searchExternal(ctx, norm, origin)
}

// lookupLocal checks the phrase or word dictionary depending on the term's
// shape
func (r *Resolver) lookupLocal(norm string, origin model.CandidateOrigin) *model.DefinitionHit {
	var entry *lexicon.Entry
	var ok bool
	var source model.HitSource

	if strings.Contains(norm, " ") {
		entry, ok = r.lex.LookupPhrase(norm)
		source = model.HitSourceLocalPhrase
	} else {
		entry, ok = r.lex.LookupWord(norm)
		source = model.HitSourceLocalWord
	}
	if !ok {
		return nil
	}

	label := entry.Label
	if label == "" {
		label = entry.Term
	}

	return &model.DefinitionHit{
		Label:      label,
		Definition: entry.Definition,
		Source:     source,
		IRI:        entry.IRI,
		Origin:     origin,
	}
}

// searchExternal queries the term-search service with the per-call timeout.
// Transport errors and misses both come back nil; errors are logged so
// failures stay observable.
func (r *Resolver) searchExternal(ctx context.Context, norm string, origin model.CandidateOrigin) *model.DefinitionHit {
	callCtx, cancel := context.WithTimeout(ctx, r.config.LookupTimeout)
	defer cancel()

	result := r.search.Search(callCtx, norm)
	switch result.Status {
	case ontology.StatusHit:
		return &model.DefinitionHit{
			Label:      result.Hit.Label,
			Definition: result.Hit.Definition,
			Source:     model.HitSourceOntology,
			IRI:        result.Hit.IRI,
			Origin:     origin,
		}
	case ontology.StatusError:
		r.log.Debug("External lookup failed, treating as miss", slog.String("term", norm))
	}
	return nil
}

// dedupe removes candidates sharing a normalized form, keeping the first
// surface form as the representative key
func dedupe(candidates []model.CandidateTerm) []model.CandidateTerm {
	seen := make(map[string]bool, len(candidates))
	deduped := make([]model.CandidateTerm, 0, len(candidates))
	for _, cand := range candidates {
		if cand.Normalized == "" || seen[cand.Normalized] {
			continue
		}
		seen[cand.Normalized] = true
		deduped = append(deduped, cand)
	}
	return deduped
}
