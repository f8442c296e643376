package pipeline

import (
	"log/slog"
	"strings"

	"github.com/siherrmann/scilex/lexicon"
	"github.com/siherrmann/scilex/model"
)

// NormalizeFunc converts a page's raw extractor records into canonical
// positioned words, returning the number of malformed records dropped
type NormalizeFunc func(raw []model.RawWord, page int) ([]model.PositionedWord, int)

// ReconstructFunc sorts words into reading order, merges hyphen-broken words
// and groups adjacent words into phrases. It returns the merged, sorted word
// sequence alongside the phrases.
type ReconstructFunc func(words []model.PositionedWord) ([]model.PositionedWord, []model.Phrase)

// WordFilterFunc decides whether a single word is worth resolving
type WordFilterFunc func(word string) bool

// PhraseFilterFunc decides whether a multi-word phrase is worth resolving
type PhraseFilterFunc func(phrase string) bool

// RecognizeFunc extracts additional candidate surfaces from free text.
// Optional; used to supplement the pattern filters with a NER model.
type RecognizeFunc func(text string) ([]string, error)

// Pipeline combines the per-page processing stages. Stages are plain
// functions so tests and callers can swap any of them out.
type Pipeline struct {
	Normalizer    NormalizeFunc
	Reconstructor ReconstructFunc
	WordFilter    WordFilterFunc
	PhraseFilter  PhraseFilterFunc
	Recognizer    RecognizeFunc // Optional
	log           *slog.Logger
}

// NewPipeline creates a pipeline with the default stages for the given
// lexicon and configuration
func NewPipeline(lex *lexicon.Lexicon, config model.PipelineConfig, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		Normalizer:    DefaultNormalizer(),
		Reconstructor: DefaultReconstructor(config),
		WordFilter:    DefaultWordFilter(lex, config),
		PhraseFilter:  DefaultPhraseFilter(lex, config),
		log:           logger,
	}
}

// SetRecognizer sets the optional model-based candidate recognizer
func (p *Pipeline) SetRecognizer(recognizer RecognizeFunc) {
	p.Recognizer = recognizer
}

// PageResult holds the reconstructed content of one page
type PageResult struct {
	PageNumber int
	Words      []model.PositionedWord
	Phrases    []model.Phrase
	Dropped    int
}

// ProcessPage normalizes and reconstructs a single page of raw extractor
// output. It never fails; malformed words are dropped and counted.
func (p *Pipeline) ProcessPage(raw []model.RawWord, pageNumber int) *PageResult {
	words, dropped := p.Normalizer(raw, pageNumber)
	merged, phrases := p.Reconstructor(words)

	return &PageResult{
		PageNumber: pageNumber,
		Words:      merged,
		Phrases:    phrases,
		Dropped:    dropped,
	}
}

// Candidates collects the candidate terms of a processed document, phrases
// first, then single words, then any recognizer output. Deduplication is the
// resolver's job; this only filters.
func (p *Pipeline) Candidates(results []*PageResult) []model.CandidateTerm {
	var candidates []model.CandidateTerm

	for _, page := range results {
		for _, phrase := range page.Phrases {
			if len(phrase.Words) < 2 {
				continue
			}
			if !p.PhraseFilter(phrase.Text) {
				continue
			}
			candidates = append(candidates, model.CandidateTerm{
				Surface:    phrase.Text,
				Normalized: lexicon.Normalize(phrase.Text),
				Origin:     model.CandidateOriginPhrase,
			})
		}

		for _, word := range page.Words {
			if !p.WordFilter(word.Text) {
				continue
			}
			candidates = append(candidates, model.CandidateTerm{
				Surface:    word.Text,
				Normalized: lexicon.Normalize(word.Text),
				Origin:     model.CandidateOriginWord,
			})
		}

		if p.Recognizer != nil {
			texts := make([]string, len(page.Words))
			for i, w := range page.Words {
				texts[i] = w.Text
			}
			surfaces, err := p.Recognizer(strings.Join(texts, " "))
			if err != nil {
				// Pattern candidates stand on their own; a recognizer
				// failure degrades recall, not the result
				p.log.Warn("Candidate recognizer failed",
					slog.Int("page", page.PageNumber),
					slog.String("error", err.Error()))
				continue
			}
			for _, surface := range surfaces {
				origin := model.CandidateOriginWord
				if strings.Contains(surface, " ") {
					origin = model.CandidateOriginPhrase
				}
				candidates = append(candidates, model.CandidateTerm{
					Surface:    surface,
					Normalized: lexicon.Normalize(surface),
					Origin:     origin,
				})
			}
		}
	}

	return candidates
}
