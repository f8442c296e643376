package resolve

import (
	"strings"

	"github.com/siherrmann/scilex/core/pipeline"
	"github.com/siherrmann/scilex/model"
)

// wordKey identifies a positioned word on a page. Phrases hold copies of the
// word structs, so geometric identity is used to find the shared annotated
// word a phrase member corresponds to.
type wordKey struct {
	text string
	x    float64
	y    float64
	page int
}

func keyFor(w model.PositionedWord) wordKey {
	return wordKey{text: w.Text, x: w.X, y: w.Y, page: w.Page}
}

// MergePage attaches resolved definitions to one page's words and phrases.
// Phrase-level hits decorate the phrase and its member words; with single
// attachment only the first member carries the definition and the rest are
// marked skipped. Word-fallback hits decorate only the member words whose
// text matches the resolved word. Standalone word hits attach only when the
// word itself was the candidate, so phrase-derived definitions never leak
// onto unrelated words.
func MergePage(result *pipeline.PageResult, table *model.ResolutionTable, singleAttachment bool) ([]*model.AnnotatedWord, []*model.AnnotatedPhrase) {
	words := make([]*model.AnnotatedWord, len(result.Words))
	index := make(map[wordKey]*model.AnnotatedWord, len(result.Words))
	for i, word := range result.Words {
		words[i] = &model.AnnotatedWord{PositionedWord: word}
		index[keyFor(word)] = words[i]
	}

	phrases := make([]*model.AnnotatedPhrase, 0, len(result.Phrases))
	for _, phrase := range result.Phrases {
		annotated := &model.AnnotatedPhrase{
			Text:  phrase.Text,
			Words: phrase.Words,
		}

		hit, ok := table.Lookup(phrase.Text)
		if ok && hit.Source == model.HitSourceWordFallback {
			attachWordHits(phrase, hit, index)
		} else if ok {
			annotated.Label = hit.Label
			annotated.Definition = hit.Definition
			annotated.Source = hit.Source
			annotated.IRI = hit.IRI
			attachPhraseHit(phrase, hit, index, singleAttachment)
		}

		phrases = append(phrases, annotated)
	}

	// Standalone word annotations fill in what phrase coverage left bare
	for _, word := range words {
		if word.Definition != "" || word.Skip {
			continue
		}
		hit, ok := table.Lookup(word.Text)
		if !ok || hit.Origin != model.CandidateOriginWord {
			continue
		}
		if hit.Source != model.HitSourceLocalWord && hit.Source != model.HitSourceOntology {
			continue
		}
		annotate(word, hit)
	}

	return words, phrases
}

// attachPhraseHit decorates a phrase's member words with the phrase-level
// definition. With single attachment only the first word gets the definition
// and later members are marked skipped.
func attachPhraseHit(phrase model.Phrase, hit *model.DefinitionHit, index map[wordKey]*model.AnnotatedWord, singleAttachment bool) {
	for i, member := range phrase.Words {
		word, ok := index[keyFor(member)]
		if !ok {
			continue
		}
		if singleAttachment && i > 0 {
			word.Skip = true
			continue
		}
		annotate(word, hit)
	}
}

// attachWordHits decorates only the phrase members whose text matches one of
// the resolved constituent words. Resolved words are normalized tokens, so
// the member text is stripped of punctuation before comparing.
func attachWordHits(phrase model.Phrase, hit *model.DefinitionHit, index map[wordKey]*model.AnnotatedWord) {
	for _, wordHit := range hit.WordHits {
		for _, member := range phrase.Words {
			if !strings.EqualFold(pipeline.StripToken(member.Text), wordHit.Word) {
				continue
			}
			if word, ok := index[keyFor(member)]; ok && word.Definition == "" {
				annotate(word, wordHit)
			}
		}
	}
}

func annotate(word *model.AnnotatedWord, hit *model.DefinitionHit) {
	word.Label = hit.Label
	word.Definition = hit.Definition
	word.Source = hit.Source
	word.IRI = hit.IRI
}
