package pipeline

import (
	"testing"

	"github.com/siherrmann/scilex/lexicon"
	"github.com/siherrmann/scilex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLexicon(t *testing.T) *lexicon.Lexicon {
	t.Helper()
	lex, err := lexicon.Load()
	require.NoError(t, err, "failed to load embedded lexicon")
	return lex
}

func TestDefaultWordFilter(t *testing.T) {
	lex := testLexicon(t)
	filter := DefaultWordFilter(lex, model.DefaultPipelineConfig())

	t.Run("Accept morpheme-bearing lowercase words", func(t *testing.T) {
		assert.True(t, filter("biofilm"), "Expected allowed lowercase term to pass")
		assert.True(t, filter("polymerase"), "Expected -ase suffix to pass")
		assert.True(t, filter("microbiology"), "Expected micro- prefix to pass")
		assert.True(t, filter("dermatitis"), "Expected -itis suffix to pass")
	})

	t.Run("Accept capitalized taxonomic names", func(t *testing.T) {
		assert.True(t, filter("Salmonella"), "Expected -ella suffix to pass")
		assert.True(t, filter("Lactobacillus"), "Expected -illus suffix to pass")
		assert.True(t, filter("Pseudomonas"), "Expected -monas suffix to pass")
		assert.True(t, filter("Mycoplasma"), "Expected myco- prefix to pass")
	})

	t.Run("Accept gene and strain designations", func(t *testing.T) {
		assert.True(t, filter("TP53"), "Expected gene-like token to pass")
		assert.True(t, filter("E2F1"), "Expected strain-like token to pass")
		assert.True(t, filter("K12"), "Expected strain designation to pass")
	})

	t.Run("Reject stopwords and common verbs", func(t *testing.T) {
		assert.False(t, filter("causes"), "Expected common verb to be rejected")
		assert.False(t, filter("the"))
		assert.False(t, filter("respectively"))
	})

	t.Run("Reject author names", func(t *testing.T) {
		assert.False(t, filter("Smith"), "Expected capitalized word without morpheme to be rejected")
		assert.False(t, filter("Johnson,"), "Expected author-with-comma shape to be rejected")
	})

	t.Run("Reject bare acronyms and numbers", func(t *testing.T) {
		assert.False(t, filter("DNA"))
		assert.False(t, filter("2024"))
		assert.False(t, filter("ab"), "Expected short token to be rejected")
	})

	t.Run("Punctuation is stripped before checks", func(t *testing.T) {
		assert.True(t, filter("(biofilm)"), "Expected surrounding punctuation to be ignored")
	})

	t.Run("High recall accepts long alphabetic words", func(t *testing.T) {
		highRecall := model.DefaultPipelineConfig()
		highRecall.HighRecall = true
		recallFilter := DefaultWordFilter(lex, highRecall)

		assert.False(t, filter("membrane"), "Expected plain word to be rejected in precision mode")
		assert.True(t, recallFilter("membrane"), "Expected plain long word to pass in high recall mode")
		assert.False(t, recallFilter("causes"), "Expected stopwords to stay rejected in high recall mode")
	})
}

func TestDefaultPhraseFilter(t *testing.T) {
	lex := testLexicon(t)
	filter := DefaultPhraseFilter(lex, model.DefaultPipelineConfig())

	t.Run("Accept species binomials", func(t *testing.T) {
		assert.True(t, filter("Escherichia coli"))
		assert.True(t, filter("E. coli"), "Expected abbreviated species to pass")
	})

	t.Run("Accept strain and serotype phrases", func(t *testing.T) {
		assert.True(t, filter("strain K12"))
		assert.True(t, filter("serotype Typhimurium"))
	})

	t.Run("Accept phrases with a candidate constituent", func(t *testing.T) {
		assert.True(t, filter("biofilm formation"), "Expected phrase with allowed word to pass")
		assert.True(t, filter("otitis media"))
	})

	t.Run("Reject citations", func(t *testing.T) {
		assert.False(t, filter("Smith, 2019"), "Expected author-year citation to be rejected")
		assert.False(t, filter("Smith et al"), "Expected et al citation to be rejected")
		assert.False(t, filter("John Smith"), "Expected author pair to be rejected")
	})

	t.Run("Reject phrases of nothing but candidates-free words", func(t *testing.T) {
		assert.False(t, filter("were found here"))
		assert.False(t, filter(""))
	})
}

func TestNGrams(t *testing.T) {
	t.Run("Longest grams come first", func(t *testing.T) {
		grams := NGrams([]string{"otitis", "media", "infection"}, 5, 4)
		require.NotEmpty(t, grams)
		assert.Equal(t, "otitis media infection", grams[0])
		assert.Contains(t, grams, "otitis media")
		assert.Contains(t, grams, "media infection")
	})

	t.Run("Short grams are skipped", func(t *testing.T) {
		grams := NGrams([]string{"of", "gene"}, 5, 4)
		assert.NotContains(t, grams, "of", "Expected grams below the compacted length to be skipped")
		assert.Contains(t, grams, "gene")
	})

	t.Run("MaxN bounds the gram size", func(t *testing.T) {
		grams := NGrams([]string{"a1", "b2", "c3"}, 2, 4)
		assert.NotContains(t, grams, "a1 b2 c3")
		assert.Contains(t, grams, "a1 b2")
	})
}
