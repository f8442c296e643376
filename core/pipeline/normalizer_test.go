package pipeline

import (
	"testing"

	"github.com/siherrmann/scilex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestDefaultNormalizer(t *testing.T) {
	normalize := DefaultNormalizer()

	t.Run("Normalize width/height records", func(t *testing.T) {
		raw := []model.RawWord{
			{Text: "biofilm", X: f(10), Y: f(20), Width: f(40), Height: f(12)},
		}

		words, dropped := normalize(raw, 3)
		assert.Equal(t, 0, dropped, "Expected no dropped records")
		require.Len(t, words, 1)
		assert.Equal(t, "biofilm", words[0].Text)
		assert.Equal(t, 10.0, words[0].X)
		assert.Equal(t, 40.0, words[0].Width)
		assert.Equal(t, 12.0, words[0].Height)
		assert.Equal(t, 3, words[0].Page, "Expected page number to be set")
	})

	t.Run("Normalize corner-point records", func(t *testing.T) {
		raw := []model.RawWord{
			{Text: "agar", X: f(10), Y: f(20), X1: f(50), Y1: f(32)},
		}

		words, dropped := normalize(raw, 1)
		assert.Equal(t, 0, dropped)
		require.Len(t, words, 1)
		assert.Equal(t, 40.0, words[0].Width, "Expected width from corner point")
		assert.Equal(t, 12.0, words[0].Height, "Expected height from corner point")
	})

	t.Run("Drop malformed records without aborting the page", func(t *testing.T) {
		raw := []model.RawWord{
			{Text: "", X: f(10), Y: f(20), Width: f(40), Height: f(12)},
			{Text: "valid", X: f(10), Y: f(20), Width: f(40), Height: f(12)},
			{Text: "no-coords", Width: f(40), Height: f(12)},
			{Text: "no-size", X: f(10), Y: f(20)},
		}

		words, dropped := normalize(raw, 1)
		assert.Equal(t, 3, dropped, "Expected malformed records to be counted")
		require.Len(t, words, 1)
		assert.Equal(t, "valid", words[0].Text)
	})

	t.Run("Zero coordinates are valid", func(t *testing.T) {
		raw := []model.RawWord{
			{Text: "origin", X: f(0), Y: f(0), Width: f(10), Height: f(10)},
		}

		words, dropped := normalize(raw, 1)
		assert.Equal(t, 0, dropped, "Expected zero coordinates to be distinguished from missing")
		assert.Len(t, words, 1)
	})
}
