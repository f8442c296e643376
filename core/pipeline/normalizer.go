package pipeline

import (
	"strings"

	"github.com/siherrmann/scilex/model"
)

// DefaultNormalizer converts heterogeneous raw word records into canonical
// PositionedWord records with top-left origin and width/height coordinates.
// Records missing text or any coordinate are dropped silently per record; one
// malformed word never aborts a page.
func DefaultNormalizer() NormalizeFunc {
	return func(raw []model.RawWord, page int) ([]model.PositionedWord, int) {
		words := make([]model.PositionedWord, 0, len(raw))
		dropped := 0

		for _, r := range raw {
			word, ok := normalizeWord(r, page)
			if !ok {
				dropped++
				continue
			}
			words = append(words, word)
		}

		return words, dropped
	}
}

func normalizeWord(r model.RawWord, page int) (model.PositionedWord, bool) {
	if strings.TrimSpace(r.Text) == "" || r.X == nil || r.Y == nil {
		return model.PositionedWord{}, false
	}

	var width float64
	switch {
	case r.Width != nil:
		width = *r.Width
	case r.X1 != nil:
		width = *r.X1 - *r.X
	default:
		return model.PositionedWord{}, false
	}

	var height float64
	switch {
	case r.Height != nil:
		height = *r.Height
	case r.Y1 != nil:
		height = *r.Y1 - *r.Y
	default:
		return model.PositionedWord{}, false
	}

	return model.PositionedWord{
		Text:   r.Text,
		X:      *r.X,
		Y:      *r.Y,
		Width:  width,
		Height: height,
		Page:   page,
	}, true
}
