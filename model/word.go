package model

// RawWord is one positioned word record as produced by a layout extractor.
// Different extractors disagree on the coordinate shape, so the second corner
// point (X1/Y1) is accepted as an alternative to Width/Height.
// Pointer fields distinguish "missing" from zero.
type RawWord struct {
	Text   string   `json:"text"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	X1     *float64 `json:"x1,omitempty"`
	Y1     *float64 `json:"y1,omitempty"`
}

// PositionedWord is the canonical word record used by the pipeline.
// Coordinates use a top-left origin with width/height in document units.
// A PositionedWord is never mutated in place once created; the phrase
// reconstructor copies or merges records instead.
type PositionedWord struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Page   int     `json:"page"`
}
