package model

// Page is one page of extractor output, as received from the layout
// extraction collaborator. ImageURL is an opaque rendered-page reference
// passed through untouched.
type Page struct {
	PageNumber int       `json:"page_number"`
	Width      float64   `json:"width,omitempty"`
	Height     float64   `json:"height,omitempty"`
	ImageURL   string    `json:"image_url,omitempty"`
	Words      []RawWord `json:"words"`
}

// AnnotatedWord is a positioned word with an optional attached definition.
// Skip marks words already covered by a phrase-level annotation so a renderer
// does not highlight them twice.
type AnnotatedWord struct {
	PositionedWord
	Label      string    `json:"label,omitempty"`
	Definition string    `json:"definition,omitempty"`
	Source     HitSource `json:"source,omitempty"`
	IRI        string    `json:"iri,omitempty"`
	Skip       bool      `json:"skip,omitempty"`
}

// AnnotatedPhrase is a reconstructed phrase with an optional attached definition
type AnnotatedPhrase struct {
	Text       string           `json:"text"`
	Words      []PositionedWord `json:"words"`
	Label      string           `json:"label,omitempty"`
	Definition string           `json:"definition,omitempty"`
	Source     HitSource        `json:"source,omitempty"`
	IRI        string           `json:"iri,omitempty"`
}

// AnnotatedPage is the per-page output of the annotation pipeline
type AnnotatedPage struct {
	PageNumber int                `json:"page_number"`
	Width      float64            `json:"width,omitempty"`
	Height     float64            `json:"height,omitempty"`
	ImageURL   string             `json:"image_url,omitempty"`
	Words      []*AnnotatedWord   `json:"words"`
	Phrases    []*AnnotatedPhrase `json:"phrases"`
}
