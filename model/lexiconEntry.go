package model

import (
	"time"

	"github.com/google/uuid"
)

// LexiconEntry is a glossary definition row stored in the database. Rows are
// loaded once at startup and layered over the embedded glossary.
type LexiconEntry struct {
	ID         int       `json:"id"`
	RID        uuid.UUID `json:"rid"`
	Term       string    `json:"term"`
	Label      string    `json:"label"`
	Definition string    `json:"definition"`
	IRI        string    `json:"iri,omitempty"`
	Metadata   Metadata  `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LexiconSynonym maps a term variant to the canonical form under which the
// definition is stored
type LexiconSynonym struct {
	ID        int       `json:"id"`
	Variant   string    `json:"variant"`
	Canonical string    `json:"canonical"`
	CreatedAt time.Time `json:"created_at"`
}
