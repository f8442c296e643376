package ontology

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultBaseURL is the OLS4 term search endpoint
const DefaultBaseURL = "https://www.ebi.ac.uk/ols4/api"

// defaultAllowList prefers hits from biological and biomedical ontologies
// before falling back to whatever the search returned first.
var defaultAllowList = []string{
	"go", "ncbitaxon", "ncit", "mondo", "doid", "mesh",
	"efo", "chebi", "so", "pato", "uberon", "hp",
}

// Status classifies the outcome of a term search. A transport error and a
// miss both mean "no definition" to the resolver, but they are kept apart so
// failures stay observable in logs.
type Status int

const (
	StatusHit Status = iota
	StatusNoMatch
	StatusError
)

// Hit is one resolved ontology term
type Hit struct {
	Label          string `json:"label"`
	Definition     string `json:"definition"`
	IRI            string `json:"iri,omitempty"`
	OntologyPrefix string `json:"ontology_prefix,omitempty"`
}

// Result is the outcome of a single term search
type Result struct {
	Status Status
	Hit    *Hit
	Err    error
}

// searchResponse mirrors the OLS4 search wire format. The alternative
// prefLabel/@id field names used by BioPortal-shaped services are accepted
// on the same document type.
type searchResponse struct {
	Response struct {
		Docs []searchDoc `json:"docs"`
	} `json:"response"`
}

type searchDoc struct {
	Label          string   `json:"label"`
	PrefLabel      string   `json:"prefLabel"`
	Description    []string `json:"description"`
	Definition     []string `json:"definition"`
	IRI            string   `json:"iri"`
	ID             string   `json:"@id"`
	OntologyPrefix string   `json:"ontology_prefix"`
}

func (d searchDoc) label() string {
	if d.Label != "" {
		return d.Label
	}
	return d.PrefLabel
}

func (d searchDoc) definition() string {
	if len(d.Description) > 0 {
		return strings.TrimSpace(d.Description[0])
	}
	if len(d.Definition) > 0 {
		return strings.TrimSpace(d.Definition[0])
	}
	return ""
}

func (d searchDoc) iri() string {
	if d.IRI != "" {
		return d.IRI
	}
	return d.ID
}

// Client queries a remote term-search service for scientific term
// definitions. It is safe for concurrent use.
type Client struct {
	client    *resty.Client
	allowList map[string]bool
	log       *slog.Logger
}

// NewClient creates a term-search client against baseURL with a hard
// per-request timeout
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	allowList := make(map[string]bool, len(defaultAllowList))
	for _, prefix := range defaultAllowList {
		allowList[prefix] = true
	}

	return &Client{
		client:    client,
		allowList: allowList,
		log:       logger,
	}
}

// Search looks up a normalized term. Selection is two-stage: an exact
// case-insensitive label match with a non-empty definition wins outright;
// otherwise the first candidate whose label contains the term, preferring
// candidates from the ontology allow list. Every transport or decoding
// failure degrades to StatusError, never to a returned error.
func (c *Client) Search(ctx context.Context, term string) Result {
	var body searchResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":           term,
			"queryFields": "label",
			"fields":      "label,description,iri,ontology_prefix",
			"exact":       "false",
		}).
		SetResult(&body).
		Get("/search")
	if err != nil {
		c.log.Debug("Ontology search failed", slog.String("term", term), slog.String("error", err.Error()))
		return Result{Status: StatusError, Err: err}
	}
	if resp.IsError() {
		c.log.Debug("Ontology search returned error status", slog.String("term", term), slog.Int("status", resp.StatusCode()))
		return Result{Status: StatusError}
	}

	docs := body.Response.Docs
	if len(docs) == 0 {
		return Result{Status: StatusNoMatch}
	}

	// Stage 1: exact label match
	for _, doc := range docs {
		if strings.EqualFold(doc.label(), term) && doc.definition() != "" {
			return Result{Status: StatusHit, Hit: c.toHit(doc)}
		}
	}

	// Stage 2: filtered fuzzy match, allow-listed ontologies first
	var fallback *searchDoc
	for i, doc := range docs {
		if !strings.Contains(strings.ToLower(doc.label()), strings.ToLower(term)) {
			continue
		}
		if doc.definition() == "" {
			continue
		}
		if c.allowList[strings.ToLower(doc.OntologyPrefix)] {
			return Result{Status: StatusHit, Hit: c.toHit(doc)}
		}
		if fallback == nil {
			fallback = &docs[i]
		}
	}
	if fallback != nil {
		return Result{Status: StatusHit, Hit: c.toHit(*fallback)}
	}

	return Result{Status: StatusNoMatch}
}

func (c *Client) toHit(doc searchDoc) *Hit {
	return &Hit{
		Label:          doc.label(),
		Definition:     doc.definition(),
		IRI:            doc.iri(),
		OntologyPrefix: doc.OntologyPrefix,
	}
}
