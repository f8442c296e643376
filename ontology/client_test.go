package ontology

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, 2*time.Second, slog.New(slog.DiscardHandler))
}

func respond(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}

func TestClientSearch(t *testing.T) {
	t.Run("Exact label match wins outright", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/search", r.URL.Path)
			assert.Equal(t, "biofilm", r.URL.Query().Get("q"))
			respond(t, w, `{"response":{"docs":[
				{"label":"biofilm formation","description":["Formation of a biofilm."],"iri":"http://example.org/1","ontology_prefix":"GO"},
				{"label":"Biofilm","description":["An aggregate of microorganisms."],"iri":"http://example.org/2","ontology_prefix":"NCIT"}
			]}}`)
		})

		result := client.Search(context.Background(), "biofilm")
		require.Equal(t, StatusHit, result.Status)
		assert.Equal(t, "Biofilm", result.Hit.Label, "Expected the exact match despite its position")
		assert.Equal(t, "An aggregate of microorganisms.", result.Hit.Definition)
		assert.Equal(t, "http://example.org/2", result.Hit.IRI)
	})

	t.Run("Fuzzy match prefers allow-listed ontologies", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, `{"response":{"docs":[
				{"label":"quorum sensing system","description":["From an obscure ontology."],"ontology_prefix":"XYZ"},
				{"label":"regulation of quorum sensing","description":["From the gene ontology."],"ontology_prefix":"GO"}
			]}}`)
		})

		result := client.Search(context.Background(), "quorum sensing")
		require.Equal(t, StatusHit, result.Status)
		assert.Equal(t, "regulation of quorum sensing", result.Hit.Label)
	})

	t.Run("Fuzzy match falls back to first containing candidate", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, `{"response":{"docs":[
				{"label":"unrelated term","description":["Nope."],"ontology_prefix":"XYZ"},
				{"label":"quorum sensing system","description":["First containing match."],"ontology_prefix":"ABC"}
			]}}`)
		})

		result := client.Search(context.Background(), "quorum sensing")
		require.Equal(t, StatusHit, result.Status)
		assert.Equal(t, "quorum sensing system", result.Hit.Label)
	})

	t.Run("Candidates without definitions are skipped", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, `{"response":{"docs":[
				{"label":"biofilm","ontology_prefix":"GO"}
			]}}`)
		})

		result := client.Search(context.Background(), "biofilm")
		assert.Equal(t, StatusNoMatch, result.Status, "Expected a definition-less doc to resolve nothing")
	})

	t.Run("Alternative prefLabel and @id field names are accepted", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, `{"response":{"docs":[
				{"prefLabel":"pathogen","definition":["A disease-causing agent."],"@id":"http://example.org/pathogen","ontology_prefix":"NCIT"}
			]}}`)
		})

		result := client.Search(context.Background(), "pathogen")
		require.Equal(t, StatusHit, result.Status)
		assert.Equal(t, "pathogen", result.Hit.Label)
		assert.Equal(t, "A disease-causing agent.", result.Hit.Definition)
		assert.Equal(t, "http://example.org/pathogen", result.Hit.IRI)
	})

	t.Run("Empty result set is a miss", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, `{"response":{"docs":[]}}`)
		})

		result := client.Search(context.Background(), "xqzt")
		assert.Equal(t, StatusNoMatch, result.Status)
	})

	t.Run("Server error degrades to error status", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal error", http.StatusInternalServerError)
		})

		result := client.Search(context.Background(), "biofilm")
		assert.Equal(t, StatusError, result.Status)
	})

	t.Run("Malformed response degrades to error status", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			respond(t, w, `{"response":{"docs":[`)
		})

		result := client.Search(context.Background(), "biofilm")
		assert.Equal(t, StatusError, result.Status)
	})

	t.Run("Timeout degrades to error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		t.Cleanup(server.Close)
		client := NewClient(server.URL, 20*time.Millisecond, slog.New(slog.DiscardHandler))

		result := client.Search(context.Background(), "biofilm")
		assert.Equal(t, StatusError, result.Status)
		assert.Error(t, result.Err)
	})

	t.Run("Cancelled context degrades to error status", func(t *testing.T) {
		client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		result := client.Search(ctx, "biofilm")
		assert.Equal(t, StatusError, result.Status)
	})
}
