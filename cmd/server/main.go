package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/siherrmann/scilex"
	"github.com/siherrmann/scilex/helper"
	"github.com/siherrmann/scilex/model"
)

// maxRequestBytes caps the request body size; extractor output for large
// documents runs to a few megabytes per hundred pages
const maxRequestBytes = 50 << 20

type annotateRequest struct {
	Pages []model.Page `json:"pages"`
}

type annotateResponse struct {
	Pages []*model.AnnotatedPage `json:"pages"`
}

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	pipelineConfig := model.DefaultPipelineConfig()
	if highRecall, err := strconv.ParseBool(os.Getenv("HIGH_RECALL")); err == nil {
		pipelineConfig.HighRecall = highRecall
	}
	if singleAttachment, err := strconv.ParseBool(os.Getenv("SINGLE_ATTACHMENT")); err == nil {
		pipelineConfig.SingleAttachment = singleAttachment
	}
	resolverConfig := model.DefaultResolverConfig()

	annotator, err := newAnnotator(pipelineConfig, resolverConfig)
	if err != nil {
		log.Fatalf("error creating annotator: %v", err)
	}
	defer annotator.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /annotate", handleAnnotate(annotator))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(mux)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Listening on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// newAnnotator builds the annotator, backed by Postgres when database
// configuration is present in the environment
func newAnnotator(pipelineConfig model.PipelineConfig, resolverConfig model.ResolverConfig) (*scilex.Scilex, error) {
	if os.Getenv("DB_HOST") != "" {
		dbConfig, err := helper.NewDatabaseConfiguration()
		if err != nil {
			return nil, err
		}
		return scilex.NewScilexWithDatabase(dbConfig, pipelineConfig, resolverConfig)
	}
	return scilex.NewScilex(pipelineConfig, resolverConfig)
}

func handleAnnotate(annotator *scilex.Scilex) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

		var request annotateRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(request.Pages) == 0 {
			http.Error(w, "document has no pages", http.StatusBadRequest)
			return
		}

		pages, err := annotator.AnnotateDocument(r.Context(), request.Pages)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(annotateResponse{Pages: pages}); err != nil {
			log.Printf("error encoding response: %v", err)
		}
	}
}
