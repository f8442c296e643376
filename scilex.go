package scilex

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/scilex/core/pipeline"
	"github.com/siherrmann/scilex/core/resolve"
	"github.com/siherrmann/scilex/database"
	"github.com/siherrmann/scilex/helper"
	"github.com/siherrmann/scilex/lexicon"
	"github.com/siherrmann/scilex/model"
	"github.com/siherrmann/scilex/ontology"
	loadSql "github.com/siherrmann/scilex/sql"
)

// Scilex converts positioned-word extractor output into an annotated token
// stream: phrase reconstruction, candidate filtering, definition resolution
// and annotation merging.
type Scilex struct {
	Lexicon  *lexicon.Lexicon
	Pipeline *pipeline.Pipeline
	Resolver *resolve.Resolver
	// Optional database-backed glossary
	DB      *helper.Database
	Entries *database.LexiconDBHandler
	// Configuration
	PipelineConfig model.PipelineConfig
	ResolverConfig model.ResolverConfig
	// Logging
	log *slog.Logger
}

// NewScilex creates an annotator backed by the embedded glossary and the
// default external ontology service
func NewScilex(pipelineConfig model.PipelineConfig, resolverConfig model.ResolverConfig) (*Scilex, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	lex, err := lexicon.Load()
	if err != nil {
		return nil, helper.NewError("load embedded lexicon", err)
	}

	searcher := ontology.NewClient(ontology.DefaultBaseURL, resolverConfig.LookupTimeout, logger)

	return &Scilex{
		Lexicon:        lex,
		Pipeline:       pipeline.NewPipeline(lex, pipelineConfig, logger),
		Resolver:       resolve.NewResolver(lex, searcher, resolverConfig, pipelineConfig, logger),
		PipelineConfig: pipelineConfig,
		ResolverConfig: resolverConfig,
		log:            logger,
	}, nil
}

// NewScilexWithDatabase creates an annotator whose glossary is extended with
// entries and synonyms from Postgres. The embedded glossary stays as the
// baseline; database rows override it where terms collide.
func NewScilexWithDatabase(config *helper.DatabaseConfiguration, pipelineConfig model.PipelineConfig, resolverConfig model.ResolverConfig) (*Scilex, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("scilex", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	entries, err := database.NewLexiconDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create lexicon handler", err)
	}

	lex, err := lexicon.Load()
	if err != nil {
		return nil, helper.NewError("load embedded lexicon", err)
	}

	rows, err := entries.SelectAllEntries()
	if err != nil {
		return nil, helper.NewError("load lexicon entries from database", err)
	}
	synonymRows, err := entries.SelectAllSynonyms()
	if err != nil {
		return nil, helper.NewError("load lexicon synonyms from database", err)
	}

	dbEntries := make([]*lexicon.Entry, 0, len(rows))
	for _, row := range rows {
		dbEntries = append(dbEntries, &lexicon.Entry{
			Term:       row.Term,
			Label:      row.Label,
			Definition: row.Definition,
			IRI:        row.IRI,
			Metadata:   row.Metadata,
		})
	}
	dbSynonyms := make(map[string]string, len(synonymRows))
	for _, row := range synonymRows {
		dbSynonyms[row.Variant] = row.Canonical
	}
	lex = lex.WithEntries(dbEntries).WithSynonyms(dbSynonyms)

	logger.Info("Loaded database lexicon",
		slog.Int("entries", len(dbEntries)),
		slog.Int("synonyms", len(dbSynonyms)))

	searcher := ontology.NewClient(ontology.DefaultBaseURL, resolverConfig.LookupTimeout, logger)

	return &Scilex{
		Lexicon:        lex,
		Pipeline:       pipeline.NewPipeline(lex, pipelineConfig, logger),
		Resolver:       resolve.NewResolver(lex, searcher, resolverConfig, pipelineConfig, logger),
		DB:             db,
		Entries:        entries,
		PipelineConfig: pipelineConfig,
		ResolverConfig: resolverConfig,
		log:            logger,
	}, nil
}

// Close closes the database connection if one is open
func (s *Scilex) Close() error {
	if s.DB != nil && s.DB.Instance != nil {
		return s.DB.Instance.Close()
	}
	return nil
}

// SetSearcher replaces the external term-search dependency, e.g. with a
// different service endpoint or a stub
func (s *Scilex) SetSearcher(searcher resolve.Searcher) {
	s.Resolver = resolve.NewResolver(s.Lexicon, searcher, s.ResolverConfig, s.PipelineConfig, s.log)
}

// UseDefaultRecognizer wires the model-based candidate recognizer into the
// pipeline. This downloads the NER model on first use.
func (s *Scilex) UseDefaultRecognizer() error {
	recognizer, err := pipeline.DefaultCandidateRecognizer()
	if err != nil {
		return helper.NewError("create default recognizer", err)
	}
	s.Pipeline.SetRecognizer(recognizer)
	return nil
}

// AnnotateDocument runs the full annotation pass over a document's pages:
// 1. Per-page normalization, reading-order sorting, hyphen merging and
//    phrase grouping
// 2. Candidate collection across all pages
// 3. Definition resolution with bounded concurrent external lookups
// 4. Per-page merging of resolved definitions onto words and phrases
// Page metadata (dimensions, image URL) is passed through untouched.
func (s *Scilex) AnnotateDocument(ctx context.Context, pages []model.Page) ([]*model.AnnotatedPage, error) {
	if len(pages) == 0 {
		return nil, helper.NewError("annotate document", fmt.Errorf("document has no pages"))
	}

	requestID := uuid.New()
	s.log.Info("Annotating document",
		slog.String("request_id", requestID.String()),
		slog.Int("pages", len(pages)))

	results := make([]*pipeline.PageResult, len(pages))
	dropped := 0
	for i, page := range pages {
		results[i] = s.Pipeline.ProcessPage(page.Words, page.PageNumber)
		dropped += results[i].Dropped
	}
	if dropped > 0 {
		s.log.Warn("Dropped malformed extractor records",
			slog.String("request_id", requestID.String()),
			slog.Int("dropped", dropped))
	}

	candidates := s.Pipeline.Candidates(results)
	table := s.Resolver.Resolve(ctx, candidates)

	annotated := make([]*model.AnnotatedPage, len(pages))
	for i, page := range pages {
		words, phrases := resolve.MergePage(results[i], table, s.PipelineConfig.SingleAttachment)
		annotated[i] = &model.AnnotatedPage{
			PageNumber: page.PageNumber,
			Width:      page.Width,
			Height:     page.Height,
			ImageURL:   page.ImageURL,
			Words:      words,
			Phrases:    phrases,
		}
	}

	s.log.Info("Annotated document",
		slog.String("request_id", requestID.String()),
		slog.Int("candidates", len(candidates)),
		slog.Int("matched", table.Len()))

	return annotated, nil
}
