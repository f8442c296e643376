package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/scilex/helper"
	"github.com/siherrmann/scilex/model"
	"github.com/siherrmann/scilex/sql"
)

// LexiconDBHandlerFunctions defines the interface for lexicon database operations.
type LexiconDBHandlerFunctions interface {
	InsertEntry(entry *model.LexiconEntry) error
	SelectEntryByTerm(term string) (*model.LexiconEntry, error)
	SelectAllEntries() ([]*model.LexiconEntry, error)
	DeleteEntry(rid uuid.UUID) error
	InsertSynonym(synonym *model.LexiconSynonym) error
	SelectAllSynonyms() ([]*model.LexiconSynonym, error)
}

// LexiconDBHandler handles glossary-related database operations
type LexiconDBHandler struct {
	db *helper.Database
}

// NewLexiconDBHandler creates a new lexicon database handler.
// It initializes the database connection and loads lexicon-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewLexiconDBHandler(db *helper.Database, force bool) (*LexiconDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	lexiconDbHandler := &LexiconDBHandler{
		db: db,
	}

	err := sql.LoadLexiconSql(lexiconDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load lexicon sql", err)
	}

	err = lexiconDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized LexiconDBHandler")

	return lexiconDbHandler, nil
}

// CreateTable creates the 'lexicon_entries' and 'lexicon_synonyms' tables.
// If the tables already exist, it does not create them again.
func (h *LexiconDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_lexicon();`)
	if err != nil {
		log.Panicf("error initializing lexicon tables: %#v", err)
	}

	h.db.Logger.Info("Checked/created tables lexicon_entries and lexicon_synonyms")

	return nil
}

// InsertEntry inserts a new glossary entry. Inserting a term that already
// exists updates its definition.
func (h *LexiconDBHandler) InsertEntry(entry *model.LexiconEntry) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_lexicon_entry($1, $2, $3, $4, $5)`,
		entry.Term,
		entry.Label,
		entry.Definition,
		entry.IRI,
		entry.Metadata,
	)

	err := row.Scan(
		&entry.ID,
		&entry.RID,
		&entry.Term,
		&entry.Label,
		&entry.Definition,
		&entry.IRI,
		&entry.Metadata,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectEntryByTerm retrieves a glossary entry by its term, case-insensitively
func (h *LexiconDBHandler) SelectEntryByTerm(term string) (*model.LexiconEntry, error) {
	entry := &model.LexiconEntry{}
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_lexicon_entry_by_term($1)`,
		term,
	)

	err := row.Scan(
		&entry.ID,
		&entry.RID,
		&entry.Term,
		&entry.Label,
		&entry.Definition,
		&entry.IRI,
		&entry.Metadata,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return entry, nil
}

// SelectAllEntries retrieves all glossary entries
func (h *LexiconDBHandler) SelectAllEntries() ([]*model.LexiconEntry, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_lexicon_entries()`,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var entries []*model.LexiconEntry
	for rows.Next() {
		entry := &model.LexiconEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.RID,
			&entry.Term,
			&entry.Label,
			&entry.Definition,
			&entry.IRI,
			&entry.Metadata,
			&entry.CreatedAt,
			&entry.UpdatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		entries = append(entries, entry)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return entries, nil
}

// DeleteEntry deletes a glossary entry by RID
func (h *LexiconDBHandler) DeleteEntry(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_lexicon_entry($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// InsertSynonym inserts a synonym mapping. Inserting a variant that already
// exists updates its canonical form.
func (h *LexiconDBHandler) InsertSynonym(synonym *model.LexiconSynonym) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_lexicon_synonym($1, $2)`,
		synonym.Variant,
		synonym.Canonical,
	)

	err := row.Scan(
		&synonym.ID,
		&synonym.Variant,
		&synonym.Canonical,
		&synonym.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectAllSynonyms retrieves all synonym mappings
func (h *LexiconDBHandler) SelectAllSynonyms() ([]*model.LexiconSynonym, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_lexicon_synonyms()`,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var synonyms []*model.LexiconSynonym
	for rows.Next() {
		synonym := &model.LexiconSynonym{}
		err := rows.Scan(
			&synonym.ID,
			&synonym.Variant,
			&synonym.Canonical,
			&synonym.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		synonyms = append(synonyms, synonym)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return synonyms, nil
}
