package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"
)

//go:embed init.sql
var initSQL string

//go:embed lexicon.sql
var lexiconSQL string

// Function lists for verification
var LexiconFunctions = []string{
	"init_lexicon",
	"insert_lexicon_entry",
	"select_lexicon_entry_by_term",
	"select_all_lexicon_entries",
	"delete_lexicon_entry",
	"insert_lexicon_synonym",
	"select_all_lexicon_synonyms",
}

// Init intializes db extensions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadLexiconSql loads lexicon-related SQL functions
func LoadLexiconSql(db *sql.DB, force bool) error {
	if !force {
		exist, err := checkFunctions(db, LexiconFunctions)
		if err != nil {
			return fmt.Errorf("error checking existing lexicon functions: %w", err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(lexiconSQL)
	if err != nil {
		return fmt.Errorf("error executing lexicon SQL: %w", err)
	}

	exist, err := checkFunctions(db, LexiconFunctions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required SQL functions were created")
	}

	log.Println("SQL lexicon functions loaded successfully")
	return nil
}

// checkFunctions verifies that all required functions exist in the database
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	var allExist bool
	for _, f := range sqlFunctions {
		err := db.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM pg_proc WHERE proname = $1);`,
			f,
		).Scan(&allExist)
		if err != nil {
			return false, fmt.Errorf("error checking existence of function %s: %w", f, err)
		}
		if !allExist {
			log.Printf("Function %s does not exist", f)
			break
		}
	}
	return allExist, nil
}
