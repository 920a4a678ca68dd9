package store

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
)

// SetupSchema initializes the tables used for model persistence. It
// should be called once on a new database before any other operations
// are performed. It is idempotent and safe to call on an
// already-initialized database.
func SetupSchema(db *sql.DB) error {
	const (
		schemaModels = `
CREATE TABLE IF NOT EXISTS markov_models (
    model_id INTEGER PRIMARY KEY,
    model_name TEXT NOT NULL UNIQUE,
    model_order INTEGER NOT NULL,
    optional_positions TEXT NOT NULL
);
`
		schemaElements = `
CREATE TABLE IF NOT EXISTS markov_elements (
    model_id INTEGER NOT NULL,
    elem_id INTEGER NOT NULL,
    elem_json TEXT NOT NULL,
    PRIMARY KEY (model_id, elem_id)
);
`
		schemaWeights = `
CREATE TABLE IF NOT EXISTS markov_weights (
    model_id INTEGER NOT NULL,
    context_key TEXT NOT NULL,
    elem_id INTEGER NOT NULL,
    weight INTEGER NOT NULL,
    PRIMARY KEY (model_id, context_key, elem_id)
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	for _, schema := range []string{schemaModels, schemaElements, schemaWeights} {
		if _, err = tx.Exec(schema); err != nil {
			return fmt.Errorf("could not create schema: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// ModelInfo holds the stored metadata for a persisted model.
type ModelInfo struct {
	Id    int
	Name  string
	Order int
}

// Store reads and writes markov models for one element type. It holds
// the database connection and prepared SQL statements for efficient
// reuse.
type Store[T comparable] struct {
	db               *sql.DB
	stmtGetModel     *sql.Stmt
	stmtGetModels    *sql.Stmt
	stmtUpsertModel  *sql.Stmt
	stmtDeleteElems  *sql.Stmt
	stmtDeleteLinks  *sql.Stmt
	stmtDeleteModel  *sql.Stmt
	stmtInsertElem   *sql.Stmt
	stmtInsertWeight *sql.Stmt
	stmtGetElems     *sql.Stmt
	stmtGetWeights   *sql.Stmt
	logger           *slog.Logger
}

// New creates a Store over a database that has already been prepared
// with SetupSchema. It pre-compiles all necessary SQL statements,
// returning an error if any preparation fails.
func New[T comparable](db *sql.DB) (*Store[T], error) {
	stmtGetModel, err := db.Prepare(`SELECT model_id, model_order, optional_positions FROM markov_models WHERE model_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetModels, err := db.Prepare(`SELECT model_id, model_name, model_order FROM markov_models;`)
	if err != nil {
		return nil, err
	}

	stmtUpsertModel, err := db.Prepare(`
INSERT INTO markov_models (model_name, model_order, optional_positions) VALUES (?, ?, ?)
ON CONFLICT(model_name) DO UPDATE SET model_order = excluded.model_order, optional_positions = excluded.optional_positions
RETURNING model_id;`)
	if err != nil {
		return nil, err
	}

	stmtDeleteElems, err := db.Prepare(`DELETE FROM markov_elements WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtDeleteLinks, err := db.Prepare(`DELETE FROM markov_weights WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtDeleteModel, err := db.Prepare(`DELETE FROM markov_models WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtInsertElem, err := db.Prepare(`INSERT INTO markov_elements (model_id, elem_id, elem_json) VALUES (?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtInsertWeight, err := db.Prepare(`INSERT INTO markov_weights (model_id, context_key, elem_id, weight) VALUES (?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtGetElems, err := db.Prepare(`SELECT elem_id, elem_json FROM markov_elements WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetWeights, err := db.Prepare(`SELECT context_key, elem_id, weight FROM markov_weights WHERE model_id = ?;`)
	if err != nil {
		return nil, err
	}

	return &Store[T]{
		db:               db,
		stmtGetModel:     stmtGetModel,
		stmtGetModels:    stmtGetModels,
		stmtUpsertModel:  stmtUpsertModel,
		stmtDeleteElems:  stmtDeleteElems,
		stmtDeleteLinks:  stmtDeleteLinks,
		stmtDeleteModel:  stmtDeleteModel,
		stmtInsertElem:   stmtInsertElem,
		stmtInsertWeight: stmtInsertWeight,
		stmtGetElems:     stmtGetElems,
		stmtGetWeights:   stmtGetWeights,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store.
func (s *Store[T]) Close() {
	_ = s.stmtGetModel.Close()
	_ = s.stmtGetModels.Close()
	_ = s.stmtUpsertModel.Close()
	_ = s.stmtDeleteElems.Close()
	_ = s.stmtDeleteLinks.Close()
	_ = s.stmtDeleteModel.Close()
	_ = s.stmtInsertElem.Close()
	_ = s.stmtInsertWeight.Close()
	_ = s.stmtGetElems.Close()
	_ = s.stmtGetWeights.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are
// discarded.
func (s *Store[T]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}
