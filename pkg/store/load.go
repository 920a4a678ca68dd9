package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/erinpentecost/markovr/pkg/markov"
)

// Load rebuilds the model stored under the given name. It returns
// sql.ErrNoRows when no model with that name exists.
func (s *Store[T]) Load(ctx context.Context, name string) (*markov.Model[T], error) {
	var modelID, order int
	var optJSON string
	if err := s.stmtGetModel.QueryRowContext(ctx, name).Scan(&modelID, &order, &optJSON); err != nil {
		return nil, err
	}

	var optional []int
	if err := json.Unmarshal([]byte(optJSON), &optional); err != nil {
		return nil, fmt.Errorf("could not decode optional positions for '%s': %w", name, err)
	}

	elems, err := s.loadElements(ctx, modelID)
	if err != nil {
		return nil, err
	}

	rows, err := s.stmtGetWeights.QueryContext(ctx, modelID)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	// Weight rows arrive ungrouped; collect them per context key
	// before rebuilding.
	contexts := make(map[string]*markov.ExportedContext[T])
	var contextOrder []string
	for rows.Next() {
		var contextKey string
		var elemID int
		var weight int64
		if err = rows.Scan(&contextKey, &elemID, &weight); err != nil {
			return nil, err
		}

		c, ok := contexts[contextKey]
		if !ok {
			key, err := s.decodeContextKey(contextKey, elems)
			if err != nil {
				return nil, fmt.Errorf("model '%s': %w", name, err)
			}
			c = &markov.ExportedContext[T]{Key: key}
			contexts[contextKey] = c
			contextOrder = append(contextOrder, contextKey)
		}

		elem, ok := elems[elemID]
		if !ok {
			return nil, fmt.Errorf("model '%s': weight row references unknown element %d", name, elemID)
		}
		c.Items = append(c.Items, markov.ExportedItem[T]{Element: elem, Weight: uint64(weight)})
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	snap := markov.ExportedModel[T]{
		Order:             order,
		OptionalPositions: optional,
		Contexts:          make([]markov.ExportedContext[T], 0, len(contexts)),
	}
	for _, key := range contextOrder {
		snap.Contexts = append(snap.Contexts, *contexts[key])
	}

	s.logger.InfoContext(ctx, "Model loaded",
		slog.String("model_name", name),
		slog.Int("model_id", modelID),
		slog.Int("contexts_loaded", len(snap.Contexts)),
	)

	return markov.Restore(snap)
}

func (s *Store[T]) loadElements(ctx context.Context, modelID int) (map[int]T, error) {
	rows, err := s.stmtGetElems.QueryContext(ctx, modelID)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	elems := make(map[int]T)
	for rows.Next() {
		var id int
		var encoded string
		if err = rows.Scan(&id, &encoded); err != nil {
			return nil, err
		}
		var elem T
		if err = json.Unmarshal([]byte(encoded), &elem); err != nil {
			return nil, fmt.Errorf("could not decode element %d: %w", id, err)
		}
		elems[id] = elem
	}
	return elems, rows.Err()
}

func (s *Store[T]) decodeContextKey(contextKey string, elems map[int]T) ([]*T, error) {
	if contextKey == "" {
		// The empty key of an order-0 model.
		return []*T{}, nil
	}
	slots := strings.Split(contextKey, " ")
	key := make([]*T, len(slots))
	for i, slot := range slots {
		if slot == "_" {
			continue
		}
		id, err := strconv.Atoi(slot)
		if err != nil {
			return nil, fmt.Errorf("malformed context key '%s': %w", contextKey, err)
		}
		elem, ok := elems[id]
		if !ok {
			return nil, fmt.Errorf("context key '%s' references unknown element %d", contextKey, id)
		}
		key[i] = &elem
	}
	return key, nil
}

// List retrieves metadata for all models currently in the database,
// returning them in a map keyed by model name.
func (s *Store[T]) List(ctx context.Context) (map[string]ModelInfo, error) {
	rows, err := s.stmtGetModels.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	models := make(map[string]ModelInfo)
	for rows.Next() {
		var info ModelInfo
		if err = rows.Scan(&info.Id, &info.Name, &info.Order); err != nil {
			return nil, err
		}
		models[info.Name] = info
	}
	return models, rows.Err()
}

// Delete removes a stored model and all of its associated vocabulary
// and weight rows. The operation is performed within a transaction.
func (s *Store[T]) Delete(ctx context.Context, info ModelInfo) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for delete: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.StmtContext(ctx, s.stmtDeleteLinks).ExecContext(ctx, info.Id); err != nil {
		return fmt.Errorf("failed to remove weights for model %d: %w", info.Id, err)
	}
	if _, err = tx.StmtContext(ctx, s.stmtDeleteElems).ExecContext(ctx, info.Id); err != nil {
		return fmt.Errorf("failed to remove elements for model %d: %w", info.Id, err)
	}
	if _, err = tx.StmtContext(ctx, s.stmtDeleteModel).ExecContext(ctx, info.Id); err != nil {
		return fmt.Errorf("failed to remove model %d: %w", info.Id, err)
	}

	s.logger.InfoContext(ctx, "Model removed successfully",
		slog.String("model_name", info.Name),
		slog.Int("model_id", info.Id),
	)

	return tx.Commit()
}
