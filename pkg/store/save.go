package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/erinpentecost/markovr/pkg/markov"
)

// Save persists a model under the given name, replacing any
// previously stored state for that name. The entire operation is
// performed within a single transaction: model metadata is upserted,
// old vocabulary and weight rows are dropped, and the model's current
// snapshot is written out. Elements are stored by their JSON encoding,
// so the element type must round-trip through encoding/json.
func (s *Store[T]) Save(ctx context.Context, name string, m *markov.Model[T]) error {
	snap := m.Snapshot()

	optJSON, err := json.Marshal(snap.OptionalPositions)
	if err != nil {
		return fmt.Errorf("could not encode optional positions: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction for save: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var modelID int
	if err = tx.StmtContext(ctx, s.stmtUpsertModel).QueryRowContext(ctx, name, snap.Order, string(optJSON)).Scan(&modelID); err != nil {
		return fmt.Errorf("could not upsert model '%s': %w", name, err)
	}

	if _, err = tx.StmtContext(ctx, s.stmtDeleteElems).ExecContext(ctx, modelID); err != nil {
		return fmt.Errorf("could not clear elements for model %d: %w", modelID, err)
	}
	if _, err = tx.StmtContext(ctx, s.stmtDeleteLinks).ExecContext(ctx, modelID); err != nil {
		return fmt.Errorf("could not clear weights for model %d: %w", modelID, err)
	}

	stmtInsertElem := tx.StmtContext(ctx, s.stmtInsertElem)
	stmtInsertWeight := tx.StmtContext(ctx, s.stmtInsertWeight)

	// Elements get store-local IDs, assigned on first sight and
	// written to the per-model vocabulary table.
	elemIDs := make(map[T]int)
	elemID := func(e T) (int, error) {
		if id, ok := elemIDs[e]; ok {
			return id, nil
		}
		encoded, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("could not encode element: %w", err)
		}
		id := len(elemIDs)
		if _, err := stmtInsertElem.ExecContext(ctx, modelID, id, string(encoded)); err != nil {
			return 0, fmt.Errorf("could not insert element %d: %w", id, err)
		}
		elemIDs[e] = id
		return id, nil
	}

	var keyBuf []byte
	var weightRows int
	for _, c := range snap.Contexts {
		keyBuf = keyBuf[:0]
		for i, slot := range c.Key {
			if i > 0 {
				keyBuf = append(keyBuf, ' ')
			}
			if slot == nil {
				keyBuf = append(keyBuf, '_')
				continue
			}
			id, err := elemID(*slot)
			if err != nil {
				return err
			}
			keyBuf = strconv.AppendInt(keyBuf, int64(id), 10)
		}
		contextKey := string(keyBuf)

		for _, it := range c.Items {
			if it.Weight > math.MaxInt64 {
				return fmt.Errorf("weight %d in context '%s' exceeds storable range", it.Weight, contextKey)
			}
			id, err := elemID(it.Element)
			if err != nil {
				return err
			}
			if _, err := stmtInsertWeight.ExecContext(ctx, modelID, contextKey, id, int64(it.Weight)); err != nil {
				return fmt.Errorf("could not insert weight for context '%s': %w", contextKey, err)
			}
			weightRows++
		}
	}

	s.logger.InfoContext(ctx, "Model saved",
		slog.String("model_name", name),
		slog.Int("model_id", modelID),
		slog.Int("contexts_saved", len(snap.Contexts)),
		slog.Int("elements_saved", len(elemIDs)),
		slog.Int("weights_saved", weightRows),
	)

	return tx.Commit()
}
