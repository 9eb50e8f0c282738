package storage

import (
	"context"
	"fmt"

	"github.com/frsuministros/orderflow/internal/common"
	"github.com/frsuministros/orderflow/internal/model"
)

// SaveBatch appends a published batch to the prediction history and prunes
// rows beyond the retention limit. History is advisory; the current batch
// lives in the publisher, not here.
func (s *Store) SaveBatch(ctx context.Context, batch []model.Prediction) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin history write: %v", common.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range batch {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO predictions (source_id, description, predicted_code, confidence, quantity)
			VALUES (?, ?, ?, ?, ?)
		`, p.SourceID, p.Description, p.PredictedCode, p.Confidence, p.Quantity); err != nil {
			return fmt.Errorf("%w: save prediction: %v", common.ErrPersistence, err)
		}
	}

	// Count-based retention: keep the newest historyLimit rows.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM predictions
		WHERE id NOT IN (SELECT id FROM predictions ORDER BY id DESC LIMIT ?)
	`, s.historyLimit); err != nil {
		return fmt.Errorf("%w: prune history: %v", common.ErrPersistence, err)
	}

	return tx.Commit()
}

// HistoryCount reports how many prediction rows are retained.
func (s *Store) HistoryCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}
