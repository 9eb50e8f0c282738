package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/frsuministros/orderflow/internal/common"
	"github.com/frsuministros/orderflow/internal/normalize"
)

// Lookup returns the confirmed code for an exact normalized description.
func (s *Store) Lookup(normalizedDescription string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code, ok := s.confirmed[normalizedDescription]
	return code, ok
}

// All returns a copy of the confirmed override map.
func (s *Store) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.confirmed))
	for k, v := range s.confirmed {
		out[k] = v
	}
	return out
}

// Confirm records a human correction. The raw description is normalized,
// the override is written to the database and the JSON mirror inside one
// transaction scope, and only then does the in-memory map pick it up. A
// failure on either form leaves the previous flushed state intact and is
// reported to the caller.
func (s *Store) Confirm(ctx context.Context, rawDescription, code string) (string, error) {
	normalized := normalize.Normalize(rawDescription)
	if normalized == "" || code == "" {
		return "", fmt.Errorf("%w: empty description or code", common.ErrMalformedItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: begin confirm: %v", common.ErrPersistence, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO confirmed_matches (normalized_description, code)
		VALUES (?, ?)
		ON CONFLICT(normalized_description) DO UPDATE SET
			code = excluded.code,
			confirmed_at = CURRENT_TIMESTAMP
	`, normalized, code); err != nil {
		return "", fmt.Errorf("%w: save confirmed match: %v", common.ErrPersistence, err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO training_rows (description, code) VALUES (?, ?)
	`, rawDescription, code); err != nil {
		return "", fmt.Errorf("%w: save training row: %v", common.ErrPersistence, err)
	}

	// Regenerate the JSON mirror with the new entry before committing: if
	// the mirror cannot be written the transaction rolls back and neither
	// form moves.
	next := make(map[string]string, len(s.confirmed)+1)
	for k, v := range s.confirmed {
		next[k] = v
	}
	next[normalized] = code
	if err := writeMirrorFile(s.mirrorPath, next); err != nil {
		return "", fmt.Errorf("%w: rewrite mirror: %v", common.ErrPersistence, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: commit confirm: %v", common.ErrPersistence, err)
	}

	s.confirmed[normalized] = code
	return normalized, nil
}

// loadConfirmed fills the in-memory map from the structured dump.
func (s *Store) loadConfirmed() error {
	rows, err := s.db.Query(`SELECT normalized_description, code FROM confirmed_matches`)
	if err != nil {
		return fmt.Errorf("failed to load confirmed matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var normalized, code string
		if err := rows.Scan(&normalized, &code); err != nil {
			return fmt.Errorf("failed to scan confirmed match: %w", err)
		}
		s.confirmed[normalized] = code
	}
	return rows.Err()
}

// writeMirror rewrites the JSON mirror from the current map. Callers hold mu.
func (s *Store) writeMirror() error {
	return writeMirrorFile(s.mirrorPath, s.confirmed)
}

// writeMirrorFile regenerates the mirror in full: temp file then rename, so
// a crash mid-write leaves the previous mirror, never a torn one.
func writeMirrorFile(path string, confirmed map[string]string) error {
	if path == "" {
		return nil
	}

	data, err := json.MarshalIndent(confirmed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mirror: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("failed to write mirror temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace mirror: %w", err)
	}
	return nil
}
