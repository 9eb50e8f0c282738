package engine

import (
	"context"
	"log/slog"

	"github.com/frsuministros/orderflow/internal/catalog"
	"github.com/frsuministros/orderflow/internal/common"
	"github.com/frsuministros/orderflow/internal/model"
	"github.com/frsuministros/orderflow/internal/service"
)

// BackupRunner is the single-slot backup operation of the store.
type BackupRunner interface {
	Backup(backupDir string) (string, error)
}

// Updater applies a human confirmation: persist the override, extend the
// in-memory catalog, then refresh the backup slot. Ordering matters; the
// override must be durable before anything else observes it.
type Updater struct {
	store     service.ConfirmedStore
	index     *catalog.Index
	backup    BackupRunner
	backupDir string
}

// NewUpdater wires the confirmation path. backup may be nil to disable the
// backup step.
func NewUpdater(store service.ConfirmedStore, index *catalog.Index, backup BackupRunner, backupDir string) *Updater {
	return &Updater{store: store, index: index, backup: backup, backupDir: backupDir}
}

// Confirm records that description resolves to code. Persistence failures
// are returned loudly; a failed backup is logged but does not undo the
// confirmation, which is already durable at that point.
func (u *Updater) Confirm(ctx context.Context, description, code string) error {
	normalized, err := u.store.Confirm(ctx, description, code)
	if err != nil {
		return common.NewUserError("failed to confirm match", err)
	}

	// Make the code immediately resolvable for approximate matching too,
	// even when it was never part of the loaded catalog file.
	if _, found := u.index.FindByCode(code); !found {
		u.index.Append(model.Article{Code: code, Description: description})
	}

	slog.Info("Confirmed match", "normalized", normalized, "code", code)

	if u.backup != nil && u.backupDir != "" {
		if path, err := u.backup.Backup(u.backupDir); err != nil {
			slog.Warn("Backup after confirmation failed", "error", err)
		} else {
			slog.Debug("Backup refreshed", "path", path)
		}
	}
	return nil
}
