package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const (
	backupPrefix = "model_backup_"
	backupSuffix = ".db"
)

// Backup copies the live database file into backupDir as the single backup
// slot. Every previous backup file is deleted before the new one is
// written, so exactly one backup exists after any number of runs.
func (s *Store) Backup(backupDir string) (string, error) {
	if err := os.MkdirAll(backupDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// WAL mode keeps recent writes in the -wal sidecar; fold them into the
	// main file so the copy below carries every confirmation.
	if _, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return "", fmt.Errorf("failed to checkpoint before backup: %w", err)
	}

	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return "", fmt.Errorf("failed to read backup directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isBackupName(name) {
			continue
		}
		if err := os.Remove(filepath.Join(backupDir, name)); err != nil {
			return "", fmt.Errorf("failed to remove old backup %s: %w", name, err)
		}
	}

	dst := filepath.Join(backupDir, fmt.Sprintf("%s%s%s", backupPrefix, time.Now().Format("20060102-150405"), backupSuffix))
	if err := copyFile(s.dbPath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func isBackupName(name string) bool {
	return len(name) > len(backupPrefix)+len(backupSuffix) &&
		name[:len(backupPrefix)] == backupPrefix &&
		name[len(name)-len(backupSuffix):] == backupSuffix
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy to %s: %w", dst, err)
	}
	return out.Close()
}
