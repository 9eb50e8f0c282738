package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/frsuministros/orderflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "orderflow.db"), filepath.Join(dir, "confirmed.json"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, dir
}

func TestConfirmAndLookup(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	normalized, err := store.Confirm(ctx, "TUBO PVC 110", "ART1")
	require.NoError(t, err)
	assert.Equal(t, "tubo pvc 110", normalized)

	code, ok := store.Lookup("tubo pvc 110")
	require.True(t, ok)
	assert.Equal(t, "ART1", code)

	_, ok = store.Lookup("tubo pvc 90")
	assert.False(t, ok)
}

func TestConfirmOverwritesPreviousCode(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	_, err := store.Confirm(ctx, "brida galvanizada", "OLD")
	require.NoError(t, err)
	_, err = store.Confirm(ctx, "brida galvanizada", "NEW")
	require.NoError(t, err)

	code, ok := store.Lookup("brida galvanizada")
	require.True(t, ok)
	assert.Equal(t, "NEW", code)
}

func TestConfirmRejectsEmptyNormalizedForm(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	_, err := store.Confirm(ctx, "de para con", "ART1")
	assert.Error(t, err)

	_, err = store.Confirm(ctx, "valvula", "")
	assert.Error(t, err)
}

func TestConfirmedMatchesSurviveReopen(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "orderflow.db")
	mirrorPath := filepath.Join(dir, "confirmed.json")
	ctx := context.Background()

	store, err := Open(dbPath, mirrorPath, 0)
	require.NoError(t, err)

	_, err = store.Confirm(ctx, "TUBO PVC 110", "ART1")
	require.NoError(t, err)
	_, err = store.Confirm(ctx, "valvula esferica", "ART2")
	require.NoError(t, err)
	before := store.All()
	require.NoError(t, store.Close())

	reopened, err := Open(dbPath, mirrorPath, 0)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	assert.Equal(t, before, reopened.All())
}

func TestMirrorIsRegeneratedInFull(t *testing.T) {
	store, dir := openTestStore(t)
	ctx := context.Background()

	_, err := store.Confirm(ctx, "tubo pvc 110", "A1")
	require.NoError(t, err)
	_, err = store.Confirm(ctx, "valvula esferica", "A2")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "confirmed.json"))
	require.NoError(t, err)

	var mirror map[string]string
	require.NoError(t, json.Unmarshal(data, &mirror))
	assert.Equal(t, map[string]string{
		"tubo pvc 110":     "A1",
		"valvula esferica": "A2",
	}, mirror)
}

func TestOpenSeedsEmptyMirror(t *testing.T) {
	_, dir := openTestStore(t)

	data, err := os.ReadFile(filepath.Join(dir, "confirmed.json"))
	require.NoError(t, err)

	var mirror map[string]string
	require.NoError(t, json.Unmarshal(data, &mirror))
	assert.Empty(t, mirror)
}

func TestOpenQuarantinesCorruptDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "orderflow.db")
	require.NoError(t, os.WriteFile(dbPath, []byte("this is not a sqlite file, not even close"), 0o640))

	store, err := Open(dbPath, filepath.Join(dir, "confirmed.json"), 0)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Empty(t, store.All())

	matches, err := filepath.Glob(dbPath + ".corrupt.*")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestBackupKeepsExactlyOneFile(t *testing.T) {
	store, dir := openTestStore(t)
	backupDir := filepath.Join(dir, "backups")

	for i := 0; i < 4; i++ {
		_, err := store.Backup(backupDir)
		require.NoError(t, err)

		entries, err := os.ReadDir(backupDir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	}
}

func TestBackupCarriesLatestConfirmations(t *testing.T) {
	store, dir := openTestStore(t)
	ctx := context.Background()

	_, err := store.Confirm(ctx, "tubo pvc 110", "ART1")
	require.NoError(t, err)

	path, err := store.Backup(filepath.Join(dir, "backups"))
	require.NoError(t, err)

	restored, err := Open(path, "", 0)
	require.NoError(t, err)
	defer func() { _ = restored.Close() }()

	code, ok := restored.Lookup("tubo pvc 110")
	require.True(t, ok, "confirmation made just before the backup must be in it")
	assert.Equal(t, "ART1", code)
}

func TestHistoryRetention(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "orderflow.db"), "", 5)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		batch := []model.Prediction{
			{SourceID: "msg-a", Description: "tubo pvc", PredictedCode: "A1", Confidence: 80},
			{SourceID: "msg-b", Description: "valvula", PredictedCode: "A2", Confidence: 70},
		}
		require.NoError(t, store.SaveBatch(ctx, batch))
	}

	n, err := store.HistoryCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestSaveBatchEmptyIsNoop(t *testing.T) {
	store, _ := openTestStore(t)
	require.NoError(t, store.SaveBatch(context.Background(), nil))
}
