package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-penelitian/models"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC) }
}

func newTestStore(t *testing.T) (*ResearchStore, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "research_data.json")
	return NewResearchStore(path, NewLocalBackup(dir), WithClock(fixedClock())), dir
}

type failingBackup struct{}

func (failingBackup) WriteBackup(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func TestLoad_MissingFileCreatesEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	records := store.Load(context.Background())
	assert.Empty(t, records)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestLoad_MalformedIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o644))

	assert.Empty(t, store.Load(context.Background()))
}

func TestAppend_AssignsSequentialIDs(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first, err := store.Append(ctx, models.Research{Title: "A", Author: "X", Abstract: "a"})
	require.NoError(t, err)
	second, err := store.Append(ctx, models.Research{Title: "B", Author: "Y", Abstract: "b"})
	require.NoError(t, err)

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "2024-01-10 08:00:00", first.InputAt)

	records := store.Load(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].Title)
	assert.Equal(t, "B", records[1].Title)
	assert.Equal(t, []string{}, records[0].Keywords)
}

func TestAppend_RoundTripPreservesFields(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	end := "2023-12-20"

	in := models.Research{
		Title: "Kajian Tenun Ikat", Author: "Dr. Maria Goreti", Institution: "Universitas Nusa Cendana",
		Year: 2023, Status: models.ResearchFinished, StartDate: "2023-01-15", EndDate: &end,
		Fields: []string{"Budaya"}, Funding: "Hibah", Abstract: "Ringkasan",
		Keywords: []string{"tenun", "NTT"}, PublicationLink: "https://example.org/p/1",
	}
	saved, err := store.Append(ctx, in)
	require.NoError(t, err)

	records := store.Load(ctx)
	require.Len(t, records, 1)
	assert.Equal(t, saved, records[0])
}

func TestAppend_WritesBackup(t *testing.T) {
	store, dir := newTestStore(t)

	_, err := store.Append(context.Background(), models.Research{Title: "A"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "research_data_backup_20240110_080000.json"))
	require.NoError(t, err)
}

func TestAppend_BackupFailureKeepsPrimary(t *testing.T) {
	dir := t.TempDir()
	store := NewResearchStore(filepath.Join(dir, "r.json"), failingBackup{})

	_, err := store.Append(context.Background(), models.Research{Title: "A"})
	require.Error(t, err)

	assert.Len(t, store.Load(context.Background()), 1)
}

func TestAppend_RefusesMalformedDocument(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{oops"), 0o644))

	_, err := store.Append(context.Background(), models.Research{Title: "A"})
	require.Error(t, err)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "{oops", string(data))
}

func TestIDsNeverReusedAfterShrink(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Append(ctx, models.Research{Title: "x"})
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(store.Path(), []byte(`[{"id": 1, "judul": "x"}]`), 0o644))

	next, err := store.Append(ctx, models.Research{Title: "y"})
	require.NoError(t, err)
	assert.Equal(t, 4, next.ID)
}

func TestAppend_KeepsUnknownAndLooseFields(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(store.Path(), []byte(`[
		{"id": 1, "judul": "A", "tahun": "2023", "bidang": "Kesehatan",
		 "catatan": "penting", "lampiran": {"halaman": 3}, "sumber_dana": null, "status": "sekitar <selesai>"},
		{"id": 2, "judul": "B", "tahun": "sekitar 2020"}
	]`), 0o644))

	records := store.Load(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, 2023, records[0].Year)
	assert.Equal(t, []string{"Kesehatan"}, records[0].Fields)
	assert.Equal(t, 0, records[1].Year)

	_, err := store.Append(ctx, models.Research{Title: "C"})
	require.NoError(t, err)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"catatan": "penting"`)
	assert.Contains(t, string(data), `"halaman": 3`)
	assert.Contains(t, string(data), `"sumber_dana": null`)
	assert.Contains(t, string(data), `"tahun": "sekitar 2020"`)
	assert.Contains(t, string(data), `"sekitar <selesai>"`)

	reloaded := store.Load(ctx)
	require.Len(t, reloaded, 3)
	assert.Equal(t, records[0], reloaded[0])
	assert.Equal(t, records[1], reloaded[1])
	assert.Equal(t, 3, reloaded[2].ID)
}

func TestImport_AssignsFreshIDs(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	res, err := store.Import(ctx, []models.Research{{ID: 10, Title: "imported"}})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Received: 1, Added: 1, Total: 1}, res)

	_, err = store.Import(ctx, []models.Research{{Title: "a"}, {Title: "b"}})
	require.NoError(t, err)
	_, err = store.Import(ctx, []models.Research{{ID: 20, Title: "c"}, {Title: "d"}})
	require.NoError(t, err)

	var ids []int
	for _, r := range store.Load(ctx) {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{10, 11, 12, 20, 21}, ids)

	rec, err := store.Append(ctx, models.Research{Title: "next"})
	require.NoError(t, err)
	assert.Equal(t, 22, rec.ID)
}

func TestImport_ExistingRecordsWin(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	_, err := store.Append(ctx, models.Research{Title: "asli"})
	require.NoError(t, err)

	incoming := []models.Research{{ID: 1, Title: "tiruan"}, {Title: "baru"}}
	res, err := store.Import(ctx, incoming)
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Received: 2, Added: 1, Total: 2}, res)
	assert.Zero(t, incoming[1].ID)

	records := store.Load(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, "asli", records[0].Title)
	assert.Equal(t, 2, records[1].ID)
}

func TestImport_RefusesUnreadableDocument(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	original := `[{"id": 1, "judul": "A"}, 7]`
	require.NoError(t, os.WriteFile(store.Path(), []byte(original), 0o644))

	_, err := store.Import(ctx, []models.Research{{Title: "Baru"}})
	require.Error(t, err)

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	_, err = os.Stat(store.Path() + ".meta.json")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
