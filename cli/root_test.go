package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "resume", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"serve", "seed", "export", "import"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestFlags(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))

	serve, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)
	require.NotNil(t, serve.Flags().Lookup("port"))

	export, _, err := cmd.Find([]string{"export"})
	require.NoError(t, err)
	format := export.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "json", format.DefValue)
	assert.Equal(t, "o", export.Flags().Lookup("output").Shorthand)
}

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", filepath.Join(dir, "laporan.db"))
	t.Setenv("STORAGE_RESEARCH_FILE", filepath.Join(dir, "research_data.json"))
	t.Setenv("STORAGE_BACKUP_DIR", filepath.Join(dir, "backup"))
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("MINIO_ENDPOINT", "")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSeed(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "seed")
	require.NoError(t, err)
	assert.Equal(t, "admin\tadmin\neditor\teditor\nviewer\tviewer\nreviewer\treviewer\n", out)

	_, err = run(t, "seed")
	require.NoError(t, err)
}

func TestImportThenExport(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "masuk.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
		{"id": 3, "judul": "Kajian Terumbu Karang", "kata_kunci": ["laut"]},
		{"judul": "Tanpa ID"}
	]`), 0o644))

	out, err := run(t, "import", input)
	require.NoError(t, err)
	assert.Equal(t, "received 2, added 2, skipped 0, total 2\n", out)

	out, err = run(t, "export", "research", "--format", "csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "3,Kajian Terumbu Karang,"))
	assert.True(t, strings.HasPrefix(lines[2], "4,Tanpa ID,"))

	target := filepath.Join(dir, "keluar.json")
	_, err = run(t, "export", "research", "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"judul": "Kajian Terumbu Karang"`)
}

func TestExportReportsEmpty(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "export", "reports", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "export", "research", "--format", "xml")
	require.Error(t, err)
}

func TestImportMalformed(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "rusak.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"judul":`), 0o644))

	_, err := run(t, "import", input)
	require.Error(t, err)
}
