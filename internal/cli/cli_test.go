package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agrisense/internal/db"
	"agrisense/internal/model"
	"agrisense/internal/repository"
	"agrisense/internal/service"
)

type stubAnalyzer struct {
	result model.AnalysisResult
	err    error
}

func (s stubAnalyzer) Analyze(context.Context, string) (model.AnalysisResult, error) {
	return s.result, s.err
}

func testLoader(t *testing.T, analyzer service.Analyzer) (Loader, service.HistoryService) {
	t.Helper()
	gormDB, err := db.Open("sqlite", "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	history := service.NewHistoryService(repository.NewLoginLogRepository(gormDB), repository.NewCropQueryRepository(gormDB))
	deps := &Deps{DB: gormDB, History: history, Analyzer: analyzer, Logger: zap.NewNop()}
	return func(context.Context) (*Deps, func(), error) {
		return deps, func() {}, nil
	}, history
}

func run(t *testing.T, load Loader, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(load)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd(nil)
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"migrate", "analyze", "logins", "history"})
}

func TestMigrateCmd(t *testing.T) {
	load, _ := testLoader(t, stubAnalyzer{})
	out, err := run(t, load, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Tables migrated.")
}

func TestAnalyzeCmd(t *testing.T) {
	result := model.NewAnalysisResult(map[string]string{"harvest_time": "Oct", "sowing_season": "June"})
	load, history := testLoader(t, stubAnalyzer{result: result})

	pdfPath := filepath.Join(t.TempDir(), "Tomato_analysis.pdf")
	out, err := run(t, load, "analyze", "Tomato", "--pdf", pdfPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Sowing Season: June", lines[0])
	assert.Equal(t, "Harvest Time: Oct", lines[1])

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	// One-off analyses are not recorded.
	queries, err := history.ListCropQueries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestAnalyzeCmd_RequiresCrop(t *testing.T) {
	load, _ := testLoader(t, stubAnalyzer{})
	_, err := run(t, load, "analyze")
	assert.Error(t, err)
}

func TestLoginsAndHistoryCmds(t *testing.T) {
	load, history := testLoader(t, stubAnalyzer{})
	ctx := context.Background()

	out, err := run(t, load, "logins")
	require.NoError(t, err)
	assert.Equal(t, "No logs.\n", out)

	out, err = run(t, load, "history")
	require.NoError(t, err)
	assert.Equal(t, "No history.\n", out)

	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, history.RecordLogin(ctx, "old@example.com", model.RoleUser, base))
	require.NoError(t, history.RecordLogin(ctx, "new@example.com", model.RoleAdmin, base.Add(time.Hour)))
	require.NoError(t, history.RecordCropQuery(ctx, "new@example.com", model.RoleAdmin, "Rice",
		model.NewAnalysisResult(map[string]string{"harvest_time": "Nov"}), base))

	out, err = run(t, load, "logins")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "new@example.com")
	assert.Contains(t, lines[2], "old@example.com")

	out, err = run(t, load, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Rice")
	assert.Contains(t, out, `{"harvest_time":"Nov"}`)
}
