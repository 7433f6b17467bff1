package generator

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
	"git.home.luguber.info/inful/codex/internal/metrics"
)

var fixedTime = time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

type recordingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	stages   map[string]metrics.ResultLabel
	outcomes []metrics.ResultLabel
	skipped  int
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{stages: map[string]metrics.ResultLabel{}}
}

func (r *recordingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages[stage] = result
}

func (r *recordingRecorder) IncGenerationOutcome(result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, result)
}

func (r *recordingRecorder) IncFileSkipped(metrics.SkipReason) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "index.md", "---\npath: [Overview]\nposition: 0\n---\nWelcome.\n")
	writeFile(t, root, "guide/start.md", "---\npath: [Getting Started]\nposition: 1\n---\nInstall it.\n")
	writeFile(t, root, "guide/config.md", "---\npath: [Getting Started, Configuration]\n---\n```go\nfunc main() {}\n```\n")
	writeFile(t, root, "notes.md", "# no metadata here\n")
	writeFile(t, root, "node_modules/pkg/README.md", "---\npath: [Vendored]\n---\nignored\n")
	return root
}

func options(root string) Options {
	return Options{
		Root:            root,
		IgnoreFolders:   []string{"node_modules/"},
		RepoName:        "Widgets",
		RepoDescription: "Widget docs",
		CommitHash:      "abc1234",
		RepoURL:         "https://example.com/org/widgets",
		Workers:         2,
	}
}

func TestGenerate(t *testing.T) {
	root := fixture(t)
	rec := newRecordingRecorder()
	g := New(WithClock(fixedClock), WithRecorder(rec), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	result, err := g.Generate(context.Background(), options(root))
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, []string{"guide/config.md", "guide/start.md", "index.md", "notes.md"}, result.Files)
	assert.Equal(t, 3, result.Stats.Processed)
	require.Len(t, result.Stats.Skipped, 1)
	assert.Equal(t, "notes.md", result.Stats.Skipped[0].File)
	assert.Equal(t, metrics.SkipMetadata, result.Stats.Skipped[0].Reason)

	assert.Less(t, strings.Index(result.Navigation, "Overview"), strings.Index(result.Navigation, "Getting Started"))
	assert.Contains(t, result.Navigation, `href="#getting-started->-configuration"`)
	assert.NotContains(t, result.Navigation, "Vendored")

	assert.Contains(t, result.Body, `id="getting-started->-configuration"`)
	assert.Equal(t, 1, strings.Count(result.Body, "<pre"))
	assert.Contains(t, result.Body, "https://example.com/org/widgets/blob/main/guide/config.md")

	assert.Contains(t, result.HTML, "Widgets")
	assert.Contains(t, result.HTML, "https://example.com/org/widgets/commit/abc1234")
	assert.Contains(t, result.HTML, "2024-03-01 12:30:00")
	assert.Contains(t, result.HTML, result.Body)

	for _, stage := range []string{StageDiscover, StageAssemble, StageNavigation, StageBody, StagePage} {
		assert.Equal(t, metrics.ResultSuccess, rec.stages[stage], stage)
	}
	assert.Equal(t, []metrics.ResultLabel{metrics.ResultSuccess}, rec.outcomes)
	assert.Equal(t, 1, rec.skipped)
}

func TestGenerateIsReproducible(t *testing.T) {
	root := fixture(t)
	g := New(WithClock(fixedClock))

	first, err := g.Generate(context.Background(), options(root))
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), options(root))
	require.NoError(t, err)

	assert.Equal(t, first.Navigation, second.Navigation)
	assert.Equal(t, first.Body, second.Body)
	assert.Equal(t, first.HTML, second.HTML)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestGenerateMinified(t *testing.T) {
	root := fixture(t)
	g := New(WithClock(fixedClock))

	plain, err := g.Generate(context.Background(), options(root))
	require.NoError(t, err)

	opts := options(root)
	opts.Minify = true
	minified, err := g.Generate(context.Background(), opts)
	require.NoError(t, err)

	assert.Less(t, len(minified.HTML), len(plain.HTML))
	assert.Equal(t, plain.Body, minified.Body)
}

func TestGenerateEmptyRoot(t *testing.T) {
	g := New(WithClock(fixedClock))

	result, err := g.Generate(context.Background(), options(t.TempDir()))
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Equal(t, "<ul></ul>", result.Navigation)
	assert.Empty(t, result.Body)
	assert.NotEmpty(t, result.HTML)
}

func TestGenerateMissingRoot(t *testing.T) {
	rec := newRecordingRecorder()
	g := New(WithRecorder(rec))

	_, err := g.Generate(context.Background(), options(filepath.Join(t.TempDir(), "missing")))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Equal(t, metrics.ResultFailed, rec.stages[StageDiscover])
	assert.NotContains(t, rec.stages, StageAssemble)
	assert.Equal(t, []metrics.ResultLabel{metrics.ResultFailed}, rec.outcomes)
}

func TestGenerateRootIsFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.md", "x")

	_, err := New().Generate(context.Background(), options(filepath.Join(root, "file.md")))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestGenerateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Generate(ctx, options(fixture(t)))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryRuntime))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateLogsRunID(t *testing.T) {
	var buf bytes.Buffer
	g := New(WithLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	g.newID = func() string { return "run-fixed" }

	_, err := g.Generate(context.Background(), options(fixture(t)))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "run_id=run-fixed")
	assert.Contains(t, out, "stage=assemble")
	assert.Contains(t, out, "Generation complete")
}
