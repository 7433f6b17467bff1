package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.Source.Root)
	assert.Equal(t, "Documentation", cfg.Repository.Name)
	assert.Equal(t, "---", cfg.FrontMatter.Prefix)
	assert.Equal(t, "---", cfg.FrontMatter.Suffix)
	assert.Equal(t, "github", cfg.Render.Style)
	assert.Equal(t, DefaultWorkers, cfg.Render.Workers)
	assert.True(t, cfg.Render.ShouldMinify())
	assert.Equal(t, ":8080", cfg.Serve.Addr)
	require.NoError(t, Validate(cfg))
}

func TestLoad_EmptyPathIsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileWithEnvExpansion(t *testing.T) {
	t.Setenv("CODEX_TEST_REPO", "https://example.com/team/docs")
	path := filepath.Join(t.TempDir(), "codex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: "1"
repository:
  name: Handbook
  url: ${CODEX_TEST_REPO}
source:
  root: docs
  ignore_folders: [vendor/]
front_matter:
  prefix: "+++"
  suffix: "+++"
render:
  style: monokai
  workers: 2
  minify: false
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Handbook", cfg.Repository.Name)
	assert.Equal(t, "https://example.com/team/docs", cfg.Repository.URL)
	assert.Equal(t, "docs", cfg.Source.Root)
	assert.Equal(t, []string{"vendor/"}, cfg.Source.IgnoreFolders)
	assert.Equal(t, "+++", cfg.FrontMatter.Prefix)
	assert.Equal(t, "monokai", cfg.Render.Style)
	assert.Equal(t, 2, cfg.Render.Workers)
	assert.False(t, cfg.Render.ShouldMinify())
	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "configuration file not found")

	tests := map[string]string{
		"unknown key":  "repository:\n  nmae: x\n",
		"bad version":  "version: \"9\"\n",
		"bad style":    "render:\n  style: not-a-style\n",
		"neg workers":  "render:\n  workers: -1\n",
		"empty ignore": "source:\n  ignore_folders: [\" \"]\n",
		"invalid yaml": "repository: [\n",
		"multiline fm": "front_matter:\n  prefix: \"a\\nb\"\n",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			require.Error(t, err)
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, cfg.Version)
	assert.Equal(t, DefaultRepoName, cfg.Repository.Name)

	require.ErrorContains(t, Init(path, false), "already exists")
	require.NoError(t, Init(path, true))
}

func TestLoadEnvFiles_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CODEX_T_A=from-env-file\nCODEX_T_B=env\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("CODEX_T_B=local\nCODEX_T_C=local\n"), 0o600))
	t.Setenv("CODEX_T_A", "process")
	t.Setenv("CODEX_T_B", "")
	t.Setenv("CODEX_T_C", "")
	require.NoError(t, os.Unsetenv("CODEX_T_B"))
	require.NoError(t, os.Unsetenv("CODEX_T_C"))

	loaded, err := LoadEnvFiles(dir)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "process", os.Getenv("CODEX_T_A"))
	assert.Equal(t, "env", os.Getenv("CODEX_T_B"))
	assert.Equal(t, "local", os.Getenv("CODEX_T_C"))
}

func TestLoadEnvFiles_NonePresent(t *testing.T) {
	loaded, err := LoadEnvFiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
