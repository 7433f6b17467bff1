package docs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/codex/internal/docs/errors"
	"git.home.luguber.info/inful/codex/internal/frontmatter"
)

func writeFiles(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		full := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o750))
		require.NoError(t, os.WriteFile(full, []byte("---\npath: [x]\n---\n"), 0o600))
	}
}

func TestDiscover_FindsMarkdownSorted(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"file1.md",
		"sub_dir_1/file4.md",
		"sub_dir_1/sub_sub_dir/file3.md",
		"a.md",
		"notes.txt",
		"upper.MD",
	)

	files, err := Discover(root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "file1.md", "sub_dir_1/file4.md", "sub_dir_1/sub_sub_dir/file3.md"}, files)
}

func TestDiscover_DefaultIgnoreFoldersAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"keep.md",
		"node_modules/pkg/readme.md",
		"docs/node_modules/pkg/readme.md",
		".git/notes.md",
		"build/out.md",
		"docs/builder.md",
	)

	files, err := Discover(root, MergeIgnoreFolders(nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/builder.md", "keep.md"}, files)
}

func TestDiscover_CustomAndAnchoredPatterns(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"vendor/a.md",
		"internal/vendor/b.md",
		"drafts/c.md",
		"docs/drafts/d.md",
		"docs/e.md",
	)

	files, err := Discover(root, []string{"vendor", "/drafts/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/drafts/d.md", "docs/e.md"}, files)
}

func TestDiscover_RootErrors(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"), nil)
	require.ErrorIs(t, err, derrors.ErrRootNotFound)

	file := filepath.Join(t.TempDir(), "file.md")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	_, err = Discover(file, nil)
	require.ErrorIs(t, err, derrors.ErrRootNotDirectory)
}

func TestDiscover_EmptyRoot(t *testing.T) {
	files, err := Discover(t.TempDir(), DefaultIgnoreFolders)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestMergeIgnoreFolders(t *testing.T) {
	merged := MergeIgnoreFolders([]string{" vendor/ ", "", "node_modules/", "docs/tmp/"})

	assert.Contains(t, merged, "vendor/")
	assert.Contains(t, merged, "docs/tmp/")
	assert.Len(t, merged, len(DefaultIgnoreFolders)+2)
	assert.IsNonDecreasing(t, merged)
	assert.Len(t, DefaultIgnoreFolders, 13, "defaults are not mutated")
}

func TestIgnorePatterns(t *testing.T) {
	assert.Equal(t,
		[]string{"**/build/", "/root-only/", "**/already/", "!keep/"},
		ignorePatterns([]string{"build/", " ", "/root-only/", "**/already/", "!keep/"}))
}

func TestFingerprint(t *testing.T) {
	pos := 2
	meta := frontmatter.Meta{Title: "B", Path: []string{"A", "B"}, Position: &pos}

	first, err := Fingerprint(meta, "body")
	require.NoError(t, err)
	second, err := Fingerprint(meta, "body")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)

	changed, err := Fingerprint(meta, "other body")
	require.NoError(t, err)
	assert.NotEqual(t, first, changed)

	moved, err := Fingerprint(frontmatter.Meta{Title: "B", Path: []string{"A", "B"}}, "body")
	require.NoError(t, err)
	assert.NotEqual(t, first, moved)
}
