package doctree

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"git.home.luguber.info/inful/codex/internal/frontmatter"
	"git.home.luguber.info/inful/codex/internal/logfields"
	"git.home.luguber.info/inful/codex/internal/metrics"
)

// Skip records a file that contributed nothing to the tree.
type Skip struct {
	File   string
	Reason metrics.SkipReason
	Err    error
}

// Stats summarizes one assembly run.
type Stats struct {
	Processed int
	Skipped   []Skip
}

// Builder folds markdown files into a Node tree.
type Builder struct {
	delims   frontmatter.Delimiters
	logger   *slog.Logger
	recorder metrics.Recorder
	workers  int
}

// Option configures a Builder.
type Option func(*Builder)

// WithDelimiters sets the metadata block markers.
func WithDelimiters(d frontmatter.Delimiters) Option {
	return func(b *Builder) { b.delims = d }
}

// WithLogger sets the logger used for skipped files.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithWorkers reads and parses up to n files concurrently. Merging into the
// tree stays sequential in input order whatever n is.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewBuilder returns a Builder using the default delimiters, one worker and no metrics.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		delims:   frontmatter.DefaultDelimiters(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		workers:  1,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// parsedFile is the outcome of reading and parsing one file, computed before
// the tree is touched so a file either merges completely or not at all.
type parsedFile struct {
	file string
	meta frontmatter.Meta
	body string
	skip *Skip
}

// BuildDir assembles the files, given relative to baseDir.
func (b *Builder) BuildDir(baseDir string, files []string) (*Node, Stats) {
	return b.Build(os.DirFS(baseDir), files)
}

// Build assembles the files read from fsys, in the given order. Files that
// cannot be read or carry no valid metadata are skipped; later files
// overwrite the metadata of nodes targeted by earlier ones.
func (b *Builder) Build(fsys fs.FS, files []string) (*Node, Stats) {
	parsed := b.parseAll(fsys, files)

	root := NewRoot()
	var stats Stats
	for _, p := range parsed {
		if p.skip != nil {
			stats.Skipped = append(stats.Skipped, *p.skip)
			b.recorder.IncFileSkipped(p.skip.Reason)
			b.logSkip(*p.skip)
			continue
		}
		merge(root, p)
		stats.Processed++
		b.recorder.IncFileProcessed()
		b.logger.Debug("Merged markdown file",
			logfields.File(p.file),
			logfields.Breadcrumb(p.meta.Breadcrumb()))
	}
	return root, stats
}

func (b *Builder) parseAll(fsys fs.FS, files []string) []parsedFile {
	parsed := make([]parsedFile, len(files))
	if b.workers <= 1 || len(files) < 2 {
		for i, file := range files {
			parsed[i] = b.parse(fsys, file)
		}
		return parsed
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.workers)
	for i, file := range files {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			parsed[i] = b.parse(fsys, file)
		}()
	}
	wg.Wait()
	return parsed
}

func (b *Builder) parse(fsys fs.FS, file string) parsedFile {
	name := filepath.ToSlash(file)
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return parsedFile{file: name, skip: &Skip{File: name, Reason: metrics.SkipUnreadable, Err: err}}
	}
	meta, body, err := frontmatter.Parse(content, b.delims)
	if err != nil {
		return parsedFile{file: name, skip: &Skip{File: name, Reason: metrics.SkipMetadata, Err: err}}
	}
	return parsedFile{file: name, meta: meta, body: body}
}

func (b *Builder) logSkip(s Skip) {
	attrs := []any{logfields.File(s.File), logfields.Reason(string(s.Reason)), logfields.Error(s.Err)}
	if s.Reason == metrics.SkipUnreadable {
		b.logger.Warn("Skipping unreadable markdown file", attrs...)
		return
	}
	b.logger.Debug("Skipping markdown file without valid metadata", attrs...)
}

// merge walks root along the declared path, creating missing nodes, and
// overwrites the terminal node's metadata.
func merge(root *Node, p parsedFile) {
	current := root
	for _, segment := range p.meta.Path {
		current = current.child(segment)
	}
	content := p.body
	current.Title = p.meta.Title
	current.Breadcrumb = p.meta.Breadcrumb()
	current.Depth = len(p.meta.Path)
	current.Position = p.meta.Position
	current.SourceFile = p.file
	current.Content = &content
}

// String renders s for logs and the discover command.
func (s Skip) String() string {
	return fmt.Sprintf("%s (%s): %v", s.File, s.Reason, s.Err)
}
