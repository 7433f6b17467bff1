package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"git.home.luguber.info/inful/codex/internal/docs"
	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
	"git.home.luguber.info/inful/codex/internal/frontmatter"
	"git.home.luguber.info/inful/codex/internal/generator"
	"git.home.luguber.info/inful/codex/internal/logfields"
	"git.home.luguber.info/inful/codex/internal/metrics"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	SourceFlags `embed:""`
}

// DiscoveredFile is one line of the discover listing.
type DiscoveredFile struct {
	File        string
	Breadcrumb  string
	Fingerprint string
	// SkipReason is set for files that contribute nothing to the tree.
	SkipReason metrics.SkipReason
	Err        error
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	logger := g.logger()
	_, opts, err := resolveOptions(root, d.SourceFlags, logger)
	if err != nil {
		return err
	}

	files, err := docs.NewDiscovery(opts.Root, opts.IgnoreFolders, logger).Files()
	if err != nil {
		return generator.ClassifyDiscoveryError(err, opts.Root)
	}

	listing := Inspect(opts.Root, files, opts.Delimiters)
	logger.Info("Discovery completed", logfields.Count(len(listing)))
	return writeListing(g.stdout(), listing)
}

// Inspect parses each file in order and reports its breadcrumb and
// fingerprint, or why it would be skipped.
func Inspect(root string, files []string, delims frontmatter.Delimiters) []DiscoveredFile {
	listing := make([]DiscoveredFile, 0, len(files))
	for _, file := range files {
		entry := DiscoveredFile{File: file}
		content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(file)))
		if err != nil {
			entry.SkipReason, entry.Err = metrics.SkipUnreadable, err
			listing = append(listing, entry)
			continue
		}
		meta, body, err := frontmatter.Parse(content, delims)
		if err != nil {
			entry.SkipReason, entry.Err = metrics.SkipMetadata, err
			listing = append(listing, entry)
			continue
		}
		entry.Breadcrumb = meta.Breadcrumb()
		if entry.Fingerprint, err = docs.Fingerprint(meta, body); err != nil {
			entry.Fingerprint = "-"
		}
		listing = append(listing, entry)
	}
	return listing
}

func writeListing(out io.Writer, listing []DiscoveredFile) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, entry := range listing {
		var err error
		if entry.SkipReason != "" {
			_, err = fmt.Fprintf(tw, "%s\tskipped (%s)\t%v\n", entry.File, entry.SkipReason, entry.Err)
		} else {
			_, err = fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.File, entry.Breadcrumb, entry.Fingerprint)
		}
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write listing").Build()
		}
	}
	if err := tw.Flush(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "write listing").Build()
	}
	return nil
}
