package docs

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/codex/internal/frontmatter"
)

// Fingerprint hashes the metadata codex reads from a document together with
// its body. Keys other than path and position do not affect the result.
func Fingerprint(meta frontmatter.Meta, body string) (string, error) {
	serialized, err := frontmatter.SerializeYAML(frontmatter.Scaffold(meta.Path, meta.Position), frontmatter.Style{Newline: "\n"})
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(serialized), "\n"), body), nil
}
