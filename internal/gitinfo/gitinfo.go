// Package gitinfo reads the commit and web URL of the repository holding the
// documentation, used for commit and "view source" links.
package gitinfo

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/codex/internal/logfields"
)

const (
	// DefaultCommitHash is used when no commit is given and none can be resolved.
	DefaultCommitHash = "latest"
	// ShortHashLength is the number of hex digits kept from HEAD.
	ShortHashLength = 7
	// RemoteName is the remote whose URL becomes the repository URL.
	RemoteName = "origin"
)

// Info identifies the documented revision.
type Info struct {
	CommitHash string
	RepoURL    string
}

// Lookup opens the repository containing dir, searching parent directories,
// and reports HEAD and the origin web URL. A repository without commits or
// without an origin yields empty fields rather than an error.
func Lookup(dir string) (Info, error) {
	repository, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Info{}, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	var info Info
	if ref, err := repository.Head(); err == nil {
		info.CommitHash = ref.Hash().String()[:ShortHashLength]
	}

	remote, err := repository.Remote(RemoteName)
	switch {
	case errors.Is(err, git.ErrRemoteNotFound):
	case err != nil:
		return info, fmt.Errorf("read remote %s: %w", RemoteName, err)
	default:
		if urls := remote.Config().URLs; len(urls) > 0 {
			info.RepoURL = WebURL(urls[0])
		}
	}
	return info, nil
}

// Fill completes the empty fields of given from the repository at dir.
// Failures are logged at debug level; the commit falls back to
// DefaultCommitHash and the URL stays empty.
func Fill(dir string, given Info, logger *slog.Logger) Info {
	if logger == nil {
		logger = slog.Default()
	}
	if given.CommitHash != "" && given.RepoURL != "" {
		return given
	}

	resolved, err := Lookup(dir)
	if err != nil {
		logger.Debug("Git metadata unavailable", logfields.Path(dir), logfields.Error(err))
	}
	if given.CommitHash == "" {
		given.CommitHash = resolved.CommitHash
	}
	if given.CommitHash == "" {
		given.CommitHash = DefaultCommitHash
	}
	if given.RepoURL == "" {
		given.RepoURL = resolved.RepoURL
	}
	return given
}

// WebURL converts a clone URL into the https URL of the repository's web
// page. scp-like and ssh URLs are rewritten, credentials and a ".git" suffix
// are dropped. Local paths and unknown schemes yield "".
//
//	WebURL("git@github.com:owner/repo.git") == "https://github.com/owner/repo"
func WebURL(remote string) string {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return ""
	}

	if !strings.Contains(remote, "://") {
		// scp-like: user@host:owner/repo.git
		at := strings.Index(remote, "@")
		colon := strings.Index(remote, ":")
		if at < 0 || colon < at {
			return ""
		}
		host := remote[at+1 : colon]
		path := strings.TrimPrefix(remote[colon+1:], "/")
		if host == "" || path == "" {
			return ""
		}
		return "https://" + host + "/" + trimRepoPath(path)
	}

	u, err := url.Parse(remote)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	switch u.Scheme {
	case "http", "https":
	case "ssh", "git", "git+ssh":
		u.Scheme = "https"
		u.Host = u.Hostname()
	default:
		return ""
	}
	u.User = nil
	u.Path = "/" + trimRepoPath(strings.TrimPrefix(u.Path, "/"))
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func trimRepoPath(path string) string {
	return strings.TrimSuffix(strings.TrimSuffix(path, "/"), ".git")
}
