// Package gitinfo resolves source link targets from a local git checkout.
// Declaration pages carry "defined in" lines; when the snapshot was
// generated inside a repository with a known forge remote, those lines can
// link straight to the file on the forge's web UI.
package gitinfo

import (
	"errors"
	"log/slog"
	"net/url"
	"strings"

	git "github.com/go-git/go-git/v5"

	foundationerrors "git.home.luguber.info/inful/docreflect/internal/foundation/errors"
	"git.home.luguber.info/inful/docreflect/internal/logfields"
)

// Info describes the checkout a model snapshot was generated from.
type Info struct {
	Commit      string // full HEAD commit hash
	ShortCommit string // first 8 characters, for logs
	RemoteURL   string // origin as a web base URL, "" when there is no origin
	LinkBase    string // blob URL prefix for HEAD, "" when links cannot be built
}

// Resolve inspects the git checkout containing dir, walking up to find the
// repository root. A nil Info without error means dir is not inside a
// repository; source links stay off in that case.
func Resolve(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, nil
	}
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryGit, "open repository").
			Warning().
			WithContext("dir", dir).
			Build()
	}

	head, err := repo.Head()
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryGit, "resolve HEAD").
			Warning().
			WithContext("dir", dir).
			Build()
	}

	info := &Info{Commit: head.Hash().String()}
	if len(info.Commit) >= 8 {
		info.ShortCommit = info.Commit[:8]
	}

	// A checkout without an origin still yields the commit, but links need
	// a remote to point at.
	if remote, rerr := repo.Remote("origin"); rerr == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			info.RemoteURL = normalizeRemote(urls[0])
		}
	}
	info.LinkBase = blobBase(info.RemoteURL, info.Commit)

	slog.Debug("Resolved source checkout",
		logfields.Path(dir),
		slog.String("commit", info.ShortCommit),
		logfields.URL(info.RemoteURL))
	return info, nil
}

// normalizeRemote turns a clone URL into the forge's web base URL:
//
//	git@host:org/repo.git       -> https://host/org/repo
//	ssh://git@host/org/repo.git -> https://host/org/repo
//	https://host/org/repo.git   -> https://host/org/repo
func normalizeRemote(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	// scp-style ssh remotes have no scheme for url.Parse
	if at := strings.Index(raw, "@"); at >= 0 && !strings.Contains(raw, "://") {
		colon := strings.Index(raw[at:], ":")
		if colon <= 0 {
			return ""
		}
		host := raw[at+1 : at+colon]
		repoPath := strings.TrimSuffix(strings.Trim(raw[at+colon+1:], "/"), ".git")
		if host == "" || repoPath == "" {
			return ""
		}
		return "https://" + host + "/" + repoPath
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	host := u.Host
	scheme := "https"
	switch u.Scheme {
	case "http":
		scheme = "http"
	case "https":
	default:
		// ssh ports never match the web UI
		host = u.Hostname()
	}
	repoPath := strings.TrimSuffix(strings.Trim(u.Path, "/"), ".git")
	if repoPath == "" {
		return ""
	}
	return scheme + "://" + host + "/" + repoPath
}

// blobBase picks the forge's blob URL layout from the remote host. The
// default for self-hosted forges is the forgejo layout.
func blobBase(remote, rev string) string {
	if remote == "" || rev == "" {
		return ""
	}
	u, err := url.Parse(remote)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "github"):
		return remote + "/blob/" + rev
	case strings.Contains(host, "gitlab"):
		return remote + "/-/blob/" + rev
	default:
		return remote + "/src/" + forgejoRef(rev)
	}
}

// forgejoRef guesses whether rev names a commit or a branch; forgejo
// addresses the two through different path segments.
func forgejoRef(rev string) string {
	if isHexHash(rev) {
		return "commit/" + rev
	}
	return "branch/" + rev
}

func isHexHash(s string) bool {
	if len(s) < 7 || len(s) > 40 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
