package gitinfo

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Linker builds per-file blob URLs for declaration source lines.
type Linker struct {
	base string
}

// NewLinker combines a resolved checkout with config overrides. Either
// override may be empty; a remote override together with a revision is
// enough to produce links even without a checkout. Returns nil when no
// usable remote or revision is available.
func NewLinker(info *Info, remote, revision string) *Linker {
	if remote != "" {
		remote = normalizeRemote(remote)
	} else if info != nil {
		remote = info.RemoteURL
	}
	if revision == "" && info != nil {
		revision = info.Commit
	}
	base := blobBase(remote, revision)
	if base == "" {
		return nil
	}
	return &Linker{base: base}
}

// LinkFor returns the blob URL for a source location. File names come
// from the model snapshot and are repo-relative with forward slashes.
func (l *Linker) LinkFor(fileName string, line int) (string, bool) {
	if l == nil || l.base == "" || fileName == "" {
		return "", false
	}
	name := strings.TrimPrefix(path.Clean(filepath.ToSlash(fileName)), "/")
	if name == "." || name == ".." || strings.HasPrefix(name, "../") {
		return "", false
	}
	target := l.base + "/" + name
	if line > 0 {
		target = fmt.Sprintf("%s#L%d", target, line)
	}
	return target, true
}
