package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/docreflect/internal/theme"
)

var _ theme.SourceLinker = (*Linker)(nil)

func TestNormalizeRemote(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"git@github.com:inful/widgets.git", "https://github.com/inful/widgets"},
		{"ssh://git@git.home.luguber.info:2222/inful/docreflect.git", "https://git.home.luguber.info/inful/docreflect"},
		{"https://gitlab.com/org/proj.git", "https://gitlab.com/org/proj"},
		{"https://github.com/org/proj", "https://github.com/org/proj"},
		{"http://git.local:3000/org/proj.git/", "http://git.local:3000/org/proj"},
		{"", ""},
		{"not a url", ""},
		{"https://github.com/", ""},
	}
	for _, tc := range cases {
		if got := normalizeRemote(tc.raw); got != tc.want {
			t.Errorf("normalizeRemote(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestBlobBase(t *testing.T) {
	cases := []struct {
		remote string
		rev    string
		want   string
	}{
		{"https://github.com/inful/widgets", "abc1234def", "https://github.com/inful/widgets/blob/abc1234def"},
		{"https://gitlab.com/org/proj", "abc1234def", "https://gitlab.com/org/proj/-/blob/abc1234def"},
		{"https://git.home.luguber.info/inful/docreflect", "abc1234def", "https://git.home.luguber.info/inful/docreflect/src/commit/abc1234def"},
		{"https://git.home.luguber.info/inful/docreflect", "main", "https://git.home.luguber.info/inful/docreflect/src/branch/main"},
		{"", "abc1234def", ""},
		{"https://github.com/inful/widgets", "", ""},
	}
	for _, tc := range cases {
		if got := blobBase(tc.remote, tc.rev); got != tc.want {
			t.Errorf("blobBase(%q, %q) = %q, want %q", tc.remote, tc.rev, got, tc.want)
		}
	}
}

func TestLinkFor(t *testing.T) {
	l := NewLinker(nil, "https://github.com/inful/widgets.git", "abc1234def")
	if l == nil {
		t.Fatal("expected a linker")
	}

	url, ok := l.LinkFor("src/widget.ts", 10)
	if !ok || url != "https://github.com/inful/widgets/blob/abc1234def/src/widget.ts#L10" {
		t.Errorf("LinkFor = %q, %v", url, ok)
	}

	url, ok = l.LinkFor("./src/widget.ts", 0)
	if !ok || url != "https://github.com/inful/widgets/blob/abc1234def/src/widget.ts" {
		t.Errorf("LinkFor without line = %q, %v", url, ok)
	}

	if _, ok := l.LinkFor("", 1); ok {
		t.Error("expected no link for empty file name")
	}
	if _, ok := l.LinkFor("../outside.ts", 1); ok {
		t.Error("expected no link for a path escaping the repository")
	}

	var nilLinker *Linker
	if _, ok := nilLinker.LinkFor("src/widget.ts", 1); ok {
		t.Error("expected nil linker to resolve nothing")
	}
}

func TestNewLinkerOverrides(t *testing.T) {
	info := &Info{
		Commit:    "0123456789abcdef0123456789abcdef01234567",
		RemoteURL: "https://git.home.luguber.info/inful/docreflect",
	}

	l := NewLinker(info, "", "")
	url, ok := l.LinkFor("src/app.ts", 3)
	want := "https://git.home.luguber.info/inful/docreflect/src/commit/0123456789abcdef0123456789abcdef01234567/src/app.ts#L3"
	if !ok || url != want {
		t.Errorf("LinkFor from info = %q, want %q", url, want)
	}

	l = NewLinker(info, "git@github.com:inful/mirror.git", "v2.1.0")
	url, ok = l.LinkFor("src/app.ts", 0)
	if !ok || url != "https://github.com/inful/mirror/blob/v2.1.0/src/app.ts" {
		t.Errorf("LinkFor with overrides = %q", url)
	}

	if NewLinker(nil, "", "main") != nil {
		t.Error("expected nil linker without a remote")
	}
	if NewLinker(&Info{Commit: "abc1234def"}, "", "") != nil {
		t.Error("expected nil linker when the checkout has no origin")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := w.Add("README.md"); err != nil {
		t.Fatalf("add: %v", err)
	}
	hash, err := w.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:inful/widgets.git"},
	}); err != nil {
		t.Fatalf("create remote: %v", err)
	}

	info, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if info == nil {
		t.Fatal("expected checkout info")
	}
	if info.Commit != hash.String() {
		t.Errorf("commit = %q, want %q", info.Commit, hash.String())
	}
	if info.ShortCommit != hash.String()[:8] {
		t.Errorf("short commit = %q", info.ShortCommit)
	}
	if info.RemoteURL != "https://github.com/inful/widgets" {
		t.Errorf("remote = %q", info.RemoteURL)
	}
	if want := "https://github.com/inful/widgets/blob/" + hash.String(); info.LinkBase != want {
		t.Errorf("link base = %q, want %q", info.LinkBase, want)
	}

	// Resolve walks up from subdirectories.
	sub := filepath.Join(dir, "src", "nested")
	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	nested, err := Resolve(sub)
	if err != nil {
		t.Fatalf("resolve nested: %v", err)
	}
	if nested == nil || nested.Commit != info.Commit {
		t.Errorf("nested resolve = %+v", nested)
	}
}

func TestResolveNotARepo(t *testing.T) {
	info, err := Resolve(t.TempDir())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil info outside a repository, got %+v", info)
	}
}

func TestResolveNoOrigin(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := w.Add("a.txt"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := w.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()},
	}); err != nil {
		t.Fatalf("commit: %v", err)
	}

	info, err := Resolve(dir)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if info == nil || info.Commit == "" {
		t.Fatal("expected commit info even without a remote")
	}
	if info.RemoteURL != "" || info.LinkBase != "" {
		t.Errorf("expected empty remote fields, got %+v", info)
	}
}
