package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phobologic/skim/internal/lang"
	"github.com/phobologic/skim/internal/skimerr"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDirRecognizesLanguagesAndSkipsUnrecognized(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	writeFile(t, dir, "main.py", "print('hello')")
	writeFile(t, dir, "lib/util.py", "def helper(): pass")
	writeFile(t, dir, "readme.txt", "hello") // unrecognized extension
	writeFile(t, dir, ".hidden.py", "secret")

	entries, err := Dir(dir, nil)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if entries[0].Path != filepath.Join("lib", "util.py") {
		t.Errorf("entry 0: got %q, want lexicographically-first sort", entries[0].Path)
	}
	if entries[1].Path != "main.py" {
		t.Errorf("entry 1: got %q", entries[1].Path)
	}
	for _, e := range entries {
		if e.Language != lang.Python {
			t.Errorf("entry %q: language = %q, want python", e.Path, e.Language)
		}
	}
}

func TestDirSkipsVCSAndBuildDirs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "node_modules/pkg.py", "pass")
	writeFile(t, dir, "__pycache__/cached.py", "pass")
	writeFile(t, dir, ".hidden/secret.py", "pass")
	writeFile(t, dir, "build/out.py", "pass")

	entries, err := Dir(dir, nil)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %v", len(entries), entries)
	}
	if entries[0].Path != "main.py" {
		t.Errorf("expected main.py, got %q", entries[0].Path)
	}
}

func TestDirLanguageFilter(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "lib.py", "pass")

	entries, err := Dir(dir, []lang.Language{lang.Python})
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries for python filter, got %d", len(entries))
	}

	entries, err = Dir(dir, []lang.Language{lang.JavaScript})
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected 0 entries for javascript filter, got %d", len(entries))
	}
}

func TestDirSymlinksSkipped(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "real.py", "pass")

	if err := os.Symlink(filepath.Join(dir, "real.py"), filepath.Join(dir, "link.py")); err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Dir(dir, nil)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (no symlink), got %d: %v", len(entries), entries)
	}
	if entries[0].Path != "real.py" {
		t.Errorf("expected real.py, got %q", entries[0].Path)
	}
}

func TestDirHonorsGitignore(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "main.py", "pass")
	writeFile(t, dir, "generated.py", "pass")
	writeFile(t, dir, ".gitignore", "generated.py\n")

	entries, err := Dir(dir, nil)
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "main.py" {
		t.Fatalf("expected only main.py, got %v", entries)
	}
}

func TestSingleResolvesLanguageFromExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "main.go", "package main\n")

	entry, err := Single(path, "")
	if err != nil {
		t.Fatalf("Single: %v", err)
	}
	if entry.Language != lang.Go {
		t.Errorf("got language %q, want go", entry.Language)
	}
}

func TestSingleRejectsSymlink(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	target := writeFile(t, dir, "real.go", "package main\n")
	link := filepath.Join(dir, "link.go")
	if err := os.Symlink(target, link); err != nil {
		t.Skip("symlinks not supported")
	}

	if _, err := Single(link, ""); err == nil {
		t.Fatal("expected an error for a symlinked path")
	}
}

func TestSingleUnsupportedLanguage(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := writeFile(t, dir, "thing.xyz", "hello")

	_, err := Single(path, "")
	if err == nil {
		t.Fatal("expected an unsupported-language error")
	}
	if kind, ok := skimerr.KindOf(err); !ok || kind != skimerr.UnsupportedLanguage {
		t.Errorf("got kind %v, want UnsupportedLanguage", kind)
	}
}

func TestGlobFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.go", "package main\n")
	writeFile(t, dir, "a.go", "package main\n")
	writeFile(t, dir, "c.txt", "not code")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	defer t.Chdir(cwd)

	entries, err := Glob("*.go")
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), entries)
	}
	if entries[0].Path != "a.go" || entries[1].Path != "b.go" {
		t.Errorf("expected sorted [a.go b.go], got %v", entries)
	}
}

func TestGlobRejectsTraversal(t *testing.T) {
	t.Parallel()
	if _, err := Glob("../*.go"); err == nil {
		t.Fatal("expected a path-traversal error")
	} else if kind, ok := skimerr.KindOf(err); !ok || kind != skimerr.PathTraversal {
		t.Errorf("got kind %v, want PathTraversal", kind)
	}
	if _, err := Glob("/etc/*.go"); err == nil {
		t.Fatal("expected a path-traversal error for an absolute pattern")
	}
}
