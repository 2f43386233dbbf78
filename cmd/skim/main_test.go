package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phobologic/skim/internal/safety"
)

func writeTestFile(t *testing.T, root, rel, content string) string {
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

func TestRunSingleFile(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	path := writeTestFile(t, dir, "add.go", "package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-cache", path}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if strings.Contains(out, "return a + b") {
		t.Errorf("expected the body to be elided, got %q", out)
	}
	if strings.HasPrefix(out, "// ===") {
		t.Error("single-file mode should not emit a delimiter header")
	}
}

func TestRunDirectoryEmitsHeaders(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	writeTestFile(t, dir, "a.go", "package main\n\nfunc a() {}\n")
	writeTestFile(t, dir, "b.go", "package main\n\nfunc b() {}\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-cache", "--mode=full", dir}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	out := stdout.String()
	if !strings.Contains(out, "// === ") {
		t.Error("directory mode should emit delimiter headers by default")
	}
	aIdx := strings.Index(out, "a.go")
	bIdx := strings.Index(out, "b.go")
	if aIdx < 0 || bIdx < 0 || aIdx > bIdx {
		t.Errorf("expected a.go before b.go in lexicographic order, got %q", out)
	}
}

func TestRunNoHeaderSuppressesDelimiters(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	writeTestFile(t, dir, "a.go", "package main\n\nfunc a() {}\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-cache", "--no-header", dir}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if strings.Contains(stdout.String(), "// ===") {
		t.Error("--no-header should suppress delimiter lines")
	}
}

func TestRunStdinRequiresLanguage(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	code := run([]string{"-"}, strings.NewReader("package main\n"), &stdout, &stderr)
	if code == 0 {
		t.Fatal("expected a nonzero exit code without --language")
	}
}

func TestRunStdinWithLanguage(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	code := run([]string{"--language=go", "--mode=full", "-"}, strings.NewReader("package main\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, stderr.String())
	}
	if stdout.String() != "package main\n" {
		t.Errorf("got %q", stdout.String())
	}
}

func TestRunUnsupportedLanguageExitsThree(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	path := writeTestFile(t, dir, "thing.xyz", "hello")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-cache", path}, strings.NewReader(""), &stdout, &stderr)
	if code != 3 {
		t.Fatalf("got exit code %d, want 3", code)
	}
}

func TestRunFileTooLargeExitsTwo(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	path := writeTestFile(t, dir, "big.go", "")
	f, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(int64(safety.MaxInputBytes) + 1); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-cache", path}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("got exit code %d, stderr: %s, want 2", code, stderr.String())
	}
}

func TestRunFilesMergesExitCodeAcrossBatch(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	writeTestFile(t, dir, "ok.go", "package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n")
	bigPath := writeTestFile(t, dir, "big.go", "")
	f, err := os.OpenFile(bigPath, os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(int64(safety.MaxInputBytes) + 1); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := run([]string{"--no-cache", dir}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("got exit code %d, stderr: %s, want 2 (a directory walk never surfaces unsupported-language entries, since discover.Dir filters unrecognized extensions before runFiles ever sees them)", code, stderr.String())
	}
}

func TestRunGlobPathTraversalExitsTwo(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	code := run([]string{"../foo/*.ts"}, strings.NewReader(""), &stdout, &stderr)
	if code != 2 {
		t.Fatalf("got exit code %d, want 2", code)
	}
}

func TestReorderArgsMovesFlagsBeforePositionals(t *testing.T) {
	t.Parallel()
	got := reorderArgs([]string{"file.go", "--mode", "types", "--no-header"})
	want := []string{"--mode", "types", "--no-header", "file.go"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()
	for _, valid := range []string{"structure", "signatures", "types", "full"} {
		if _, err := parseMode(valid); err != nil {
			t.Errorf("parseMode(%q): unexpected error: %v", valid, err)
		}
	}
	if _, err := parseMode("bogus"); err == nil {
		t.Error("parseMode(\"bogus\"): expected an error")
	}
}
