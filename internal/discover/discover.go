// Package discover enumerates source files for the driver: a single
// file, a recursive directory walk, or an expanded glob pattern, all
// filtered to extensions the language registry recognizes and sorted
// lexicographically for deterministic multi-file output.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/skim/internal/lang"
	"github.com/phobologic/skim/internal/safety"
	"github.com/phobologic/skim/internal/skimerr"
)

// FileEntry is one discovered source file.
type FileEntry struct {
	Path     string // Relative to the enumeration root, or as given for single-file/glob.
	Language lang.Language
}

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	"env":           {},
	".env":          {},
	"build":         {},
	"dist":          {},
	".tox":          {},
	".mypy_cache":   {},
	".ruff_cache":   {},
	".pytest_cache": {},
	"egg-info":      {},
}

// Single resolves one explicit file path into a FileEntry, applying the
// same extension-recognition and symlink rejection rules as the other
// two modes.
func Single(path string, explicitTag string) (FileEntry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return FileEntry{}, skimerr.Wrap(skimerr.IOError, err, "stat "+path)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return FileEntry{}, skimerr.Newf(skimerr.IOError, "%s is a symbolic link", path)
	}
	l, err := lang.ForPath(path, explicitTag)
	if err != nil {
		return FileEntry{}, err
	}
	return FileEntry{Path: path, Language: l}, nil
}

// Dir recursively walks root, keeping only regular files whose extension
// the language registry recognizes (optionally further restricted to
// languages), skipping symlinks, VCS/build directories, and anything
// gitignore or git itself excludes.
func Dir(root string, languages []lang.Language) ([]FileEntry, error) {
	langSet := make(map[lang.Language]struct{}, len(languages))
	for _, l := range languages {
		langSet[l] = struct{}{}
	}

	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		l, ok := lang.ForExtension(filepath.Ext(name))
		if !ok {
			return nil
		}
		if len(langSet) > 0 {
			if _, ok := langSet[l]; !ok {
				return nil
			}
		}

		results = append(results, FileEntry{Path: rel, Language: l})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortEntries(results)
	return results, nil
}

// Glob expands pattern with filepath.Glob, keeping only regular files
// with a recognized extension. It rejects absolute patterns and any
// pattern whose components include a parent-directory indicator before
// touching the filesystem.
func Glob(pattern string) ([]FileEntry, error) {
	if err := safety.RejectTraversal(pattern); err != nil {
		return nil, err
	}

	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, skimerr.Wrap(skimerr.PathTraversal, err, "expanding glob pattern "+pattern)
	}

	var results []FileEntry
	for _, m := range matches {
		info, err := os.Lstat(m)
		if err != nil || info.Mode()&os.ModeSymlink != 0 || !info.Mode().IsRegular() {
			continue
		}
		l, ok := lang.ForExtension(filepath.Ext(m))
		if !ok {
			continue
		}
		results = append(results, FileEntry{Path: m, Language: l})
	}

	sortEntries(results)
	return results, nil
}

func sortEntries(entries []FileEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
