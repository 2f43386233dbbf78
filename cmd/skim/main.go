// Command skim reads source files and writes a reduced view of them —
// signatures and type declarations kept, bodies elided — for feeding
// into an LLM's context window.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phobologic/skim"
	"github.com/phobologic/skim/internal/cache"
	"github.com/phobologic/skim/internal/discover"
	"github.com/phobologic/skim/internal/emit"
	"github.com/phobologic/skim/internal/lang"
	"github.com/phobologic/skim/internal/pipeline"
	"github.com/phobologic/skim/internal/skimerr"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run returns a process exit code directly rather than an error, since
// the exit-code mapping (0/1/2/3) is driver-surface policy, not a
// property any caller of the library needs.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("skim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		modeFlag   string
		langFlag   string
		jobs       int
		noHeader   bool
		noCache    bool
		clearCache bool
		showStats  bool
	)

	fs.StringVar(&modeFlag, "mode", "structure", "transformation mode: structure, signatures, types, full")
	fs.StringVar(&langFlag, "language", "", "language override/hint: typescript, javascript, python, rust, go, java, markdown")
	fs.IntVar(&jobs, "jobs", 0, "worker pool size (1-128, default: cpu count)")
	fs.BoolVar(&noHeader, "no-header", false, "suppress the delimiter line in multi-file output")
	fs.BoolVar(&noCache, "no-cache", false, "disable cache read and write for this invocation")
	fs.BoolVar(&clearCache, "clear-cache", false, "wipe the result cache and exit")
	fs.BoolVar(&showStats, "show-stats", false, "write aggregated token reduction to stderr")

	if err := fs.Parse(reorderArgs(args)); err != nil {
		return 1
	}

	if clearCache {
		store, err := cache.Open()
		if err != nil {
			fmt.Fprintf(stderr, "skim: %v\n", err)
			return 1
		}
		if err := store.Clear(); err != nil {
			fmt.Fprintf(stderr, "skim: %v\n", err)
			return 1
		}
		return 0
	}

	mode, err := parseMode(modeFlag)
	if err != nil {
		fmt.Fprintf(stderr, "skim: %v\n", err)
		return 1
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "skim: missing file, directory, glob pattern, or - for stdin")
		return 1
	}
	target := fs.Arg(0)

	var store *cache.Store
	if !noCache {
		store, err = cache.Open()
		if err != nil {
			// Cache read failures degrade to a miss, never abort the run.
			fmt.Fprintf(stderr, "skim: cache unavailable: %v\n", err)
			store = nil
		}
	}

	if target == "-" {
		return runStdin(stdin, stdout, stderr, langFlag, mode)
	}

	entries, multi, exitOnEmpty := enumerate(target, langFlag)
	if exitOnEmpty != 0 {
		fmt.Fprintf(stderr, "skim: %s\n", target)
		return exitOnEmpty
	}
	if len(entries) == 0 {
		fmt.Fprintln(stderr, "skim: no matching files")
		return 1
	}

	return runFiles(entries, multi, mode, jobs, noHeader, showStats, store, stdout, stderr)
}

func parseMode(s string) (skim.Mode, error) {
	switch s {
	case "structure":
		return skim.Structure, nil
	case "signatures":
		return skim.Signatures, nil
	case "types":
		return skim.Types, nil
	case "full":
		return skim.Full, nil
	default:
		return "", skimerr.Newf(skimerr.ParseError, "unknown mode %q", s)
	}
}

// enumerate resolves target to a file list, using the single-file path
// when it names a regular file, the directory walk when it names a
// directory, and the glob expander otherwise. exitOnEmpty is nonzero
// when enumeration itself failed and the caller should abort.
func enumerate(target, langFlag string) (entries []discover.FileEntry, multi bool, exitOnEmpty int) {
	info, statErr := os.Stat(target)
	switch {
	case statErr == nil && info.IsDir():
		found, err := discover.Dir(target, nil)
		if err != nil {
			return nil, true, 1
		}
		// discover.Dir returns paths relative to target; rejoin them so
		// each file can be read and cache-keyed from the working directory.
		for i := range found {
			found[i].Path = filepath.Join(target, found[i].Path)
		}
		return found, true, 0
	case statErr == nil:
		entry, err := discover.Single(target, langFlag)
		if err != nil {
			if kind, ok := skimerr.KindOf(err); ok && kind == skimerr.UnsupportedLanguage {
				return nil, false, 3
			}
			return nil, false, 1
		}
		return []discover.FileEntry{entry}, false, 0
	default:
		found, err := discover.Glob(target)
		if err != nil {
			if kind, ok := skimerr.KindOf(err); ok && kind == skimerr.PathTraversal {
				return nil, true, 2
			}
			return nil, true, 1
		}
		return found, true, 0
	}
}

func runStdin(stdin io.Reader, stdout, stderr io.Writer, langFlag string, mode skim.Mode) int {
	if langFlag == "" {
		fmt.Fprintln(stderr, "skim: --language is required when reading from stdin")
		return 1
	}
	l, ok := lang.ForExtension(langFlag)
	if !ok && lang.IsRegistered(lang.Language(strings.ToLower(langFlag))) {
		l, ok = lang.Language(strings.ToLower(langFlag)), true
	}
	if !ok {
		fmt.Fprintf(stderr, "skim: unrecognized language %q\n", langFlag)
		return 3
	}
	source, err := io.ReadAll(stdin)
	if err != nil {
		fmt.Fprintf(stderr, "skim: reading stdin: %v\n", err)
		return 1
	}

	result, err := skim.Transform(source, l, mode)
	if err != nil {
		return reportAndExit(stderr, "-", err)
	}
	stdout.Write(result.Output)
	return 0
}

func runFiles(entries []discover.FileEntry, multi bool, mode skim.Mode, jobs int, noHeader, showStats bool, store *cache.Store, stdout, stderr io.Writer) int {
	type outcome struct {
		path    string
		content []byte
		result  skim.TransformResult
		err     error
	}

	process := func(_ int, f discover.FileEntry) outcome {
		modeTag := string(mode)

		if store != nil {
			if e, ok := store.Get(f.Path, modeTag); ok {
				return outcome{
					path:    f.Path,
					content: []byte(e.Content),
					result: skim.TransformResult{
						Output:            []byte(e.Content),
						OriginalTokens:    e.OriginalTokens,
						TransformedTokens: e.TransformedTokens,
					},
				}
			}
		}

		source, err := os.ReadFile(f.Path)
		if err != nil {
			return outcome{path: f.Path, err: skimerr.Wrap(skimerr.IOError, err, "reading "+f.Path)}
		}

		result, err := skim.Transform(source, f.Language, mode)
		if err != nil {
			return outcome{path: f.Path, err: err}
		}

		if store != nil {
			_ = store.Put(f.Path, modeTag, string(result.Output), result.OriginalTokens, result.TransformedTokens)
		}

		return outcome{path: f.Path, content: result.Output, result: result}
	}

	results := pipeline.Run(entries, jobs, process)

	w := emit.New(stdout, noHeader || !multi)
	failed := 0
	var totalOriginal, totalTransformed int

	exitCode := 0

	for _, r := range results {
		if r.err != nil {
			fmt.Fprintf(stderr, "skim: %s: %v\n", r.path, r.err)
			failed++
			exitCode = worstExitCode(exitCode, exitCodeFor(r.err))
			continue
		}
		if err := w.WriteFile(r.path, r.content); err != nil {
			fmt.Fprintf(stderr, "skim: writing output for %s: %v\n", r.path, err)
			failed++
			exitCode = worstExitCode(exitCode, exitCodeFor(err))
			continue
		}
		totalOriginal += r.result.OriginalTokens
		totalTransformed += r.result.TransformedTokens
	}

	if err := w.Flush(); err != nil {
		fmt.Fprintf(stderr, "skim: flushing output: %v\n", err)
		failed++
		exitCode = worstExitCode(exitCode, exitCodeFor(err))
	}

	if showStats {
		writeStats(stderr, totalOriginal, totalTransformed, len(entries))
	}

	if failed > 0 {
		if exitCode == 0 {
			exitCode = 1
		}
		return exitCode
	}
	return 0
}

func writeStats(stderr io.Writer, original, transformed, fileCount int) {
	reduction := 0.0
	if original > 0 {
		reduction = float64(original-transformed) / float64(original) * 100
	}
	fmt.Fprintf(stderr, "[skim] %d tokens → %d tokens (%.1f%% reduction) [across %d file(s)]\n",
		original, transformed, reduction, fileCount)
}

func reportAndExit(stderr io.Writer, path string, err error) int {
	fmt.Fprintf(stderr, "skim: %s: %v\n", path, err)
	return exitCodeFor(err)
}

// exitCodeFor maps an error's skimerr.Kind to the exit code spec.md §6's
// table assigns it: 3 for an unsupported/unrecognized language, 2 for a
// safety-envelope or parse failure, 1 for anything else (including a
// plain I/O error).
func exitCodeFor(err error) int {
	kind, ok := skimerr.KindOf(err)
	if !ok {
		return 1
	}
	switch kind {
	case skimerr.UnsupportedLanguage:
		return 3
	case skimerr.ParseError, skimerr.InputTooLarge, skimerr.UTF8Boundary,
		skimerr.MaxDepthExceeded, skimerr.TooManyNodes, skimerr.TooManyDeclarations,
		skimerr.PathTraversal:
		return 2
	default:
		return 1
	}
}

// worstExitCode merges exit codes across multiple failures in a
// multi-file run: 3 (unsupported language) outranks 2 (safety/parse
// failure), which outranks the generic 1.
func worstExitCode(current, next int) int {
	rank := func(code int) int {
		switch code {
		case 3:
			return 2
		case 2:
			return 1
		default:
			return 0
		}
	}
	if rank(next) > rank(current) {
		return next
	}
	return current
}

// flagsWithValue lists flags that take a value argument, for reorderArgs
// to know how many tokens to keep attached to a flag it moves.
var flagsWithValue = map[string]bool{
	"-mode": true, "--mode": true,
	"-language": true, "--language": true,
	"-jobs": true, "--jobs": true,
}

// reorderArgs moves flags before positional arguments so Go's flag
// package, which stops parsing at the first non-flag argument, accepts
// flags and positionals in either order.
func reorderArgs(args []string) []string {
	var flags, positional []string
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if args[i] == "-" {
			positional = append(positional, args[i])
			continue
		}
		if len(args[i]) > 0 && args[i][0] == '-' && !strings.Contains(args[i], "=") {
			flags = append(flags, args[i])
			if flagsWithValue[args[i]] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
			continue
		}
		if len(args[i]) > 0 && args[i][0] == '-' {
			flags = append(flags, args[i])
			continue
		}
		positional = append(positional, args[i])
	}
	return append(flags, positional...)
}
