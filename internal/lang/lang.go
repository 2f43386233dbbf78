// Package lang is the language registry: it maps file extensions and
// explicit tags to a Language, and each Language to a grammar handle and
// a NodeTypeTable describing which AST node kinds carry bodies,
// signatures, and type declarations.
package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/skim/internal/skimerr"
)

// Language is the closed set of source languages Skim understands.
type Language string

const (
	TypeScript Language = "typescript"
	JavaScript Language = "javascript"
	Python     Language = "python"
	Rust       Language = "rust"
	Go         Language = "go"
	Java       Language = "java"
	Markdown   Language = "markdown"

	// Json and Yaml are supplemental data-format languages. They never
	// reach the tree-sitter engine; internal/transform handles them
	// with a dedicated, non-AST strategy.
	Json Language = "json"
	Yaml Language = "yaml"
)

// NodeTypeTable holds the three grammar-specific node-kind sets a
// language's registry entry carries. Membership tests are on the set,
// never a slice scan.
type NodeTypeTable struct {
	// BodyBearing is the set of node kinds whose body child should be
	// elided in Structure mode.
	BodyBearing map[string]struct{}
	// Signature is the set of node kinds emitted whole-minus-body in
	// Signatures mode.
	Signature map[string]struct{}
	// Type is the set of node kinds emitted verbatim in Types mode.
	Type map[string]struct{}
}

func newSet(kinds ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// entry is the full per-language registration: its grammar handle (nil
// for the two non-AST data formats) and node-type table.
type entry struct {
	grammar *sitter.Language
	table   NodeTypeTable
}

// registry is populated by each language file's init() function. It is
// written only at init time, then read-only for the life of the process,
// matching the teacher's Languages map pattern.
var registry = make(map[Language]*entry)

func register(l Language, grammar *sitter.Language, table NodeTypeTable) {
	registry[l] = &entry{grammar: grammar, table: table}
}

// extensions maps a lowercase, dot-stripped extension to a Language.
var extensions = map[string]Language{
	"ts":       TypeScript,
	"tsx":      TypeScript,
	"js":       JavaScript,
	"jsx":      JavaScript,
	"mjs":      JavaScript,
	"cjs":      JavaScript,
	"py":       Python,
	"pyi":      Python,
	"rs":       Rust,
	"go":       Go,
	"java":     Java,
	"md":       Markdown,
	"markdown": Markdown,
	"json":     Json,
	"yaml":     Yaml,
	"yml":      Yaml,
}

// ForExtension resolves a lowercase, dot-stripped extension to a
// Language, reporting whether it is recognized.
func ForExtension(ext string) (Language, bool) {
	l, ok := extensions[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return l, ok
}

// ForPath resolves a Language from a file path's extension, falling back
// to explicitTag when the extension is absent or unrecognized. It fails
// with an unsupported-language error naming the extension when neither
// resolves.
func ForPath(path string, explicitTag string) (Language, error) {
	ext := extOf(path)
	if l, ok := ForExtension(ext); ok {
		return l, nil
	}
	if explicitTag != "" {
		if l, ok := ForExtension(explicitTag); ok {
			return l, nil
		}
		if _, ok := registry[Language(strings.ToLower(explicitTag))]; ok {
			return Language(strings.ToLower(explicitTag)), nil
		}
	}
	if ext == "" {
		return "", skimerr.Newf(skimerr.UnsupportedLanguage, "no extension on %q and no explicit language tag supplied", path)
	}
	return "", skimerr.Newf(skimerr.UnsupportedLanguage, "unrecognized extension %q", ext)
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 || i == len(path)-1 {
		return ""
	}
	slash := strings.LastIndexByte(path, '/')
	if slash > i {
		return ""
	}
	return path[i+1:]
}

// Grammar returns the tree-sitter grammar handle for l, or nil for
// languages handled outside the AST engine (Json, Yaml).
func Grammar(l Language) (*sitter.Language, bool) {
	e, ok := registry[l]
	if !ok {
		return nil, false
	}
	return e.grammar, true
}

// Table returns the NodeTypeTable for l.
func Table(l Language) (NodeTypeTable, bool) {
	e, ok := registry[l]
	if !ok {
		return NodeTypeTable{}, false
	}
	return e.table, true
}

// IsRegistered reports whether l has been registered at all (catches
// typos in explicit tags that happen to collide with no extension).
func IsRegistered(l Language) bool {
	_, ok := registry[l]
	return ok
}

// NewParser returns a fresh tree-sitter parser configured for l's
// grammar. Parsers are not safe for concurrent use, so transform.Run
// allocates a fresh one for every call rather than sharing one across
// worker goroutines.
func NewParser(l Language) (*sitter.Parser, error) {
	g, ok := Grammar(l)
	if !ok || g == nil {
		return nil, skimerr.Newf(skimerr.UnsupportedLanguage, "language %q has no tree-sitter grammar", l)
	}
	p := sitter.NewParser()
	p.SetLanguage(g)
	return p, nil
}
