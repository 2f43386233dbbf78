package transform

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/skim/internal/lang"
	"github.com/phobologic/skim/internal/skimerr"
)

// Run dispatches source to the mode-appropriate traversal for language.
// Callers are responsible for the pre-parse safety checks in
// internal/safety (size, UTF-8 boundary of the whole buffer is trivially
// true, path concerns don't apply to in-memory bytes).
func Run(source []byte, language lang.Language, mode Mode) ([]byte, error) {
	switch language {
	case lang.Json:
		return runJSON(source, mode)
	case lang.Yaml:
		return runYAML(source, mode)
	case lang.Markdown:
		return runMarkdown(source, mode)
	}

	if mode == Full {
		return append([]byte(nil), source...), nil
	}

	table, ok := lang.Table(language)
	if !ok {
		return nil, skimerr.Newf(skimerr.UnsupportedLanguage, "no node-type table registered for %q", language)
	}

	parser, err := lang.NewParser(language)
	if err != nil {
		return nil, err
	}
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, skimerr.Wrap(skimerr.ParseError, err, "parsing source")
	}
	defer tree.Close()

	root := tree.RootNode()

	switch mode {
	case Structure:
		return runStructure(source, root, table)
	case Signatures:
		return runSignatures(source, root, table)
	case Types:
		return runTypes(source, root, language, table)
	default:
		return nil, skimerr.Newf(skimerr.ParseError, "unknown mode %q", mode)
	}
}

// childByRole returns the named child by grammar field when the grammar
// exposes one, falling back to a scan of direct children for the given
// fallback kinds. This mirrors the body-lookup strategy in the
// elision/signature traversals: a body field lookup first, then a kind
// scan for grammars with no "body" field.
func childByRole(node *sitter.Node, field string, fallbackKinds map[string]struct{}) *sitter.Node {
	if field != "" {
		if c := node.ChildByFieldName(field); c != nil {
			return c
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if _, ok := fallbackKinds[child.Type()]; ok {
			return child
		}
	}
	return nil
}

var blockKinds = map[string]struct{}{
	"statement_block":    {},
	"block":              {},
	"compound_statement": {},
}

var blockKindsWithBody = map[string]struct{}{
	"statement_block":    {},
	"block":              {},
	"compound_statement": {},
	"body":               {},
}

func findBody(node *sitter.Node) *sitter.Node {
	return childByRole(node, "body", blockKinds)
}

func findBodyForSignature(node *sitter.Node) *sitter.Node {
	return childByRole(node, "body", blockKindsWithBody)
}
