package lang

import (
	markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
)

// Markdown has no body_bearing/signature/type node kinds — headings are
// walked directly by internal/transform using the grammar's own heading
// node kinds (atx_heading, setext_heading), not this table. The grammar
// handle is still registered so internal/lang.NewParser works uniformly
// across every AST-backed language.
func init() {
	register(Markdown, markdown.GetLanguage(), NodeTypeTable{
		BodyBearing: newSet(),
		Signature:   newSet(),
		Type:        newSet(),
	})
}
