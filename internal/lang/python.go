package lang

import (
	"github.com/smacker/go-tree-sitter/python"
)

func init() {
	register(Python, python.GetLanguage(), NodeTypeTable{
		BodyBearing: newSet("function_definition", "async_function_definition"),
		Signature:   newSet("function_definition", "async_function_definition"),
		// class_definition covers class/trait shells (kept verbatim, see
		// DESIGN.md's Types-mode Open Question decision); type_alias_statement
		// is PEP 695's `type X = ...` form. A `typing`-style annotated
		// assignment (`X: TypeAlias = ...`) has no dedicated grammar node
		// kind in tree-sitter-python, so it can't be listed here — see the
		// predicate-based check in internal/transform/types.go.
		Type: newSet("class_definition", "type_alias_statement"),
	})
}
