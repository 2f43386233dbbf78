package transform

import (
	"bytes"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/skim/internal/lang"
	"github.com/phobologic/skim/internal/safety"
)

// runTypes emits [node.start, node.end) verbatim for every type_kinds
// node, separated by a blank line. Method bodies within a class/trait
// shell are not elided here; the whole declaration range is kept.
func runTypes(source []byte, root *sitter.Node, language lang.Language, table lang.NodeTypeTable) ([]byte, error) {
	var nodes safety.NodeCounter
	decls := safety.NewDeclCounter(safety.MaxDeclarations)
	var blocks [][]byte

	if err := collectTypes(root, source, language, table, &nodes, decls, 0, &blocks); err != nil {
		return nil, err
	}

	return bytes.Join(blocks, []byte("\n\n")), nil
}

func collectTypes(node *sitter.Node, source []byte, language lang.Language, table lang.NodeTypeTable, nodes *safety.NodeCounter, decls *safety.DeclCounter, depth safety.Depth, out *[][]byte) error {
	if err := depth.Check(); err != nil {
		return err
	}
	if err := nodes.Inc(); err != nil {
		return err
	}

	_, matchesKind := table.Type[node.Type()]
	matchesPredicate := language == lang.Python &&
		(isPythonTypingAliasAssignment(node, source) || isPythonDecoratedTypeNode(node, table))

	if matchesKind || matchesPredicate {
		start, end := int(node.StartByte()), int(node.EndByte())
		if end >= start && end <= len(source) {
			if err := decls.Inc(); err != nil {
				return err
			}
			*out = append(*out, source[start:end])
		}
		// Type shells are emitted whole, but their descendants must still
		// be walked so MaxASTNodes is enforced against the full tree, not
		// just the nodes that happen to end up extracted.
		return countDescendants(node, nodes, depth)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if err := collectTypes(node.Child(i), source, language, table, nodes, decls, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

// isPythonTypingAliasAssignment recognizes a `typing`-style annotated
// assignment such as `IntOrStr: TypeAlias = int | str`. tree-sitter-python
// has no dedicated node kind for this form (unlike PEP 695's
// type_alias_statement, which is a plain table entry) — it parses as an
// expression_statement wrapping an assignment whose "type" field names
// TypeAlias, so it needs a predicate rather than a kind-set lookup.
func isPythonTypingAliasAssignment(node *sitter.Node, source []byte) bool {
	if node.Type() != "expression_statement" || node.ChildCount() != 1 {
		return false
	}
	assign := node.Child(0)
	if assign.Type() != "assignment" {
		return false
	}
	annotation := assign.ChildByFieldName("type")
	if annotation == nil {
		return false
	}
	text := string(source[annotation.StartByte():annotation.EndByte()])
	return text == "TypeAlias" || strings.HasSuffix(text, ".TypeAlias")
}

// isPythonDecoratedTypeNode recognizes a decorated class used as a type
// declaration (e.g. `@runtime_checkable\nclass Foo(Protocol): ...`).
// tree-sitter-python wraps a decorated class/function in a
// decorated_definition node whose last child is the class_definition
// itself; matching only the inner class_definition would silently drop
// the decorator lines from the emitted shell.
func isPythonDecoratedTypeNode(node *sitter.Node, table lang.NodeTypeTable) bool {
	if node.Type() != "decorated_definition" {
		return false
	}
	count := int(node.ChildCount())
	if count == 0 {
		return false
	}
	inner := node.Child(count - 1)
	_, ok := table.Type[inner.Type()]
	return ok
}

// countDescendants walks node's subtree purely to enforce the node-count
// and depth caps, without collecting or emitting anything. Used once a
// type shell has already been captured whole, so its members still count
// against MaxASTNodes/MaxASTDepth.
func countDescendants(node *sitter.Node, nodes *safety.NodeCounter, depth safety.Depth) error {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		childDepth := depth + 1
		if err := childDepth.Check(); err != nil {
			return err
		}
		if err := nodes.Inc(); err != nil {
			return err
		}
		if err := countDescendants(child, nodes, childDepth); err != nil {
			return err
		}
	}
	return nil
}
