package transform

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/skim/internal/lang"
	"github.com/phobologic/skim/internal/safety"
	"github.com/phobologic/skim/internal/splice"
)

// runStructure collects one replacement per body-bearing node's body
// child and hands the set to the splice writer. Nested-function collapse
// happens entirely in splice.Apply's merge rule — this traversal does not
// track "am I already inside an elided body" state.
func runStructure(source []byte, root *sitter.Node, table lang.NodeTypeTable) ([]byte, error) {
	var nodes safety.NodeCounter
	var replacements []splice.Replacement

	if err := collectBodyReplacements(root, table, &nodes, 0, &replacements); err != nil {
		return nil, err
	}

	return splice.Apply(source, replacements)
}

func collectBodyReplacements(node *sitter.Node, table lang.NodeTypeTable, nodes *safety.NodeCounter, depth safety.Depth, out *[]splice.Replacement) error {
	if err := depth.Check(); err != nil {
		return err
	}
	if err := nodes.Inc(); err != nil {
		return err
	}

	if _, ok := table.BodyBearing[node.Type()]; ok {
		if body := findBody(node); body != nil {
			*out = append(*out, splice.Replacement{
				Start:   int(body.StartByte()),
				End:     int(body.EndByte()),
				Literal: elisionMarker,
			})
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if err := collectBodyReplacements(node.Child(i), table, nodes, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}
