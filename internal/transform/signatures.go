package transform

import (
	"bytes"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/skim/internal/lang"
	"github.com/phobologic/skim/internal/safety"
)

// runSignatures emits [node.start, body.start) (or the whole node when it
// has no body) for every signature_kinds node, one per line.
func runSignatures(source []byte, root *sitter.Node, table lang.NodeTypeTable) ([]byte, error) {
	var nodes safety.NodeCounter
	decls := safety.NewDeclCounter(safety.MaxDeclarations)
	var lines [][]byte

	if err := collectSignatures(root, source, table, &nodes, decls, 0, &lines); err != nil {
		return nil, err
	}

	return bytes.Join(lines, []byte("\n")), nil
}

func collectSignatures(node *sitter.Node, source []byte, table lang.NodeTypeTable, nodes *safety.NodeCounter, decls *safety.DeclCounter, depth safety.Depth, out *[][]byte) error {
	if err := depth.Check(); err != nil {
		return err
	}
	if err := nodes.Inc(); err != nil {
		return err
	}

	if _, ok := table.Signature[node.Type()]; ok {
		end := int(node.EndByte())
		if body := findBodyForSignature(node); body != nil {
			end = int(body.StartByte())
		}
		start := int(node.StartByte())
		if end >= start && end <= len(source) {
			sig := bytes.TrimSpace(source[start:end])
			if len(sig) > 0 {
				if err := decls.Inc(); err != nil {
					return err
				}
				*out = append(*out, sig)
			}
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if err := collectSignatures(node.Child(i), source, table, nodes, decls, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}
