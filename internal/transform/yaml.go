package transform

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phobologic/skim/internal/safety"
	"github.com/phobologic/skim/internal/skimerr"
)

// runYAML strips every value out of a YAML document and keeps only its
// key/nesting structure, mirroring original_source's transform_yaml,
// including its `---`/`...` multi-document handling: a file with several
// documents is split, each is reduced independently, and the reduced
// documents are rejoined with "---" separators. Structure and Types
// modes share this output; Full and Signatures pass the bytes through
// unchanged.
func runYAML(source []byte, mode Mode) ([]byte, error) {
	if mode == Full || mode == Signatures {
		return append([]byte(nil), source...), nil
	}

	docs := splitYAMLDocuments(string(source))
	keys := safety.NewDeclCounter(safety.MaxDeclarations)

	var results []string
	for _, doc := range docs {
		if strings.TrimSpace(doc) == "" {
			continue
		}
		var root yaml.Node
		if err := yaml.Unmarshal([]byte(doc), &root); err != nil {
			return nil, skimerr.Wrap(skimerr.ParseError, err, "parsing YAML source")
		}
		structure, err := extractYAMLStructure(&root, 0, keys)
		if err != nil {
			return nil, err
		}
		if structure != "" {
			results = append(results, structure)
		}
	}

	return []byte(strings.Join(results, "\n---\n")), nil
}

// splitYAMLDocuments breaks source on "---" document separators, honoring
// an optional leading separator and an "..." end-of-document marker, the
// same way original_source's split_yaml_documents does. A file with no
// separator at all is returned as a single document.
func splitYAMLDocuments(source string) []string {
	lines := strings.Split(source, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	var documents []string
	var current strings.Builder
	inDocument := false

	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			documents = append(documents, current.String())
		}
		current.Reset()
	}

	for _, line := range lines {
		switch strings.TrimSpace(line) {
		case "---":
			if inDocument {
				flush()
			}
			inDocument = true
		case "...":
			flush()
			inDocument = false
		default:
			if !inDocument && strings.TrimSpace(line) != "" {
				inDocument = true
			}
			if inDocument {
				if current.Len() > 0 {
					current.WriteByte('\n')
				}
				current.WriteString(line)
			}
		}
	}
	flush()

	if len(documents) == 0 {
		documents = append(documents, source)
	}
	return documents
}

// extractYAMLStructure unwraps a parsed document's DocumentNode shell and
// dispatches on the actual root value's kind.
func extractYAMLStructure(doc *yaml.Node, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return "", nil
	}
	return extractYAMLValueStructure(doc.Content[0], depth, keys)
}

func extractYAMLValueStructure(n *yaml.Node, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if err := depth.Check(); err != nil {
		return "", err
	}
	switch n.Kind {
	case yaml.MappingNode:
		return extractYAMLMappingStructure(n, depth, keys)
	case yaml.SequenceNode:
		return extractYAMLSequenceStructure(n, depth, keys)
	default:
		return "", nil // a scalar document root has no structure of its own
	}
}

// extractYAMLMappingStructure formats each key on its own line, indented
// to depth, with a nested block appended beneath any key whose value is
// itself a non-empty mapping or a sequence of mappings. Only string keys
// are shown, matching original_source's handling of YAML's non-string-key
// allowance.
func extractYAMLMappingStructure(n *yaml.Node, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if len(n.Content) == 0 {
		return "{}", nil
	}

	indent := strings.Repeat("  ", int(depth))
	var lines []string

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" {
			continue
		}
		if err := keys.Inc(); err != nil {
			return "", err
		}
		suffix, err := formatYAMLValue(valNode, depth+1, keys)
		if err != nil {
			return "", err
		}
		lines = append(lines, indent+keyNode.Value+suffix)
	}

	return strings.Join(lines, "\n"), nil
}

// formatYAMLValue returns the suffix to append after a mapping key: a
// ":\n<nested>" block for a non-empty nested mapping or a sequence of
// mappings, "" for anything else (an empty mapping included — an empty
// nested mapping shows only its key, with no colon).
func formatYAMLValue(n *yaml.Node, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if err := depth.Check(); err != nil {
		return "", err
	}
	switch n.Kind {
	case yaml.MappingNode:
		structure, err := extractYAMLMappingStructure(n, depth, keys)
		if err != nil {
			return "", err
		}
		if structure == "" || structure == "{}" {
			return "", nil
		}
		return ":\n" + structure, nil
	case yaml.SequenceNode:
		return formatYAMLSequenceValue(n, depth, keys)
	default:
		return "", nil
	}
}

// formatYAMLSequenceValue mirrors formatJSONArrayValue: a sequence of
// primitives or an empty sequence contributes no suffix, a sequence of
// mappings contributes the first mapping's structure.
func formatYAMLSequenceValue(n *yaml.Node, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if len(n.Content) == 0 {
		return "", nil
	}
	first := n.Content[0]
	if first.Kind != yaml.MappingNode {
		return "", nil
	}
	structure, err := extractYAMLMappingStructure(first, depth, keys)
	if err != nil {
		return "", err
	}
	if structure == "" {
		return "", nil
	}
	return ":\n" + structure, nil
}

// extractYAMLSequenceStructure handles a sequence at the document root:
// an empty sequence or one whose first element isn't a mapping is "[]",
// otherwise the root shows that first mapping's structure directly.
// Elements beyond the first are never visited, matching
// original_source's extract_sequence_structure.
func extractYAMLSequenceStructure(n *yaml.Node, depth safety.Depth, keys *safety.DeclCounter) (string, error) {
	if len(n.Content) == 0 {
		return "[]", nil
	}
	first := n.Content[0]
	if first.Kind != yaml.MappingNode {
		return "[]", nil
	}
	return extractYAMLMappingStructure(first, depth, keys)
}
