package transform

import (
	"bytes"
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/skim/internal/lang"
	"github.com/phobologic/skim/internal/safety"
	"github.com/phobologic/skim/internal/skimerr"
)

type heading struct {
	level int
	text  []byte
}

// runMarkdown walks the markdown grammar's own heading node kinds
// (atx_heading, setext_heading) rather than inspecting rendered text, so
// a line that merely starts with "#" inside a code fence is never
// mistaken for a heading.
func runMarkdown(source []byte, mode Mode) ([]byte, error) {
	if mode == Full {
		return append([]byte(nil), source...), nil
	}

	parser, err := lang.NewParser(lang.Markdown)
	if err != nil {
		return nil, err
	}
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, skimerr.Wrap(skimerr.ParseError, err, "parsing markdown source")
	}
	defer tree.Close()

	minLevel, maxLevel := 1, 3
	if mode == Signatures || mode == Types {
		maxLevel = 6
	}

	var nodes safety.NodeCounter
	decls := safety.NewDeclCounter(safety.MaxMarkdownHeadings)
	var headings []heading

	if err := collectHeadings(tree.RootNode(), source, minLevel, maxLevel, &nodes, decls, 0, &headings); err != nil {
		return nil, err
	}

	lines := make([][]byte, len(headings))
	for i, h := range headings {
		lines[i] = []byte(strings.Repeat("#", h.level) + " " + string(h.text))
	}
	return bytes.Join(lines, []byte("\n")), nil
}

func collectHeadings(node *sitter.Node, source []byte, minLevel, maxLevel int, nodes *safety.NodeCounter, decls *safety.DeclCounter, depth safety.Depth, out *[]heading) error {
	if err := depth.Check(); err != nil {
		return err
	}
	if err := nodes.Inc(); err != nil {
		return err
	}

	switch node.Type() {
	case "atx_heading":
		if level, text, ok := atxHeading(node, source); ok && level >= minLevel && level <= maxLevel {
			if err := decls.Inc(); err != nil {
				return err
			}
			*out = append(*out, heading{level: level, text: text})
		}
	case "setext_heading":
		if level, text, ok := setextHeading(node, source); ok && level >= minLevel && level <= maxLevel {
			if err := decls.Inc(); err != nil {
				return err
			}
			*out = append(*out, heading{level: level, text: text})
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		if err := collectHeadings(node.Child(i), source, minLevel, maxLevel, nodes, decls, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

func atxHeading(node *sitter.Node, source []byte) (level int, text []byte, ok bool) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		kind := child.Type()
		if strings.HasPrefix(kind, "atx_h") && strings.HasSuffix(kind, "_marker") {
			for _, r := range kind {
				if r >= '1' && r <= '9' {
					level = int(r - '0')
					break
				}
			}
			if level == 0 {
				level = 1
			}
			ok = true
			break
		}
	}
	if !ok {
		return 0, nil, false
	}
	return level, headingText(node, source), true
}

func setextHeading(node *sitter.Node, source []byte) (level int, text []byte, ok bool) {
	level = 1
	for i := 0; i < int(node.ChildCount()); i++ {
		switch node.Child(i).Type() {
		case "setext_h1_underline":
			level = 1
			ok = true
		case "setext_h2_underline":
			level = 2
			ok = true
		}
	}
	return level, headingText(node, source), ok
}

// headingText returns the first non-empty line of the heading node with
// leading "#" markers and surrounding whitespace stripped.
func headingText(node *sitter.Node, source []byte) []byte {
	raw := source[node.StartByte():node.EndByte()]
	for _, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		line = bytes.TrimLeft(line, "#")
		line = bytes.TrimSpace(line)
		line = bytes.TrimRight(line, "#")
		return bytes.TrimSpace(line)
	}
	return nil
}
