package lang

import (
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func init() {
	body := newSet(
		"function_declaration", "method_definition", "function_expression",
		"arrow_function", "generator_function", "generator_function_declaration",
		"constructor",
	)
	signature := newSet(
		"function_declaration", "method_definition", "function_expression",
		"arrow_function", "generator_function", "generator_function_declaration",
		"constructor", "method_signature", "function_signature",
	)
	typ := newSet(
		"interface_declaration", "type_alias_declaration", "enum_declaration",
		"class_declaration",
	)

	register(TypeScript, typescript.GetLanguage(), NodeTypeTable{
		BodyBearing: body,
		Signature:   signature,
		Type:        typ,
	})

	// JavaScript shares TypeScript's node-kind vocabulary per the spec's
	// combined "TypeScript / JavaScript" table row; only the grammar
	// handle differs.
	register(JavaScript, javascript.GetLanguage(), NodeTypeTable{
		BodyBearing: body,
		Signature:   signature,
		Type:        typ,
	})
}
