package lang

import (
	"github.com/smacker/go-tree-sitter/rust"
)

func init() {
	register(Rust, rust.GetLanguage(), NodeTypeTable{
		BodyBearing: newSet("function_item"),
		Signature:   newSet("function_item"),
		Type:        newSet("struct_item", "enum_item", "trait_item", "type_item", "union_item"),
	})
}
