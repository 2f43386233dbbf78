package lang

import (
	"github.com/smacker/go-tree-sitter/golang"
)

func init() {
	register(Go, golang.GetLanguage(), NodeTypeTable{
		BodyBearing: newSet("function_declaration", "method_declaration"),
		Signature:   newSet("function_declaration", "method_declaration"),
		Type:        newSet("type_declaration"),
	})
}
