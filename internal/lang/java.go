package lang

import (
	"github.com/smacker/go-tree-sitter/java"
)

func init() {
	register(Java, java.GetLanguage(), NodeTypeTable{
		BodyBearing: newSet("method_declaration", "constructor_declaration"),
		Signature:   newSet("method_declaration", "constructor_declaration"),
		Type:        newSet("class_declaration", "interface_declaration", "enum_declaration", "record_declaration"),
	})
}
