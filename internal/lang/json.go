package lang

// Json carries no tree-sitter grammar and no node-type table: it is
// parsed and walked by internal/transform using encoding/json directly.
// Registering it here (with a nil grammar) keeps ForPath/IsRegistered
// uniform for every language, AST-backed or not.
func init() {
	register(Json, nil, NodeTypeTable{})
}
