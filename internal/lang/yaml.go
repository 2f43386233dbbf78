package lang

// Yaml carries no tree-sitter grammar and no node-type table: it is
// parsed and walked by internal/transform using gopkg.in/yaml.v3's
// yaml.Node tree directly.
func init() {
	register(Yaml, nil, NodeTypeTable{})
}
