package relation

import "github.com/pingcap/tidb/parser/ast"

// aliasCollector gathers every table reference in a statement into one
// alias-to-table map. The traversal covers FROM lists, JOIN chains and
// subqueries at any depth, so all scopes share a single namespace, the
// way the extraction pass expects. Unaliased tables map to themselves;
// derived tables contribute no entry.
type aliasCollector struct {
	aliases map[string]string
}

func (c *aliasCollector) Enter(n ast.Node) (ast.Node, bool) {
	ts, ok := n.(*ast.TableSource)
	if !ok {
		return n, false
	}
	tn, ok := ts.Source.(*ast.TableName)
	if !ok {
		return n, false
	}
	name := tn.Name.O
	if name == "" {
		return n, false
	}
	if alias := ts.AsName.O; alias != "" {
		c.aliases[alias] = name
	} else {
		c.aliases[name] = name
	}
	return n, false
}

func (c *aliasCollector) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}

// resolve maps an alias to its table name. Names with no alias entry are
// returned unchanged so fully qualified references keep working.
func (s *session) resolve(name string) string {
	if name == "" {
		return ""
	}
	if table, ok := s.aliases[name]; ok {
		return table
	}
	return name
}
