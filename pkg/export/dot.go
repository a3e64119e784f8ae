package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/joingraph/pkg/relation"
)

// WriteDOT writes the relationship graph in Graphviz DOT form, one node
// per table and one labelled edge per directed table pair. The output
// renders with `dot -Tpng` or any DOT viewer.
func WriteDOT(w io.Writer, g *relation.Graph) error {
	var b strings.Builder
	b.WriteString("digraph table_relationships {\n")
	b.WriteString("\trankdir=LR;\n")
	b.WriteString("\tnode [shape=box, style=\"rounded,filled\", fillcolor=lightblue];\n")

	nodes := g.Nodes()
	if len(nodes) > 0 {
		b.WriteString("\n")
	}
	for _, n := range nodes {
		fmt.Fprintf(&b, "\t%s;\n", dotQuote(n.ID))
	}

	edges := g.Edges()
	if len(edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range edges {
		fmt.Fprintf(&b, "\t%s -> %s [label=%s];\n",
			dotQuote(e.From), dotQuote(e.To), dotQuote(e.Label))
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
