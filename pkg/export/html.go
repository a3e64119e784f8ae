package export

import (
	"encoding/json"
	"fmt"
	"io"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/leapstack-labs/joingraph/pkg/relation"
)

const visNetworkSrc = "https://unpkg.com/vis-network/standalone/umd/vis-network.min.js"

type htmlNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
	Title string `json:"title"`
}

type htmlEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
	Title string `json:"title"`
}

// WriteHTML writes a self-contained interactive network page. Nodes are
// tables sized by connection count; edges carry the column pairings as
// labels. Rendering happens client-side with vis-network.
func WriteHTML(w io.Writer, res *relation.Result) error {
	nodes := make([]htmlNode, 0, res.Graph.NodeCount())
	for _, n := range res.Graph.Nodes() {
		nodes = append(nodes, htmlNode{
			ID:    n.ID,
			Label: n.Label,
			Value: n.ConnectionCount,
			Title: fmt.Sprintf("%s (%d connected tables)", n.ID, n.ConnectionCount),
		})
	}
	edges := make([]htmlEdge, 0, res.Graph.EdgeCount())
	for _, e := range res.Graph.Edges() {
		edges = append(edges, htmlEdge{
			From:  e.From,
			To:    e.To,
			Label: e.Label,
			Title: e.Label,
		})
	}

	nodesJSON, err := json.Marshal(nodes)
	if err != nil {
		return fmt.Errorf("encoding nodes: %w", err)
	}
	edgesJSON, err := json.Marshal(edges)
	if err != nil {
		return fmt.Errorf("encoding edges: %w", err)
	}

	page := Doctype(
		HTML(Lang("en"),
			Head(
				Meta(Charset("utf-8")),
				TitleEl(Text("Table Relationships")),
				Script(Src(visNetworkSrc)),
				StyleEl(Raw(pageStyle)),
			),
			Body(
				H1(Text("Table Relationships")),
				P(Class("stats"), Textf("%d tables, %d relationships",
					res.Graph.NodeCount(), len(res.Relationships))),
				Div(ID("network")),
				Script(Raw(fmt.Sprintf(pageScript, nodesJSON, edgesJSON))),
			),
		),
	)
	return page.Render(w)
}

const pageStyle = `
body { font-family: sans-serif; margin: 20px; background: #fafafa; }
h1 { font-size: 1.4em; }
.stats { color: #555; }
#network { width: 100%; height: 80vh; border: 1px solid #ccc; background: #fff; }
`

const pageScript = `
const nodes = new vis.DataSet(%s);
const edges = new vis.DataSet(%s);
const container = document.getElementById('network');
new vis.Network(container, {nodes: nodes, edges: edges}, {
	nodes: {shape: 'box', scaling: {min: 10, max: 30}},
	edges: {arrows: 'to', font: {align: 'middle', size: 10}},
	physics: {stabilization: true},
	layout: {improvedLayout: true}
});
`
