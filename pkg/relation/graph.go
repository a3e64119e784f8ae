package relation

import "strings"

// Graph is a directed graph of table relationships. Nodes are table names
// in first-seen order; edges are keyed by (from, to) and accumulate the
// column pairings that connect the two tables.
type Graph struct {
	nodes   []string
	nodeSet map[string]struct{}
	edges   map[edgeKey]*edge
	order   []edgeKey
}

type edgeKey struct {
	from string
	to   string
}

type edge struct {
	labels []string
	seen   map[string]struct{}
}

// NewGraph returns an empty relationship graph.
func NewGraph() *Graph {
	return &Graph{
		nodeSet: make(map[string]struct{}),
		edges:   make(map[edgeKey]*edge),
	}
}

// AddNode registers a table. Adding the same table twice is a no-op.
func (g *Graph) AddNode(table string) {
	if table == "" {
		return
	}
	if _, ok := g.nodeSet[table]; ok {
		return
	}
	g.nodeSet[table] = struct{}{}
	g.nodes = append(g.nodes, table)
}

// AddEdge records a "col1 -> col2" pairing between two tables. The pairing
// is appended to the edge label set exactly once; repeated pairings between
// the same tables are ignored.
func (g *Graph) AddEdge(from, to, column1, column2 string) {
	if from == "" || to == "" {
		return
	}
	g.AddNode(from)
	g.AddNode(to)

	key := edgeKey{from: from, to: to}
	e, ok := g.edges[key]
	if !ok {
		e = &edge{seen: make(map[string]struct{})}
		g.edges[key] = e
		g.order = append(g.order, key)
	}
	label := column1 + " -> " + column2
	if _, dup := e.seen[label]; dup {
		return
	}
	e.seen[label] = struct{}{}
	e.labels = append(e.labels, label)
}

// HasNode reports whether the table is present in the graph.
func (g *Graph) HasNode(table string) bool {
	_, ok := g.nodeSet[table]
	return ok
}

// HasEdge reports whether a directed edge exists between two tables.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.edges[edgeKey{from: from, to: to}]
	return ok
}

// EdgeLabel returns the "; "-joined column pairings for a directed edge,
// or the empty string when no such edge exists.
func (g *Graph) EdgeLabel(from, to string) string {
	e, ok := g.edges[edgeKey{from: from, to: to}]
	if !ok {
		return ""
	}
	return strings.Join(e.labels, "; ")
}

// NodeCount returns the number of tables in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of directed table pairs in the graph.
func (g *Graph) EdgeCount() int { return len(g.order) }

// NodeView is a render-ready node for exporters. ConnectionCount is the
// number of distinct tables this table shares an edge with, in either
// direction.
type NodeView struct {
	ID              string
	Label           string
	ConnectionCount int
}

// EdgeView is a render-ready directed edge for exporters.
type EdgeView struct {
	From  string
	To    string
	Label string
}

// Nodes returns all tables in insertion order.
func (g *Graph) Nodes() []NodeView {
	degree := make(map[string]map[string]struct{}, len(g.nodes))
	neighbors := func(table string) map[string]struct{} {
		m, ok := degree[table]
		if !ok {
			m = make(map[string]struct{})
			degree[table] = m
		}
		return m
	}
	for _, key := range g.order {
		neighbors(key.from)[key.to] = struct{}{}
		neighbors(key.to)[key.from] = struct{}{}
	}

	views := make([]NodeView, 0, len(g.nodes))
	for _, table := range g.nodes {
		views = append(views, NodeView{
			ID:              table,
			Label:           table,
			ConnectionCount: len(degree[table]),
		})
	}
	return views
}

// Edges returns all directed edges in insertion order.
func (g *Graph) Edges() []EdgeView {
	views := make([]EdgeView, 0, len(g.order))
	for _, key := range g.order {
		views = append(views, EdgeView{
			From:  key.from,
			To:    key.to,
			Label: strings.Join(g.edges[key].labels, "; "),
		})
	}
	return views
}
