package relation

import "testing"

func TestInferColumnType(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"", "UNKNOWN"},
		{"NATURAL", "UNKNOWN"},
		{"id", "INT PRIMARY KEY"},
		{"ID", "INT PRIMARY KEY"},
		{"user_id", "INT FOREIGN KEY"},
		{"created_at", "DATETIME"},
		{"start_time", "DATETIME"},
		{"birth_date", "DATE"},
		{"view_count", "INT"},
		{"seq_num", "INT"},
		{"deleted_flag", "BOOLEAN"},
		{"is_active", "BOOLEAN"},
		{"username", "VARCHAR(255)"},
		{"order_identifier", "VARCHAR(255)"},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			if got := InferColumnType(tt.column); got != tt.want {
				t.Errorf("InferColumnType(%q) = %q, want %q", tt.column, got, tt.want)
			}
		})
	}
}

func TestRelationshipKey(t *testing.T) {
	a := newRelationship("users", "id", "posts", "user_id")
	b := newRelationship("users", "id", "posts", "user_id")
	c := newRelationship("posts", "user_id", "users", "id")

	if a.Key() != b.Key() {
		t.Error("identical relationships should share a key")
	}
	if a.Key() == c.Key() {
		t.Error("reversed relationships should have distinct keys")
	}
}

func TestGraphEdgeLabels(t *testing.T) {
	g := NewGraph()
	g.AddEdge("users", "posts", "id", "user_id")
	g.AddEdge("users", "posts", "tenant_id", "tenant_id")
	g.AddEdge("users", "posts", "id", "user_id")

	if got := g.EdgeLabel("users", "posts"); got != "id -> user_id; tenant_id -> tenant_id" {
		t.Errorf("unexpected edge label: %q", got)
	}
	if g.EdgeCount() != 1 {
		t.Errorf("expected one edge, got %d", g.EdgeCount())
	}
	if g.NodeCount() != 2 {
		t.Errorf("expected two nodes, got %d", g.NodeCount())
	}
}

func TestGraphNodeViews(t *testing.T) {
	g := NewGraph()
	g.AddEdge("users", "posts", "id", "user_id")
	g.AddEdge("users", "orders", "id", "user_id")
	g.AddEdge("orders", "users", "user_id", "id")

	nodes := g.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("expected three nodes, got %d", len(nodes))
	}
	if nodes[0].ID != "users" {
		t.Errorf("expected insertion order to start with users, got %s", nodes[0].ID)
	}
	for _, n := range nodes {
		switch n.ID {
		case "users":
			if n.ConnectionCount != 2 {
				t.Errorf("users should connect to two tables, got %d", n.ConnectionCount)
			}
		case "posts", "orders":
			if n.ConnectionCount != 1 {
				t.Errorf("%s should connect to one table, got %d", n.ID, n.ConnectionCount)
			}
		}
	}

	edges := g.Edges()
	if len(edges) != 3 {
		t.Fatalf("expected three directed edges, got %d", len(edges))
	}
	if edges[0].From != "users" || edges[0].To != "posts" {
		t.Errorf("unexpected first edge: %+v", edges[0])
	}
}

func TestGraphIgnoresEmptyNames(t *testing.T) {
	g := NewGraph()
	g.AddEdge("", "posts", "NATURAL", "NATURAL")
	g.AddNode("")

	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Error("edges with an unresolved side should not enter the graph")
	}
}
