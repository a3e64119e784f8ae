package relation

import (
	"log/slog"
	"sort"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/opcode"
	_ "github.com/pingcap/tidb/parser/test_driver"
)

// Analyzer extracts join relationships from SQL text. An Analyzer holds
// only options; every call returns a fresh Result, so a single Analyzer
// may be shared across goroutines.
type Analyzer struct {
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used to report skipped statements and
// recovered traversal failures.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an Analyzer. Without options, diagnostics are
// discarded.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result holds the relationships extracted from one analysis call,
// together with the graph and table set derived from them.
type Result struct {
	Relationships []Relationship
	Graph         *Graph

	tables map[string]struct{}
	seen   map[string]struct{}
}

func newResult() *Result {
	return &Result{
		Graph:  NewGraph(),
		tables: make(map[string]struct{}),
		seen:   make(map[string]struct{}),
	}
}

// Tables returns the sorted names of all tables that appear on both sides
// of at least one relationship.
func (r *Result) Tables() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// add appends a relationship unless an identical one was already recorded.
// The graph and table set only track relationships with both sides
// resolved; NATURAL placeholders stay list-only.
func (r *Result) add(rel Relationship) {
	key := rel.Key()
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	r.Relationships = append(r.Relationships, rel)

	if rel.Table1 != "" && rel.Table2 != "" {
		r.tables[rel.Table1] = struct{}{}
		r.tables[rel.Table2] = struct{}{}
		r.Graph.AddEdge(rel.Table1, rel.Table2, rel.Column1, rel.Column2)
	}
}

// AnalyzeSQL parses one SQL text, which may hold several statements, and
// extracts relationships from all of them. A text that fails to parse
// yields an empty Result and a logged warning; it never fails the caller.
func (a *Analyzer) AnalyzeSQL(sql string) *Result {
	res := newResult()
	a.analyzeInto(res, sql)
	return res
}

// AnalyzeQueries runs AnalyzeSQL over each query in order and merges the
// outputs. Relationships keep first-seen order; duplicates across queries
// collapse on the (table1, column1, table2, column2) identity.
func (a *Analyzer) AnalyzeQueries(queries []string) *Result {
	combined := newResult()
	for i, query := range queries {
		part := a.AnalyzeSQL(query)
		if len(part.Relationships) == 0 {
			a.logger.Debug("no relationships found", "query", i+1)
		}
		for _, rel := range part.Relationships {
			combined.add(rel)
		}
	}
	return combined
}

func (a *Analyzer) analyzeInto(res *Result, sql string) {
	p := parser.New()
	stmts, warns, err := p.ParseSQL(sql)
	if err != nil {
		a.logger.Warn("SQL parse failed, skipping text", "error", err)
		return
	}
	for _, warn := range warns {
		a.logger.Debug("SQL parse warning", "warning", warn)
	}

	sess := &session{
		logger:  a.logger,
		res:     res,
		aliases: make(map[string]string),
		visited: make(map[ast.Node]struct{}),
	}
	collector := &aliasCollector{aliases: sess.aliases}
	for _, stmt := range stmts {
		stmt.Accept(collector)
	}
	for _, stmt := range stmts {
		sess.analyzeStatement(stmt)
	}
}

// session is the per-call extraction state: one alias namespace and one
// visited set shared by every statement and subquery in the text.
type session struct {
	logger  *slog.Logger
	res     *Result
	aliases map[string]string
	visited map[ast.Node]struct{}
}

// analyzeStatement extracts relationships from one statement, then
// recurses into every subquery it contains. A traversal failure abandons
// only the statement at hand.
func (s *session) analyzeStatement(stmt ast.Node) {
	if _, done := s.visited[stmt]; done {
		return
	}
	s.visited[stmt] = struct{}{}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("statement traversal failed, skipping", "panic", r)
		}
	}()

	refs, where := statementRefs(stmt)
	if refs != nil && refs.TableRefs != nil {
		left := s.leftmostTable(refs.TableRefs)
		s.walkJoins(refs.TableRefs, left)
		s.correlateWhere(refs.TableRefs, where)
	}

	for _, sub := range nestedSelects(stmt) {
		s.analyzeStatement(sub)
	}
}

// statementRefs returns the table-refs clause and WHERE expression of
// statements that have them. INSERT exposes only its target table; its
// SELECT source is picked up by the subquery descent.
func statementRefs(stmt ast.Node) (*ast.TableRefsClause, ast.ExprNode) {
	switch st := stmt.(type) {
	case *ast.SelectStmt:
		return st.From, st.Where
	case *ast.UpdateStmt:
		return st.TableRefs, st.Where
	case *ast.DeleteStmt:
		return st.TableRefs, st.Where
	case *ast.InsertStmt:
		return st.Table, nil
	}
	return nil, nil
}

// walkJoins visits every join node in a FROM tree. The parser builds
// left-deep trees, so each join node pairs everything to its left with
// one joined source on the right.
func (s *session) walkJoins(node ast.ResultSetNode, left string) {
	join, ok := node.(*ast.Join)
	if !ok {
		return
	}
	s.walkJoins(join.Left, left)
	if join.Right == nil {
		return
	}
	s.walkJoins(join.Right, left)
	s.processJoin(join, left)
}

func (s *session) processJoin(join *ast.Join, left string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("join processing failed, skipping", "panic", r)
		}
	}()

	switch {
	case join.On != nil:
		s.extractEqualities(join.On.Expr)
	case len(join.Using) > 0:
		right := s.sourceTable(join.Right)
		if right == "" {
			return
		}
		if left == "" {
			left = "LEFT_TABLE"
		}
		for _, col := range join.Using {
			s.res.add(newRelationship(left, col.Name.O, right, col.Name.O))
		}
	case join.NaturalJoin:
		right := s.sourceTable(join.Right)
		if right == "" {
			return
		}
		s.res.add(newRelationship("", NaturalColumn, right, NaturalColumn))
	}
	// A join with none of the three markers is a comma-style entry;
	// correlateWhere covers it.
}

// extractEqualities decomposes an ON condition. AND splits into both
// sides; OR and NOT make the pairing ambiguous and are dropped whole.
func (s *session) extractEqualities(expr ast.ExprNode) {
	switch e := expr.(type) {
	case *ast.BinaryOperationExpr:
		switch e.Op {
		case opcode.EQ:
			s.addEquality(e)
		case opcode.LogicAnd:
			s.extractEqualities(e.L)
			s.extractEqualities(e.R)
		case opcode.LogicOr:
		default:
			s.extractEqualities(e.L)
			s.extractEqualities(e.R)
		}
	case *ast.ParenthesesExpr:
		s.extractEqualities(e.Expr)
	case *ast.UnaryOperationExpr:
		if e.Op != opcode.Not {
			s.extractEqualities(e.V)
		}
	}
}

// addEquality records column1 = column2 when both sides are table-qualified
// column references that resolve to two different tables. Comparisons with
// literals, functions or same-table columns are ignored.
func (s *session) addEquality(eq *ast.BinaryOperationExpr) {
	lcol, lok := columnRef(eq.L)
	rcol, rok := columnRef(eq.R)
	if !lok || !rok {
		return
	}
	table1 := s.resolve(lcol.Table.O)
	table2 := s.resolve(rcol.Table.O)
	if table1 == "" || table2 == "" || table1 == table2 {
		return
	}
	s.res.add(newRelationship(table1, lcol.Name.O, table2, rcol.Name.O))
}

func columnRef(expr ast.ExprNode) (*ast.ColumnName, bool) {
	switch e := expr.(type) {
	case *ast.ParenthesesExpr:
		return columnRef(e.Expr)
	case *ast.ColumnNameExpr:
		if e.Name == nil {
			return nil, false
		}
		return e.Name, true
	}
	return nil, false
}

// correlateWhere handles legacy comma-separated FROM lists. When the FROM
// tree holds at least one entry without an ON condition and more than one
// resolvable table, every equality in the WHERE clause is scanned for
// cross-table column pairs.
func (s *session) correlateWhere(root *ast.Join, where ast.ExprNode) {
	if where == nil {
		return
	}
	if !hasBareJoin(root) {
		return
	}
	if len(s.fromTables(root)) < 2 {
		return
	}
	eqs := &equalityCollector{}
	where.Accept(eqs)
	for _, eq := range eqs.out {
		s.addEquality(eq)
	}
}

func hasBareJoin(node ast.ResultSetNode) bool {
	join, ok := node.(*ast.Join)
	if !ok {
		return false
	}
	if join.Right != nil && join.On == nil {
		return true
	}
	return hasBareJoin(join.Left) || hasBareJoin(join.Right)
}

// fromTables lists the resolvable base tables of a FROM tree, left to
// right. Derived tables are not counted.
func (s *session) fromTables(node ast.ResultSetNode) []string {
	var tables []string
	var walk func(ast.ResultSetNode)
	walk = func(n ast.ResultSetNode) {
		switch v := n.(type) {
		case *ast.Join:
			walk(v.Left)
			if v.Right != nil {
				walk(v.Right)
			}
		case *ast.TableSource:
			if name := s.sourceTable(v); name != "" {
				tables = append(tables, name)
			}
		}
	}
	walk(node)
	return tables
}

// leftmostTable returns the base table heading the FROM tree, or "" when
// the head is a derived table. Only the left spine is followed; joined
// sources never stand in for the FROM head.
func (s *session) leftmostTable(node ast.ResultSetNode) string {
	switch v := node.(type) {
	case *ast.Join:
		return s.leftmostTable(v.Left)
	case *ast.TableSource:
		return s.sourceTable(v)
	}
	return ""
}

// sourceTable resolves a FROM entry to a base table name, or "" for
// derived tables and join subtrees.
func (s *session) sourceTable(node ast.ResultSetNode) string {
	ts, ok := node.(*ast.TableSource)
	if !ok {
		return ""
	}
	tn, ok := ts.Source.(*ast.TableName)
	if !ok {
		return ""
	}
	return s.resolve(tn.Name.O)
}

// nestedSelects collects every SELECT contained in a statement, whatever
// the position: scalar subquery, IN or EXISTS operand, derived table, the
// source of an INSERT, or a UNION branch.
func nestedSelects(stmt ast.Node) []ast.Node {
	c := &selectCollector{root: stmt}
	stmt.Accept(c)
	return c.out
}

type selectCollector struct {
	root ast.Node
	out  []ast.Node
}

func (c *selectCollector) Enter(n ast.Node) (ast.Node, bool) {
	if sel, ok := n.(*ast.SelectStmt); ok && ast.Node(sel) != c.root {
		c.out = append(c.out, sel)
	}
	return n, false
}

func (c *selectCollector) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}

// equalityCollector gathers every `=` comparison in an expression tree,
// including those nested under other operators.
type equalityCollector struct {
	out []*ast.BinaryOperationExpr
}

func (c *equalityCollector) Enter(n ast.Node) (ast.Node, bool) {
	if bin, ok := n.(*ast.BinaryOperationExpr); ok && bin.Op == opcode.EQ {
		c.out = append(c.out, bin)
	}
	return n, false
}

func (c *equalityCollector) Leave(n ast.Node) (ast.Node, bool) {
	return n, true
}
