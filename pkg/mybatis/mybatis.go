// Package mybatis extracts executable SQL from MyBatis mapper XML files.
//
// Mapper statements are written as templates full of dynamic tags and
// parameter markers. The extractor flattens each statement element into a
// single parseable SQL string: dynamic tags are inlined or substituted,
// parameter markers become placeholder literals, and the result is
// whitespace-normalized.
package mybatis

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

// Statement is one flattened mapper statement.
type Statement struct {
	ID   string
	Kind string // select, insert, update or delete
	SQL  string
}

var statementKinds = map[string]struct{}{
	"select": {},
	"insert": {},
	"update": {},
	"delete": {},
}

// Extract reads mapper XML and returns its statements in document order.
func Extract(r io.Reader) ([]Statement, error) {
	root, err := parseTree(r)
	if err != nil {
		return nil, fmt.Errorf("parsing mapper XML: %w", err)
	}

	var stmts []Statement
	var walk func(*element)
	walk = func(e *element) {
		if _, ok := statementKinds[e.tag]; ok {
			stmts = append(stmts, Statement{
				ID:   e.attrs["id"],
				Kind: e.tag,
				SQL:  clean(flatten(e)),
			})
			return
		}
		for _, c := range e.children {
			if c.elem != nil {
				walk(c.elem)
			}
		}
	}
	walk(root)
	return stmts, nil
}

// ExtractFile reads and extracts one mapper file.
func ExtractFile(path string) ([]Statement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening mapper file: %w", err)
	}
	defer f.Close()
	return Extract(f)
}

// element is a minimal XML tree node. Children interleave text and child
// elements so statement bodies keep their original ordering.
type element struct {
	tag      string
	attrs    map[string]string
	children []treeChild
}

type treeChild struct {
	text string
	elem *element
}

// parseTree builds an element tree for the whole document under a
// synthetic root, skipping comments and directives. Mapper files often
// carry a DOCTYPE and loose entity usage, so decoding is non-strict.
func parseTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.Entity = xml.HTMLEntity

	root := &element{tag: "#document", attrs: map[string]string{}}
	stack := []*element{root}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			attrs := make(map[string]string, len(t.Attr))
			for _, a := range t.Attr {
				attrs[a.Name.Local] = a.Value
			}
			child := &element{tag: t.Name.Local, attrs: attrs}
			top.children = append(top.children, treeChild{elem: child})
			stack = append(stack, child)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			top.children = append(top.children, treeChild{text: string(t)})
		}
	}
	return root, nil
}

// flatten concatenates an element's body, substituting dynamic tags.
func flatten(e *element) string {
	var b strings.Builder
	for _, c := range e.children {
		if c.elem == nil {
			b.WriteString(c.text)
			continue
		}
		b.WriteString(flattenTag(c.elem))
	}
	return b.String()
}

func flattenTag(e *element) string {
	switch e.tag {
	case "where":
		inner := strings.TrimSpace(flatten(e))
		if inner == "" {
			return " "
		}
		return " WHERE " + inner + " "
	case "set":
		inner := strings.TrimSpace(flatten(e))
		if inner == "" {
			return " "
		}
		return " SET " + inner + " "
	case "choose":
		// The analyzer only needs one representative branch: the first
		// when clause, or the otherwise clause.
		for _, c := range e.children {
			if c.elem != nil && c.elem.tag == "when" {
				return " " + flatten(c.elem) + " "
			}
		}
		for _, c := range e.children {
			if c.elem != nil && c.elem.tag == "otherwise" {
				return " " + flatten(c.elem) + " "
			}
		}
		return " "
	case "foreach":
		return " (" + strings.TrimSpace(flatten(e)) + ") "
	case "include":
		return " /* include " + e.attrs["refid"] + " */ "
	case "bind", "selectKey":
		return " "
	default:
		// if, trim, when, otherwise and anything unrecognized: inline
		// the body as-is.
		return " " + flatten(e) + " "
	}
}

var (
	hashParamRe    = regexp.MustCompile(`#\{[^}]*\}`)
	dollarParamRe  = regexp.MustCompile(`\$\{[^}]*\}`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
	trailingSemiRe = regexp.MustCompile(`\s*;\s*$`)
	whereAndRe     = regexp.MustCompile(`(?i)\bWHERE\s+AND\b`)
	setCommaRe     = regexp.MustCompile(`(?i)\bSET\s*,`)
	danglingRe     = regexp.MustCompile(`(?i)\s+(WHERE|SET)\s*$`)
)

// clean normalizes flattened SQL into something a parser will accept.
func clean(sql string) string {
	sql = hashParamRe.ReplaceAllString(sql, "'placeholder'")
	sql = dollarParamRe.ReplaceAllString(sql, "placeholder")
	sql = whitespaceRe.ReplaceAllString(sql, " ")
	sql = strings.TrimSpace(sql)
	sql = trailingSemiRe.ReplaceAllString(sql, "")
	sql = whereAndRe.ReplaceAllString(sql, "WHERE")
	sql = setCommaRe.ReplaceAllString(sql, "SET")
	sql = danglingRe.ReplaceAllString(sql, "")
	return strings.TrimSpace(sql)
}
