// Package graph serializes dice expression trees as Graphviz DOT or
// Mermaid graph text. Rendering is structural only and never rolls dice.
package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lemonberrylabs/dicer/pkg/dice"
)

// Format selects the graph language.
type Format int

const (
	FormatDOT Format = iota
	FormatMermaid
)

// String returns the format's command name.
func (f Format) String() string {
	switch f {
	case FormatDOT:
		return "dot"
	case FormatMermaid:
		return "mermaid"
	default:
		return "unknown"
	}
}

// ContentType returns the MIME type used when serving the format.
func (f Format) ContentType() string {
	if f == FormatDOT {
		return "text/vnd.graphviz; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "dot", "graphviz":
		return FormatDOT, nil
	case "mermaid":
		return FormatMermaid, nil
	default:
		return FormatDOT, fmt.Errorf("unknown graph format %q (want dot or mermaid)", s)
	}
}

// Render writes the graph of root to w.
func Render(w io.Writer, root dice.Node, format Format) error {
	_, err := io.WriteString(w, String(root, format))
	return err
}

// String returns the graph of root. Node IDs are assigned in pre-order, so
// the output for a given tree is always byte-identical.
func String(root dice.Node, format Format) string {
	g := &writer{format: format}
	switch format {
	case FormatMermaid:
		g.sb.WriteString("graph TB\n")
		g.visit(root)
	default:
		g.sb.WriteString("digraph {\n")
		g.sb.WriteString("    graph [rankdir=TB]\n")
		g.sb.WriteString("    node [shape=rect]\n")
		g.sb.WriteString("    edge [fontsize=10]\n")
		g.visit(root)
		g.sb.WriteString("}\n")
	}
	return g.sb.String()
}

// DOT returns the Graphviz DOT graph of root.
func DOT(root dice.Node) string { return String(root, FormatDOT) }

// Mermaid returns the Mermaid graph of root.
func Mermaid(root dice.Node) string { return String(root, FormatMermaid) }

type writer struct {
	sb     strings.Builder
	format Format
	nextID int
}

// visit declares node, then each child followed by its edge, and returns
// the node's ID.
func (g *writer) visit(node dice.Node) string {
	switch n := node.(type) {
	case *dice.LiteralNode:
		return g.node(strconv.Itoa(n.Value))
	case *dice.BinaryNode:
		id := g.node(binaryLabel(n.Op))
		g.edge(id, g.visit(n.Left), "left")
		g.edge(id, g.visit(n.Right), "right")
		return id
	case *dice.NegateNode:
		id := g.node("Negate")
		g.edge(id, g.visit(n.Operand), "inner")
		return id
	case *dice.RollNode:
		id := g.node("Roll")
		g.edge(id, g.visit(n.Count), "count")
		g.edge(id, g.visit(n.Sides), "sides")
		for _, sel := range n.Selectors {
			g.edge(id, g.node(sel.String()), "select")
		}
		return id
	default:
		return g.node(fmt.Sprintf("%T", node))
	}
}

func (g *writer) node(label string) string {
	g.nextID++
	id := fmt.Sprintf("node%04x", g.nextID)
	switch g.format {
	case FormatMermaid:
		fmt.Fprintf(&g.sb, "    %s(%q)\n", id, label)
	default:
		fmt.Fprintf(&g.sb, "    %s [label=%q]\n", id, label)
	}
	return id
}

func (g *writer) edge(parent, child, label string) {
	switch g.format {
	case FormatMermaid:
		fmt.Fprintf(&g.sb, "    %s -->|%s| %s\n", parent, label, child)
	default:
		fmt.Fprintf(&g.sb, "    %s -> %s [label=%q]\n", parent, child, label)
	}
}

func binaryLabel(op dice.TokenType) string {
	switch op {
	case dice.TokenPlus:
		return "Add"
	case dice.TokenMinus:
		return "Subtract"
	case dice.TokenStar:
		return "Multiply"
	case dice.TokenSlash:
		return "Divide"
	default:
		return op.String()
	}
}
