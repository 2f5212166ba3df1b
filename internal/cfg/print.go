package cfg

import (
	"fmt"
	"io"
	"strings"

	"github.com/epoll-reactor/weak-compiler-sub000/internal/ir"
)

// String renders every block with its edges, immediate dominator and statements.
func (g *Graph) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s:\n", g.Name)
	for _, block := range g.blocks {
		fmt.Fprintf(&b, "  %s:\n", block)
		fmt.Fprintf(&b, "    preds: %s  succs: %s", formatIDs(block.Preds), formatIDs(block.Succs))
		if g.domDone {
			idom := "-"
			if block.Idom != ir.InvalidBlock {
				idom = block.Idom.String()
			}
			fmt.Fprintf(&b, "  idom: %s", idom)
		}
		b.WriteString("\n")
		for _, s := range block.Stmts {
			fmt.Fprintf(&b, "    %s\n", ir.FormatStmt(s))
		}
	}
	return b.String()
}

// WriteDomTree writes the dominator tree as an indented list.
func (g *Graph) WriteDomTree(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "domtree %s:\n", g.Name); err != nil {
		return err
	}
	for _, n := range g.DominatorTree() {
		block := g.Block(n.ID)
		line := fmt.Sprintf("%s%s", strings.Repeat("  ", n.Depth+1), block)
		if g.dfDone && !block.frontier.IsEmpty() {
			line += "  df: " + formatIDs(toIDs(block.frontier.AppendTo(nil)))
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// WriteDOT writes the graph in Graphviz format, one record node per block.
func (g *Graph) WriteDOT(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph %q {\n", g.Name)
	b.WriteString("  node [shape=box fontname=\"monospace\"];\n")
	for _, block := range g.blocks {
		var label strings.Builder
		label.WriteString(block.String())
		label.WriteString(`\l`)
		for _, s := range block.Stmts {
			label.WriteString(escapeDOT(ir.FormatStmt(s)))
			label.WriteString(`\l`)
		}
		fmt.Fprintf(&b, "  b%d [label=\"%s\"];\n", block.ID, label.String())
	}
	for _, block := range g.blocks {
		for i, s := range block.Succs {
			attr := ""
			if len(block.Succs) > 1 && i == 1 {
				attr = " [style=dashed]"
			}
			fmt.Fprintf(&b, "  b%d -> b%d%s;\n", block.ID, s, attr)
		}
	}
	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func escapeDOT(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func formatIDs(ids []ir.BlockID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func toIDs(xs []int) []ir.BlockID {
	ids := make([]ir.BlockID, len(xs))
	for i, x := range xs {
		ids[i] = ir.BlockID(x)
	}
	return ids
}
