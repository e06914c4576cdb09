package shuffle

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
)

// ToDOT returns a Graphviz DOT digraph of permutation cycles.
//
// Every slot of every cycle becomes a node, with an edge to the home slot of
// the content it shows. Each cycle is wrapped in its own cluster labeled with
// its length. If labels[i] exists, slot i is shown as labels[i], otherwise as
// its index. Pass nil for numeric labels.
func ToDOT(cycles [][]int, labels []string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph Cycles {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, shape=box, style=\"filled,rounded\", fillcolor=white];\n\n")

	for c, cycle := range cycles {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", c)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("cycle %d (length %d)", c, len(cycle)))
		for _, slot := range cycle {
			fmt.Fprintf(&buf, "    s%d [label=%q];\n", slot, slotLabel(slot, labels))
		}
		for k, slot := range cycle {
			fmt.Fprintf(&buf, "    s%d -> s%d;\n", slot, cycle[(k+1)%len(cycle)])
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

func slotLabel(slot int, labels []string) string {
	if slot < len(labels) {
		return labels[slot]
	}
	return fmt.Sprint(slot)
}

// GridLabels returns "col,row" labels for a cols-wide grid of n slots.
func GridLabels(n, cols int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("%d,%d", i%cols, i/cols)
	}
	return labels
}

// RenderSVG renders the cycles as an SVG document via [ToDOT] and Graphviz.
//
// All errors are wrapped with context using fmt.Errorf with %w.
func RenderSVG(ctx context.Context, cycles [][]int, labels []string) ([]byte, error) {
	dot := ToDOT(cycles, labels)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
