package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/colgrid/pkg/column"
)

// TreeDOT describes a column tree as a top-down Graphviz digraph. Groups are
// drawn as rounded boxes, leaves as plain boxes labelled with their width.
// Invisible columns are drawn dashed so saved-but-hidden state stays visible.
func TreeDOT(tree []column.State) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	var edges []string
	var walk func(cs []column.State, parent column.Key)
	walk = func(cs []column.State, parent column.Key) {
		for _, c := range cs {
			fmt.Fprintf(&buf, "  %q [%s];\n", c.Key, strings.Join(nodeAttrs(c), ", "))
			if parent != "" {
				edges = append(edges, fmt.Sprintf("  %q -> %q;\n", parent, c.Key))
			}
			walk(c.Children, c.Key)
		}
	}
	walk(tree, "")

	if len(edges) > 0 {
		buf.WriteString("\n")
		for _, e := range edges {
			buf.WriteString(e)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(c column.State) []string {
	label := c.Title
	if label == "" {
		label = string(c.Key)
	}
	if !c.HasChildren && len(c.Children) == 0 && c.Width != nil {
		label += "\n" + c.Width.String()
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	styles := []string{"filled"}
	if c.HasChildren || len(c.Children) > 0 {
		styles = append(styles, "rounded")
	}
	if !c.Visible {
		styles = append(styles, "dashed")
	}
	attrs = append(attrs, fmt.Sprintf("style=%q", strings.Join(styles, ",")))
	if c.Fixed != column.FixedNone {
		attrs = append(attrs, "fillcolor=\"#eeeeee\"")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz build.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
