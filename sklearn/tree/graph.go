package tree

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/YuminosukeSato/treeboost/pkg/errors"
)

var graphFormats = map[string]graphviz.Format{
	"dot": graphviz.XDOT,
	"png": graphviz.PNG,
	"svg": graphviz.SVG,
	"jpg": graphviz.JPG,
}

// RenderGraph draws the tree with graphviz and writes it to w. format is one
// of "dot", "svg", "png" or "jpg".
func (t *Tree) RenderGraph(w io.Writer, format string) error {
	f, ok := graphFormats[strings.ToLower(format)]
	if !ok {
		return errors.NewInvalidArgumentError("format", "unsupported graph format", format)
	}
	g := graphviz.New()
	defer g.Close()
	graph, err := t.drawGraph(g)
	if err != nil {
		return err
	}
	defer graph.Close()
	return errors.Wrap(g.Render(graph, f, w), "render tree graph")
}

// SaveGraph renders the tree into path. The format follows the extension.
func (t *Tree) SaveGraph(path string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	f, ok := graphFormats[strings.ToLower(ext)]
	if !ok {
		return errors.NewInvalidArgumentError("path", "unsupported graph format", path)
	}
	g := graphviz.New()
	defer g.Close()
	graph, err := t.drawGraph(g)
	if err != nil {
		return err
	}
	defer graph.Close()
	return errors.Wrapf(g.RenderFilename(graph, f, path), "render tree graph to %s", path)
}

func (t *Tree) drawGraph(g *graphviz.Graphviz) (*cgraph.Graph, error) {
	graph, err := g.Graph()
	if err != nil {
		return nil, errors.Wrap(err, "create graph")
	}

	type pending struct {
		index  int
		parent *cgraph.Node
	}
	stack := []pending{{index: 0}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[p.index]
		gn, err := graph.CreateNode(fmt.Sprint(p.index))
		if err != nil {
			graph.Close()
			return nil, errors.Wrap(err, "create graph node")
		}
		if p.parent != nil {
			if _, err := graph.CreateEdge("", p.parent, gn); err != nil {
				graph.Close()
				return nil, errors.Wrap(err, "create graph edge")
			}
		}
		gn.Set("label", t.nodeLabel(n))
		if n.IsLeaf() {
			gn.Set("shape", "box")
			continue
		}
		stack = append(stack, pending{n.Right, gn}, pending{n.Left, gn})
	}
	return graph, nil
}

func (t *Tree) nodeLabel(n *Node) string {
	var sb strings.Builder
	if !n.IsLeaf() {
		sb.WriteString(fmt.Sprintf("x[%d] <= %.5g\n", n.Feature, n.Threshold))
	}
	sb.WriteString(fmt.Sprintf("impurity = %.4g\n", n.Impurity))
	sb.WriteString(fmt.Sprintf("samples = %d\n", n.Samples))
	if t.task == Classification {
		sb.WriteString(fmt.Sprintf("class = %g", n.Value))
	} else {
		sb.WriteString(fmt.Sprintf("value = %.5g", n.Value))
	}
	return sb.String()
}
