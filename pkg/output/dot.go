package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ritzau/factory-analyzer/pkg/logging"
	"github.com/ritzau/factory-analyzer/pkg/model"
)

// WriteDOT renders one pipeline graph as a Graphviz digraph. Node
// declarations are sorted; edges keep builder order.
func WriteDOT(w io.Writer, g *model.PipelineGraph) error {
	if _, err := fmt.Fprintf(w, "digraph %q {\n", g.Pipeline); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "  rankdir=LR;"); err != nil {
		return err
	}

	nodes := append([]string{}, g.Nodes...)
	sort.Strings(nodes)
	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "  %q [label=%q];\n", n, n); err != nil {
			return err
		}
	}
	for _, e := range g.Edges {
		if _, err := fmt.Fprintf(w, "  %q -> %q;\n", e.From, e.To); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// WriteDOTFiles writes one .dot file per pipeline graph into dir.
func WriteDOTFiles(dir string, graphs []*model.PipelineGraph) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	for _, g := range graphs {
		path := filepath.Join(dir, sanitizeFileName(g.Pipeline)+".dot")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := WriteDOT(f, g); err != nil {
			f.Close()
			return fmt.Errorf("failed to render %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		logging.Info("wrote graph", "path", path, "nodes", len(g.Nodes), "edges", len(g.Edges))
	}
	return nil
}

// sanitizeFileName replaces characters that are unsafe in file names.
func sanitizeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
