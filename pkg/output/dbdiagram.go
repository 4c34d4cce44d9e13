package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ritzau/factory-analyzer/pkg/model"
)

// DBDiagram sketches pipeline-to-pipeline dependencies in dbdiagram.io
// notation: one table per pipeline, one ref per dependency whose
// target is itself a pipeline. The output is paste-ready for
// https://dbdiagram.io/d.
func DBDiagram(deps []model.ResourceDependency) string {
	pipelines := make(map[string]bool)
	for _, d := range deps {
		if d.ResourceType == string(model.KindPipeline) {
			pipelines[d.ResourceName] = true
		}
	}

	type edge struct{ from, to string }
	var edges []edge
	seen := make(map[edge]bool)
	for _, d := range deps {
		if d.ResourceType != string(model.KindPipeline) {
			continue
		}
		if !pipelines[d.DependsOnName] {
			continue
		}
		e := edge{from: d.DependsOnName, to: d.ResourceName}
		if e.from == e.to || seen[e] {
			continue
		}
		seen[e] = true
		edges = append(edges, e)
	}

	var b strings.Builder
	b.WriteString("// Factory pipeline dependencies\n")
	b.WriteString("Project pipeline_dependencies {\n")
	b.WriteString("  Note: 'Shows pipeline-to-pipeline dependencies'\n}\n\n")

	names := make([]string, 0, len(pipelines))
	for name := range pipelines {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "Table %q {\n", name)
		b.WriteString("  pipeline_id varchar [pk]\n")
		b.WriteString("  status varchar\n")
		b.WriteString("}\n\n")
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})
	if len(edges) > 0 {
		b.WriteString("// Pipeline dependencies\n")
		for _, e := range edges {
			fmt.Fprintf(&b, "Ref: %q.pipeline_id > %q.pipeline_id\n", e.from, e.to)
		}
	}
	return b.String()
}
