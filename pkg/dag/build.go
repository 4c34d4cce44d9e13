package dag

import (
	"github.com/ritzau/factory-analyzer/pkg/model"
)

// BuildPipelineGraphs groups activity rows by pipeline, in first-seen
// order, and builds one validated graph per pipeline. The input rows
// are read only; every graph is freshly constructed.
func BuildPipelineGraphs(activities []model.ActivityRow) []*model.PipelineGraph {
	byPipeline := make(map[string][]model.ActivityRow)
	var pipelines []string
	for _, a := range activities {
		if _, seen := byPipeline[a.PipelineName]; !seen {
			pipelines = append(pipelines, a.PipelineName)
		}
		byPipeline[a.PipelineName] = append(byPipeline[a.PipelineName], a)
	}

	graphs := make([]*model.PipelineGraph, 0, len(pipelines))
	for _, name := range pipelines {
		graphs = append(graphs, BuildGraph(name, byPipeline[name]))
	}
	return graphs
}

// BuildGraph builds and validates the dependency graph of a single
// pipeline. Parameter-block expansion can emit several rows per
// activity; they collapse to one node each. Nodes are the activity
// names plus any resolved token that matches no activity; edges run
// resolved-upstream → downstream, with self-references dropped.
func BuildGraph(pipeline string, rows []model.ActivityRow) *model.PipelineGraph {
	type activity struct {
		name   string
		tokens []string
	}
	var acts []activity
	seen := make(map[string]bool)
	for _, r := range rows {
		if seen[r.ActivityName] {
			continue
		}
		seen[r.ActivityName] = true
		acts = append(acts, activity{name: r.ActivityName, tokens: r.DependsOn})
	}

	names := make([]string, len(acts))
	ag := NewActivityGraph()
	for i, a := range acts {
		names[i] = a.name
		ag.AddActivity(a.name)
	}

	for _, a := range acts {
		for _, token := range a.tokens {
			resolved := ResolveToken(token, names)
			if resolved == a.name {
				continue
			}
			ag.AddDependency(resolved, a.name)
		}
	}

	result := &model.PipelineGraph{
		Pipeline: pipeline,
		Nodes:    ag.Nodes(),
		Edges:    ag.Edges(),
	}
	if order, ok := TopoSort(ag); ok {
		result.Order = order
	} else {
		result.Cyclic = true
	}
	return result
}
