package output

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/ritzau/factory-analyzer/pkg/model"
)

// PrintReport prints a colorized extraction summary to the console.
func PrintReport(template string, ex *model.Extraction, graphs []*model.PipelineGraph) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("Factory Analyzer - Extraction Report")
	bold.Println("====================================")
	fmt.Printf("Template: %s\n", template)
	fmt.Printf("Factory:  %s (%s)\n", ex.Factory.Name, ex.Factory.Location)
	fmt.Println()

	counts := []struct {
		name string
		n    int
	}{
		{"global parameters", len(ex.GlobalParameters)},
		{"pipelines", len(ex.PipelineNames())},
		{"activities", len(ex.Activities)},
		{"datasets", len(ex.Datasets)},
		{"linked services", len(ex.LinkedServices)},
		{"triggers", len(ex.TriggerDetails)},
		{"integration runtimes", len(ex.IntegrationRuntimes)},
		{"resource dependencies", len(ex.ResourceDependencies)},
	}
	for _, c := range counts {
		fmt.Printf("  %-22s %d\n", c.name+":", c.n)
	}
	fmt.Println()

	cyclic := 0
	for _, g := range graphs {
		cyan.Printf("%s\n", g.Pipeline)
		fmt.Printf("  nodes: %d, edges: %d\n", len(g.Nodes), len(g.Edges))
		if g.Cyclic {
			cyclic++
			red.Println("  cycle detected - no execution order")
			continue
		}
		preview := g.Order
		if len(preview) > 10 {
			preview = preview[:10]
		}
		fmt.Printf("  order: %v\n", preview)
	}
	fmt.Println()

	if cyclic == 0 {
		green.Printf("✓ All %d pipeline graphs are acyclic\n", len(graphs))
	} else {
		yellow.Printf("%d of %d pipeline graphs contain cycles\n", cyclic, len(graphs))
	}
}
