package output

import (
	"strings"
	"testing"

	"github.com/ritzau/factory-analyzer/pkg/model"
)

func TestDBDiagramPipelineRefs(t *testing.T) {
	deps := []model.ResourceDependency{
		{ResourceName: "PL_LOAD", ResourceType: "pipelines", DependsOnName: "PL_INGEST", DependsOnType: "pipelines"},
		{ResourceName: "PL_INGEST", ResourceType: "pipelines", DependsOnName: "LS_SQL", DependsOnType: "linkedservices"},
		{ResourceName: "DS_RAW", ResourceType: "datasets", DependsOnName: "LS_SQL", DependsOnType: "linkedservices"},
	}

	out := DBDiagram(deps)

	if !strings.Contains(out, "Table \"PL_INGEST\"") || !strings.Contains(out, "Table \"PL_LOAD\"") {
		t.Errorf("Expected pipeline tables, got:\n%s", out)
	}
	if strings.Contains(out, "DS_RAW") {
		t.Errorf("Datasets should not appear as tables:\n%s", out)
	}
	if !strings.Contains(out, "Ref: \"PL_INGEST\".pipeline_id > \"PL_LOAD\".pipeline_id") {
		t.Errorf("Expected pipeline dependency ref, got:\n%s", out)
	}
	if strings.Contains(out, "LS_SQL") {
		t.Errorf("Non-pipeline dependencies should not produce refs:\n%s", out)
	}
}

func TestDBDiagramDeduplicatesEdges(t *testing.T) {
	deps := []model.ResourceDependency{
		{ResourceName: "PL_B", ResourceType: "pipelines", DependsOnName: "PL_A", DependsOnType: "pipelines"},
		{ResourceName: "PL_B", ResourceType: "pipelines", DependsOnName: "PL_A", DependsOnType: "pipelines"},
		{ResourceName: "PL_A", ResourceType: "pipelines", DependsOnName: "PL_A", DependsOnType: "pipelines"},
	}

	out := DBDiagram(deps)
	if got := strings.Count(out, "Ref: "); got != 1 {
		t.Errorf("Expected 1 ref after dedupe and self-loop drop, got %d:\n%s", got, out)
	}
}
