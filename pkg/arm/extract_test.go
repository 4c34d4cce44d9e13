package arm

import (
	"testing"

	"github.com/ritzau/factory-analyzer/pkg/model"
)

const sampleTemplate = `{
	"contentVersion": "1.0.0.0",
	"parameters": {
		"factoryName": {"type": "string", "defaultValue": "df-analytics-prod"},
		"dataLocation": {"type": "string", "defaultValue": "westeurope"},
		"storageAccount": {"type": "string", "defaultValue": "dlsanalytics"}
	},
	"resources": [
		{
			"name": "[concat(parameters('factoryName'), '/PL_INGEST')]",
			"type": "Microsoft.DataFactory/factories/pipelines",
			"dependsOn": [
				"[concat(variables('factoryId'), '/datasets/DS_RAW')]",
				"[concat(variables('factoryId'), '/linkedServices/LS_SQL')]"
			],
			"properties": {
				"description": "ingests source tables",
				"folder": {"name": "Ingest"},
				"parameters": {
					"env": {"type": "string", "defaultValue": "", "value": "prod"}
				},
				"activities": [
					{
						"name": "Copy_Source_to_Raw",
						"type": "Copy",
						"typeProperties": {
							"source": {"type": "SqlSource", "query": "SELECT 1"},
							"sink": {"type": "ParquetSink"}
						}
					}
				]
			}
		},
		{
			"name": "[concat(parameters('factoryName'), '/DS_RAW')]",
			"type": "Microsoft.DataFactory/factories/datasets",
			"properties": {"type": "Parquet"}
		},
		{
			"name": "[concat(parameters('factoryName'), '/LS_SQL')]",
			"type": "Microsoft.DataFactory/factories/linkedservices",
			"properties": {"type": "AzureSqlDatabase"}
		},
		{
			"name": "[concat(parameters('factoryName'), '/TR_DAILY')]",
			"type": "Microsoft.DataFactory/factories/triggers",
			"dependsOn": ["[concat(variables('factoryId'), '/pipelines/PL_INGEST')]"],
			"properties": {
				"type": "ScheduleTrigger",
				"runtimeState": "Started",
				"pipelines": [
					{"pipelineReference": {"referenceName": "PL_INGEST", "type": "PipelineReference"}}
				],
				"typeProperties": {
					"recurrence": {
						"frequency": "Day",
						"interval": 1,
						"startTime": "2024-01-01T05:00:00Z",
						"timeZone": "UTC"
					}
				}
			}
		},
		{
			"name": "[concat(parameters('factoryName'), '/IR_SELFHOSTED')]",
			"type": "Microsoft.DataFactory/factories/integrationruntimes",
			"properties": {"type": "SelfHosted"}
		},
		{
			"name": "someDeployment",
			"type": "Microsoft.Resources/deployments",
			"dependsOn": ["[concat(variables('factoryId'), '/pipelines/PL_INGEST')]"],
			"properties": {}
		}
	]
}`

func TestParseDocumentMalformedRoot(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty input", data: ``},
		{name: "missing resources", data: `{"contentVersion": "1.0.0.0"}`},
		{name: "null resources", data: `{"resources": null}`},
		{name: "resources not a list", data: `{"resources": {"a": 1}}`},
		{name: "broken json", data: `{"resources": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDocument([]byte(tt.data)); err == nil {
				t.Errorf("ParseDocument(%q) succeeded, want error", tt.data)
			}
		})
	}
}

func TestExtractFactoryAndGlobals(t *testing.T) {
	ex, err := ExtractDocument([]byte(sampleTemplate))
	if err != nil {
		t.Fatal(err)
	}

	if ex.Factory.Name != "df-analytics-prod" {
		t.Errorf("factory name = %q", ex.Factory.Name)
	}
	if ex.Factory.Location != "westeurope" {
		t.Errorf("factory location = %q, want first *location* parameter", ex.Factory.Location)
	}
	if ex.Factory.ContentVersion != "1.0.0.0" {
		t.Errorf("content version = %q", ex.Factory.ContentVersion)
	}

	// factoryName itself is excluded; document order is preserved.
	if len(ex.GlobalParameters) != 2 {
		t.Fatalf("global parameters = %d, want 2", len(ex.GlobalParameters))
	}
	if ex.GlobalParameters[0].Name != "dataLocation" || ex.GlobalParameters[1].Name != "storageAccount" {
		t.Errorf("unexpected global parameter order: %v", ex.GlobalParameters)
	}
}

func TestExtractClassification(t *testing.T) {
	ex, err := ExtractDocument([]byte(sampleTemplate))
	if err != nil {
		t.Fatal(err)
	}

	if len(ex.Pipelines) == 0 || ex.Pipelines[0]["pipeline_name"] != "PL_INGEST" {
		t.Errorf("pipeline table: %v", ex.Pipelines)
	}
	if len(ex.Datasets) != 1 || ex.Datasets[0]["dataset_name"] != "DS_RAW" {
		t.Errorf("dataset table: %v", ex.Datasets)
	}
	if len(ex.LinkedServices) != 1 || ex.LinkedServices[0]["linked_service_name"] != "LS_SQL" {
		t.Errorf("linked service table: %v", ex.LinkedServices)
	}
	if len(ex.Triggers) != 1 || ex.Triggers[0]["trigger_name"] != "TR_DAILY" {
		t.Errorf("trigger table: %v", ex.Triggers)
	}
	if len(ex.IntegrationRuntimes) != 1 || ex.IntegrationRuntimes[0]["runtime_name"] != "IR_SELFHOSTED" {
		t.Errorf("runtime table: %v", ex.IntegrationRuntimes)
	}
	if len(ex.Activities) != 1 || ex.Activities[0].ActivityName != "Copy_Source_to_Raw" {
		t.Errorf("activity table: %v", ex.Activities)
	}
}

// The pipeline declares one parameter block entry, so the pipeline
// table carries the expanded parameter fields.
func TestExtractPipelineParameterExpansion(t *testing.T) {
	ex, err := ExtractDocument([]byte(sampleTemplate))
	if err != nil {
		t.Fatal(err)
	}

	if len(ex.Pipelines) != 1 {
		t.Fatalf("pipeline rows = %d, want 1", len(ex.Pipelines))
	}
	row := ex.Pipelines[0]
	if row["parameter_name"] != "env" || row["parameter_value"] != "prod" {
		t.Errorf("parameter block not expanded: %v", row)
	}
	if row["description"] != "ingests source tables" || row["folder.name"] != "Ingest" {
		t.Errorf("simple properties lost: %v", row)
	}
}

// Every resource contributes dependency edges, including the
// unclassified deployment resource.
func TestExtractResourceDependencies(t *testing.T) {
	ex, err := ExtractDocument([]byte(sampleTemplate))
	if err != nil {
		t.Fatal(err)
	}

	if len(ex.ResourceDependencies) != 4 {
		t.Fatalf("dependency edges = %d, want 4: %v", len(ex.ResourceDependencies), ex.ResourceDependencies)
	}

	byResource := make(map[string][]model.ResourceDependency)
	for _, d := range ex.ResourceDependencies {
		byResource[d.ResourceName] = append(byResource[d.ResourceName], d)
	}

	pl := byResource["PL_INGEST"]
	if len(pl) != 2 {
		t.Fatalf("pipeline edges = %d, want 2", len(pl))
	}
	if pl[0].DependsOnName != "DS_RAW" || pl[0].ResourceType != "pipelines" {
		t.Errorf("unexpected edge: %+v", pl[0])
	}
	if pl[1].DependsOnName != "LS_SQL" || pl[1].DependsOnType != "unknown" {
		t.Errorf("unexpected edge: %+v", pl[1])
	}

	dep := byResource["someDeployment"]
	if len(dep) != 1 || dep[0].DependsOnName != "PL_INGEST" || dep[0].ResourceType != "deployments" {
		t.Errorf("unclassified resource edge missing or wrong: %v", dep)
	}
}

func TestExtractTriggerDetail(t *testing.T) {
	ex, err := ExtractDocument([]byte(sampleTemplate))
	if err != nil {
		t.Fatal(err)
	}

	if len(ex.TriggerDetails) != 1 {
		t.Fatalf("trigger details = %d, want 1", len(ex.TriggerDetails))
	}
	td := ex.TriggerDetails[0]
	if td.Name != "TR_DAILY" || td.Type != "ScheduleTrigger" || td.RuntimeState != "Started" {
		t.Errorf("trigger identity: %+v", td)
	}
	if td.Frequency != "Day" || td.Interval != "1" || td.TimeZone != "UTC" {
		t.Errorf("recurrence: %+v", td)
	}
	if len(td.Pipelines) != 1 || td.Pipelines[0] != "PL_INGEST" {
		t.Errorf("linked pipelines: %v", td.Pipelines)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		typ  string
		want model.ResourceKind
	}{
		{"Microsoft.DataFactory/factories/pipelines", model.KindPipeline},
		{"Microsoft.DataFactory/factories/Datasets", model.KindDataset},
		{"Microsoft.DataFactory/factories/linkedservices", model.KindLinkedService},
		{"Microsoft.DataFactory/factories/triggers", model.KindTrigger},
		{"Microsoft.DataFactory/factories/integrationRuntimes", model.KindIntegrationRuntime},
		{"Microsoft.Resources/deployments", model.KindUnclassified},
		{"", model.KindUnclassified},
	}
	for _, tt := range tests {
		if got := Classify(tt.typ); got != tt.want {
			t.Errorf("Classify(%q) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
