package arm

import (
	"strings"

	"github.com/ritzau/factory-analyzer/pkg/model"
)

const (
	factoryNameParameter = "factoryName"
	defaultLocation      = "northeurope"
)

// Extract walks the document's resource list and produces the full set
// of normalized tables. Every call builds a fresh Extraction; no state
// is carried between calls.
func Extract(doc *Document) *model.Extraction {
	ex := &model.Extraction{
		Factory: extractFactory(doc),
	}

	for _, p := range doc.Parameters {
		if p.Name == factoryNameParameter {
			continue
		}
		ex.GlobalParameters = append(ex.GlobalParameters, model.GlobalParameter{
			Name:    p.Name,
			Type:    p.Type,
			Default: plainText(p.Default),
		})
	}

	for _, res := range doc.Resources {
		extractResource(ex, res)
	}
	return ex
}

// ExtractDocument parses and extracts in one step.
func ExtractDocument(data []byte) (*model.Extraction, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return Extract(doc), nil
}

func extractFactory(doc *Document) model.Factory {
	f := model.Factory{
		Location:       defaultLocation,
		ContentVersion: doc.ContentVersion,
	}
	if p, ok := doc.parameter(factoryNameParameter); ok {
		f.Name = plainText(p.Default)
	}
	for _, p := range doc.Parameters {
		if strings.Contains(strings.ToLower(p.Name), "location") {
			f.Location = plainText(p.Default)
			break
		}
	}
	return f
}

// Classify maps a resource type string to its kind by the lowercase
// last path segment. Unrecognized segments are unclassified; such
// resources still contribute dependency edges.
func Classify(resourceType string) model.ResourceKind {
	segments := strings.Split(strings.ToLower(resourceType), "/")
	switch kind := model.ResourceKind(segments[len(segments)-1]); kind {
	case model.KindPipeline, model.KindDataset, model.KindLinkedService,
		model.KindTrigger, model.KindIntegrationRuntime:
		return kind
	default:
		return model.KindUnclassified
	}
}

func extractResource(ex *model.Extraction, res Resource) {
	name := ResolveName(res.Name)
	segments := strings.Split(strings.ToLower(res.Type), "/")
	simpleType := segments[len(segments)-1]

	// Dependency edges are recorded for every resource, classified
	// or not.
	for _, dep := range res.DependsOn {
		raw := plainText(dep)
		ex.ResourceDependencies = append(ex.ResourceDependencies, model.ResourceDependency{
			ResourceName:  name,
			ResourceType:  simpleType,
			DependsOnName: ResolveName(raw),
			DependsOnType: DependencyTypeTag(raw),
		})
	}

	switch Classify(res.Type) {
	case model.KindPipeline:
		base := model.Row{"pipeline_name": name}
		ex.Pipelines = append(ex.Pipelines, ExpandRows(base, res.Properties)...)
		ex.Activities = append(ex.Activities, extractActivities(name, res.Properties["activities"])...)

	case model.KindDataset:
		base := model.Row{"dataset_name": name}
		ex.Datasets = append(ex.Datasets, ExpandRows(base, res.Properties)...)

	case model.KindLinkedService:
		base := model.Row{"linked_service_name": name}
		ex.LinkedServices = append(ex.LinkedServices, ExpandRows(base, res.Properties)...)

	case model.KindTrigger:
		base := model.Row{"trigger_name": name}
		ex.Triggers = append(ex.Triggers, ExpandRows(base, res.Properties)...)
		ex.TriggerDetails = append(ex.TriggerDetails, extractTriggerDetail(name, res.Properties))

	case model.KindIntegrationRuntime:
		base := model.Row{"runtime_name": name}
		ex.IntegrationRuntimes = append(ex.IntegrationRuntimes, ExpandRows(base, res.Properties)...)
	}
}

// extractTriggerDetail captures the structured schedule view of a
// trigger resource: recurrence, linked pipelines, annotations.
func extractTriggerDetail(name string, props map[string]any) model.TriggerDetail {
	detail := model.TriggerDetail{
		Name:         name,
		Type:         plainText(props["type"]),
		RuntimeState: plainText(props["runtimeState"]),
	}
	if ann, ok := props["annotations"]; ok {
		detail.Annotations = jsonText(ann)
	}

	if pipelines, ok := props["pipelines"].([]any); ok {
		for _, p := range pipelines {
			pm, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if ref, ok := pm["pipelineReference"].(map[string]any); ok {
				detail.Pipelines = append(detail.Pipelines, plainText(ref["referenceName"]))
			}
		}
	}

	tp, _ := props["typeProperties"].(map[string]any)
	if len(tp) > 0 {
		detail.TypeProperties = singleLine(plainText(tp))
	}
	if rec, ok := tp["recurrence"].(map[string]any); ok {
		detail.Frequency = plainText(rec["frequency"])
		detail.Interval = plainText(rec["interval"])
		detail.StartTime = plainText(rec["startTime"])
		detail.TimeZone = plainText(rec["timeZone"])
		if sched, ok := rec["schedule"]; ok {
			detail.Schedule = singleLine(plainText(sched))
		}
	}
	return detail
}

func singleLine(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
}
