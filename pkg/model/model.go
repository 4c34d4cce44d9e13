package model

// ResourceKind classifies a template resource by the last segment of its type string
type ResourceKind string

const (
	KindPipeline           ResourceKind = "pipelines"
	KindDataset            ResourceKind = "datasets"
	KindLinkedService      ResourceKind = "linkedservices"
	KindTrigger            ResourceKind = "triggers"
	KindIntegrationRuntime ResourceKind = "integrationruntimes"
	KindUnclassified       ResourceKind = "unclassified"
)

// Row is one flat record of an extracted table. Keys are flattened
// property paths plus the identity fields of the owning entity.
type Row map[string]string

// Clone returns an independent copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Factory describes the single factory declared by a template document.
type Factory struct {
	Name           string `json:"factory_name"`
	Location       string `json:"location"`
	ContentVersion string `json:"content_version"`
}

// GlobalParameter is one document-level parameter, excluding the
// factory-name parameter itself.
type GlobalParameter struct {
	Name    string `json:"parameter_name"`
	Type    string `json:"parameter_type"`
	Default string `json:"parameter_value"`
}

// ResourceDependency is one edge from a resource's own dependsOn list.
// It is recorded for every resource, classified or not.
type ResourceDependency struct {
	ResourceName  string `json:"resource_name"`
	ResourceType  string `json:"resource_type"`
	DependsOnName string `json:"depends_on_resource_name"`
	DependsOnType string `json:"depends_on_resource_type"`
}

// ActivityPolicy holds the retry/timeout settings of an activity.
// Zero values mean the template did not declare a policy.
type ActivityPolicy struct {
	Retry       int    `json:"retry"`
	Timeout     string `json:"timeout"`
	SecureInput bool   `json:"secure_input"`
}

// ActivityRow is one extracted activity record. A single template
// activity can produce several rows when its parameter blocks expand.
type ActivityRow struct {
	PipelineName string `json:"pipeline_name"`
	ActivityName string `json:"activity_name"`
	ActivityType string `json:"activity_type"`

	// Raw dependency tokens in template order, with their condition
	// tags collected in parallel (one |-joined group per descriptor).
	DependsOn            []string `json:"depends_on_activities"`
	DependencyConditions []string `json:"dependency_conditions"`

	Policy        ActivityPolicy `json:"policy"`
	LinkedService string         `json:"linked_service"`
	Inputs        []string       `json:"inputs"`
	Outputs       []string       `json:"outputs"`

	SourceType    string `json:"source_type"`
	SourceDetails string `json:"source_details"`
	SinkType      string `json:"sink_type"`
	SinkDetails   string `json:"sink_details"`
	NotebookPath  string `json:"notebook_path"`
	ChildPipeline string `json:"child_pipeline"`

	// Flattened property fields, expanded per parameter block.
	Fields Row `json:"fields,omitempty"`
}

// TriggerDetail is the structured view of one trigger resource,
// extracted alongside the generic expanded rows.
type TriggerDetail struct {
	Name           string   `json:"trigger_name"`
	Type           string   `json:"trigger_type"`
	RuntimeState   string   `json:"runtime_state"`
	Frequency      string   `json:"frequency"`
	Interval       string   `json:"interval"`
	StartTime      string   `json:"start_time"`
	TimeZone       string   `json:"time_zone"`
	Schedule       string   `json:"schedule"`
	Pipelines      []string `json:"pipelines"`
	Annotations    string   `json:"annotations"`
	TypeProperties string   `json:"type_properties"`
}

// Extraction is the complete result of one extraction run. Every field
// is freshly constructed per call; nothing is shared or accumulated
// across calls.
type Extraction struct {
	Factory              Factory              `json:"factory"`
	GlobalParameters     []GlobalParameter    `json:"global_parameters"`
	Pipelines            []Row                `json:"pipelines"`
	Activities           []ActivityRow        `json:"activities"`
	Datasets             []Row                `json:"datasets"`
	LinkedServices       []Row                `json:"linked_services"`
	Triggers             []Row                `json:"triggers"`
	TriggerDetails       []TriggerDetail      `json:"trigger_details"`
	IntegrationRuntimes  []Row                `json:"integration_runtimes"`
	ResourceDependencies []ResourceDependency `json:"resource_dependencies"`
}

// PipelineNames returns the distinct pipeline names of the extracted
// activities in first-seen order.
func (e *Extraction) PipelineNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, a := range e.Activities {
		if !seen[a.PipelineName] {
			seen[a.PipelineName] = true
			names = append(names, a.PipelineName)
		}
	}
	return names
}
