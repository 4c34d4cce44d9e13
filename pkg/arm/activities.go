package arm

import (
	"encoding/json"
	"strconv"

	"github.com/ritzau/factory-analyzer/pkg/model"
)

// typeSummary is the source/sink/reference view of an activity. Rules
// are applied in a fixed order and a later matching rule overwrites
// the fields an earlier one set; several shapes can match one activity
// and the last writer wins.
type typeSummary struct {
	sourceType    string
	sourceDetails string
	sinkType      string
	sinkDetails   string
	notebookPath  string
	childPipeline string
}

// summaryRule inspects one activity shape and may overwrite summary
// fields. Rules run unconditionally in order; matching is internal.
type summaryRule func(s *typeSummary, activityType string, tp map[string]any, act map[string]any)

var summaryRules = []summaryRule{
	copyRule,
	notebookRule,
	childPipelineRule,
}

func extractActivities(pipeline string, v any) []model.ActivityRow {
	list, ok := v.([]any)
	if !ok {
		return nil
	}

	var rows []model.ActivityRow
	for _, item := range list {
		act, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, extractActivity(pipeline, act)...)
	}
	return rows
}

func extractActivity(pipeline string, act map[string]any) []model.ActivityRow {
	tp, _ := act["typeProperties"].(map[string]any)
	if tp == nil {
		tp = map[string]any{}
	}

	row := model.ActivityRow{
		PipelineName: pipeline,
		ActivityName: plainText(act["name"]),
		ActivityType: plainText(act["type"]),
		Policy:       extractPolicy(act["policy"]),
	}
	row.DependsOn, row.DependencyConditions = normalizeDependsOn(act["dependsOn"])

	if ls, ok := act["linkedServiceName"].(map[string]any); ok {
		row.LinkedService = plainText(ls["referenceName"])
	}
	row.Inputs = referenceNames(act["inputs"])
	row.Outputs = referenceNames(act["outputs"])

	var summary typeSummary
	for _, rule := range summaryRules {
		rule(&summary, row.ActivityType, tp, act)
	}
	fallbackRule(&summary, tp)

	row.SourceType = summary.sourceType
	row.SourceDetails = singleLine(summary.sourceDetails)
	row.SinkType = summary.sinkType
	row.SinkDetails = singleLine(summary.sinkDetails)
	row.NotebookPath = summary.notebookPath
	row.ChildPipeline = summary.childPipeline

	// Parameter blocks in the merged property map expand one template
	// activity into several rows, all sharing the structured fields.
	merged := mergeProperties(act)
	var rows []model.ActivityRow
	for _, fields := range ExpandRows(model.Row{}, merged) {
		r := row
		r.Fields = fields
		rows = append(rows, r)
	}
	return rows
}

// mergeProperties merges an activity's properties and typeProperties
// maps; typeProperties wins on key conflicts.
func mergeProperties(act map[string]any) map[string]any {
	merged := make(map[string]any)
	if props, ok := act["properties"].(map[string]any); ok {
		for k, v := range props {
			merged[k] = v
		}
	}
	if tp, ok := act["typeProperties"].(map[string]any); ok {
		for k, v := range tp {
			merged[k] = v
		}
	}
	return merged
}

// normalizeDependsOn turns the raw dependsOn list into parallel token
// and condition-group slices. A descriptor map contributes its
// activity value and one |-joined condition group; a plain string
// contributes itself and no group; anything else contributes its
// compact serialization.
func normalizeDependsOn(v any) (tokens, conditions []string) {
	list, ok := v.([]any)
	if !ok {
		return nil, nil
	}
	for _, d := range list {
		switch t := d.(type) {
		case string:
			tokens = append(tokens, t)
		case map[string]any:
			if name := plainText(t["activity"]); name != "" {
				tokens = append(tokens, name)
			} else {
				tokens = append(tokens, jsonText(t))
			}
			conditions = append(conditions, conditionGroup(t))
		default:
			tokens = append(tokens, plainText(t))
		}
	}
	return tokens, conditions
}

func conditionGroup(dep map[string]any) string {
	conds := dep["dependencyConditions"]
	if conds == nil {
		conds = dep["dependencyCondition"]
	}
	switch t := conds.(type) {
	case []any:
		group := ""
		for i, c := range t {
			if i > 0 {
				group += "|"
			}
			group += plainText(c)
		}
		return group
	case nil:
		return ""
	default:
		return plainText(t)
	}
}

func extractPolicy(v any) model.ActivityPolicy {
	policy, ok := v.(map[string]any)
	if !ok {
		return model.ActivityPolicy{}
	}
	p := model.ActivityPolicy{
		Timeout: plainText(policy["timeout"]),
	}
	if n, ok := policy["retry"].(json.Number); ok {
		if retry, err := strconv.Atoi(n.String()); err == nil {
			p.Retry = retry
		}
	}
	if secure, ok := policy["secureInput"].(bool); ok {
		p.SecureInput = secure
	}
	return p
}

func referenceNames(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var names []string
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			if name := plainText(m["referenceName"]); name != "" {
				names = append(names, name)
				continue
			}
			names = append(names, jsonText(m))
			continue
		}
		names = append(names, plainText(item))
	}
	return names
}

// copyRule handles copy-shaped activities: a source/sink pair in the
// type properties. Source detail prefers explicit query text; sink
// detail prefers a table parameter on the first output reference.
func copyRule(s *typeSummary, activityType string, tp map[string]any, act map[string]any) {
	if activityType != "Copy" && tp["source"] == nil && tp["sink"] == nil {
		return
	}
	src, _ := tp["source"].(map[string]any)
	snk, _ := tp["sink"].(map[string]any)
	if src == nil {
		src = map[string]any{}
	}
	if snk == nil {
		snk = map[string]any{}
	}

	s.sourceType = firstNonEmpty(plainText(src["type"]), plainText(src["partitionOption"]))
	s.sourceDetails = firstNonEmpty(plainText(src["query"]), plainText(src["sqlReaderQuery"]), jsonText(src))
	s.sinkType = plainText(snk["type"])

	s.sinkDetails = ""
	if outputs, ok := act["outputs"].([]any); ok && len(outputs) > 0 {
		if out, ok := outputs[0].(map[string]any); ok {
			if params, ok := out["parameters"].(map[string]any); ok {
				if table, ok := params["table"]; ok {
					s.sinkDetails = "table=" + plainText(table)
				}
			}
		}
	}
	if s.sinkDetails == "" {
		s.sinkDetails = jsonText(snk)
	}
}

// notebookRule handles notebook-shaped activities.
func notebookRule(s *typeSummary, activityType string, tp map[string]any, _ map[string]any) {
	if activityType != "DatabricksNotebook" && tp["notebookPath"] == nil {
		return
	}
	s.notebookPath = firstNonEmpty(plainText(tp["notebookPath"]), plainText(tp["notebook"]), jsonText(tp))
	s.sourceType = "DatabricksNotebook"
	s.sourceDetails = s.notebookPath
}

// childPipelineRule handles execute-pipeline activities referencing a
// child pipeline.
func childPipelineRule(s *typeSummary, activityType string, tp map[string]any, _ map[string]any) {
	if activityType != "ExecutePipeline" && tp["pipeline"] == nil {
		return
	}
	if ref, ok := tp["pipeline"].(map[string]any); ok {
		s.childPipeline = plainText(ref["referenceName"])
	} else {
		s.childPipeline = plainText(tp["pipeline"])
	}
	s.sourceType = "ChildPipeline"
	s.sourceDetails = firstNonEmpty(s.childPipeline, jsonText(tp["pipeline"]))
}

// fallbackRule fills the source detail from well-known type-property
// keys when no earlier rule captured one.
func fallbackRule(s *typeSummary, tp map[string]any) {
	if s.sourceDetails != "" || len(tp) == 0 {
		return
	}
	switch {
	case tp["url"] != nil:
		s.sourceDetails = jsonText(tp["url"])
	case tp["items"] != nil:
		s.sourceDetails = jsonText(tp["items"])
	case tp["expression"] != nil:
		s.sourceDetails = jsonText(tp["expression"])
	default:
		s.sourceDetails = jsonText(tp)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
