// Package output renders extraction results: CSV tables, DOT and
// dbdiagram sketches, and a colorized console report. The core hands
// over in-memory rows and graphs; everything filesystem-shaped lives
// here or in the caller.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ritzau/factory-analyzer/pkg/logging"
	"github.com/ritzau/factory-analyzer/pkg/model"
)

// activityColumns is the fixed leading schema of the activities table;
// expanded property fields follow as dynamic columns.
var activityColumns = []string{
	"pipeline_name", "activity_name", "activity_type",
	"depends_on_activities", "dependency_conditions",
	"policy_retry", "policy_timeout", "policy_secureInput",
	"linked_service", "inputs", "outputs",
	"source_type", "source_details", "sink_type", "sink_details",
	"notebook_path", "child_pipeline",
}

// columnsFor computes the header of a dynamic table: identity columns
// first, the union of the remaining keys sorted after them.
func columnsFor(rows []model.Row, identity ...string) []string {
	isIdentity := make(map[string]bool, len(identity))
	for _, c := range identity {
		isIdentity[c] = true
	}

	extraSet := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			if !isIdentity[k] {
				extraSet[k] = true
			}
		}
	}
	extras := make([]string, 0, len(extraSet))
	for k := range extraSet {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	return append(append([]string{}, identity...), extras...)
}

// WriteRows renders a dynamic table as CSV.
func WriteRows(w io.Writer, rows []model.Row, identity ...string) error {
	cw := csv.NewWriter(w)
	columns := columnsFor(rows, identity...)
	if err := cw.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for i, c := range columns {
			record[i] = row[c]
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteActivities renders the activities table: the fixed schema plus
// the sorted union of expanded property fields.
func WriteActivities(w io.Writer, activities []model.ActivityRow) error {
	extraSet := make(map[string]bool)
	for _, a := range activities {
		for k := range a.Fields {
			extraSet[k] = true
		}
	}
	extras := make([]string, 0, len(extraSet))
	for k := range extraSet {
		extras = append(extras, k)
	}
	sort.Strings(extras)

	cw := csv.NewWriter(w)
	if err := cw.Write(append(append([]string{}, activityColumns...), extras...)); err != nil {
		return err
	}

	for _, a := range activities {
		record := []string{
			a.PipelineName, a.ActivityName, a.ActivityType,
			strings.Join(a.DependsOn, "|"),
			strings.Join(a.DependencyConditions, "|"),
			strconv.Itoa(a.Policy.Retry), a.Policy.Timeout,
			strconv.FormatBool(a.Policy.SecureInput),
			a.LinkedService,
			strings.Join(a.Inputs, "|"), strings.Join(a.Outputs, "|"),
			a.SourceType, a.SourceDetails, a.SinkType, a.SinkDetails,
			a.NotebookPath, a.ChildPipeline,
		}
		for _, c := range extras {
			record = append(record, a.Fields[c])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTriggerDetails renders the structured trigger table.
func WriteTriggerDetails(w io.Writer, details []model.TriggerDetail) error {
	cw := csv.NewWriter(w)
	header := []string{
		"trigger_name", "trigger_type", "runtime_state",
		"frequency", "interval", "start_time", "time_zone", "schedule",
		"pipelines", "pipeline_count", "annotations", "type_properties",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range details {
		record := []string{
			d.Name, d.Type, d.RuntimeState,
			d.Frequency, d.Interval, d.StartTime, d.TimeZone, d.Schedule,
			strings.Join(d.Pipelines, "|"), strconv.Itoa(len(d.Pipelines)),
			d.Annotations, d.TypeProperties,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteResourceDependencies renders the resource-level edge table.
func WriteResourceDependencies(w io.Writer, deps []model.ResourceDependency) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"resource_name", "resource_type",
		"depends_on_resource_name", "depends_on_resource_type",
	}); err != nil {
		return err
	}
	for _, d := range deps {
		if err := cw.Write([]string{d.ResourceName, d.ResourceType, d.DependsOnName, d.DependsOnType}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFactory renders the single-row factory table.
func WriteFactory(w io.Writer, f model.Factory) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"factory_name", "location", "content_version"}); err != nil {
		return err
	}
	if err := cw.Write([]string{f.Name, f.Location, f.ContentVersion}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteGlobalParameters renders the global-parameter table.
func WriteGlobalParameters(w io.Writer, params []model.GlobalParameter) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"parameter_name", "parameter_type", "parameter_value"}); err != nil {
		return err
	}
	for _, p := range params {
		if err := cw.Write([]string{p.Name, p.Type, p.Default}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVs writes every non-empty table into dir, one file per table.
func WriteCSVs(dir string, ex *model.Extraction) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	write := func(name string, empty bool, render func(io.Writer) error) error {
		if empty {
			logging.Debug("skipping empty table", "table", name)
			return nil
		}
		path := filepath.Join(dir, name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer f.Close()
		if err := render(f); err != nil {
			return fmt.Errorf("failed to render %s: %w", path, err)
		}
		logging.Info("wrote table", "path", path)
		return nil
	}

	steps := []struct {
		name   string
		empty  bool
		render func(io.Writer) error
	}{
		{"factory", false, func(w io.Writer) error { return WriteFactory(w, ex.Factory) }},
		{"global_parameters", len(ex.GlobalParameters) == 0, func(w io.Writer) error {
			return WriteGlobalParameters(w, ex.GlobalParameters)
		}},
		{"pipelines", len(ex.Pipelines) == 0, func(w io.Writer) error {
			return WriteRows(w, ex.Pipelines, "pipeline_name")
		}},
		{"activities", len(ex.Activities) == 0, func(w io.Writer) error {
			return WriteActivities(w, ex.Activities)
		}},
		{"datasets", len(ex.Datasets) == 0, func(w io.Writer) error {
			return WriteRows(w, ex.Datasets, "dataset_name")
		}},
		{"linked_services", len(ex.LinkedServices) == 0, func(w io.Writer) error {
			return WriteRows(w, ex.LinkedServices, "linked_service_name")
		}},
		{"triggers", len(ex.Triggers) == 0, func(w io.Writer) error {
			return WriteRows(w, ex.Triggers, "trigger_name")
		}},
		{"trigger_details", len(ex.TriggerDetails) == 0, func(w io.Writer) error {
			return WriteTriggerDetails(w, ex.TriggerDetails)
		}},
		{"integration_runtimes", len(ex.IntegrationRuntimes) == 0, func(w io.Writer) error {
			return WriteRows(w, ex.IntegrationRuntimes, "runtime_name")
		}},
		{"resource_dependencies", len(ex.ResourceDependencies) == 0, func(w io.Writer) error {
			return WriteResourceDependencies(w, ex.ResourceDependencies)
		}},
	}

	for _, s := range steps {
		if err := write(s.name, s.empty, s.render); err != nil {
			return err
		}
	}
	return nil
}
