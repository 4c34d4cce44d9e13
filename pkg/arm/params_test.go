package arm

import (
	"testing"

	"github.com/ritzau/factory-analyzer/pkg/model"
)

func TestIsParameterBlock(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{
			name: "all entries have type and value",
			value: map[string]any{
				"env":   map[string]any{"type": "string", "value": "prod"},
				"batch": map[string]any{"type": "int", "value": "10"},
			},
			want: true,
		},
		{
			name:  "empty map is not a block",
			value: map[string]any{},
			want:  false,
		},
		{
			name:  "non-map value",
			value: "string",
			want:  false,
		},
		{
			name: "one entry missing type disqualifies the map",
			value: map[string]any{
				"env":   map[string]any{"type": "string", "value": "prod"},
				"batch": map[string]any{"value": "10"},
			},
			want: false,
		},
		{
			name: "one entry missing value disqualifies the map",
			value: map[string]any{
				"env":   map[string]any{"type": "string", "value": "prod"},
				"batch": map[string]any{"type": "int"},
			},
			want: false,
		},
		{
			name: "one scalar entry disqualifies the map",
			value: map[string]any{
				"env":   map[string]any{"type": "string", "value": "prod"},
				"batch": 10,
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsParameterBlock(tt.value); got != tt.want {
				t.Errorf("IsParameterBlock() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpandRowsWithoutBlocks(t *testing.T) {
	base := model.Row{"pipeline_name": "PL_X"}
	props := map[string]any{
		"description": "loads raw data",
		"folder":      map[string]any{"name": "Ingest"},
	}

	rows := ExpandRows(base, props)
	if len(rows) != 1 {
		t.Fatalf("expected exactly one base row, got %d", len(rows))
	}
	row := rows[0]
	if row["pipeline_name"] != "PL_X" {
		t.Errorf("base field lost: %v", row)
	}
	if row["description"] != "loads raw data" {
		t.Errorf("simple property missing: %v", row)
	}
	if row["folder.name"] != "Ingest" {
		t.Errorf("nested property not flattened: %v", row)
	}
}

// Rows from several blocks are concatenated, never cross-joined: the
// output count equals the sum of per-block parameter counts.
func TestExpandRowsBlocksAreSummedNotJoined(t *testing.T) {
	base := model.Row{"pipeline_name": "PL_X"}
	props := map[string]any{
		"parameters": map[string]any{
			"env":   map[string]any{"type": "string", "value": "prod"},
			"batch": map[string]any{"type": "int", "value": 10},
		},
		"variables": map[string]any{
			"cursor": map[string]any{"type": "String", "value": ""},
		},
	}

	rows := ExpandRows(base, props)
	if len(rows) != 3 {
		t.Fatalf("expected 2+1=3 rows, got %d: %v", len(rows), rows)
	}

	var paramRows, variableRows int
	for _, row := range rows {
		if row["pipeline_name"] != "PL_X" {
			t.Errorf("base field missing from expanded row: %v", row)
		}
		if _, ok := row["parameter_name"]; ok {
			paramRows++
		}
		if _, ok := row["variable_name"]; ok {
			variableRows++
		}
	}
	if paramRows != 2 || variableRows != 1 {
		t.Errorf("got %d parameter rows and %d variable rows, want 2 and 1", paramRows, variableRows)
	}
}

func TestExpandRowsBlockFields(t *testing.T) {
	base := model.Row{}
	props := map[string]any{
		"parameters": map[string]any{
			"env": map[string]any{"type": "string", "value": "prod"},
		},
	}

	rows := ExpandRows(base, props)
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if row["parameter_name"] != "env" || row["parameter_type"] != "string" || row["parameter_value"] != "prod" {
		t.Errorf("unexpected block fields: %v", row)
	}
}

// A map that fails the block shape is flattened like any other nested
// structure.
func TestExpandRowsDisqualifiedBlockIsFlattened(t *testing.T) {
	base := model.Row{}
	props := map[string]any{
		"parameters": map[string]any{
			"env":  map[string]any{"type": "string", "value": "prod"},
			"note": "not a parameter",
		},
	}

	rows := ExpandRows(base, props)
	if len(rows) != 1 {
		t.Fatalf("expected one flattened row, got %d", len(rows))
	}
	row := rows[0]
	if _, ok := row["parameter_name"]; ok {
		t.Errorf("disqualified map was still expanded: %v", row)
	}
	if row["parameters.env.value"] != "prod" || row["parameters.note"] != "not a parameter" {
		t.Errorf("disqualified map not flattened: %v", row)
	}
}
