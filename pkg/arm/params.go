package arm

import (
	"strings"

	"github.com/ritzau/factory-analyzer/pkg/model"
)

// A parameter block is recognized structurally, never by key name: a
// non-empty map where every value is itself a map carrying both a
// "type" and a "value" key. A single disqualifying entry reclassifies
// the whole map as an ordinary nested structure.

// IsParameterBlock reports whether v has the parameter-block shape.
func IsParameterBlock(v any) bool {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return false
	}
	for _, entry := range m {
		em, ok := entry.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := em["type"]; !ok {
			return false
		}
		if _, ok := em["value"]; !ok {
			return false
		}
	}
	return true
}

// ExpandRows partitions a property map into simple keys, flattened
// into the base row, and parameter blocks, each of which expands the
// base row once per contained parameter. Rows from all blocks are
// concatenated, never cross-joined: the output count is the sum of the
// per-block parameter counts. Without any block the base row is
// returned alone.
func ExpandRows(base model.Row, props map[string]any) []model.Row {
	combined := base.Clone()

	type block struct {
		name    string
		entries map[string]any
	}
	var blocks []block

	for _, key := range sortedKeys(props) {
		value := props[key]
		switch {
		case IsParameterBlock(value):
			blocks = append(blocks, block{name: key, entries: value.(map[string]any)})
		default:
			switch value.(type) {
			case map[string]any, []any:
				for path, leaf := range Flatten(value, key) {
					combined[path] = leaf.String()
				}
			default:
				combined[key] = leafValue(value).String()
			}
		}
	}

	if len(blocks) == 0 {
		return []model.Row{combined}
	}

	var rows []model.Row
	for _, b := range blocks {
		prefix := strings.TrimSuffix(b.name, "s")
		for _, name := range sortedKeys(b.entries) {
			detail, _ := b.entries[name].(map[string]any)
			row := combined.Clone()
			row[prefix+"_name"] = name
			row[prefix+"_type"] = plainText(detail["type"])
			row[prefix+"_value"] = plainText(detail["value"])
			rows = append(rows, row)
		}
	}
	return rows
}
