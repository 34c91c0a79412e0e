// Package utils provides lenient parsing helpers shared by the preset store
// and the insight generator.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON attempts to fix common JSON defects in model-generated output:
// single quotes, unquoted keys, trailing commas, unclosed brackets, and
// markdown code fences around the payload.
func RepairJSON(malformed string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformed)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %v", err)
	}
	return repaired, nil
}

// ParseHJSONToStruct parses Hjson directly into a Go struct. Preset files
// are written by analysts, so comments, unquoted keys, and optional commas
// are all accepted.
func ParseHJSONToStruct(data []byte, schema interface{}) error {
	if err := hjson.Unmarshal(data, schema); err != nil {
		return fmt.Errorf("hjson unmarshal failed: %v", err)
	}
	return nil
}

// SmartParse tries progressively more lenient strategies to bind input to a
// schema: strict JSON first, then repaired JSON, then Hjson. Returns the
// normalized JSON that bound successfully.
func SmartParse(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	if repaired, err := RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	var loose interface{}
	if err := hjson.Unmarshal([]byte(input), &loose); err == nil {
		if normalized, err := json.Marshal(loose); err == nil {
			if err := json.Unmarshal(normalized, schema); err == nil {
				return string(normalized), nil
			}
		}
	}

	return "", fmt.Errorf("all parsing strategies failed for input")
}
