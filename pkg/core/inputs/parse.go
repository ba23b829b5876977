// Package inputs normalizes loosely-typed model payloads at the system
// boundary into a strict models.ModelInputs, isolating the core from
// schema looseness ({value: X} wrappers, optional fields, hand-written
// files with comments and trailing commas).
package inputs

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// SmartParse tries multiple parsing strategies to extract a raw record
// from user-supplied text. Order of attempts:
//  1. Standard JSON parse
//  2. JSON repair (trailing commas, single quotes, unclosed brackets)
//  3. Hjson parse (most lenient: comments, unquoted keys)
func SmartParse(input string) (map[string]interface{}, error) {
	var raw map[string]interface{}

	if err := json.Unmarshal([]byte(input), &raw); err == nil {
		return raw, nil
	}

	if repaired, err := jsonrepair.RepairJSON(input); err == nil {
		if err := json.Unmarshal([]byte(repaired), &raw); err == nil {
			return raw, nil
		}
	}

	if err := hjson.Unmarshal([]byte(input), &raw); err == nil {
		return raw, nil
	}

	return nil, fmt.Errorf("all parsing strategies failed for model input")
}
