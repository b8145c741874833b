package export

import (
	"encoding/json"
	"fmt"

	"github.com/PaesslerAG/jsonpath"
)

// Query evaluates a JSONPath expression against v's JSON form, e.g.
// "$.lines[*].expense" on a ScheduleDTO.
func Query(v any, path string) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	res, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", path, err)
	}
	return res, nil
}
