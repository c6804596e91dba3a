package resolver

import (
	"encoding/json"
	"strings"
)

// TagResult is the parsed per-key payload from the model. Any field may be
// absent.
type TagResult struct {
	Genres []string   `json:"genres"`
	Region StringList `json:"region"`
	Era    string     `json:"era"`
}

// StringList is a []string that also accepts a single JSON string, since the
// model sometimes returns "region": "UK" instead of "region": ["UK"].
type StringList []string

// UnmarshalJSON normalizes a scalar string to a single-element list.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = StringList{one}
	return nil
}

// ParseResponse extracts the mapping from the raw model output. The JSON
// object is located as the substring between the first '{' and the last '}'
// so surrounding prose or code fences are tolerated. A response with no such
// substring, or one that fails to parse, yields an empty mapping: malformed
// output means "no data for this batch", never an error.
func ParseResponse(raw string) map[string]TagResult {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return map[string]TagResult{}
	}

	var mapping map[string]TagResult
	if err := json.Unmarshal([]byte(raw[start:end+1]), &mapping); err != nil {
		return map[string]TagResult{}
	}
	if mapping == nil {
		return map[string]TagResult{}
	}
	return mapping
}
