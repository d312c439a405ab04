package llm

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SanitizeRecords removes or normalizes optional fields that don't meet our
// stricter schema, so the overall document can still validate. We only touch
// OPTIONALS: `comments` may come back as JSON null or a number, which the
// schema rejects. Required fields (`key`, `value`) are never altered, so a
// genuinely malformed response still fails validation afterwards.
func SanitizeRecords(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	entries, ok := m["entries"].([]any)
	if !ok {
		// Nothing we can safely fix; let validation report it.
		return doc, nil, nil
	}

	var touched []string
	for i, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		c, present := entry["comments"]
		if !present {
			continue
		}
		field := fmt.Sprintf("entries[%d].comments", i)
		switch t := c.(type) {
		case nil:
			delete(entry, "comments")
			touched = append(touched, field)
		case string:
			// fine as-is
		case float64:
			entry["comments"] = strconv.FormatFloat(t, 'f', -1, 64)
			touched = append(touched, field)
		case bool:
			entry["comments"] = strconv.FormatBool(t)
			touched = append(touched, field)
		default:
			// arrays/objects -> drop
			delete(entry, "comments")
			touched = append(touched, field)
		}
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, touched, nil
}
