package llm

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a generic map.
// We pass this to OpenAI as a structured output constraint and also use it locally to validate.
func BuildRecordJSONSchema() map[string]any {
	entry := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"key":      map[string]any{"type": "string", "minLength": 1},
			"value":    map[string]any{"type": "string"},
			"comments": map[string]any{"type": "string"},
		},
		"required": []string{"key", "value"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"entries": map[string]any{
				"type":  "array",
				"items": entry,
			},
		},
		"required": []string{"entries"},
	}
}
