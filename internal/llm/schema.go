package llm

import "github.com/joseph-ayodele/cardscan/constants"

// BuildContactJSONSchema returns the JSON-Schema the sanitized model output
// must satisfy. All keys are present after sanitizing, so all are required.
func BuildContactJSONSchema() map[string]any {
	props := map[string]any{}
	required := make([]string, 0, len(constants.Fields()))
	for _, f := range constants.Fields() {
		required = append(required, string(f))
		if f == constants.FieldSocialLinks {
			props[string(f)] = map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string", "minLength": 1},
			}
			continue
		}
		props[string(f)] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}
