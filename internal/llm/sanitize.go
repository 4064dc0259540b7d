package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/cardscan/constants"
)

// NormalizeAndSanitizeJSON
// - Renames known synonyms (tel -> phone, organization -> company, ...)
// - Turns null into "" and numbers into strings for scalar fields
// - Joins arrays given for scalar fields with ", "
// - Coerces social_links into a list of non-empty strings
// - Removes unknown keys
// The output always carries every recognized key.
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var in map[string]any
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	changes := make([]string, 0, 4)
	m := make(map[string]any, len(in))

	// 1) canonical keys first so a synonym never overwrites the real key;
	// sorted so the first synonym alphabetically wins when several collide
	keys := slices.Sorted(maps.Keys(in))
	for _, k := range keys {
		if f, ok := constants.Canonicalize(k); ok && string(f) == k {
			m[k] = in[k]
		}
	}
	for _, k := range keys {
		f, ok := constants.Canonicalize(k)
		if !ok {
			changes = append(changes, k+"(unknown)")
			continue
		}
		if string(f) == k {
			continue
		}
		if _, exists := m[string(f)]; exists {
			changes = append(changes, k+"(shadowed)")
			continue
		}
		m[string(f)] = in[k]
		changes = append(changes, k+"->"+string(f))
	}

	// 2) scalars
	for _, f := range constants.Fields() {
		if f == constants.FieldSocialLinks {
			continue
		}
		s, note := coerceString(m[string(f)])
		if note != "" {
			changes = append(changes, string(f)+"("+note+")")
		}
		m[string(f)] = s
	}

	// 3) social links
	links, note := coerceStringList(m[string(constants.FieldSocialLinks)])
	if note != "" {
		changes = append(changes, string(constants.FieldSocialLinks)+"("+note+")")
	}
	m[string(constants.FieldSocialLinks)] = links

	out, err := json.Marshal(m)
	if err != nil {
		return nil, changes, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(changes) > 0 {
		logger.Debug("llm.extract.normalize_sanitize", "changes", changes)
	}
	return out, changes, nil
}

func coerceString(v any) (string, string) {
	switch t := v.(type) {
	case nil:
		return "", ""
	case string:
		return strings.TrimSpace(t), ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), "number"
	case bool:
		return "", "bool"
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s, _ := coerceString(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), "joined"
	default:
		return "", "type"
	}
}

func coerceStringList(v any) ([]string, string) {
	switch t := v.(type) {
	case nil:
		return []string{}, ""
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return []string{}, ""
		}
		return []string{s}, "wrapped"
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, _ := coerceString(e); s != "" {
				out = append(out, s)
			}
		}
		return out, ""
	default:
		return []string{}, "type"
	}
}
