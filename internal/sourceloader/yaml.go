package sourceloader

import "sigs.k8s.io/yaml"

// decodeYAML goes through sigs.k8s.io/yaml rather than gopkg.in/yaml.v3
// directly: it round-trips via JSON semantics, so the result is always
// map[string]any / []any / string-keyed, matching what decodeJSON and
// decodeINI produce (spec §3's three-scalar-shape requirement) instead of
// yaml.v3's map[any]any for untyped targets.
func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	return v, nil
}
