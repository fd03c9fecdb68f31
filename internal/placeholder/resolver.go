// Package placeholder implements PlaceholderResolver (spec.md §4.6): it
// walks a merged tree, substituting %env(NAME)% / %env(TYPE:NAME)% tokens
// through a shared EnvAccessor, with typed scalar coercion for
// string/number/boolean.
package placeholder

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ravendot/tconf/internal/envaccessor"
)

var tokenPattern = regexp.MustCompile(`%env\((?:(?i:string|number|boolean)\s*:\s*)?[A-Z0-9_]+\)%`)
var tokenParts = regexp.MustCompile(`(?i)^%env\((?:([a-zA-Z]+)\s*:\s*)?([A-Z0-9_]+)\)%$`)

// Resolve walks t, replacing every %env(...)% token reachable from a string
// leaf. Non-string scalars, nil, arrays, and objects are copied through
// (arrays and objects recursively). It never re-scans resolver output (spec
// §5: "resolver output is not itself re-scanned for placeholders").
func Resolve(t any, accessor *envaccessor.Accessor) (any, error) {
	switch v := t.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			resolved, err := Resolve(val, accessor)
			if err != nil {
				return nil, err
			}
			out[k] = resolved
		}

		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			resolved, err := Resolve(val, accessor)
			if err != nil {
				return nil, err
			}
			out[i] = resolved
		}

		return out, nil
	case string:
		return resolveString(v, accessor)
	default:
		return v, nil
	}
}

// resolveString implements §4.6's "whole match vs. partial match" rule: a
// string that is, in its entirety, one placeholder yields the coerced
// native value; otherwise every occurrence is replaced in place and
// coerced values are stringified.
func resolveString(s string, accessor *envaccessor.Accessor) (any, error) {
	matches := tokenPattern.FindAllString(s, -1)
	if len(matches) == 0 {
		return s, nil
	}

	if len(matches) == 1 && matches[0] == s {
		return resolveToken(s, accessor)
	}

	var resolveErr error
	result := tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		if resolveErr != nil {
			return token
		}

		value, err := resolveToken(token, accessor)
		if err != nil {
			resolveErr = err

			return token
		}

		return stringify(value)
	})
	if resolveErr != nil {
		return nil, resolveErr
	}

	return result, nil
}

func resolveToken(token string, accessor *envaccessor.Accessor) (any, error) {
	parts := tokenParts.FindStringSubmatch(token)
	typ, name := strings.ToLower(parts[1]), parts[2]

	raw, err := accessor.Read(name)
	if err != nil {
		return nil, err
	}

	switch typ {
	case "number":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Deliberate non-diagnosis (spec §9): the schema validator is
			// the single source of input-quality diagnostics.
			return math.NaN(), nil
		}

		return f, nil
	case "boolean":
		return coerceBoolean(raw), nil
	default:
		return raw, nil
	}
}

func coerceBoolean(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "y", "on":
		return true
	case "false", "0", "no", "n", "off":
		return false
	default:
		return raw != ""
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "true"
		}

		return "false"
	case float64:
		if math.IsNaN(t) {
			return "NaN"
		}

		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return ""
	}
}
