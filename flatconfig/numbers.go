package flatconfig

import "math"

// NormalizeNumbers rewrites integral float64 values inside v as int, walking
// []any and map[string]any. JSON decoding into interface values yields
// float64 for every number; after normalization an option such as
// {"code": 100} compares equal to the same option authored in YAML or HCL.
// Slices and maps are modified in place.
func NormalizeNumbers(v any) any {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int(t)
		}
		return t
	case []any:
		for i := range t {
			t[i] = NormalizeNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = NormalizeNumbers(t[k])
		}
		return t
	default:
		return v
	}
}
