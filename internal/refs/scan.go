package refs

import "sort"

// Collect walks an argument spec and returns every reference string found in
// it, deduplicated and sorted for deterministic output.
func Collect(spec any) []string {
	found := make(map[string]struct{})
	collectInto(spec, found)

	out := make([]string, 0, len(found))
	for ref := range found {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

func collectInto(spec any, found map[string]struct{}) {
	switch v := spec.(type) {
	case map[string]any:
		for _, val := range v {
			collectInto(val, found)
		}
	case []any:
		for _, val := range v {
			collectInto(val, found)
		}
	case string:
		if IsReference(v) {
			found[v] = struct{}{}
		}
	}
}
