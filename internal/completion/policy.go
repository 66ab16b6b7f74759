package completion

import "fmt"

// Policy controls whether registry definitions augment or override the
// description's own.
type Policy int

const (
	// PolicyNone leaves the description untouched.
	PolicyNone Policy = iota
	// PolicyEnrich fetches a definition only when the description lacks it.
	PolicyEnrich
	// PolicyOverride always queries the registry; the registry result wins
	// and the local definition serves only as a fallback when the lookup
	// comes up empty.
	PolicyOverride
	// PolicyStrict discards every local task and type definition first and
	// then behaves like PolicyOverride, leaving no local fallback.
	PolicyStrict
)

var policyNames = map[Policy]string{
	PolicyNone:     "none",
	PolicyEnrich:   "enrich",
	PolicyOverride: "override",
	PolicyStrict:   "strict",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("policy(%d)", int(p))
}

// ParsePolicy maps a policy name to its Policy value.
func ParsePolicy(s string) (Policy, error) {
	for policy, name := range policyNames {
		if name == s {
			return policy, nil
		}
	}
	return PolicyNone, fmt.Errorf("unknown completion policy %q: must be none, enrich, override, or strict", s)
}
