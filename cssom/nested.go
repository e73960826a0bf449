// CLAUDE:SUMMARY Path-based addressing into nested CSS rule containers for incremental rule patches.
package cssom

import "fmt"

// GetNestedRule resolves a rule path against a top-level rule list.
// Path [i] is top-level rule i; [i, j] is rule j inside the grouping rule
// at index i, and so on for arbitrary depth.
//
// A path index beyond a container's length, or a path descending into a
// non-grouping rule, means the caller's bookkeeping has diverged from the
// live rule tree; both fail loudly rather than returning a wrong rule.
func GetNestedRule(rules []*Rule, path []int) (*Rule, error) {
	if len(path) == 0 {
		return nil, fmt.Errorf("cssom: empty rule path")
	}
	cur := rules
	var rule *Rule
	for depth, idx := range path {
		if idx < 0 || idx >= len(cur) {
			return nil, fmt.Errorf("cssom: rule path %v: index %d out of range at depth %d (container has %d rules)",
				path, idx, depth, len(cur))
		}
		rule = cur[idx]
		if depth < len(path)-1 {
			if !rule.Grouping() {
				return nil, fmt.Errorf("cssom: rule path %v: rule at depth %d is not a grouping rule",
					path, depth)
			}
			cur = rule.Rules
		}
	}
	return rule, nil
}
