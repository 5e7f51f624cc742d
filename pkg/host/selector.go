package host

import "strings"

// Matches reports whether target satisfies a simple element selector.
// Supported forms are "node", "edge", "*", "#id", "core" for the diagram
// background and comma separated lists of those. An empty selector matches
// everything, the background included.
func Matches(selector string, target Element) bool {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return true
	}

	for _, part := range strings.Split(selector, ",") {
		part = strings.TrimSpace(part)
		if target == nil {
			if part == "core" {
				return true
			}
			continue
		}
		switch {
		case part == "*":
			return true
		case part == "node" && target.IsNode():
			return true
		case part == "edge" && !target.IsNode():
			return true
		case strings.HasPrefix(part, "#") && part[1:] == target.ID():
			return true
		}
	}
	return false
}

// SplitEvents turns a space separated event list such as "cxtdrag tapdrag"
// into names
func SplitEvents(events ...string) []string {
	var names []string
	for _, e := range events {
		names = append(names, strings.Fields(e)...)
	}
	return names
}
