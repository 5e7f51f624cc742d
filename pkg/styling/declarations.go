package styling

import (
	"sort"
	"strings"
)

// Declarations is a set of inline CSS property/value pairs keyed by the
// kebab-case property name, e.g. "margin-left".
type Declarations map[string]string

// Parse reads an inline style string such as "color: red; opacity: 0.5".
// Malformed entries are skipped.
func Parse(inline string) Declarations {
	decls := make(Declarations)
	for _, part := range strings.Split(inline, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" || value == "" {
			continue
		}
		decls[prop] = value
	}
	return decls
}

// Set assigns a property and returns the receiver for chaining.
func (d Declarations) Set(prop, value string) Declarations {
	d[prop] = value
	return d
}

// Merge returns a new set holding d overlaid by each of others in turn.
// Neither d nor others are modified.
func (d Declarations) Merge(others ...Declarations) Declarations {
	out := make(Declarations, len(d))
	for k, v := range d {
		out[k] = v
	}
	for _, o := range others {
		for k, v := range o {
			out[k] = v
		}
	}
	return out
}

// String renders the declarations as an inline style attribute value.
// Properties are sorted so the output is stable.
func (d Declarations) String() string {
	if len(d) == 0 {
		return ""
	}

	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(d[k])
		b.WriteString(";")
	}
	return b.String()
}

// FromProperties builds declarations from DOM style properties such as
// {"fontWeight": "bold"}. Keys already in kebab case are kept.
func FromProperties(props map[string]string) Declarations {
	decls := make(Declarations, len(props))
	for k, v := range props {
		if v == "" {
			continue
		}
		decls[kebab(k)] = v
	}
	return decls
}

func kebab(prop string) string {
	var b strings.Builder
	for i, r := range prop {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
