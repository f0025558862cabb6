package templates

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

// placeholderPattern matches the interpolation forms the template documents use:
// <%= expr %>, <%- expr %> (HTML-escaped) and ${expr}.
var placeholderPattern = regexp.MustCompile(`<%([=-])\s*(.*?)\s*%>|\$\{\s*(.*?)\s*\}`)

var variablePathPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// Vars is the variable set visible to placeholders.
type Vars map[string]any

// Lookup resolves a dotted variable path. Nested values must be string-keyed maps.
func (v Vars) Lookup(path string) (any, bool) {
	var current any = map[string]any(v)
	for _, part := range strings.Split(path, ".") {
		m, ok := asStringMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Vars:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// RenderString substitutes every placeholder in s. Variables that are not set
// render as the empty string. changed reports whether s held any placeholder.
func RenderString(s string, vars Vars) (out string, changed bool, err error) {
	if !strings.Contains(s, "<%") && !strings.Contains(s, "${") {
		return s, false, nil
	}

	var renderErr error
	out = placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		if renderErr != nil {
			return match
		}
		groups := placeholderPattern.FindStringSubmatch(match)
		escape := groups[1] == "-"
		expr := groups[2]
		if groups[1] == "" {
			expr = groups[3]
		}
		if !variablePathPattern.MatchString(expr) {
			renderErr = fmt.Errorf("unsupported placeholder expression %q", expr)
			return match
		}
		changed = true
		value, ok := vars.Lookup(expr)
		if !ok || value == nil {
			return ""
		}
		text := fmt.Sprint(value)
		if escape {
			text = html.EscapeString(text)
		}
		return text
	})
	if renderErr != nil {
		return "", false, renderErr
	}
	return out, changed, nil
}
