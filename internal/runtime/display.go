package runtime

import (
	"strconv"
	"strings"
)

// formatFloat renders a float in its shortest round-trip form, matching the
// way println surfaces numbers: 2.5 stays 2.5, 2.0 prints as 2.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// displayValue renders any value for output. Inside containers strings and
// chars are quoted; at the top level Str.Display returns the raw text.
// Cyclic structures render the revisited reference as `...`.
func displayValue(v Value, seen map[Value]bool) string {
	switch val := v.(type) {
	case *Array:
		if seen[v] {
			return "[...]"
		}
		seen[v] = true
		defer delete(seen, v)

		parts := make([]string, len(val.Elems))
		for i, el := range val.Elems {
			parts[i] = displayElement(el, seen)
		}
		return "[" + strings.Join(parts, ", ") + "]"

	case *Tuple:
		if seen[v] {
			return "(...)"
		}
		seen[v] = true
		defer delete(seen, v)

		parts := make([]string, len(val.Elems))
		for i, el := range val.Elems {
			parts[i] = displayElement(el, seen)
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"

	case *Object:
		if seen[v] {
			return "{...}"
		}
		seen[v] = true
		defer delete(seen, v)

		parts := make([]string, 0, val.Len())
		for _, name := range val.Names() {
			field, _ := val.Get(name)
			parts = append(parts, name+": "+displayElement(field, seen))
		}
		body := "{" + strings.Join(parts, ", ") + "}"
		if val.TypeName != "" {
			return val.TypeName + " " + body
		}
		return body

	case *Dict:
		if seen[v] {
			return "{...}"
		}
		seen[v] = true
		defer delete(seen, v)

		var parts []string
		val.Entries(func(key, value Value) bool {
			parts = append(parts, displayElement(key, seen)+": "+displayElement(value, seen))
			return true
		})
		return "{" + strings.Join(parts, ", ") + "}"

	case *Set:
		if seen[v] {
			return "{...}"
		}
		seen[v] = true
		defer delete(seen, v)

		var parts []string
		val.Members(func(member Value) bool {
			parts = append(parts, displayElement(member, seen))
			return true
		})
		return "{" + strings.Join(parts, ", ") + "}"

	case *EnumVariant:
		name := val.Variant
		if val.Enum != "" {
			name = val.Enum + "::" + val.Variant
		}
		if len(val.Payload) == 0 {
			return name
		}
		parts := make([]string, len(val.Payload))
		for i, el := range val.Payload {
			parts[i] = displayElement(el, seen)
		}
		return name + "(" + strings.Join(parts, ", ") + ")"

	case *DataFrame:
		return val.render()

	default:
		return v.Display()
	}
}

// displayElement renders a value nested inside a container, quoting strings
// and chars.
func displayElement(v Value, seen map[Value]bool) string {
	switch val := v.(type) {
	case Str:
		return strconv.Quote(val.Val)
	case Char:
		return "'" + string(val.Val) + "'"
	default:
		return displayValue(v, seen)
	}
}

// Inspect renders a value the way the REPL echoes results: like Display but
// with top-level strings quoted.
func Inspect(v Value) string {
	switch val := v.(type) {
	case Str:
		return strconv.Quote(val.Val)
	case Char:
		return "'" + string(val.Val) + "'"
	default:
		return displayValue(v, make(map[Value]bool))
	}
}
