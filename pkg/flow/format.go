package flow

import (
	"fmt"
	"strings"
)

// formatMessage substitutes {name} and {name:spec} placeholders with values from
// lookup. Doubled braces produce literal braces. A format spec follows fmt verbs
// ("03d", ".2f"); a leading '<' left aligns and a spec without a verb uses %v.
// A verb that does not apply to the value is an error.
func formatMessage(message string, lookup func(string) (any, bool)) (string, error) {
	var b strings.Builder
	for i := 0; i < len(message); i++ {
		ch := message[i]
		switch {
		case ch == '{' && i+1 < len(message) && message[i+1] == '{':
			b.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(message) && message[i+1] == '}':
			b.WriteByte('}')
			i++
		case ch == '}':
			return "", fmt.Errorf("single '}' encountered at %d", i)
		case ch == '{':
			end := strings.IndexByte(message[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unmatched '{' at %d", i)
			}
			field := message[i+1 : i+end]
			name, spec, _ := strings.Cut(field, ":")
			name = strings.TrimSpace(name)
			if name == "" {
				return "", fmt.Errorf("empty placeholder at %d", i)
			}
			value, ok := lookup(name)
			if !ok {
				return "", fmt.Errorf("unknown variable %q", name)
			}
			formatted, err := formatValue(value, spec)
			if err != nil {
				return "", fmt.Errorf("placeholder %q: %w", name, err)
			}
			b.WriteString(formatted)
			i += end
		default:
			b.WriteByte(ch)
		}
	}
	return b.String(), nil
}

func formatValue(value any, spec string) (string, error) {
	if spec == "" {
		return fmt.Sprint(value), nil
	}
	switch spec[0] {
	case '<':
		spec = "-" + spec[1:]
	case '>':
		spec = spec[1:]
	}
	if spec == "" || spec == "-" {
		return fmt.Sprint(value), nil
	}
	if last := spec[len(spec)-1]; !strings.ContainsRune("bdoxXeEfFgGsqvct", rune(last)) {
		spec += "v"
	}
	formatted := fmt.Sprintf("%"+spec, value)
	if strings.Contains(formatted, "%!") {
		return "", fmt.Errorf("format %q does not apply to %T", spec, value)
	}
	return formatted, nil
}
