package providers

import "strings"

// FormatInstructions renders a system prompt made of a leading persona line
// followed by one bullet per non-blank rule.
func FormatInstructions(persona string, rules []string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(persona))
	for _, rule := range rules {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(rule)
	}
	return b.String()
}
