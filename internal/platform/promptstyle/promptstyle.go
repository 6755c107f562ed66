package promptstyle

import "strings"

const marker = "COURSEGEN_PROMPT_STYLE_V1"

// ApplySystem prepends a short output-discipline block to a system prompt.
// Prompts that already carry the marker are returned unchanged.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" || strings.Contains(base, marker) {
		return base
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou are a curriculum designer writing self-paced online courses.")
	b.WriteString("\nFollow the system and user instructions precisely.")
	if strings.EqualFold(strings.TrimSpace(mode), "json") {
		b.WriteString("\nReturn exactly one JSON object. No Markdown fences, no commentary before or after it.")
	} else {
		b.WriteString("\nDo not add commentary about the task itself.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return b.String()
}
