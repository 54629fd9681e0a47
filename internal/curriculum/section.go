package curriculum

import "strings"

// ExtractSection finds a heading line that starts with "label:" (or is
// exactly "label"), case-insensitively, and returns the paragraph under it:
// every following line up to the next blank one, trimmed. If label is not
// present the fallback headings are tried in order.
func ExtractSection(content, label string) string {
	if content == "" || strings.HasPrefix(content, Placeholder) {
		return ""
	}

	lines := SplitLines(content)
	if body, ok := findSection(lines, label); ok {
		return body
	}
	for _, alt := range sectionFallbacks {
		if body, ok := findSection(lines, alt); ok {
			return body
		}
	}
	return ""
}

// SplitLines splits text into lines without their line terminators.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// findSection reports ok once a heading matches, even if its paragraph is
// empty; an empty paragraph does not fall through to other headings.
func findSection(lines []string, label string) (string, bool) {
	label = strings.ToLower(label)
	for i, line := range lines {
		low := strings.ToLower(line)
		if !strings.HasPrefix(low, label+":") && low != label {
			continue
		}

		var body []string
		for _, next := range lines[i+1:] {
			if strings.TrimSpace(next) == "" {
				break
			}
			body = append(body, next)
		}
		return strings.TrimSpace(strings.Join(body, "\n")), true
	}
	return "", false
}
