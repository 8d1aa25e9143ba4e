// Package frontmatter extracts the leading key/value metadata block from
// fetched post content.
//
// The wire format is deliberately line-based, not YAML: a line containing
// only the marker, `key: value` lines, and a closing marker line. Published
// posts are authored by hand and a malformed line must never take the whole
// post down, so anything that does not match is silently skipped.
package frontmatter

import "strings"

const marker = "---"

// Split separates the frontmatter block (between leading marker lines) from
// the body. If no opening marker is present, or the closing marker is
// missing, the entire input is body and the returned map is nil.
func Split(raw string) (map[string]string, string) {
	trimmed := strings.TrimLeft(raw, "\n\r")
	lines := strings.Split(trimmed, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != marker {
		return nil, raw
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == marker {
			end = i
			break
		}
	}
	if end < 0 {
		// No closing marker — treat everything as body.
		return nil, raw
	}

	fm := make(map[string]string)
	for _, line := range lines[1:end] {
		key, value, ok := parseLine(line)
		if !ok {
			continue
		}
		fm[key] = value
	}

	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimLeft(body, "\n\r")
	return fm, body
}

// parseLine splits a `key: value` line on the first colon. The value is
// trimmed and surrounding quotes stripped.
func parseLine(line string) (string, string, bool) {
	line = strings.TrimRight(line, "\r")
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" {
		return "", "", false
	}
	value := strings.TrimSpace(line[idx+1:])
	value = stripQuotes(value)
	return key, value, true
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
