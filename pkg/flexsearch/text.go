package flexsearch

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// canonical NFC-normalizes identifiers so visually equal names render
// and compare byte-identically.
func canonical(s string) string {
	return norm.NFC.String(s)
}

// singleLine strips the common leading indentation of text, drops blank
// first and last lines, and joins the remaining lines with single spaces.
// Other whitespace is kept as is.
func singleLine(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")

	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}

	for i, line := range lines {
		if len(line) >= indent && indent > 0 {
			lines[i] = line[indent:]
		} else if strings.TrimSpace(line) == "" {
			lines[i] = ""
		}
	}
	return canonical(strings.Join(lines, " "))
}
