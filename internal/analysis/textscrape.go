package analysis

import (
	"regexp"
	"strings"
)

var subjectLinePattern = regexp.MustCompile(`(?i)^[\s*#>_-]*subject(?:\s+line)?[\s*_]*:[\s*_]*(.*)$`)

// ScrapeSubjectLine splits free-form email copy into a subject and a body.
// The first line labelled "Subject:" (markdown emphasis allowed) wins and
// found is true. Without a label the first non-blank line is taken as the
// subject and found is false.
func ScrapeSubjectLine(text string) (subject, body string, found bool) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		m := subjectLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		subject = cleanSubject(m[1])
		body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		return subject, body, true
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		return cleanSubject(line), strings.TrimSpace(strings.Join(lines[i+1:], "\n")), false
	}
	return "", "", false
}

func cleanSubject(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_#")
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"'`)
}
