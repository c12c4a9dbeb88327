package util

import (
	"regexp"
	"strings"
)

const maxErrorLen = 500

var secretPattern = regexp.MustCompile(`(sk-[A-Za-z0-9_\-]{6})[A-Za-z0-9_\-]+|(AIza[A-Za-z0-9_\-]{4})[A-Za-z0-9_\-]+`)

// SanitizeError flattens an error message to one line, masks API keys and caps its length.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	msg = secretPattern.ReplaceAllString(msg, "$1$2***")
	if len(msg) > maxErrorLen {
		msg = msg[:maxErrorLen]
	}
	return msg
}
