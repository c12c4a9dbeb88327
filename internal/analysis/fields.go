package analysis

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"bizops-backend/internal/llm"
)

var hoursPattern = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:hours?|hrs?|h)\b`)

// object views a decoded JSON object through the Payload accessors.
func object(m map[string]any) llm.Payload {
	return llm.Payload{Fields: m, OK: m != nil}
}

// firstString returns the first non-blank string among keys.
func firstString(p llm.Payload, keys ...string) string {
	for _, k := range keys {
		if s := p.String(k, ""); s != "" {
			return s
		}
	}
	return ""
}

// hoursValue reads an hour estimate from a number, a numeric string or text such as "about 6 hours".
func hoursValue(v any) (float64, bool) {
	if f, ok := llm.ToFloat(v); ok {
		return f, isUsable(f)
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	m := hoursPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	f, ok := llm.ToFloat(m[1])
	return f, ok && isUsable(f)
}

func isUsable(f float64) bool {
	return f > 0 && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// orDefault returns def when items is empty.
func orDefault(items, def []string) []string {
	if len(items) == 0 {
		return append([]string(nil), def...)
	}
	return items
}

// pairs reads a list whose entries are either objects or plain strings.
// Objects yield (key, value) from the first matching keys; strings become the
// value with key set to fallbackKey. Entries without a value are dropped.
func pairs(p llm.Payload, field string, keyNames, valueNames []string, fallbackKey string) [][2]string {
	items, ok := p.List(field)
	if !ok {
		return nil
	}
	out := make([][2]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case map[string]any:
			o := object(v)
			value := firstString(o, valueNames...)
			if value == "" {
				continue
			}
			key := firstString(o, keyNames...)
			if key == "" {
				key = fallbackKey
			}
			out = append(out, [2]string{key, value})
		default:
			if s, ok := llm.ToText(v); ok {
				out = append(out, [2]string{fallbackKey, s})
			}
		}
	}
	return out
}

// flattenMap renders a map as sorted "key: value" lines.
func flattenMap(m map[string]any) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		v, ok := llm.ToText(m[k])
		if !ok {
			if m[k] == nil {
				continue
			}
			v = strings.TrimSpace(indentJSON(m[k]))
			if v == "" {
				continue
			}
		}
		fmt.Fprintf(&b, "%s: %s\n", k, v)
	}
	return strings.TrimSpace(b.String())
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
