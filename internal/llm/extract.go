package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// fencePattern matches the first fenced block, with an optional json tag.
var fencePattern = regexp.MustCompile("```(?i:json)?\\s*([\\s\\S]*?)\\s*```")

// ErrNotObject is reported when the candidate text decodes to something other than an object.
var ErrNotObject = errors.New("payload is not a JSON object")

// Payload is the decoded JSON object from a completion, or a decode failure.
type Payload struct {
	Fields map[string]any
	OK     bool
	Err    error
}

// Extract locates and decodes the JSON object in raw completion text.
// The interior of the first fenced block is used when one exists,
// otherwise the whole text. Prose around an unfenced object is a failure.
func Extract(raw string) Payload {
	candidate := raw
	if m := fencePattern.FindStringSubmatch(raw); m != nil {
		candidate = m[1]
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return Payload{Err: errors.New("empty completion text")}
	}

	var decoded any
	if err := json.Unmarshal([]byte(candidate), &decoded); err != nil {
		return Payload{Err: fmt.Errorf("decode payload: %w", err)}
	}
	obj, ok := decoded.(map[string]any)
	if !ok || obj == nil {
		return Payload{Err: ErrNotObject}
	}
	return Payload{Fields: obj, OK: true}
}

func (p Payload) lookup(key string) (any, bool) {
	if !p.OK || p.Fields == nil {
		return nil, false
	}
	v, ok := p.Fields[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the non-blank string at key, or def.
func (p Payload) String(key, def string) string {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return def
	}
	return strings.TrimSpace(s)
}

// Float returns the number at key, or def. Numeric strings are accepted.
func (p Payload) Float(key string, def float64) float64 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	if f, ok := ToFloat(v); ok {
		return f
	}
	return def
}

// Strings returns the string list at key, or def when the key is missing or not a list.
// Non-string scalars inside the list are formatted; blank entries are dropped.
func (p Payload) Strings(key string, def []string) []string {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	items, ok := v.([]any)
	if !ok {
		return def
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := ToText(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// Object returns the object at key.
func (p Payload) Object(key string) (map[string]any, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// List returns the raw list at key.
func (p Payload) List(key string) ([]any, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	return items, ok
}

// Objects returns the objects found in the list at key. Non-object entries are skipped.
func (p Payload) Objects(key string) ([]map[string]any, bool) {
	v, ok := p.lookup(key)
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out, true
}

// ToFloat converts a decoded JSON value to float64. NaN and infinities are rejected.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		var err error
		if f, err = n.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(n), 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToText converts a decoded JSON scalar to a trimmed, non-empty string.
func ToText(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(t)
	default:
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
