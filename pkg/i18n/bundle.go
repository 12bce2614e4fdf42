// Package i18n loads language bundles and resolves translated content for
// the section renderers. A bundle is a nested JSON document; lookups walk
// dotted key paths and fall back rather than fail, so a half-translated
// bundle degrades to visible defaults instead of runtime errors.
package i18n

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Bundle is one language's content document.
type Bundle map[string]any

// ParseBundle decodes raw JSON into a Bundle, rejecting documents whose top
// level is not an object.
func ParseBundle(raw []byte) (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("i18n: parse bundle: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("i18n: bundle has no content")
	}
	return b, nil
}

// Lookup walks path ("hero.line1") through nested objects. The second
// return is false when any segment is absent or the value at an inner
// segment is not an object.
func Lookup(b Bundle, path string) (any, bool) {
	if b == nil {
		return nil, false
	}
	var cur any = map[string]any(b)
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// GetString resolves path to a string, returning fallback when the path is
// absent or not a string.
func GetString(b Bundle, path, fallback string) string {
	v, ok := Lookup(b, path)
	if !ok {
		return fallback
	}
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	return s
}

// GetStrings resolves path to a list of strings, dropping non-string
// elements. Returns nil when the path is absent or not a list.
func GetStrings(b Bundle, path string) []string {
	v, ok := Lookup(b, path)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetObjects resolves path to a list of objects, dropping anything else.
// Returns nil when the path is absent or not a list.
func GetObjects(b Bundle, path string) []map[string]any {
	v, ok := Lookup(b, path)
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}
