package llm

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON means no parseable JSON object could be extracted from a
// completion.
var ErrNoJSON = errors.New("no JSON object found in response")

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls a JSON object out of raw completion text. The
// prompts demand "JSON only, no extra text", but models ignore that
// often enough that three layers are tried in order: direct parse, a
// markdown-fenced block, then the first balanced {...} span.
func ExtractJSON(text string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrNoJSON
	}

	if isJSONObject(trimmed) {
		return json.RawMessage(trimmed), nil
	}

	for _, m := range fencedBlock.FindAllStringSubmatch(trimmed, -1) {
		candidate := strings.TrimSpace(m[1])
		if isJSONObject(candidate) {
			return json.RawMessage(candidate), nil
		}
	}

	if candidate := firstBalancedObject(trimmed); candidate != "" && isJSONObject(candidate) {
		return json.RawMessage(candidate), nil
	}

	return nil, ErrNoJSON
}

func isJSONObject(s string) bool {
	return strings.HasPrefix(s, "{") && json.Valid([]byte(s))
}

// firstBalancedObject returns the first {...} span with balanced
// braces, ignoring braces inside JSON strings.
func firstBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}
