package openai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrNoJSON = errors.New("no JSON object found in model output")

var fenceRe = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)```")

// ExtractJSONObject pulls the first complete JSON object out of model text.
//
// Fenced blocks are tried first, then the whole text, then every '{' in order
// with a real decoder so braces inside surrounding prose or inside string
// literals cannot produce a wrong slice.
func ExtractJSONObject(text string) ([]byte, error) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "\ufeff")
	if text == "" {
		return nil, ErrNoJSON
	}

	candidates := make([]string, 0, 2)
	for _, m := range fenceRe.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, strings.TrimSpace(m[1]))
	}
	candidates = append(candidates, text)

	for _, c := range candidates {
		if obj, ok := wholeObject(c); ok {
			return obj, nil
		}
	}
	for _, c := range candidates {
		if obj, ok := scanObject(c); ok {
			return obj, nil
		}
	}
	return nil, ErrNoJSON
}

// DecodeInto extracts the first JSON object in text and unmarshals it into out.
func DecodeInto(text string, out any) error {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode model JSON: %w", err)
	}
	return nil
}

func wholeObject(s string) ([]byte, bool) {
	b := []byte(strings.TrimSpace(s))
	if len(b) == 0 || b[0] != '{' || !json.Valid(b) {
		return nil, false
	}
	return b, true
}

func scanObject(s string) ([]byte, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '{' {
			return raw, true
		}
	}
	return nil, false
}
