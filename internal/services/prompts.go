package services

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed prompts.yaml
var promptsYAML []byte

type promptPair struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type promptSet struct {
	Layout  promptPair `yaml:"layout"`
	Chapter promptPair `yaml:"chapter"`
}

func loadPrompts(raw []byte) (promptSet, error) {
	var ps promptSet
	if err := yaml.Unmarshal(raw, &ps); err != nil {
		return ps, fmt.Errorf("parse prompts: %w", err)
	}
	for name, p := range map[string]promptPair{"layout": ps.Layout, "chapter": ps.Chapter} {
		if strings.TrimSpace(p.System) == "" || strings.TrimSpace(p.User) == "" {
			return ps, fmt.Errorf("prompt %q incomplete", name)
		}
	}
	return ps, nil
}

// userPrompt appends the JSON-encoded input to the prompt preamble.
func (p promptPair) userPrompt(input string) string {
	return strings.TrimRight(p.User, "\n") + "\n" + input
}

var layoutSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"course"},
	"properties": map[string]any{
		"course": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required": []string{
				"name", "description", "category", "level", "includeVideo",
				"noOfChapters", "bannerImagePrompt", "chapters",
			},
			"properties": map[string]any{
				"name":              map[string]any{"type": "string"},
				"description":       map[string]any{"type": "string"},
				"category":          map[string]any{"type": "string"},
				"level":             map[string]any{"type": "string"},
				"includeVideo":      map[string]any{"type": "boolean"},
				"noOfChapters":      map[string]any{"type": "integer"},
				"bannerImagePrompt": map[string]any{"type": "string"},
				"chapters": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []string{"chapterName", "duration", "topics"},
						"properties": map[string]any{
							"chapterName": map[string]any{"type": "string"},
							"duration":    map[string]any{"type": "string"},
							"topics":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						},
					},
				},
			},
		},
	},
}

var chapterSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"required":             []string{"chapterName", "topics"},
	"properties": map[string]any{
		"chapterName": map[string]any{"type": "string"},
		"topics": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []string{"topic", "content"},
				"properties": map[string]any{
					"topic":   map[string]any{"type": "string"},
					"content": map[string]any{"type": "string"},
				},
			},
		},
	},
}
