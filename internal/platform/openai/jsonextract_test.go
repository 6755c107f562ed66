package openai

import (
	"errors"
	"testing"
)

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no lang", "```\n{\"a\":2}\n```", `{"a":2}`},
		{"prose around", `Sure! Here it is: {"a":3} Hope that helps.`, `{"a":3}`},
		{"brace in prose before", `Use {braces} wisely. {"a":4}`, `{"a":4}`},
		{"brace in trailing prose", `{"a":5} and then {oops`, `{"a":5}`},
		{"brace inside string", `{"html":"<p>{x}</p>"}`, `{"html":"<p>{x}</p>"}`},
		{"nested", `text {"course":{"chapters":[{"n":1}]}} tail}`, `{"course":{"chapters":[{"n":1}]}}`},
	}
	for _, tc := range cases {
		got, err := ExtractJSONObject(tc.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if string(got) != tc.want {
			t.Fatalf("%s: got=%s want=%s", tc.name, got, tc.want)
		}
	}
}

func TestExtractJSONObjectNoObject(t *testing.T) {
	for _, in := range []string{"", "no json here", "[1,2,3]", `{"unterminated": `} {
		if _, err := ExtractJSONObject(in); !errors.Is(err, ErrNoJSON) {
			t.Fatalf("%q: got=%v want=%v", in, err, ErrNoJSON)
		}
	}
}

func TestDecodeInto(t *testing.T) {
	var out struct {
		ChapterName string `json:"chapterName"`
	}
	if err := DecodeInto("```json\n{\"chapterName\":\"Intro\"}\n```", &out); err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}
	if out.ChapterName != "Intro" {
		t.Fatalf("chapterName: got=%q want=Intro", out.ChapterName)
	}
	var wrongType struct {
		ChapterName int `json:"chapterName"`
	}
	if err := DecodeInto(`{"chapterName":"Intro"}`, &wrongType); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}
