package promptstyle

import (
	"strings"
	"testing"
)

func TestApplySystemIdempotent(t *testing.T) {
	once := ApplySystem("Generate a course outline.", "json")
	twice := ApplySystem(once, "json")
	if once != twice {
		t.Fatalf("ApplySystem not idempotent")
	}
	if !strings.Contains(once, "exactly one JSON object") {
		t.Fatalf("json guidance missing: %q", once)
	}
	if !strings.HasSuffix(once, "Generate a course outline.") {
		t.Fatalf("original prompt should be preserved at the end")
	}
}

func TestApplySystemEmpty(t *testing.T) {
	if got := ApplySystem("   ", "text"); got != "" {
		t.Fatalf("got=%q want empty", got)
	}
}
