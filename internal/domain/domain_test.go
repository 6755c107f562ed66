package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestToggleChapterRoundTrip(t *testing.T) {
	sets := [][]int{nil, {}, {0}, {1, 3}, {0, 1, 2, 3}}
	for _, orig := range sets {
		for idx := 0; idx < 5; idx++ {
			if contains(orig, idx) {
				continue
			}
			on := ToggleChapter(orig, idx, true)
			if !contains(on, idx) {
				t.Fatalf("toggle on: %v missing %d", on, idx)
			}
			off := ToggleChapter(on, idx, false)
			if !reflect.DeepEqual(off, NormalizeChapterSet(orig)) {
				t.Fatalf("round trip: got=%v want=%v", off, NormalizeChapterSet(orig))
			}
		}
	}
}

func TestNormalizeChapterSet(t *testing.T) {
	got := NormalizeChapterSet([]int{3, -1, 1, 3, 0})
	want := []int{0, 1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
}

func TestProgressPercent(t *testing.T) {
	if got := ProgressPercent([]int{0, 1, 9}, 4); got != 50 {
		t.Fatalf("got=%d want=50", got)
	}
	if got := ProgressPercent([]int{0}, 0); got != 0 {
		t.Fatalf("got=%d want=0", got)
	}
	if got := ProgressPercent([]int{0, 1, 2}, 3); got != 100 {
		t.Fatalf("got=%d want=100", got)
	}
}

func TestDecodeLayoutShapes(t *testing.T) {
	wrapped := json.RawMessage(`{"course":{"name":"Go","chapters":[{"chapterName":"Intro","topics":["a"]}]}}`)
	bare := json.RawMessage(`{"chapters":[{"chapterName":"Intro","topics":["a"]}]}`)

	l1, err := DecodeLayout(wrapped)
	if err != nil {
		t.Fatalf("wrapped: %v", err)
	}
	if l1.Course.Name != "Go" || len(l1.Chapters()) != 1 {
		t.Fatalf("wrapped: unexpected layout %+v", l1)
	}
	l2, err := DecodeLayout(bare)
	if err != nil {
		t.Fatalf("bare: %v", err)
	}
	if len(l2.Chapters()) != 1 || l2.Chapters()[0].ChapterName != "Intro" {
		t.Fatalf("bare: unexpected layout %+v", l2)
	}
	if _, err := DecodeLayout(json.RawMessage(`null`)); err != ErrEmptyLayout {
		t.Fatalf("null: got=%v want=%v", err, ErrEmptyLayout)
	}
}

func TestCourseContentNeverNull(t *testing.T) {
	c := Course{CourseContent: NewContent(nil)}
	raw, err := json.Marshal(c.CourseContent)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != "[]" {
		t.Fatalf("content: got=%s want=[]", raw)
	}
	if c.HasContent() {
		t.Fatalf("empty content reported as present")
	}
}

func contains(set []int, v int) bool {
	for _, i := range set {
		if i == v {
			return true
		}
	}
	return false
}
