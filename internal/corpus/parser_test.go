package corpus

import (
	"errors"
	"testing"

	"github.com/saltbo/cedictx/internal/entity"
)

func TestParse_LineWithComment(t *testing.T) {
	entries, err := Parse("好 好 [hao3] {hou2} |good|well| # a comment", 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := entity.Entry{Traditional: "好", Simplified: "好", Pinyin: "hao3", Jyutping: "hou2", Definition: "|good|well|", DictionaryID: 1}
	if len(entries) != 1 || entries[0] != want {
		t.Fatalf("got %+v, want [%+v]", entries, want)
	}
}

func TestParse_NoJyutping(t *testing.T) {
	entries, err := Parse("好 好 [hao3] |good|well|", 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 1 || entries[0].Jyutping != "" {
		t.Fatalf("got %+v", entries)
	}
}

func TestParse_TrailingWhitespace(t *testing.T) {
	entries, err := Parse("好 好 [hao3] {hou2} |good|well|   ", 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 1 || entries[0].Definition != "|good|well|" {
		t.Fatalf("got %+v", entries)
	}
}

func TestParse_HeaderCommentOnly(t *testing.T) {
	entries, err := Parse("# hi\n#\n# testing", 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %+v", entries)
	}
}

func TestParse_EmptyPinyin(t *testing.T) {
	entries, err := Parse("好 好 [] {hou2} |good|well|", 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 1 || entries[0].Pinyin != "" {
		t.Fatalf("got %+v", entries)
	}
}

func TestParse_HeaderCommentThenEntry(t *testing.T) {
	entries, err := Parse("# hi\n#\n# testing\n好 好 [hao3] {hou2} |good|well|", 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := entity.Entry{Traditional: "好", Simplified: "好", Pinyin: "hao3", Jyutping: "hou2", Definition: "|good|well|", DictionaryID: 1}
	if len(entries) != 1 || entries[0] != want {
		t.Fatalf("got %+v, want [%+v]", entries, want)
	}
}

func TestParse_List(t *testing.T) {
	src := "好 好 [hao3] {hou2} |good|well|\n一事 一事 [yi1 shi4] {jat1 si6} |A matter|"
	entries, err := Parse(src, 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
	if entries[1].Traditional != "一事" || entries[1].Pinyin != "yi1 shi4" || entries[1].Jyutping != "jat1 si6" {
		t.Fatalf("got %+v", entries[1])
	}
	for _, e := range entries {
		if e.DictionaryID != 7 {
			t.Fatalf("expected dictionary id stamped on every entry, got %+v", e)
		}
	}
}

func TestParse_MalformedLineFails(t *testing.T) {
	_, err := Parse("好 好 hao3] missing bracket", 1)
	if !errors.Is(err, entity.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestParse_BlankLinesTolerated(t *testing.T) {
	src := "# header\n\n好 好 [hao3] {hou2} |good|well|\n\n一事 一事 [yi1 shi4] {jat1 si6} |A matter|\n"
	entries, err := Parse(src, 1)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %+v", entries)
	}
}
