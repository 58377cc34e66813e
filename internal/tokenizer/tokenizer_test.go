package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenisePronunciation_Empty(t *testing.T) {
	got, err := TokenisePronunciation("")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

func TestTokenisePronunciation_MixedSeparators(t *testing.T) {
	got, err := TokenisePronunciation("jat1 檔:dong2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []Syllable{{Sound: "jat", Tone: "1"}, {Sound: "dong", Tone: "2"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenisePronunciation_Adjacent(t *testing.T) {
	got, err := TokenisePronunciation("laap6saap3 tung2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []Syllable{{Sound: "laap", Tone: "6"}, {Sound: "saap", Tone: "3"}, {Sound: "tung", Tone: "2"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenisePronunciation_ToneOptional(t *testing.T) {
	got, err := TokenisePronunciation("s e t tou2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []Syllable{{Sound: "s", Tone: ""}, {Sound: "e", Tone: ""}, {Sound: "t", Tone: ""}, {Sound: "tou", Tone: "2"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenisePronunciation_RoundTrip(t *testing.T) {
	// Re-emitting a well-formed pronunciation's syllables with single spaces
	// and re-tokenising must yield the same sequence.
	for _, s := range []string{"jat1 dong2", "laap6saap3 tung2", "hou2 mei5"} {
		syls, err := TokenisePronunciation(s)
		if err != nil {
			t.Fatalf("unexpected err for %q: %v", s, err)
		}
		var rebuilt string
		for i, syl := range syls {
			if i > 0 {
				rebuilt += " "
			}
			rebuilt += syl.Sound + syl.Tone
		}
		got, err := TokenisePronunciation(rebuilt)
		if err != nil {
			t.Fatalf("unexpected err for rebuilt %q: %v", rebuilt, err)
		}
		if !reflect.DeepEqual(got, syls) {
			t.Fatalf("round trip mismatch for %q: got %v, want %v", s, got, syls)
		}
	}
}

func TestTokenisePronunciationQuery(t *testing.T) {
	got, err := TokenisePronunciationQuery("laap6 ? tung2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := []PronunciationToken{
		{Syllable: Syllable{Sound: "laap", Tone: "6"}},
		{Wildcard: true},
		{Syllable: Syllable{Sound: "tung", Tone: "2"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenisePronunciationQuery_Empty(t *testing.T) {
	got, err := TokenisePronunciationQuery("")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

func TestTokeniseCharacterQuery(t *testing.T) {
	got := TokeniseCharacterQuery("垃?桶")
	want := []CharacterToken{{Char: '垃'}, {Wildcard: true}, {Char: '桶'}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokeniseCharacterQuery_Empty(t *testing.T) {
	got := TokeniseCharacterQuery("")
	if len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}
