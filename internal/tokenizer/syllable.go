// Package tokenizer implements the three grammars the search engine and
// importer rely on to turn raw corpus text and user queries into structured
// tokens: plain pronunciation tokenisation (ingest), pronunciation-query
// tokenisation (with `?` wildcards) and character-query tokenisation.
//
// All three are hand-rolled scanners rather than a combinator library: the
// grammars are regular enough that a scanner reads more plainly, and it
// avoids pulling in a parser-combinator dependency for three small productions.
package tokenizer

import "strings"

// Syllable is the atomic unit of the pronunciation index: a lowercased
// alphabetic sound plus an optional single tone digit.
type Syllable struct {
	Sound string
	Tone  string
}

func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isASCIIAlnum(b byte) bool {
	return isASCIIAlpha(b) || isASCIIDigit(b)
}

// takeSyllable matches (ASCII_ALPHA+)(ASCII_DIGIT{0,1}) at the start of s. It
// reports the number of bytes consumed and whether a syllable was found at
// all; zero alphabetic characters is always a failed match.
func takeSyllable(s string) (Syllable, int, bool) {
	i := 0
	for i < len(s) && isASCIIAlpha(s[i]) {
		i++
	}
	if i == 0 {
		return Syllable{}, 0, false
	}

	sound := strings.ToLower(s[:i])
	n := i
	tone := ""
	if i < len(s) && isASCIIDigit(s[i]) {
		tone = s[i : i+1]
		n = i + 1
	}
	return Syllable{Sound: sound, Tone: tone}, n, true
}
