package tokenizer

import "unicode/utf8"

// takeNonAlnumSeparator matches the maximal run of runes that are not ASCII
// letters or digits: plain spaces, punctuation, and any interleaved Chinese
// characters that show up stray in corpus pronunciation fields.
func takeNonAlnumSeparator(s string) int {
	n := 0
	for _, r := range s {
		if r < utf8.RuneSelf && isASCIIAlnum(byte(r)) {
			break
		}
		n += utf8.RuneLen(r)
	}
	return n
}

// TokenisePronunciation implements the ingest-path grammar: a
// delimiter-separated list of syllables, delimiters being any run of
// non-alphanumeric-ASCII characters. Always succeeds on well-formed input;
// the empty string yields an empty, non-nil-error slice.
func TokenisePronunciation(text string) ([]Syllable, error) {
	return scanSeparatedList(text, takeNonAlnumSeparator, takeSyllable)
}
