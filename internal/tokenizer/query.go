package tokenizer

import "unicode/utf8"

// PronunciationToken is one element of a tokenised pronunciation query: it is
// either a concrete Syllable or a Wildcard standing in for "any syllable at
// this position".
type PronunciationToken struct {
	Wildcard bool
	Syllable Syllable
}

// takeQuerySeparator is takeNonAlnumSeparator with one exception: '?' is
// never part of a separator run, since the query grammar treats it as its
// own token.
func takeQuerySeparator(s string) int {
	n := 0
	for _, r := range s {
		if r == '?' {
			break
		}
		if r < utf8.RuneSelf && isASCIIAlnum(byte(r)) {
			break
		}
		n += utf8.RuneLen(r)
	}
	return n
}

func takeQueryElement(s string) (PronunciationToken, int, bool) {
	if len(s) > 0 && s[0] == '?' {
		return PronunciationToken{Wildcard: true}, 1, true
	}
	syl, n, ok := takeSyllable(s)
	if !ok {
		return PronunciationToken{}, 0, false
	}
	return PronunciationToken{Syllable: syl}, n, true
}

// TokenisePronunciationQuery implements the query-path grammar: same
// separator rule as TokenisePronunciation, except '?' is reserved for the
// Wildcard token rather than being absorbed as a delimiter.
func TokenisePronunciationQuery(text string) ([]PronunciationToken, error) {
	return scanSeparatedList(text, takeQuerySeparator, takeQueryElement)
}

// CharacterToken is one element of a tokenised character query: either a
// concrete rune or a Wildcard.
type CharacterToken struct {
	Wildcard bool
	Char     rune
}

// TokeniseCharacterQuery implements the character-query grammar: no
// separators at all, just a straight walk over Unicode scalar values. Every
// scalar becomes exactly one token, so this can never fail.
func TokeniseCharacterQuery(text string) []CharacterToken {
	tokens := make([]CharacterToken, 0, len(text))
	for _, r := range text {
		if r == '?' {
			tokens = append(tokens, CharacterToken{Wildcard: true})
			continue
		}
		tokens = append(tokens, CharacterToken{Char: r})
	}
	return tokens
}
