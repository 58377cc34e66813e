// Package searchindex is the search engine core: two inverted indices (by
// syllable and by character) built once from the persistent store and
// thereafter queried read-only. Nothing here performs I/O; the index loader
// in internal/loader is what streams rows from the store and feeds them in.
package searchindex

import (
	"fmt"
	"strconv"

	"github.com/saltbo/cedictx/internal/entity"
	"github.com/saltbo/cedictx/internal/tokenizer"
)

// Characters is the forward-map value for the character index: the
// traditional/simplified pair a word_id resolves to.
type Characters struct {
	Traditional string
	Simplified  string
}

type pronunciationKey struct {
	Type entity.PronunciationType
	ID   int64
}

type syllableKey struct {
	Type     entity.PronunciationType
	Syllable tokenizer.Syllable
}

// Index is the in-memory structure the search engine operates on. Build one
// with New: the zero value has nil maps and cannot be inserted into. An
// Index is built by one goroutine calling
// InsertPronunciation/InsertCharacters and is safe for concurrent reads
// (SearchPronunciation/SearchCharacters) only once construction is finished —
// it carries no internal locking, by design: the read/write asymmetry (one
// builder, many readers) is what lets reads skip synchronisation entirely.
type Index struct {
	pronForward map[pronunciationKey][]tokenizer.Syllable
	pronReverse map[syllableKey]map[int64]struct{}

	charForward map[int64]Characters
	charReverse map[rune]map[int64]struct{}
}

// New returns an empty, ready-to-build Index.
func New() *Index {
	return &Index{
		pronForward: make(map[pronunciationKey][]tokenizer.Syllable),
		pronReverse: make(map[syllableKey]map[int64]struct{}),
		charForward: make(map[int64]Characters),
		charReverse: make(map[rune]map[int64]struct{}),
	}
}

// InsertPronunciation tokenises text and records it under (type, id): every
// resulting syllable gets id added to its reverse bucket, and the ordered
// syllable sequence is stored in the forward map. Repeated calls for the same
// (type, id) overwrite the forward entry; reverse-set membership is
// naturally idempotent.
//
// Malformed input cannot make TokenisePronunciation fail in practice (its
// guard condition is unreachable for this grammar); if it somehow did, the
// row is simply not indexed rather than aborting the whole load, matching how
// the index loader treats other corrupt rows.
func (idx *Index) InsertPronunciation(id int64, text string, t entity.PronunciationType) {
	syllables, err := tokenizer.TokenisePronunciation(text)
	if err != nil {
		return
	}

	key := pronunciationKey{Type: t, ID: id}
	idx.pronForward[key] = syllables

	for _, syl := range syllables {
		sk := syllableKey{Type: t, Syllable: syl}
		bucket := idx.pronReverse[sk]
		if bucket == nil {
			bucket = make(map[int64]struct{})
			idx.pronReverse[sk] = bucket
		}
		bucket[id] = struct{}{}
	}
}

// InsertCharacters records id under every Unicode scalar appearing in trad or
// simp, and stores the pair itself in the forward map.
func (idx *Index) InsertCharacters(id int64, trad, simp string) {
	idx.charForward[id] = Characters{Traditional: trad, Simplified: simp}

	for _, r := range trad {
		idx.addChar(r, id)
	}
	for _, r := range simp {
		idx.addChar(r, id)
	}
}

func (idx *Index) addChar(r rune, id int64) {
	bucket := idx.charReverse[r]
	if bucket == nil {
		bucket = make(map[int64]struct{})
		idx.charReverse[r] = bucket
	}
	bucket[id] = struct{}{}
}

// SearchPronunciation tokenises the query, picks the first concrete syllable
// as the broad filter (expanding an unspecified tone across 1..6), then
// positionally verifies every candidate the broad filter's reverse bucket
// yields. Query cost scales with the bucket's density, not the index size.
func (idx *Index) SearchPronunciation(query string, t entity.PronunciationType) ([]int64, error) {
	tokens, err := tokenizer.TokenisePronunciationQuery(query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidInput, err)
	}

	broadPos := -1
	for i, tok := range tokens {
		if !tok.Wildcard {
			broadPos = i
			break
		}
	}
	if broadPos == -1 {
		return nil, fmt.Errorf("%w: pronunciation query has no concrete syllable", entity.ErrInvalidInput)
	}
	broad := tokens[broadPos].Syllable

	var candidates []tokenizer.Syllable
	if broad.Tone == "" {
		candidates = make([]tokenizer.Syllable, 0, 6)
		for tone := 1; tone <= 6; tone++ {
			candidates = append(candidates, tokenizer.Syllable{Sound: broad.Sound, Tone: strconv.Itoa(tone)})
		}
	} else {
		candidates = []tokenizer.Syllable{broad}
	}

	var results []int64
	for _, syl := range candidates {
		for id := range idx.pronReverse[syllableKey{Type: t, Syllable: syl}] {
			seq := idx.pronForward[pronunciationKey{Type: t, ID: id}]
			if matchesPronunciation(tokens, seq) {
				results = append(results, id)
			}
		}
	}
	return results, nil
}

// matchesPronunciation verifies a prefix-constrained positional match:
// candidate syllables past the end of the query are ignored, candidates
// shorter than the query can never match.
func matchesPronunciation(tokens []tokenizer.PronunciationToken, candidate []tokenizer.Syllable) bool {
	for i, tok := range tokens {
		if i >= len(candidate) {
			return false
		}
		if tok.Wildcard {
			continue
		}
		if candidate[i].Sound != tok.Syllable.Sound {
			return false
		}
		if tok.Syllable.Tone != "" && candidate[i].Tone != tok.Syllable.Tone {
			return false
		}
	}
	return true
}

// SearchCharacters tokenises per Unicode scalar, picks the first concrete
// character as the broad filter, then positionally verifies against either
// the traditional or simplified form of each candidate.
func (idx *Index) SearchCharacters(query string) ([]int64, error) {
	tokens := tokenizer.TokeniseCharacterQuery(query)

	broadPos := -1
	for i, tok := range tokens {
		if !tok.Wildcard {
			broadPos = i
			break
		}
	}
	if broadPos == -1 {
		return nil, fmt.Errorf("%w: character query has no concrete character", entity.ErrInvalidInput)
	}
	broadChar := tokens[broadPos].Char

	var results []int64
	for id := range idx.charReverse[broadChar] {
		c := idx.charForward[id]
		if matchesCharacters(tokens, c) {
			results = append(results, id)
		}
	}
	return results, nil
}

func matchesCharacters(tokens []tokenizer.CharacterToken, c Characters) bool {
	trad := []rune(c.Traditional)
	simp := []rune(c.Simplified)

	for i, tok := range tokens {
		hasTrad := i < len(trad)
		hasSimp := i < len(simp)
		if !hasTrad && !hasSimp {
			return false
		}
		if tok.Wildcard {
			continue
		}
		if (hasTrad && trad[i] == tok.Char) || (hasSimp && simp[i] == tok.Char) {
			continue
		}
		return false
	}
	return true
}
