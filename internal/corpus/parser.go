// Package corpus parses CEDICT/CC-Canto formatted text blobs into entity.Entry
// records. It is a pure function with no I/O: callers (the importer CLI) are
// responsible for reading the source file and handing its contents here.
package corpus

import (
	"fmt"
	"strings"

	"github.com/saltbo/cedictx/internal/entity"
)

// Parse turns a UTF-8 source blob into an ordered sequence of entries. Leading
// "#"-prefixed comment lines (and any blank lines around them) are consumed
// silently; a source made up only of such lines yields an empty, non-error
// result. Once the first content line is seen, every subsequent non-blank
// line must match the ENTRY grammar or Parse fails with an error wrapping
// entity.ErrParse and naming the offending line number.
//
// dictionaryID is stamped onto every produced Entry; the format itself has no
// notion of which dictionary a file belongs to.
func Parse(src string, dictionaryID int64) ([]entity.Entry, error) {
	lines := strings.Split(src, "\n")

	var entries []entity.Entry
	inHeader := true
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if inHeader {
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, "#") {
				continue
			}
			inHeader = false
		}

		if trimmed == "" {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", entity.ErrParse, i+1, err)
		}
		entry.DictionaryID = dictionaryID
		entries = append(entries, entry)
	}

	return entries, nil
}

// parseLine matches one ENTRY production:
//
//	TRAD " " SIMP " " "[" PINYIN "]" " " ("{" JYUTPING "}" " ")? DEFINITION ("#" COMMENT)?
func parseLine(line string) (entity.Entry, error) {
	rest := line

	trad, rest, ok := takeNonSpaceRun(rest)
	if !ok {
		return entity.Entry{}, fmt.Errorf("missing traditional form")
	}

	rest, ok = takeSpaces1(rest)
	if !ok {
		return entity.Entry{}, fmt.Errorf("expected space after traditional form")
	}

	simp, rest, ok := takeNonSpaceRun(rest)
	if !ok {
		return entity.Entry{}, fmt.Errorf("missing simplified form")
	}

	rest, ok = takeSpaces1(rest)
	if !ok {
		return entity.Entry{}, fmt.Errorf("expected space after simplified form")
	}

	if !strings.HasPrefix(rest, "[") {
		return entity.Entry{}, fmt.Errorf("expected '[' before pinyin")
	}
	rest = rest[1:]
	closeIdx := strings.IndexByte(rest, ']')
	if closeIdx < 0 {
		return entity.Entry{}, fmt.Errorf("unterminated '[' pinyin block")
	}
	pinyin := rest[:closeIdx]
	rest = rest[closeIdx+1:]

	rest, ok = takeSpaces1(rest)
	if !ok {
		return entity.Entry{}, fmt.Errorf("expected space after pinyin block")
	}

	jyutping := ""
	if strings.HasPrefix(rest, "{") {
		rest = rest[1:]
		closeIdx := strings.IndexByte(rest, '}')
		if closeIdx < 0 {
			return entity.Entry{}, fmt.Errorf("unterminated '{' jyutping block")
		}
		jyutping = rest[:closeIdx]
		rest = rest[closeIdx+1:]
	}

	rest = takeSpaces0(rest)

	def := rest
	if hashIdx := strings.IndexByte(rest, '#'); hashIdx >= 0 {
		def = rest[:hashIdx]
	}
	def = strings.TrimRight(def, " \t\r")

	return entity.Entry{
		Traditional: trad,
		Simplified:  simp,
		Pinyin:      pinyin,
		Jyutping:    jyutping,
		Definition:  def,
	}, nil
}

func takeNonSpaceRun(s string) (token, rest string, ok bool) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		i = len(s)
	}
	if i == 0 {
		return "", s, false
	}
	return s[:i], s[i:], true
}

func takeSpaces1(s string) (rest string, ok bool) {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	if i == 0 {
		return s, false
	}
	return s[i:], true
}

func takeSpaces0(s string) string {
	i := 0
	for i < len(s) && s[i] == ' ' {
		i++
	}
	return s[i:]
}
