package tokenizer

import "fmt"

// scanSeparatedList is the shared primitive behind the two separator-driven
// grammars (plain and query pronunciation tokenisation): it alternates a
// separator scan and an element scan over the input, discarding separators
// from the output, until the element scan fails to match.
//
// A leading separator is consumed and discarded before the first element, and
// a trailing separator (or none at all) after the last one is likewise fine —
// both grammars explicitly permit that.
//
// Guard: if, at any element, both the element scan and the separator scan
// after it consume zero bytes, the two together would never make
// progress and a naive loop would spin forever. Neither of this package's
// concrete element grammars can match zero bytes, so the guard is never hit
// in practice, but a generic list primitive has to carry it anyway.
func scanSeparatedList[T any](input string, takeSep func(string) int, takeElem func(string) (T, int, bool)) ([]T, error) {
	rest := input
	if n := takeSep(rest); n > 0 {
		rest = rest[n:]
	}

	var out []T
	for len(rest) > 0 {
		elem, elemN, ok := takeElem(rest)
		if !ok {
			break
		}

		sepN := takeSep(rest[elemN:])
		if elemN == 0 && sepN == 0 {
			return nil, fmt.Errorf("tokenizer: element and separator both matched zero bytes at %q", rest)
		}

		out = append(out, elem)
		rest = rest[elemN+sepN:]
	}

	return out, nil
}
