package httpapi

import (
	"sort"

	"github.com/samber/lo"

	"github.com/saltbo/cedictx/internal/entity"
	"github.com/saltbo/cedictx/internal/store"
)

// WordResult is the wire shape of one word: its traditional/simplified forms
// plus every dictionary's contribution to its meaning, each expanded with
// whatever pronunciations that dictionary entry carries.
type WordResult struct {
	Simplified  string                  `json:"simplified"`
	Traditional string                  `json:"traditional"`
	Entries     map[int64][]EntryResult `json:"entries"`
}

// EntryResult is one dictionary's contribution to a WordResult.
type EntryResult struct {
	Definitions    string                                `json:"definitions"`
	Pronunciations map[entity.PronunciationType][]string `json:"pronunciations"`
}

// buildWordResults groups the flat join rows HydrateWords returns back into
// the nested WordResult/EntryResult shape: WordEntry rows by dictionary_id,
// WordPronunciation rows by pronunciation_type.
func buildWordResults(rows []store.HydrationRow) []WordResult {
	byWord := lo.GroupBy(rows, func(r store.HydrationRow) int64 { return r.WordID })

	results := make([]WordResult, 0, len(byWord))
	for wordID, wordRows := range byWord {
		results = append(results, buildOneWordResult(wordID, wordRows))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Traditional+results[i].Simplified < results[j].Traditional+results[j].Simplified
	})
	return results
}

func buildOneWordResult(_ int64, rows []store.HydrationRow) WordResult {
	head := rows[0]
	wr := WordResult{
		Simplified:  head.Simplified,
		Traditional: head.Traditional,
		Entries:     make(map[int64][]EntryResult),
	}

	byEntry := lo.GroupBy(rows, func(r store.HydrationRow) int64 { return r.EntryID })
	entryIDs := lo.Keys(byEntry)
	sort.Slice(entryIDs, func(i, j int) bool { return entryIDs[i] < entryIDs[j] })

	for _, entryID := range entryIDs {
		entryRows := byEntry[entryID]
		dictionaryID := entryRows[0].DictionaryID
		er := EntryResult{
			Definitions:    entryRows[0].Definitions,
			Pronunciations: make(map[entity.PronunciationType][]string),
		}
		for _, r := range entryRows {
			if !r.HasPronunciation {
				continue
			}
			er.Pronunciations[r.PronunciationType] = append(er.Pronunciations[r.PronunciationType], r.Pronunciation)
		}
		wr.Entries[dictionaryID] = append(wr.Entries[dictionaryID], er)
	}

	return wr
}
