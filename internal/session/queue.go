package session

import (
	"sort"

	"github.com/flashdeck/flashdeck/internal/scheduler"
)

// expandEntries turns each eligible subject into one queue entry per
// relevant card facet, preserving subject priority order.
func expandEntries(pairs []scheduler.Pair, mode Mode) []*Entry {
	var entries []*Entry
	for _, pair := range pairs {
		facets := pair.Subject.QuizCards
		if mode == ModeLearn {
			facets = pair.Subject.LearnCards
		}
		for _, facet := range facets {
			entries = append(entries, &Entry{
				SubjectID: pair.Subject.ID,
				Facet:     facet,
				State:     CardPending,
			})
		}
	}
	return entries
}

// orderEntries applies the configured sort method in place.
func (e *Engine[Q]) orderEntries(entries []*Entry) {
	switch e.cfg.SortMethod {
	case SortPaired:
		// Stable, so all facets of one subject stay adjacent and keep
		// their facet order.
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].SubjectID < entries[j].SubjectID
		})

	case SortSequential:
		if len(e.cfg.FacetOrder) > 0 {
			rank := make(map[string]int, len(e.cfg.FacetOrder))
			for i, facet := range e.cfg.FacetOrder {
				rank[facet] = i
			}
			unknown := len(e.cfg.FacetOrder)
			sort.SliceStable(entries, func(i, j int) bool {
				ri, ok := rank[entries[i].Facet]
				if !ok {
					ri = unknown
				}
				rj, ok := rank[entries[j].Facet]
				if !ok {
					rj = unknown
				}
				return ri < rj
			})
			return
		}
		// No explicit order: group facet types in first-seen order and
		// shuffle within each group, so all of one type still precede
		// any of the next.
		e.shuffleWithinFacetGroups(entries)

	case SortRandom:
		e.rng.Shuffle(len(entries), func(i, j int) {
			entries[i], entries[j] = entries[j], entries[i]
		})
	}
}

func (e *Engine[Q]) shuffleWithinFacetGroups(entries []*Entry) {
	var seen []string
	groups := make(map[string][]*Entry)
	for _, entry := range entries {
		if _, ok := groups[entry.Facet]; !ok {
			seen = append(seen, entry.Facet)
		}
		groups[entry.Facet] = append(groups[entry.Facet], entry)
	}

	i := 0
	for _, facet := range seen {
		group := groups[facet]
		e.rng.Shuffle(len(group), func(a, b int) {
			group[a], group[b] = group[b], group[a]
		})
		for _, entry := range group {
			entries[i] = entry
			i++
		}
	}
}
