package main

import (
	"fmt"

	"github.com/flashdeck/flashdeck/internal/domain"
)

// card is one studyable subject of the built-in deck: a prompt shown to the
// user and the answer expected back.
type card struct {
	id       string
	prompt   string
	answer   string
	level    int
	position int
	requires []string
}

// sampleDeck is a small Japanese vocabulary deck used until deck loading from
// external content sources lands. Level 2 items require their level 1 parts.
var sampleDeck = []card{
	{id: "radical-one", prompt: "Meaning of the radical 一", answer: "one", level: 1, position: 1},
	{id: "radical-person", prompt: "Meaning of the radical 人", answer: "person", level: 1, position: 2},
	{id: "radical-tree", prompt: "Meaning of the radical 木", answer: "tree", level: 1, position: 3},
	{
		id: "kanji-one", prompt: "Meaning of the kanji 一", answer: "one",
		level: 2, position: 1, requires: []string{"radical-one"},
	},
	{
		id: "kanji-person", prompt: "Meaning of the kanji 人", answer: "person",
		level: 2, position: 2, requires: []string{"radical-person"},
	},
	{
		id: "kanji-forest", prompt: "Meaning of the kanji 森", answer: "forest",
		level: 2, position: 3, requires: []string{"radical-tree"},
	},
}

// deckSubjects converts the built-in deck into domain subjects.
func deckSubjects(deck []card) ([]*domain.Subject, error) {
	subjects := make([]*domain.Subject, 0, len(deck))
	for _, c := range deck {
		subject, err := domain.NewSubject(c.id, []string{"meaning"}, []string{"meaning"}, domain.SubjectData{
			Level:            c.level,
			Position:         c.position,
			RequiredSubjects: c.requires,
		})
		if err != nil {
			return nil, fmt.Errorf("building subject %s: %w", c.id, err)
		}
		subjects = append(subjects, subject)
	}
	return subjects, nil
}

// deckIndex maps subject IDs to their cards for prompt and answer lookup.
func deckIndex(deck []card) map[string]card {
	index := make(map[string]card, len(deck))
	for _, c := range deck {
		index[c.id] = c
	}
	return index
}
