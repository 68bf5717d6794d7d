// Package matching holds the flip/match rules of the memory game. It keeps no state between calls.
package matching

import "github.com/illancapan/uno-test-full-stack/internal/entity"

// Flip turns a card face up and resolves the selection once it holds two cards.
// Unknown, already flipped and already matched cards are ignored.
func Flip(session *entity.Session, cardID string) entity.Summary {
	card := selectableCard(session, cardID)
	if card == nil {
		return Summarize(session)
	}

	card.Flipped = true
	session.FlippedCards = append(session.FlippedCards, card.ID)

	if len(session.FlippedCards) >= entity.MaxFlippedCards {
		resolveSelection(session)
	}

	return Summarize(session)
}

// Summarize has no side effects.
func Summarize(session *entity.Session) entity.Summary {
	return session.Summary()
}

// selectableCard - returns the card if it can be flipped this turn.
func selectableCard(session *entity.Session, cardID string) *entity.Card {
	card := session.CardByID(cardID)
	if card == nil || card.Flipped || card.IsMatched {
		return nil
	}

	return card
}

// resolveSelection - compares the two selected cards and clears the selection.
func resolveSelection(session *entity.Session) {
	session.TotalMoves++

	first := session.CardByID(session.FlippedCards[0])
	second := session.CardByID(session.FlippedCards[1])

	if first != nil && second != nil {
		if first.Matches(second) {
			first.IsMatched = true
			second.IsMatched = true
			session.MatchedPairs++
		} else {
			first.Flipped = false
			second.Flipped = false
		}
	}

	session.FlippedCards = session.FlippedCards[:0]
}
