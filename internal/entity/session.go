package entity

import (
	"strings"
	"time"
)

// MaxFlippedCards is the size of the selection that triggers a pair comparison.
const MaxFlippedCards = 2

// Owner identifies the player a session belongs to.
type Owner struct {
	Run  string `json:"run"`
	Name string `json:"name"`
}

func (that Owner) IsComplete() bool {
	return strings.TrimSpace(that.Run) != "" && strings.TrimSpace(that.Name) != ""
}

// Session is the mutable state of one game. FlippedCards holds the ids of face-up cards not yet resolved.
type Session struct {
	ID           string    `json:"id"`
	Deck         []Card    `json:"deck"`
	FlippedCards []string  `json:"flipped_cards"`
	MatchedPairs int       `json:"matched_pairs"`
	TotalMoves   int       `json:"total_moves"`
	Owner        Owner     `json:"owner"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Summary is the read-only view of a session returned to players.
type Summary struct {
	MatchedPairs int  `json:"matchedPairs"`
	TotalMoves   int  `json:"totalMoves"`
	Completed    bool `json:"completed"`
}

// NewSession deals a fresh game. The deck is copied and every card is turned face down.
func NewSession(id string, deck []Card, owner Owner, now time.Time) *Session {
	session := &Session{
		ID:        id,
		Deck:      make([]Card, len(deck)),
		Owner:     owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	copy(session.Deck, deck)
	session.Reset()

	return session
}

// Reset turns every card face down and zeroes the counters.
func (that *Session) Reset() {
	for i := range that.Deck {
		that.Deck[i].turnDown()
	}

	that.FlippedCards = []string{}
	that.MatchedPairs = 0
	that.TotalMoves = 0
}

// CardByID returns a pointer into the deck, or nil.
func (that *Session) CardByID(id string) *Card {
	for i := range that.Deck {
		if that.Deck[i].ID == id {
			return &that.Deck[i]
		}
	}

	return nil
}

func (that *Session) Pairs() int {
	return len(that.Deck) / 2
}

func (that *Session) IsCompleted() bool {
	return that.MatchedPairs == that.Pairs()
}

func (that *Session) Summary() Summary {
	return Summary{
		MatchedPairs: that.MatchedPairs,
		TotalMoves:   that.TotalMoves,
		Completed:    that.IsCompleted(),
	}
}
