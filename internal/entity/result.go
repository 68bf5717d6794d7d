package entity

import "time"

// GameResult is a persisted snapshot of a session. It is never modified after being saved.
type GameResult struct {
	ID           string    `json:"id"`
	Run          string    `json:"run"`
	Name         string    `json:"name"`
	MatchedPairs int       `json:"matchedPairs"`
	TotalMoves   int       `json:"totalMoves"`
	Completed    bool      `json:"completed"`
	PlayedAt     time.Time `json:"playedAt"`
}

func NewGameResult(id string, owner Owner, summary Summary, playedAt time.Time) *GameResult {
	return &GameResult{
		ID:           id,
		Run:          owner.Run,
		Name:         owner.Name,
		MatchedPairs: summary.MatchedPairs,
		TotalMoves:   summary.TotalMoves,
		Completed:    summary.Completed,
		PlayedAt:     playedAt.UTC(),
	}
}
