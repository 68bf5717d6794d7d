package repository

import (
	"io"
	"log/slog"
	"time"

	"github.com/illancapan/uno-test-full-stack/internal/entity"
)

func newTestSession(id string) *entity.Session {
	deck := []entity.Card{
		{ID: "a1", Image: entity.Image{UUID: "A", URL: "https://img/a.png"}},
		{ID: "a2", Image: entity.Image{UUID: "A", URL: "https://img/a.png"}},
		{ID: "b1", Image: entity.Image{UUID: "B", URL: "https://img/b.png"}},
		{ID: "b2", Image: entity.Image{UUID: "B", URL: "https://img/b.png"}},
	}

	return entity.NewSession(id, deck, entity.Owner{Run: "11-1", Name: "Ana"}, time.Now())
}

func flipFirst(session *entity.Session) error {
	session.Deck[0].Flipped = true
	session.FlippedCards = append(session.FlippedCards, session.Deck[0].ID)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
