package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illancapan/uno-test-full-stack/internal/apperror"
	"github.com/illancapan/uno-test-full-stack/internal/entity"
	"github.com/illancapan/uno-test-full-stack/internal/repository"
	"github.com/illancapan/uno-test-full-stack/internal/service"
	"github.com/illancapan/uno-test-full-stack/internal/transport/events"
	"github.com/illancapan/uno-test-full-stack/internal/usecase"
	"github.com/illancapan/uno-test-full-stack/testing/suite"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	_, db := suite.NewSQLite(t)
	logger := discardLogger()

	game := usecase.NewGameUseCase(
		logger,
		service.NewDeckService(service.NewStaticImageSource(service.DefaultImages())),
		repository.NewMemorySessionRepository(time.Hour, 100),
		repository.NewResultRepository(db.Connection),
		events.NewNopPublisher(),
		2,
	)

	return NewServer(logger, "0", "http://localhost:5173", game).Handler()
}

func do(t *testing.T, handler http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var value T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &value), rec.Body.String())

	return value
}

// pairsOf groups card ids by image uuid.
func pairsOf(deck []entity.Card) [][2]string {
	byImage := map[string][]string{}
	order := []string{}

	for _, card := range deck {
		if _, ok := byImage[card.Image.UUID]; !ok {
			order = append(order, card.Image.UUID)
		}
		byImage[card.Image.UUID] = append(byImage[card.Image.UUID], card.ID)
	}

	pairs := make([][2]string, 0, len(order))
	for _, uuid := range order {
		pairs = append(pairs, [2]string{byImage[uuid][0], byImage[uuid][1]})
	}

	return pairs
}

func flip(t *testing.T, handler http.Handler, sessionID, cardID string) entity.Summary {
	t.Helper()

	body, err := json.Marshal(flipRequest{CardID: cardID})
	require.NoError(t, err)

	rec := do(t, handler, http.MethodPost, "/game/flip/"+sessionID, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return decode[entity.Summary](t, rec)
}

func TestPing(t *testing.T) {
	// Given
	handler := newTestHandler(t)

	// When
	rec := do(t, handler, http.MethodGet, "/ping", nil)

	// Then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGameFlow(t *testing.T) {
	t.Run("Given a dealt deck, When every pair is flipped and saved, Then history holds the completed game", func(t *testing.T) {
		// Given
		handler := newTestHandler(t)

		rec := do(t, handler, http.MethodGet, "/game/deck/11-1-ana?run=11-1&name=Ana", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		deck := decode[[]entity.Card](t, rec)
		require.Len(t, deck, 4)

		// When
		var summary entity.Summary
		for _, pair := range pairsOf(deck) {
			flip(t, handler, "11-1-ana", pair[0])
			summary = flip(t, handler, "11-1-ana", pair[1])
		}

		saved := do(t, handler, http.MethodPost, "/game/save/11-1-ana", nil)
		history := do(t, handler, http.MethodGet, "/game/history/11-1", nil)

		// Then
		assert.Equal(t, entity.Summary{MatchedPairs: 2, TotalMoves: 2, Completed: true}, summary)

		require.Equal(t, http.StatusCreated, saved.Code, saved.Body.String())
		record := decode[entity.GameResult](t, saved)
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, "Ana", record.Name)
		assert.True(t, record.Completed)

		require.Equal(t, http.StatusOK, history.Code)
		records := decode[[]entity.GameResult](t, history)
		require.Len(t, records, 1)
		assert.Equal(t, record.ID, records[0].ID)
	})

	t.Run("Given a dealt deck, When the result is requested, Then the summary is zeroed", func(t *testing.T) {
		// Given
		handler := newTestHandler(t)
		require.Equal(t, http.StatusOK, do(t, handler, http.MethodGet, "/game/deck/s1?run=1&name=x", nil).Code)

		// When
		rec := do(t, handler, http.MethodGet, "/game/result/s1", nil)

		// Then
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"matchedPairs":0,"totalMoves":0,"completed":false}`, rec.Body.String())
	})
}

func TestGameErrors(t *testing.T) {
	handler := newTestHandler(t)

	t.Run("Given no session, When a card is flipped, Then 404 is returned", func(t *testing.T) {
		// When
		rec := do(t, handler, http.MethodPost, "/game/flip/missing", []byte(`{"cardId":"x"}`))

		// Then
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, apperror.ErrSessionNotFound.Error(), decode[errorResponse](t, rec).Error)
	})

	t.Run("Given no session, When the result is requested, Then 404 is returned", func(t *testing.T) {
		// When
		rec := do(t, handler, http.MethodGet, "/game/result/missing", nil)

		// Then
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Given a missing card id, When a card is flipped, Then 400 is returned", func(t *testing.T) {
		// Given
		require.Equal(t, http.StatusOK, do(t, handler, http.MethodGet, "/game/deck/s2?run=1&name=x", nil).Code)

		// When
		rec := do(t, handler, http.MethodPost, "/game/flip/s2", []byte(`{}`))

		// Then
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Given no session, When it is saved, Then 400 is returned", func(t *testing.T) {
		// When
		rec := do(t, handler, http.MethodPost, "/game/save/never-dealt", nil)

		// Then
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apperror.ErrIncompleteSessionInfo.Error(), decode[errorResponse](t, rec).Error)
	})

	t.Run("Given a deck dealt without a name, When it is saved, Then 400 is returned", func(t *testing.T) {
		// Given
		require.Equal(t, http.StatusOK, do(t, handler, http.MethodGet, "/game/deck/anon?run=1", nil).Code)

		// When
		rec := do(t, handler, http.MethodPost, "/game/save/anon", nil)

		// Then
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Given an unknown run, When history is requested, Then an empty array is returned", func(t *testing.T) {
		// When
		rec := do(t, handler, http.MethodGet, "/game/history/nobody", nil)

		// Then
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("Given a preflight request, When it reaches the api, Then it is answered without a body", func(t *testing.T) {
		// When
		rec := do(t, handler, http.MethodOptions, "/game/flip/s2", nil)

		// Then
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})
}

type busyGame struct {
	gameUseCase
	err error
}

func (that busyGame) Flip(context.Context, string, string) (entity.Summary, error) {
	return entity.Summary{}, that.err
}

func (that busyGame) AllHistory(context.Context) ([]*entity.GameResult, error) {
	return nil, nil
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "busy session", err: apperror.ErrSessionBusy, status: http.StatusConflict},
		{name: "deck cannot be built", err: apperror.ErrNotEnoughImages, status: http.StatusServiceUnavailable},
		{name: "unexpected failure", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Given
			handler := NewServer(discardLogger(), "0", "*", busyGame{err: tt.err}).Handler()

			// When
			rec := do(t, handler, http.MethodPost, "/game/flip/s1", []byte(`{"cardId":"a"}`))

			// Then
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	t.Run("Given a nil history, When all history is requested, Then an empty array is returned", func(t *testing.T) {
		// Given
		handler := NewServer(discardLogger(), "0", "*", busyGame{}).Handler()

		// When
		rec := do(t, handler, http.MethodGet, "/game/history", nil)

		// Then
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}
