package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/illancapan/uno-test-full-stack/internal/apperror"
	"github.com/illancapan/uno-test-full-stack/internal/entity"
	"github.com/illancapan/uno-test-full-stack/internal/matching"
	"github.com/illancapan/uno-test-full-stack/internal/repository"
)

type GameUseCase interface {
	NewGame(ctx context.Context, sessionID string, owner entity.Owner) ([]entity.Card, error)
	Flip(ctx context.Context, sessionID, cardID string) (entity.Summary, error)
	Result(ctx context.Context, sessionID string) (entity.Summary, error)

	Save(ctx context.Context, sessionID string) (*entity.GameResult, error)
	History(ctx context.Context, run string) ([]*entity.GameResult, error)
	AllHistory(ctx context.Context) ([]*entity.GameResult, error)
}

type deckService interface {
	BuildDeck(ctx context.Context, pairs int) ([]entity.Card, error)
}

type sessionRepo interface {
	Create(ctx context.Context, session *entity.Session) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, id string, fn repository.UpdateFunc) (*entity.Session, error)
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
	FindByRun(ctx context.Context, run string) ([]*entity.GameResult, error)
	FindAll(ctx context.Context) ([]*entity.GameResult, error)
}

type resultPublisher interface {
	ResultSaved(ctx context.Context, result *entity.GameResult) error
}

type gameUseCase struct {
	logger *slog.Logger

	deckService deckService
	sessionRepo sessionRepo
	resultRepo  resultRepo
	publisher   resultPublisher

	pairs int
	now   func() time.Time
	newID func() string
}

func NewGameUseCase(
	logger *slog.Logger,
	deckService deckService,
	sessionRepo sessionRepo,
	resultRepo resultRepo,
	publisher resultPublisher,
	pairs int,
) GameUseCase {
	return &gameUseCase{
		logger:      logger.With("component", "game-usecase"),
		deckService: deckService,
		sessionRepo: sessionRepo,
		resultRepo:  resultRepo,
		publisher:   publisher,
		pairs:       pairs,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// NewGame deals a fresh deck and replaces whatever the session held before.
func (that *gameUseCase) NewGame(ctx context.Context, sessionID string, owner entity.Owner) ([]entity.Card, error) {
	deck, err := that.deckService.BuildDeck(ctx, that.pairs)
	if err != nil {
		return nil, fmt.Errorf("failed to build deck: %w", err)
	}

	session := entity.NewSession(sessionID, deck, owner, that.now())
	if err = that.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Debug("game dealt", "session", sessionID, "cards", len(session.Deck))

	return session.Deck, nil
}

func (that *gameUseCase) Flip(ctx context.Context, sessionID, cardID string) (entity.Summary, error) {
	var summary entity.Summary

	_, err := that.sessionRepo.Update(ctx, sessionID, func(session *entity.Session) error {
		summary = matching.Flip(session, cardID)

		return nil
	})
	if err != nil {
		return entity.Summary{}, fmt.Errorf("failed to flip card: %w", err)
	}

	return summary, nil
}

func (that *gameUseCase) Result(ctx context.Context, sessionID string) (entity.Summary, error) {
	session, err := that.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return entity.Summary{}, fmt.Errorf("failed to get session: %w", err)
	}

	return matching.Summarize(session), nil
}

// Save stores a snapshot of the session. The game does not have to be completed.
func (that *gameUseCase) Save(ctx context.Context, sessionID string) (*entity.GameResult, error) {
	session, err := that.sessionRepo.Get(ctx, sessionID)
	if errors.Is(err, apperror.ErrSessionNotFound) {
		return nil, fmt.Errorf("%w: %w", apperror.ErrIncompleteSessionInfo, err)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if !session.Owner.IsComplete() {
		return nil, apperror.ErrIncompleteSessionInfo
	}

	result := entity.NewGameResult(that.newID(), session.Owner, matching.Summarize(session), that.now())
	if err = that.resultRepo.Save(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result: %w", err)
	}

	if err = that.publisher.ResultSaved(ctx, result); err != nil {
		that.logger.Error("failed to publish saved result", "id", result.ID, "error", err)
	}

	return result, nil
}

func (that *gameUseCase) History(ctx context.Context, run string) ([]*entity.GameResult, error) {
	results, err := that.resultRepo.FindByRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("failed to find results by run: %w", err)
	}

	return results, nil
}

func (that *gameUseCase) AllHistory(ctx context.Context) ([]*entity.GameResult, error) {
	results, err := that.resultRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find results: %w", err)
	}

	return results, nil
}
