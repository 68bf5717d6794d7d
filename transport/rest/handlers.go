package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/illancapan/uno-test-full-stack/internal/apperror"
	"github.com/illancapan/uno-test-full-stack/internal/entity"
)

type gameUseCase interface {
	NewGame(ctx context.Context, sessionID string, owner entity.Owner) ([]entity.Card, error)
	Flip(ctx context.Context, sessionID, cardID string) (entity.Summary, error)
	Result(ctx context.Context, sessionID string) (entity.Summary, error)
	Save(ctx context.Context, sessionID string) (*entity.GameResult, error)
	History(ctx context.Context, run string) ([]*entity.GameResult, error)
	AllHistory(ctx context.Context) ([]*entity.GameResult, error)
}

type flipRequest struct {
	CardID string `json:"cardId" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger *slog.Logger
	game   gameUseCase
}

func newHandlers(logger *slog.Logger, game gameUseCase) *handlers {
	return &handlers{
		logger: logger,
		game:   game,
	}
}

func (that *handlers) deck(c *gin.Context) {
	owner := entity.Owner{
		Run:  c.Query("run"),
		Name: c.Query("name"),
	}

	deck, err := that.game.NewGame(c.Request.Context(), c.Param("sessionId"), owner)
	if err != nil {
		that.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, deck)
}

func (that *handlers) flip(c *gin.Context) {
	var req flipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "request body must contain cardId"})
		return
	}

	summary, err := that.game.Flip(c.Request.Context(), c.Param("sessionId"), req.CardID)
	if err != nil {
		that.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (that *handlers) result(c *gin.Context) {
	summary, err := that.game.Result(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		that.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (that *handlers) save(c *gin.Context) {
	result, err := that.game.Save(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		that.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (that *handlers) history(c *gin.Context) {
	results, err := that.game.History(c.Request.Context(), c.Param("run"))
	if err != nil {
		that.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(results))
}

func (that *handlers) allHistory(c *gin.Context) {
	results, err := that.game.AllHistory(c.Request.Context())
	if err != nil {
		that.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(results))
}

// writeError maps domain errors to status codes. Anything unknown is a 500 and is logged.
func (that *handlers) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperror.ErrIncompleteSessionInfo):
		c.JSON(http.StatusBadRequest, errorResponse{Error: apperror.ErrIncompleteSessionInfo.Error()})
	case errors.Is(err, apperror.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	case errors.Is(err, apperror.ErrSessionBusy):
		c.JSON(http.StatusConflict, errorResponse{Error: apperror.ErrSessionBusy.Error()})
	case errors.Is(err, apperror.ErrNotEnoughImages), errors.Is(err, apperror.ErrInvalidDeckSize):
		that.logger.Error("could not build deck", "error", err)
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "could not build deck"})
	default:
		that.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func nonNil(results []*entity.GameResult) []*entity.GameResult {
	if results == nil {
		return []*entity.GameResult{}
	}

	return results
}
