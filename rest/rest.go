package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Degen-IO/pokerbackend/game"
	"github.com/Degen-IO/pokerbackend/logging"
)

var restLogger = logging.GetZeroLogger("rest::rest", nil)
var gameManager *game.Manager

type appError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type joinLeaveRequest struct {
	UserID   uint64 `json:"userId" binding:"required"`
	GameID   uint64 `json:"gameId" binding:"required"`
	GameType string `json:"gameType" binding:"required"`
}

type distributeCardsRequest struct {
	TableID uint64 `json:"tableId" binding:"required"`
}

type updateStatusRequest struct {
	GameID   uint64 `json:"gameId" binding:"required"`
	GameType string `json:"gameType" binding:"required"`
	Status   string `json:"status" binding:"required"`
}

// RunRestServer blocks serving the engine's operations over HTTP.
func RunRestServer(manager *game.Manager, port uint) error {
	gameManager = manager
	r := gin.Default()

	r.POST("/join-game", joinGame)
	r.POST("/leave-game", leaveGame)
	r.POST("/distribute-cards", distributeCards)
	r.POST("/game-update-status", gameUpdateStatus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ready", ready)

	restLogger.Info().Msgf("Starting REST server on port %d", port)
	return r.Run(fmt.Sprintf(":%d", port))
}

func joinGame(c *gin.Context) {
	var req joinLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	gameType, err := game.ParseGameType(req.GameType)
	if err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	player, err := gameManager.JoinGame(c.Request.Context(), req.UserID, req.GameID, gameType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

func leaveGame(c *gin.Context) {
	var req joinLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	gameType, err := game.ParseGameType(req.GameType)
	if err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	snapshot, err := gameManager.LeaveGame(c.Request.Context(), req.UserID, req.GameID, gameType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func distributeCards(c *gin.Context) {
	var req distributeCardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	handState, err := gameManager.DistributeCards(c.Request.Context(), req.TableID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   game.HandDealtMessage,
		"handState": handState,
	})
}

func gameUpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	gameType, err := game.ParseGameType(req.GameType)
	if err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	status, err := game.ParseGameStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, appError{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}
	if err := gameManager.UpdateGameStatus(c.Request.Context(), req.GameID, gameType, status); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// writeError maps engine errors to HTTP codes. Allocator
// inconsistencies and deal failures are internal errors; the rest are
// user-facing.
func writeError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNotFound):
		code = http.StatusNotFound
	default:
		switch err.(type) {
		case game.EligibilityError:
			code = http.StatusBadRequest
		case game.AlreadyRegisteredError:
			code = http.StatusConflict
		case game.NotRegisteredError:
			code = http.StatusNotFound
		case game.TableFullError, game.InsufficientCardsError:
			restLogger.Error().Msgf("Engine error: %s", err)
			code = http.StatusInternalServerError
		}
	}
	c.JSON(code, appError{Code: code, Message: err.Error()})
}
