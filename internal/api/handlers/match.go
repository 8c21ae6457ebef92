package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/internal/service"
	"github.com/nikhildixit-321/codeArena-sub000/pkg/logger"
)

type MatchHandler struct {
	matchService *service.MatchService
}

func NewMatchHandler(matchService *service.MatchService) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
	}
}

// GetMatch returns one match by id.
func (h *MatchHandler) GetMatch(c *gin.Context) {
	match, err := h.matchService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Match not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get match",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"match": match,
	})
}

// ListActiveMatches returns the matches currently being played.
func (h *MatchHandler) ListActiveMatches(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	matches, err := h.matchService.Active(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list matches",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
	})
}

// GetMyHistory returns the authenticated user's completed matches.
func (h *MatchHandler) GetMyHistory(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	matches, err := h.matchService.HistoryForUser(c.Request.Context(), userID.(string), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get match history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"matches": matches,
	})
}

// RecordResult applies a decided result to both players' ratings. This is the
// out-of-band path for tooling; live matches settle over the socket.
func (h *MatchHandler) RecordResult(c *gin.Context) {
	var req models.MatchResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	winner, loser, err := h.matchService.RecordResult(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSamePlayer), errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Player not found",
			})
		default:
			logger.Error("Failed to record match result", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to record result",
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"winner": gin.H{"id": winner.ID, "rating": winner.Rating},
		"loser":  gin.H{"id": loser.ID, "rating": loser.Rating},
	})
}
