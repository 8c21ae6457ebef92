package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nikhildixit-321/codeArena-sub000/internal/service"
)

type LeaderboardHandler struct {
	userService *service.UserService
}

func NewLeaderboardHandler(userService *service.UserService) *LeaderboardHandler {
	return &LeaderboardHandler{
		userService: userService,
	}
}

// GetLeaderboard returns the top rated players.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	users, err := h.userService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get leaderboard",
		})
		return
	}

	entries := make([]gin.H, 0, len(users))
	for i, user := range users {
		entries = append(entries, gin.H{
			"rank":          i + 1,
			"userId":        user.ID,
			"username":      user.Username,
			"rating":        user.Rating,
			"matchesPlayed": user.MatchesPlayed,
			"matchesWon":    user.MatchesWon,
			"points":        user.Points,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard": entries,
	})
}
