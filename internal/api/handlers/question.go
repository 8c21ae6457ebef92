package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nikhildixit-321/codeArena-sub000/internal/models"
	"github.com/nikhildixit-321/codeArena-sub000/internal/service"
)

type QuestionHandler struct {
	questionService *service.QuestionService
}

func NewQuestionHandler(questionService *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
	}
}

// Test cases are the judge's input; they never leave the server.
func questionJSON(q *models.Question) gin.H {
	return gin.H{
		"id":          q.ID,
		"title":       q.Title,
		"description": q.Description,
		"difficulty":  q.Difficulty,
		"createdAt":   q.CreatedAt,
	}
}

// ListQuestions returns a page of the problem catalog.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	questions, err := h.questionService.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list questions",
		})
		return
	}

	out := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionJSON(q))
	}

	c.JSON(http.StatusOK, gin.H{
		"questions": out,
	})
}

// GetQuestion returns one problem statement by id.
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.questionService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Question not found",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get question",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": questionJSON(question),
	})
}
