package handlers

import (
	"net/http"
	"os"

	"salepoint/internal/ai"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Message string `json:"message" binding:"required"`
}

// --- POST: /api/ask ---
// Admin-only natural-language window into inventory and sales.
func AskAI(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI assistant is not configured"})
		return
	}

	answer, err := ai.RunAgent(req.Message, apiKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI assistant failed to answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
