// ABOUTME: HTTP handlers translating requests into relay calls
// ABOUTME: Store failures are the only path to a 500; backends never are
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harper/chat-relay/internal/models"
	"github.com/harper/chat-relay/internal/relay"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "chat-relay",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req relay.TurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.relay.HandleTurn(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, relay.ErrEmptyTurn) {
			c.JSON(http.StatusBadRequest, gin.H{"error": relay.ErrEmptyTurn.Error()})
			return
		}
		s.log.Error().Err(err).Msg("turn failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process turn"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleHistory(c *gin.Context) {
	conversationID := c.Param("id")

	turns, err := s.relay.History(c.Request.Context(), conversationID)
	if err != nil {
		s.log.Error().Err(err).Str("conversation_id", conversationID).Msg("history lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id": conversationID,
		"turns":           turns,
	})
}

func (s *Server) handleListConversations(c *gin.Context) {
	callerID := c.Query("caller_id")
	if callerID == "" {
		callerID = models.AnonymousCaller
	}

	conversations, err := s.relay.Conversations(c.Request.Context(), callerID)
	if err != nil {
		s.log.Error().Err(err).Msg("conversation list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list conversations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"caller_id":     callerID,
		"conversations": conversations,
	})
}
