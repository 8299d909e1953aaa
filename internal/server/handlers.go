package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/tutorloop/internal/games"
	"github.com/abhisek/tutorloop/internal/logger"
	"github.com/abhisek/tutorloop/internal/orchestrator"
)

type handlers struct {
	orch *orchestrator.Orchestrator
	log  *logger.Logger
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) newSession(c *gin.Context) {
	s, err := h.orch.NewSession(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": s.ID})
}

func (h *handlers) getSession(c *gin.Context) {
	s, err := h.orch.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	pending := make(map[string]int)
	for t, queue := range s.Pending {
		pending[string(t)] = len(queue)
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": s.ID,
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
		"concepts":   s.Graph.Names(),
		"tracker":    s.Tracker,
		"tutor":      s.Tutor,
		"history":    s.History,
		"pending":    pending,
	})
}

func (h *handlers) deleteSession(c *gin.Context) {
	if err := h.orch.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

type ingestRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Material  string `json:"material" binding:"required"`
}

func (h *handlers) ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.orch.Ingest(c.Request.Context(), req.SessionID,
		orchestrator.IngestPayload{Material: req.Material})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type chatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

func (h *handlers) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.orch.Chat(c.Request.Context(), req.SessionID,
		orchestrator.ChatPayload{Message: req.Message})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type generateRequest struct {
	SessionID string   `json:"session_id" binding:"required"`
	GameType  string   `json:"game_type" binding:"required"`
	Nuances   []string `json:"nuances,omitempty"`
}

func (h *handlers) generateGame(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.orch.PracticeRequest(c.Request.Context(), req.SessionID,
		orchestrator.PracticeRequestPayload{GameType: req.GameType, Nuances: req.Nuances})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": res.SessionID,
		"response": gin.H{
			"games": []games.Spec{res.Game},
		},
	})
}

type answerRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	GameType  string `json:"game_type" binding:"required"`
	GameID    string `json:"game_id,omitempty"`

	Selected string                `json:"selected,omitempty"`
	Sides    map[string]games.Side `json:"sides,omitempty"`
	Pairs    map[string]string     `json:"pairs,omitempty"`

	// IsCorrect is advisory client-side scoring; correctness is always
	// recomputed server-side.
	IsCorrect *bool `json:"is_correct,omitempty"`
}

func (h *handlers) answerGame(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.orch.PracticeAnswer(c.Request.Context(), req.SessionID,
		orchestrator.PracticeAnswerPayload{
			GameType: req.GameType,
			GameID:   req.GameID,
			Selected: req.Selected,
			Sides:    req.Sides,
			Pairs:    req.Pairs,
		})
	if err != nil {
		writeError(c, err)
		return
	}

	body := gin.H{
		"session_id": res.SessionID,
		"correct":    res.Verdict.Correct,
		"detail":     res.Verdict,
	}
	if res.Warning != "" {
		body["warning"] = res.Warning
	}
	c.JSON(http.StatusOK, body)
}
