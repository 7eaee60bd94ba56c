package httpserver

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/audio"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/metrics"
	"github.com/mikey/securelens/internal/session"
)

const audioUnavailable = "Audio summary unavailable."

type analyzeRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// analyze handles POST /api/analyze
func (r *Router) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := r.session.Submit(c.Request.Context(), req.Text, req.Image)
	switch {
	case errors.Is(err, core.ErrNoContent):
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, session.ErrSuperseded):
		errorJSON(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		_ = c.Error(err)
		errorJSON(c, http.StatusBadGateway, session.AnalysisFailedMessage)
		return
	}

	metrics.IncrementAnalysisResult(string(result.RiskLevel))
	c.JSON(http.StatusOK, result)
}

// state handles GET /api/state
func (r *Router) state(c *gin.Context) {
	c.JSON(http.StatusOK, r.session.Snapshot())
}

// resetAnalysis handles DELETE /api/analysis
func (r *Router) resetAnalysis(c *gin.Context) {
	r.session.Reset()
	c.Status(http.StatusNoContent)
}

// history handles GET /api/history
func (r *Router) history(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": r.session.Snapshot().History})
}

// selectHistory handles POST /api/history/:id/select
func (r *Router) selectHistory(c *gin.Context) {
	if !r.session.Select(c.Param("id")) {
		errorJSON(c, http.StatusNotFound, "history item not found")
		return
	}
	c.JSON(http.StatusOK, r.session.Snapshot().Result)
}

// deleteHistory handles DELETE /api/history/:id
func (r *Router) deleteHistory(c *gin.Context) {
	r.session.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// clearHistory handles DELETE /api/history
func (r *Router) clearHistory(c *gin.Context) {
	r.session.Clear()
	c.Status(http.StatusNoContent)
}

type chatRequest struct {
	Message string `json:"message"`
}

type feedbackRequest struct {
	Type string `json:"type"`
}

// chat handles GET /api/chat
func (r *Router) chat(c *gin.Context) {
	s := r.session.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"messages":    s.Transcript,
		"suggestions": s.Suggestions,
		"busy":        s.ChatBusy,
	})
}

// sendChat handles POST /api/chat
func (r *Router) sendChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request")
		return
	}

	reply, err := r.session.Send(c.Request.Context(), req.Message)
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		errorJSON(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, session.ErrChatBusy):
		errorJSON(c, http.StatusConflict, err.Error())
		return
	case err != nil:
		errorJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, reply)
}

// feedback handles POST /api/chat/:index/feedback
func (r *Router) feedback(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		errorJSON(c, http.StatusBadRequest, "invalid message index")
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request")
		return
	}
	kind := session.FeedbackKind(req.Type)
	if kind != session.FeedbackLike && kind != session.FeedbackDislike {
		errorJSON(c, http.StatusBadRequest, "type must be like or dislike")
		return
	}
	if index >= len(r.session.Snapshot().Transcript) {
		errorJSON(c, http.StatusNotFound, "message not found")
		return
	}

	r.session.Feedback(index, kind)
	c.JSON(http.StatusOK, r.session.Snapshot().Transcript[index])
}

// speak handles POST /api/analysis/speak
func (r *Router) speak(c *gin.Context) {
	result := r.session.Snapshot().Result
	if result == nil {
		errorJSON(c, http.StatusNotFound, "no active analysis")
		return
	}
	if r.speech == nil || r.player == nil {
		errorJSON(c, http.StatusServiceUnavailable, audioUnavailable)
		return
	}

	playing, err := r.player.Toggle(c.Request.Context(), func(ctx context.Context) (string, bool) {
		return r.speech.SynthesizeReport(ctx, result)
	})
	if err != nil {
		r.logger.Warn("Audio playback failed", zap.Error(err))
		errorJSON(c, http.StatusBadGateway, audioUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{"playing": playing})
}

// audioSummary handles GET /api/analysis/audio
func (r *Router) audioSummary(c *gin.Context) {
	result := r.session.Snapshot().Result
	if result == nil {
		errorJSON(c, http.StatusNotFound, "no active analysis")
		return
	}
	if r.speech == nil {
		errorJSON(c, http.StatusServiceUnavailable, audioUnavailable)
		return
	}

	encoded, ok := r.speech.SynthesizeReport(c.Request.Context(), result)
	if !ok {
		errorJSON(c, http.StatusBadGateway, audioUnavailable)
		return
	}
	buf, err := audio.Decode(encoded)
	if err != nil {
		r.logger.Warn("Failed to decode speech audio", zap.Error(err))
		errorJSON(c, http.StatusBadGateway, audioUnavailable)
		return
	}

	var wav bytes.Buffer
	if err := audio.WriteWAV(&wav, buf); err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, audioUnavailable)
		return
	}
	c.Data(http.StatusOK, "audio/wav", wav.Bytes())
}
