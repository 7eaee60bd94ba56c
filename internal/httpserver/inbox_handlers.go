package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/mail"
	"github.com/mikey/securelens/internal/metrics"
	"github.com/mikey/securelens/internal/session"
)

// inbox handles GET /api/inbox
func (r *Router) inbox(c *gin.Context) {
	c.JSON(http.StatusOK, r.scanner.Snapshot())
}

// connectInbox handles POST /api/inbox/connect
func (r *Router) connectInbox(c *gin.Context) {
	if r.scanner.Snapshot().Status == mail.StatusScanning {
		errorJSON(c, http.StatusConflict, mail.ErrScanInProgress.Error())
		return
	}

	if r.scanner.Mode() == mail.ModeDemo {
		r.background(c, func(ctx context.Context) {
			if err := r.scanner.ConnectDemo(ctx); err != nil {
				r.logger.Warn("Demo inbox connection failed", zap.Error(err))
				return
			}
			metrics.IncrementInboxMessages("demo", "all", len(r.scanner.Snapshot().Messages))
		})
		c.JSON(http.StatusAccepted, r.scanner.Snapshot())
		return
	}

	url, err := r.scanner.BeginAuthorization(c.Request.Context())
	if err != nil {
		if errors.Is(err, mail.ErrMissingClientID) {
			errorJSON(c, http.StatusPreconditionFailed, "Client ID is required")
			return
		}
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to start authorization")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": url})
}

// oauthCallback handles GET /api/inbox/oauth/callback
func (r *Router) oauthCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		_ = r.scanner.HandleToken(c.Request.Context(), mail.TokenResult{Err: errors.New(reason)})
		c.JSON(http.StatusUnauthorized, r.scanner.Snapshot())
		return
	}

	state, code := c.Query("state"), c.Query("code")
	r.background(c, func(ctx context.Context) {
		if err := r.scanner.CompleteAuthorization(ctx, state, code); err != nil {
			r.logger.Warn("Inbox authorization failed", zap.Error(err))
			return
		}
		metrics.IncrementInboxMessages("gmail", "all", len(r.scanner.Snapshot().Messages))
	})
	c.JSON(http.StatusAccepted, gin.H{"status": "authorizing"})
}

type tokenRequest struct {
	Token string `json:"token"`
}

// inboxToken handles POST /api/inbox/token
func (r *Router) inboxToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		errorJSON(c, http.StatusBadRequest, "token is required")
		return
	}

	r.background(c, func(ctx context.Context) {
		if err := r.scanner.ConnectWithToken(ctx, req.Token); err != nil {
			r.logger.Warn("Inbox connection failed", zap.Error(err))
			return
		}
		metrics.IncrementInboxMessages("gmail", "all", len(r.scanner.Snapshot().Messages))
	})
	c.JSON(http.StatusAccepted, gin.H{"status": "scanning"})
}

// disconnectInbox handles POST /api/inbox/disconnect
func (r *Router) disconnectInbox(c *gin.Context) {
	r.scanner.Disconnect()
	c.Status(http.StatusNoContent)
}

// analyzeMessage handles POST /api/inbox/messages/:id/analyze
func (r *Router) analyzeMessage(c *gin.Context) {
	result, err := r.scanner.AnalyzeEmail(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, mail.ErrMessageNotFound):
		errorJSON(c, http.StatusNotFound, err.Error())
		return
	case err != nil:
		_ = c.Error(err)
		errorJSON(c, http.StatusBadGateway, session.AnalysisFailedMessage)
		return
	}
	c.JSON(http.StatusOK, result)
}

type clientIDRequest struct {
	ClientID string `json:"clientId"`
}

// getClientID handles GET /api/settings/client-id
func (r *Router) getClientID(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clientId": r.clientIDs.Get(c.Request.Context())})
}

// setClientID handles PUT /api/settings/client-id
func (r *Router) setClientID(c *gin.Context) {
	var req clientIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "invalid request")
		return
	}
	if err := r.clientIDs.Set(c.Request.Context(), req.ClientID); err != nil {
		_ = c.Error(err)
		errorJSON(c, http.StatusInternalServerError, "failed to save client id")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientId": r.clientIDs.Get(c.Request.Context())})
}
