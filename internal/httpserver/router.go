package httpserver

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/audio"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/mail"
	"github.com/mikey/securelens/internal/session"
)

// Router holds the gin engine and the services behind it
type Router struct {
	Engine *gin.Engine

	session   *session.Controller
	speech    *core.SpeechService
	player    *audio.Player
	scanner   *mail.Scanner
	clientIDs *mail.ClientIDStore
	logger    *zap.Logger

	wg sync.WaitGroup
}

// NewRouter registers every route. speech and player may be nil.
func NewRouter(
	controller *session.Controller,
	speech *core.SpeechService,
	player *audio.Player,
	scanner *mail.Scanner,
	clientIDs *mail.ClientIDStore,
	logger *zap.Logger,
) *Router {
	r := &Router{
		Engine:    gin.New(),
		session:   controller,
		speech:    speech,
		player:    player,
		scanner:   scanner,
		clientIDs: clientIDs,
		logger:    logger,
	}

	e := r.Engine
	e.Use(gin.Recovery(), RequestLogger(logger))

	e.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	e.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := e.Group("/api")
	{
		api.POST("/analyze", r.analyze)
		api.GET("/state", r.state)
		api.DELETE("/analysis", r.resetAnalysis)
		api.POST("/analysis/speak", r.speak)
		api.GET("/analysis/audio", r.audioSummary)

		api.GET("/history", r.history)
		api.DELETE("/history", r.clearHistory)
		api.POST("/history/:id/select", r.selectHistory)
		api.DELETE("/history/:id", r.deleteHistory)

		api.GET("/chat", r.chat)
		api.POST("/chat", r.sendChat)
		api.POST("/chat/:index/feedback", r.feedback)

		api.GET("/inbox", r.inbox)
		api.POST("/inbox/connect", r.connectInbox)
		api.GET("/inbox/oauth/callback", r.oauthCallback)
		api.POST("/inbox/token", r.inboxToken)
		api.POST("/inbox/disconnect", r.disconnectInbox)
		api.POST("/inbox/messages/:id/analyze", r.analyzeMessage)

		api.GET("/settings/client-id", r.getClientID)
		api.PUT("/settings/client-id", r.setClientID)
	}

	return r
}

// background runs fn detached from the request that started it
func (r *Router) background(c *gin.Context, fn func(ctx context.Context)) {
	ctx := context.WithoutCancel(c.Request.Context())
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		fn(ctx)
	}()
}

// Wait blocks until background work started by handlers has finished
func (r *Router) Wait() {
	r.wg.Wait()
}

func errorJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
