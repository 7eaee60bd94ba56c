package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/utils"
)

var (
	// ErrSuperseded is returned when a newer submission replaced this one
	ErrSuperseded = errors.New("analysis superseded by a newer submission")

	// ErrEmptyMessage is returned for blank chat messages
	ErrEmptyMessage = errors.New("chat message is empty")

	// ErrChatBusy is returned while a chat reply is pending
	ErrChatBusy = errors.New("chat reply already in progress")
)

// Analyzer runs one analysis
type Analyzer interface {
	Analyze(ctx context.Context, text, image string) (*core.AnalysisResult, error)
}

// Responder produces chat replies
type Responder interface {
	Reply(ctx context.Context, history []core.ChatTurn, message string, report *core.AnalysisResult) string
}

// Controller serializes state transitions and runs the slow calls outside the lock
type Controller struct {
	mu       sync.Mutex
	state    State
	analyzer Analyzer
	chat     Responder
	logger   *zap.Logger
	now      func() time.Time
}

// NewController creates a new session controller
func NewController(analyzer Analyzer, chat Responder, logger *zap.Logger) *Controller {
	return &Controller{
		state:    NewState(),
		analyzer: analyzer,
		chat:     chat,
		logger:   logger,
		now:      time.Now,
	}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *Controller) dispatch(a Action) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, a)
	return c.state
}

// Submit analyzes the content and records it in history
func (c *Controller) Submit(ctx context.Context, text, image string) (*core.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" && strings.TrimSpace(image) == "" {
		return nil, core.ErrNoContent
	}

	generation := c.dispatch(AnalysisStarted{}).Generation

	result, err := c.analyzer.Analyze(ctx, text, image)
	if err != nil {
		c.logger.Warn("Analysis failed", zap.Uint64("generation", generation), zap.Error(err))
		c.dispatch(AnalysisFailed{Generation: generation, Message: AnalysisFailedMessage})
		return nil, err
	}

	item := HistoryItem{
		ID:        newID(),
		Timestamp: c.now(),
		Snippet:   snippetFor(text),
		Result:    result,
	}
	state := c.dispatch(AnalysisSucceeded{Generation: generation, Item: item})
	if state.Generation != generation {
		c.logger.Debug("Dropping stale analysis result",
			zap.Uint64("generation", generation),
			zap.Uint64("current", state.Generation))
		return nil, ErrSuperseded
	}
	return result, nil
}

// Reset clears the active report
func (c *Controller) Reset() {
	c.dispatch(AnalysisReset{})
}

// Select shows a stored report, reporting whether it exists
func (c *Controller) Select(id string) bool {
	state := c.dispatch(HistorySelected{ID: id})
	return state.Result != nil && containsItem(state.History, id)
}

// Delete removes one history entry
func (c *Controller) Delete(id string) {
	c.dispatch(HistoryDeleted{ID: id})
}

// Clear removes all history entries
func (c *Controller) Clear() {
	c.dispatch(HistoryCleared{})
}

// Feedback toggles like or dislike on a transcript entry
func (c *Controller) Feedback(index int, kind FeedbackKind) {
	c.dispatch(FeedbackGiven{Index: index, Kind: kind})
}

// Send posts a chat message and waits for the assistant reply
func (c *Controller) Send(ctx context.Context, message string) (ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatMessage{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.state.ChatBusy {
		c.mu.Unlock()
		return ChatMessage{}, ErrChatBusy
	}
	history := toTurns(c.state.Transcript)
	report := c.state.Result
	epoch := c.state.ChatEpoch
	c.state = Reduce(c.state, ChatSent{Text: message})
	c.mu.Unlock()

	reply := c.chat.Reply(ctx, history, message, report)

	state := c.dispatch(ChatReplied{Epoch: epoch, Text: reply})
	if state.ChatEpoch != epoch {
		c.logger.Debug("Dropping chat reply for a replaced transcript")
	}
	return ChatMessage{Role: core.RoleModel, Text: reply}, nil
}

func toTurns(transcript []ChatMessage) []core.ChatTurn {
	turns := make([]core.ChatTurn, 0, len(transcript))
	for _, msg := range transcript {
		turns = append(turns, core.ChatTurn{Role: msg.Role, Text: msg.Text})
	}
	return turns
}

func containsItem(items []HistoryItem, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}

func snippetFor(text string) string {
	if text == "" {
		return ImageSnippet
	}
	return utils.Snippet(text, snippetLength, "...")
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
