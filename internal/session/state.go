package session

import (
	"fmt"
	"time"

	"github.com/mikey/securelens/internal/core"
)

const (
	// Greeting opens the transcript when no report is active
	Greeting = "Hi! I'm SecureLens AI. Ask me anything about online scams, cybersecurity, or how to stay safe."

	// AnalysisFailedMessage is shown when an analysis could not be completed
	AnalysisFailedMessage = "Analysis failed. Please try again later or check your connection."

	// ImageSnippet labels history entries without text
	ImageSnippet = "Image Analysis"

	snippetLength = 50
)

var (
	defaultSuggestions = []string{"What are common scams?", "How do I report fraud?", "Is my password safe?"}
	reportSuggestions  = []string{"Explain the red flags", "Is this definitely a scam?", "What should I do now?", "Technical details"}
)

// HistoryItem is an immutable record of a completed analysis
type HistoryItem struct {
	ID        string               `json:"id"`
	Timestamp time.Time            `json:"timestamp"`
	Snippet   string               `json:"snippet"`
	Result    *core.AnalysisResult `json:"result"`
}

// ChatMessage is one transcript entry
type ChatMessage struct {
	Role     core.Role `json:"role"`
	Text     string    `json:"text"`
	Liked    bool      `json:"liked"`
	Disliked bool      `json:"disliked"`
}

// State is everything the front end renders
type State struct {
	Result      *core.AnalysisResult `json:"result"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
	History     []HistoryItem        `json:"history"`
	Transcript  []ChatMessage        `json:"transcript"`
	ChatBusy    bool                 `json:"chatBusy"`
	Suggestions []string             `json:"suggestions"`

	// Generation identifies the latest analysis submission
	Generation uint64 `json:"-"`

	// ChatEpoch changes whenever the transcript is reset
	ChatEpoch uint64 `json:"-"`
}

// NewState returns the initial state
func NewState() State {
	return State{
		History:     []HistoryItem{},
		Transcript:  openingTranscript(nil),
		Suggestions: suggestionsFor(nil),
	}
}

func openingTranscript(result *core.AnalysisResult) []ChatMessage {
	if result == nil {
		return []ChatMessage{{Role: core.RoleModel, Text: Greeting}}
	}
	return []ChatMessage{{
		Role: core.RoleModel,
		Text: fmt.Sprintf("I've analyzed this content. I found %d red flags. What would you like to know about this report?", len(result.RedFlags)),
	}}
}

func suggestionsFor(result *core.AnalysisResult) []string {
	if result == nil {
		return defaultSuggestions
	}
	return reportSuggestions
}

// Clone returns a copy whose slices can be handed out without sharing
func (s State) Clone() State {
	s.History = append([]HistoryItem(nil), s.History...)
	s.Transcript = append([]ChatMessage(nil), s.Transcript...)
	s.Suggestions = append([]string(nil), s.Suggestions...)
	return s
}
