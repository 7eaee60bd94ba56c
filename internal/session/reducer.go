package session

import (
	"github.com/mikey/securelens/internal/core"
)

// Action is a state transition request
type Action interface {
	isAction()
}

// AnalysisStarted marks a new submission and bumps the generation
type AnalysisStarted struct{}

// AnalysisSucceeded delivers a result for the submission with Generation
type AnalysisSucceeded struct {
	Generation uint64
	Item       HistoryItem
}

// AnalysisFailed reports a failed submission
type AnalysisFailed struct {
	Generation uint64
	Message    string
}

// AnalysisReset clears the active report
type AnalysisReset struct{}

// HistorySelected shows a stored report
type HistorySelected struct {
	ID string
}

// HistoryDeleted removes one history entry
type HistoryDeleted struct {
	ID string
}

// HistoryCleared removes every history entry
type HistoryCleared struct{}

// ChatSent appends the user's message
type ChatSent struct {
	Text string
}

// ChatReplied appends the assistant reply for the transcript epoch it was asked in
type ChatReplied struct {
	Epoch uint64
	Text  string
}

// FeedbackGiven toggles like or dislike on a transcript entry
type FeedbackGiven struct {
	Index int
	Kind  FeedbackKind
}

// FeedbackKind is like or dislike
type FeedbackKind string

const (
	FeedbackLike    FeedbackKind = "like"
	FeedbackDislike FeedbackKind = "dislike"
)

func (AnalysisStarted) isAction()   {}
func (AnalysisSucceeded) isAction() {}
func (AnalysisFailed) isAction()    {}
func (AnalysisReset) isAction()     {}
func (HistorySelected) isAction()   {}
func (HistoryDeleted) isAction()    {}
func (HistoryCleared) isAction()    {}
func (ChatSent) isAction()          {}
func (ChatReplied) isAction()       {}
func (FeedbackGiven) isAction()     {}

// Reduce returns the state that follows s after a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case AnalysisStarted:
		s.Generation++
		s.Loading = true
		s.Error = ""

	case AnalysisSucceeded:
		if a.Generation != s.Generation {
			return s
		}
		s.Loading = false
		s.Error = ""
		history := make([]HistoryItem, 0, len(s.History)+1)
		history = append(history, a.Item)
		s.History = append(history, s.History...)
		s = withResult(s, a.Item.Result)

	case AnalysisFailed:
		if a.Generation != s.Generation {
			return s
		}
		s.Loading = false
		s.Error = a.Message

	case AnalysisReset:
		s.Error = ""
		s = withResult(s, nil)

	case HistorySelected:
		for _, item := range s.History {
			if item.ID == a.ID {
				s.Error = ""
				s = withResult(s, item.Result)
				break
			}
		}

	case HistoryDeleted:
		history := make([]HistoryItem, 0, len(s.History))
		for _, item := range s.History {
			if item.ID != a.ID {
				history = append(history, item)
			}
		}
		s.History = history

	case HistoryCleared:
		s.History = []HistoryItem{}

	case ChatSent:
		s.Transcript = appendMessage(s.Transcript, ChatMessage{Role: core.RoleUser, Text: a.Text})
		s.ChatBusy = true

	case ChatReplied:
		if a.Epoch != s.ChatEpoch {
			return s
		}
		s.Transcript = appendMessage(s.Transcript, ChatMessage{Role: core.RoleModel, Text: a.Text})
		s.ChatBusy = false

	case FeedbackGiven:
		if a.Index < 0 || a.Index >= len(s.Transcript) {
			return s
		}
		transcript := append([]ChatMessage(nil), s.Transcript...)
		msg := transcript[a.Index]
		switch a.Kind {
		case FeedbackLike:
			msg.Liked = !msg.Liked
			msg.Disliked = false
		case FeedbackDislike:
			msg.Disliked = !msg.Disliked
			msg.Liked = false
		default:
			return s
		}
		transcript[a.Index] = msg
		s.Transcript = transcript
	}
	return s
}

// withResult switches the active report and resets the transcript when it changes
func withResult(s State, result *core.AnalysisResult) State {
	if s.Result == result && s.Transcript != nil {
		return s
	}
	s.Result = result
	s.Transcript = openingTranscript(result)
	s.Suggestions = suggestionsFor(result)
	s.ChatEpoch++
	s.ChatBusy = false
	return s
}

func appendMessage(transcript []ChatMessage, msg ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(transcript)+1)
	out = append(out, transcript...)
	return append(out, msg)
}
