package httpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/adapters/settings"
	"github.com/mikey/securelens/internal/audio"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/mail"
	"github.com/mikey/securelens/internal/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubAnalyzer struct {
	err error
}

func (a *stubAnalyzer) Analyze(_ context.Context, text, image string) (*core.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" && strings.TrimSpace(image) == "" {
		return nil, core.ErrNoContent
	}
	if a.err != nil {
		return nil, a.err
	}
	return &core.AnalysisResult{
		RiskScore: 88,
		RiskLevel: core.RiskHigh,
		ScamType:  "Phishing",
		Summary:   "Looks like phishing",
		RedFlags: []core.RedFlag{
			{Title: "Urgency", Description: "Pressure to act", Severity: core.SeverityHigh},
		},
		Recommendations: []string{"Do not click"},
	}, nil
}

type stubChat struct{}

func (stubChat) SendMessage(_ context.Context, _ string, _ []core.ChatTurn, message string) (string, error) {
	return "echo: " + message, nil
}

type stubSynth struct {
	err error
}

func (s stubSynth) Synthesize(_ context.Context, _ string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return base64.StdEncoding.EncodeToString(make([]byte, 480)), nil
}

// waitOutput plays until stopped
type waitOutput struct{}

func (waitOutput) Render(ctx context.Context, _ *audio.Buffer) error {
	<-ctx.Done()
	return ctx.Err()
}

type testEnv struct {
	router   *Router
	analyzer *stubAnalyzer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := zap.NewNop()
	analyzer := &stubAnalyzer{}

	controller := session.NewController(analyzer, core.NewChatService(stubChat{}, logger), logger)
	speech := core.NewSpeechService(stubSynth{}, logger)
	player := audio.NewPlayer(waitOutput{}, logger)
	scanner := mail.NewScanner(mail.ScannerConfig{Mode: mail.ModeDemo, DemoTick: time.Millisecond, LabelCount: 4}, nil, nil, analyzer, logger)
	clientIDs := mail.NewClientIDStore(settings.NewMemoryStore(logger), "", logger)

	r := NewRouter(controller, speech, player, scanner, clientIDs, logger)
	t.Cleanup(func() {
		player.Stop()
		r.Wait()
	})
	return &testEnv{router: r, analyzer: analyzer}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.Engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
}

func TestAnalyzeAndHistory(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodPost, "/api/analyze", analyzeRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty content, got %d", w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/analyze", analyzeRequest{Text: "Your parcel is waiting at bit.ly/x"})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
	}
	result := decode[map[string]any](t, w)
	if result["riskScore"] != float64(88) || result["riskLevel"] != "High Risk" {
		t.Errorf("unexpected result %v", result)
	}

	history := decode[struct {
		History []session.HistoryItem `json:"history"`
	}](t, env.do(t, http.MethodGet, "/api/history", nil)).History
	if len(history) != 1 {
		t.Fatalf("expected 1 history item, got %d", len(history))
	}

	if w := env.do(t, http.MethodDelete, "/api/analysis", nil); w.Code != http.StatusNoContent {
		t.Fatalf("unexpected reset status %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/history/"+history[0].ID+"/select", nil); w.Code != http.StatusOK {
		t.Fatalf("unexpected select status %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/history/unknown/select", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, "/api/history/"+history[0].ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("unexpected delete status %d", w.Code)
	}

	state := decode[session.State](t, env.do(t, http.MethodGet, "/api/state", nil))
	if len(state.History) != 0 || state.Result == nil {
		t.Errorf("unexpected state %+v", state)
	}
}

func TestAnalyzeFailure(t *testing.T) {
	env := newTestEnv(t)
	env.analyzer.err = errors.New("backend down")

	w := env.do(t, http.MethodPost, "/api/analyze", analyzeRequest{Text: "hello"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if got := decode[map[string]string](t, w)["error"]; got != session.AnalysisFailedMessage {
		t.Errorf("unexpected error %q", got)
	}
	state := decode[session.State](t, env.do(t, http.MethodGet, "/api/state", nil))
	if state.Error != session.AnalysisFailedMessage || state.Loading {
		t.Errorf("unexpected state %+v", state)
	}
}

func TestChat(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodPost, "/api/chat", chatRequest{Message: "  "}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/chat", chatRequest{Message: "Is my password safe?"})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if reply := decode[session.ChatMessage](t, w); reply.Text != "echo: Is my password safe?" {
		t.Errorf("unexpected reply %+v", reply)
	}

	chat := decode[struct {
		Messages    []session.ChatMessage `json:"messages"`
		Suggestions []string              `json:"suggestions"`
	}](t, env.do(t, http.MethodGet, "/api/chat", nil))
	if len(chat.Messages) != 3 || chat.Messages[0].Text != session.Greeting {
		t.Fatalf("unexpected transcript %+v", chat.Messages)
	}
	if len(chat.Suggestions) == 0 {
		t.Error("expected suggestions")
	}

	w = env.do(t, http.MethodPost, "/api/chat/2/feedback", feedbackRequest{Type: "like"})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected feedback status %d", w.Code)
	}
	if msg := decode[session.ChatMessage](t, w); !msg.Liked {
		t.Errorf("expected liked message, got %+v", msg)
	}
	if w := env.do(t, http.MethodPost, "/api/chat/2/feedback", feedbackRequest{Type: "love"}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/chat/9/feedback", feedbackRequest{Type: "like"}); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestSpeechRoutes(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodPost, "/api/analysis/speak", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without a report, got %d", w.Code)
	}
	env.do(t, http.MethodPost, "/api/analyze", analyzeRequest{Text: "hello"})

	w := env.do(t, http.MethodPost, "/api/analysis/speak", nil)
	if w.Code != http.StatusOK || !decode[map[string]bool](t, w)["playing"] {
		t.Fatalf("expected playback to start: %d %s", w.Code, w.Body.String())
	}
	w = env.do(t, http.MethodPost, "/api/analysis/speak", nil)
	if w.Code != http.StatusOK || decode[map[string]bool](t, w)["playing"] {
		t.Fatalf("expected playback to stop: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/analysis/audio", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("RIFF")) || w.Body.Len() != 44+480 {
		t.Errorf("unexpected WAV payload of %d bytes", w.Body.Len())
	}
}

func TestSpeakSynthesisFailure(t *testing.T) {
	logger := zap.NewNop()
	analyzer := &stubAnalyzer{}
	controller := session.NewController(analyzer, core.NewChatService(stubChat{}, logger), logger)
	speech := core.NewSpeechService(stubSynth{err: errors.New("tts down")}, logger)
	player := audio.NewPlayer(waitOutput{}, logger)
	scanner := mail.NewScanner(mail.ScannerConfig{Mode: mail.ModeDemo}, nil, nil, analyzer, logger)
	clientIDs := mail.NewClientIDStore(settings.NewMemoryStore(logger), "", logger)
	env := &testEnv{router: NewRouter(controller, speech, player, scanner, clientIDs, logger), analyzer: analyzer}
	t.Cleanup(env.router.Wait)

	env.do(t, http.MethodPost, "/api/analyze", analyzeRequest{Text: "hello"})

	if w := env.do(t, http.MethodPost, "/api/analysis/speak", nil); w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 when synthesis fails, got %d %s", w.Code, w.Body.String())
	}
	if player.Playing() {
		t.Error("failed synthesis must not start playback")
	}
}

func TestInboxDemo(t *testing.T) {
	env := newTestEnv(t)

	if w := env.do(t, http.MethodPost, "/api/inbox/connect", nil); w.Code != http.StatusAccepted {
		t.Fatalf("unexpected status %d", w.Code)
	}
	env.router.Wait()

	inbox := decode[mail.Inbox](t, env.do(t, http.MethodGet, "/api/inbox", nil))
	if inbox.Status != mail.StatusConnected || len(inbox.Messages) != 3 {
		t.Fatalf("unexpected inbox %+v", inbox)
	}

	if w := env.do(t, http.MethodPost, "/api/inbox/messages/1/analyze", nil); w.Code != http.StatusOK {
		t.Fatalf("unexpected analyze status %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/inbox/messages/99/analyze", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	if w := env.do(t, http.MethodPost, "/api/inbox/disconnect", nil); w.Code != http.StatusNoContent {
		t.Fatalf("unexpected disconnect status %d", w.Code)
	}
	inbox = decode[mail.Inbox](t, env.do(t, http.MethodGet, "/api/inbox", nil))
	if inbox.Status != mail.StatusDisconnected || len(inbox.Messages) != 0 {
		t.Fatalf("unexpected inbox after disconnect %+v", inbox)
	}
}

func TestInboxTokenRequired(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodPost, "/api/inbox/token", tokenRequest{}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestClientIDSettings(t *testing.T) {
	env := newTestEnv(t)

	get := func() string {
		return decode[map[string]string](t, env.do(t, http.MethodGet, "/api/settings/client-id", nil))["clientId"]
	}
	if got := get(); got != mail.DefaultClientID {
		t.Fatalf("expected default client id, got %q", got)
	}

	if w := env.do(t, http.MethodPut, "/api/settings/client-id", clientIDRequest{ClientID: "mine"}); w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if got := get(); got != "mine" {
		t.Fatalf("expected stored client id, got %q", got)
	}

	env.do(t, http.MethodPut, "/api/settings/client-id", clientIDRequest{ClientID: ""})
	if got := get(); got != mail.DefaultClientID {
		t.Fatalf("expected default after clearing, got %q", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/healthz", nil)

	w := env.do(t, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "securelens_http_request_duration_seconds") {
		t.Error("expected request duration metric")
	}
}
