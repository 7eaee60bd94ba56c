package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/mikey/securelens/internal/adapters/settings"
	"github.com/mikey/securelens/internal/core"
)

type fakeProvider struct {
	profile    string
	profileErr error
	ids        []string
	listErr    error
	messages   map[string]*Email

	// listStarted is closed when listing begins; listing then waits for listGate
	listStarted chan struct{}
	listGate    chan struct{}
}

func (p *fakeProvider) Profile(_ context.Context, _ string) (string, error) {
	return p.profile, p.profileErr
}

func (p *fakeProvider) ListMessageIDs(_ context.Context, _ string, limit int) ([]string, error) {
	if p.listStarted != nil {
		close(p.listStarted)
	}
	if p.listGate != nil {
		<-p.listGate
	}
	if p.listErr != nil {
		return nil, p.listErr
	}
	if len(p.ids) > limit {
		return p.ids[:limit], nil
	}
	return p.ids, nil
}

func (p *fakeProvider) GetMessage(_ context.Context, _ string, id string) (*Email, error) {
	m, ok := p.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %s: %w", id, errors.New("not found"))
	}
	copied := *m
	return &copied, nil
}

type scoringAnalyzer struct {
	mu    sync.Mutex
	texts []string
}

func (a *scoringAnalyzer) Analyze(_ context.Context, text, _ string) (*core.AnalysisResult, error) {
	a.mu.Lock()
	a.texts = append(a.texts, text)
	a.mu.Unlock()

	switch {
	case strings.Contains(text, "fail"):
		return nil, errors.New("backend down")
	case strings.Contains(text, "prize"):
		return &core.AnalysisResult{RiskScore: 90}, nil
	case strings.Contains(text, "verify"):
		return &core.AnalysisResult{RiskScore: 50}, nil
	default:
		return &core.AnalysisResult{RiskScore: 5}, nil
	}
}

func testScannerConfig(mode Mode) ScannerConfig {
	return ScannerConfig{
		Mode:           mode,
		MaxResults:     15,
		LabelCount:     4,
		LabelBodyChars: 500,
		DemoTick:       time.Millisecond,
	}
}

func liveProvider() *fakeProvider {
	return &fakeProvider{
		profile: "me@example.com",
		ids:     []string{"a", "b", "missing", "c", "d", "e"},
		messages: map[string]*Email{
			"a": {ID: "a", Subject: "Win", Body: "You won a prize"},
			"b": {ID: "b", Subject: "Account", Body: "Please verify your login"},
			"c": {ID: "c", Subject: "Lunch", Body: "See you at noon"},
			"d": {ID: "d", Subject: "Oops", Body: "this will fail"},
			"e": {ID: "e", Subject: "Later", Body: "You won a prize too"},
		},
	}
}

func TestConnectDemo(t *testing.T) {
	s := NewScanner(testScannerConfig(ModeDemo), nil, nil, &scoringAnalyzer{}, zap.NewNop())

	if err := s.ConnectDemo(context.Background()); err != nil {
		t.Fatal(err)
	}
	inbox := s.Snapshot()
	if inbox.Status != StatusConnected || inbox.Progress != 100 {
		t.Fatalf("unexpected status %s progress %d", inbox.Status, inbox.Progress)
	}
	if len(inbox.Messages) != 3 || inbox.Profile != DemoProfile {
		t.Fatalf("unexpected demo inbox: %+v", inbox)
	}
	if inbox.Messages[0].InitialRiskLabel != LabelHighRisk {
		t.Errorf("unexpected first label %q", inbox.Messages[0].InitialRiskLabel)
	}
}

func TestConnectDemoCancelled(t *testing.T) {
	cfg := testScannerConfig(ModeDemo)
	cfg.DemoTick = time.Hour
	s := NewScanner(cfg, nil, nil, &scoringAnalyzer{}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.ConnectDemo(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if got := s.Snapshot().Status; got != StatusDisconnected {
		t.Errorf("expected disconnected, got %s", got)
	}
}

func TestConnectDemoRejectedInLiveMode(t *testing.T) {
	s := NewScanner(testScannerConfig(ModeLive), &fakeProvider{}, nil, &scoringAnalyzer{}, zap.NewNop())
	if err := s.ConnectDemo(context.Background()); !errors.Is(err, ErrNotDemoMode) {
		t.Fatalf("expected ErrNotDemoMode, got %v", err)
	}
}

func TestFetchMessages(t *testing.T) {
	analyzer := &scoringAnalyzer{}
	s := NewScanner(testScannerConfig(ModeLive), liveProvider(), nil, analyzer, zap.NewNop())

	if err := s.ConnectWithToken(context.Background(), " token "); err != nil {
		t.Fatal(err)
	}

	inbox := s.Snapshot()
	if inbox.Status != StatusConnected || inbox.Progress != 100 {
		t.Fatalf("unexpected status %s progress %d", inbox.Status, inbox.Progress)
	}
	if inbox.Profile != "me@example.com" {
		t.Errorf("unexpected profile %q", inbox.Profile)
	}
	if len(inbox.Messages) != 5 {
		t.Fatalf("expected failed fetch to be skipped, got %d messages", len(inbox.Messages))
	}

	want := []RiskLabel{LabelHighRisk, LabelSuspicious, LabelSafe, "", ""}
	for i, m := range inbox.Messages {
		if m.InitialRiskLabel != want[i] {
			t.Errorf("message %s label %q, want %q", m.ID, m.InitialRiskLabel, want[i])
		}
	}
	if inbox.Messages[4].DisplayLabel() != LabelPending {
		t.Error("messages beyond the label count should be pending")
	}
	if len(analyzer.texts) != 4 {
		t.Errorf("expected 4 label analyses, got %d", len(analyzer.texts))
	}
}

func TestFetchMessagesLabelTruncatesBody(t *testing.T) {
	analyzer := &scoringAnalyzer{}
	provider := &fakeProvider{
		ids:      []string{"long"},
		messages: map[string]*Email{"long": {ID: "long", Body: strings.Repeat("é", 600)}},
	}
	s := NewScanner(testScannerConfig(ModeLive), provider, nil, analyzer, zap.NewNop())

	if err := s.FetchMessages(context.Background(), "tok"); err != nil {
		t.Fatal(err)
	}
	if got := len([]rune(analyzer.texts[0])); got != 500 {
		t.Errorf("expected 500 characters analyzed, got %d", got)
	}
}

func TestFetchMessagesEmptyInbox(t *testing.T) {
	s := NewScanner(testScannerConfig(ModeLive), &fakeProvider{profileErr: errors.New("no profile")}, nil, &scoringAnalyzer{}, zap.NewNop())
	if err := s.FetchMessages(context.Background(), "tok"); err != nil {
		t.Fatal(err)
	}
	inbox := s.Snapshot()
	if inbox.Status != StatusConnected || len(inbox.Messages) != 0 {
		t.Fatalf("unexpected inbox %+v", inbox)
	}
}

func TestFetchMessagesListFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		msg  string
	}{
		{"unauthorized", fmt.Errorf("list: %w", ErrUnauthorized), MessageAuthFailed},
		{"other", errors.New("500"), MessageListFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(testScannerConfig(ModeLive), &fakeProvider{listErr: tt.err}, nil, &scoringAnalyzer{}, zap.NewNop())
			if err := s.ConnectWithToken(context.Background(), "tok"); err == nil {
				t.Fatal("expected error")
			}
			inbox := s.Snapshot()
			if inbox.Status != StatusDisconnected || inbox.Error != tt.msg {
				t.Fatalf("unexpected inbox %+v", inbox)
			}
		})
	}
}

func TestHandleTokenFailure(t *testing.T) {
	s := NewScanner(testScannerConfig(ModeLive), liveProvider(), nil, &scoringAnalyzer{}, zap.NewNop())
	if err := s.HandleToken(context.Background(), TokenResult{Err: errors.New("denied")}); err == nil {
		t.Fatal("expected error")
	}
	inbox := s.Snapshot()
	if inbox.Status != StatusAuthorizationFailed || inbox.Error != MessageConsentFailed {
		t.Fatalf("unexpected inbox %+v", inbox)
	}

	if err := s.ConnectWithToken(context.Background(), "  "); err == nil {
		t.Fatal("blank token should fail")
	}

	s.Disconnect()
	if got := s.Snapshot(); got.Status != StatusDisconnected || got.Error != "" {
		t.Fatalf("unexpected inbox after disconnect %+v", got)
	}
}

func TestAuthorizationCodeFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"live-token","token_type":"Bearer","expires_in":3600}`)
	}))
	defer srv.Close()

	store := NewClientIDStore(settings.NewMemoryStore(zap.NewNop()), "", zap.NewNop())
	auth := NewAuthorizer(store, "secret", "http://localhost/callback").
		WithEndpoint(oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"})
	s := NewScanner(testScannerConfig(ModeLive), liveProvider(), auth, &scoringAnalyzer{}, zap.NewNop())
	ctx := context.Background()

	consent, err := s.BeginAuthorization(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().Status != StatusAuthorizing {
		t.Fatalf("expected authorizing, got %s", s.Snapshot().Status)
	}
	if !strings.Contains(consent, DefaultClientID) || !strings.Contains(consent, "gmail.readonly") {
		t.Errorf("unexpected consent url %s", consent)
	}

	state := consent[strings.Index(consent, "state=")+len("state="):]
	if i := strings.Index(state, "&"); i >= 0 {
		state = state[:i]
	}

	if err := s.CompleteAuthorization(ctx, state, "good-code"); err != nil {
		t.Fatal(err)
	}
	if inbox := s.Snapshot(); inbox.Status != StatusConnected || len(inbox.Messages) != 5 {
		t.Fatalf("unexpected inbox %+v", inbox)
	}
}

func TestAuthorizationStateMismatch(t *testing.T) {
	store := NewClientIDStore(settings.NewMemoryStore(zap.NewNop()), "", zap.NewNop())
	s := NewScanner(testScannerConfig(ModeLive), liveProvider(), NewAuthorizer(store, "", ""), &scoringAnalyzer{}, zap.NewNop())
	ctx := context.Background()

	if _, err := s.BeginAuthorization(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.CompleteAuthorization(ctx, "forged", "code"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if got := s.Snapshot().Status; got != StatusAuthorizationFailed {
		t.Errorf("expected authorization failed, got %s", got)
	}
}

func TestAnalyzeEmail(t *testing.T) {
	analyzer := &scoringAnalyzer{}
	s := NewScanner(testScannerConfig(ModeDemo), nil, nil, analyzer, zap.NewNop())
	if err := s.ConnectDemo(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := s.AnalyzeEmail(context.Background(), "2"); err != nil {
		t.Fatal(err)
	}
	want := "Re: Cookie Recipe\n\nHi sweetie,"
	if !strings.HasPrefix(analyzer.texts[0], want) {
		t.Errorf("unexpected analysis text %q", analyzer.texts[0])
	}

	if _, err := s.AnalyzeEmail(context.Background(), "nope"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestIngestNewestFirst(t *testing.T) {
	s := NewScanner(testScannerConfig(ModeDemo), nil, nil, &scoringAnalyzer{}, zap.NewNop())
	s.Ingest(Email{ID: "old"})
	s.Ingest(Email{ID: "new"})
	msgs := s.Snapshot().Messages
	if len(msgs) != 2 || msgs[0].ID != "new" {
		t.Fatalf("unexpected order %+v", msgs)
	}
}

func gatedProvider() *fakeProvider {
	p := liveProvider()
	p.listStarted = make(chan struct{})
	p.listGate = make(chan struct{})
	return p
}

func TestDisconnectDuringFetch(t *testing.T) {
	provider := gatedProvider()
	s := NewScanner(testScannerConfig(ModeLive), provider, nil, &scoringAnalyzer{}, zap.NewNop())

	errCh := make(chan error, 1)
	go func() { errCh <- s.FetchMessages(context.Background(), "token") }()

	<-provider.listStarted
	s.Disconnect()
	close(provider.listGate)

	if err := <-errCh; !errors.Is(err, ErrScanAbandoned) {
		t.Fatalf("expected ErrScanAbandoned, got %v", err)
	}
	inbox := s.Snapshot()
	if inbox.Status != StatusDisconnected || len(inbox.Messages) != 0 || inbox.Profile != "" {
		t.Errorf("disconnect did not stick: status=%s messages=%d profile=%q",
			inbox.Status, len(inbox.Messages), inbox.Profile)
	}
}

func TestDisconnectDuringDemo(t *testing.T) {
	cfg := testScannerConfig(ModeDemo)
	cfg.DemoTick = 5 * time.Millisecond
	s := NewScanner(cfg, nil, nil, &scoringAnalyzer{}, zap.NewNop())

	errCh := make(chan error, 1)
	go func() { errCh <- s.ConnectDemo(context.Background()) }()

	deadline := time.Now().Add(time.Second)
	for {
		inbox := s.Snapshot()
		if inbox.Status == StatusScanning && inbox.Progress > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("demo ramp never started")
		}
		time.Sleep(time.Millisecond)
	}
	s.Disconnect()

	if err := <-errCh; !errors.Is(err, ErrScanAbandoned) {
		t.Fatalf("expected ErrScanAbandoned, got %v", err)
	}
	inbox := s.Snapshot()
	if inbox.Status != StatusDisconnected || len(inbox.Messages) != 0 || inbox.Profile != "" {
		t.Errorf("disconnect did not stick: status=%s messages=%d profile=%q",
			inbox.Status, len(inbox.Messages), inbox.Profile)
	}
}

func TestIngestDuringFetchKept(t *testing.T) {
	provider := gatedProvider()
	s := NewScanner(testScannerConfig(ModeLive), provider, nil, &scoringAnalyzer{}, zap.NewNop())

	errCh := make(chan error, 1)
	go func() { errCh <- s.FetchMessages(context.Background(), "token") }()

	<-provider.listStarted
	s.Ingest(Email{ID: "forwarded", Subject: "Fwd: invoice"})
	close(provider.listGate)

	if err := <-errCh; err != nil {
		t.Fatal(err)
	}
	inbox := s.Snapshot()
	if len(inbox.Messages) != 6 {
		t.Fatalf("expected 6 messages, got %d", len(inbox.Messages))
	}
	if inbox.Messages[0].ID != "forwarded" {
		t.Errorf("expected forwarded message first, got %s", inbox.Messages[0].ID)
	}
}
