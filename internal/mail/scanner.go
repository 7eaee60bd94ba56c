package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/utils"
)

// Analyzer runs one analysis
type Analyzer interface {
	Analyze(ctx context.Context, text, image string) (*core.AnalysisResult, error)
}

// ScannerConfig holds the scanner tunables
type ScannerConfig struct {
	Mode           Mode
	MaxResults     int
	LabelCount     int
	LabelBodyChars int
	DemoTick       time.Duration
}

// Scanner tracks the inbox connection and its messages
type Scanner struct {
	cfg        ScannerConfig
	provider   Provider
	authorizer *Authorizer
	analyzer   Analyzer
	logger     *zap.Logger

	mu         sync.Mutex
	status     Status
	progress   int
	profile    string
	messages   []Email
	errMsg     string
	token      string
	oauthState string

	// scanGen changes on every scan start and disconnect; results of older scans are dropped
	scanGen uint64
}

// NewScanner creates a disconnected scanner
func NewScanner(cfg ScannerConfig, provider Provider, authorizer *Authorizer, analyzer Analyzer, logger *zap.Logger) *Scanner {
	if cfg.Mode == "" {
		cfg.Mode = ModeDemo
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 15
	}
	if cfg.LabelCount < 0 {
		cfg.LabelCount = 0
	}
	if cfg.LabelBodyChars <= 0 {
		cfg.LabelBodyChars = 500
	}
	if cfg.DemoTick <= 0 {
		cfg.DemoTick = 100 * time.Millisecond
	}
	return &Scanner{
		cfg:        cfg,
		provider:   provider,
		authorizer: authorizer,
		analyzer:   analyzer,
		logger:     logger,
		status:     StatusDisconnected,
		messages:   []Email{},
	}
}

// Mode returns the configured mode
func (s *Scanner) Mode() Mode {
	return s.cfg.Mode
}

// Snapshot returns a copy of the inbox state
func (s *Scanner) Snapshot() Inbox {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Inbox{
		Mode:     s.cfg.Mode,
		Status:   s.status,
		Progress: s.progress,
		Profile:  s.profile,
		Messages: append([]Email(nil), s.messages...),
		Error:    s.errMsg,
	}
}

func (s *Scanner) setProgress(gen uint64, p int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.scanGen {
		return false
	}
	s.progress = p
	return true
}

// beginScan moves to Scanning unless a scan is already running and returns the scan generation
func (s *Scanner) beginScan(progress int) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusScanning {
		return 0, ErrScanInProgress
	}
	s.scanGen++
	s.status = StatusScanning
	s.progress = progress
	s.errMsg = ""
	s.messages = []Email{}
	return s.scanGen, nil
}

// ConnectDemo ramps the progress and loads the demo inbox
func (s *Scanner) ConnectDemo(ctx context.Context) error {
	if s.cfg.Mode != ModeDemo {
		return ErrNotDemoMode
	}
	gen, err := s.beginScan(0)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(s.cfg.DemoTick)
	defer ticker.Stop()

	for progress := 0; progress < 100; {
		select {
		case <-ctx.Done():
			s.failScan(gen, StatusDisconnected, "")
			return ctx.Err()
		case <-ticker.C:
			progress += 5
			if !s.setProgress(gen, progress) {
				return ErrScanAbandoned
			}
		}
	}

	demo := DemoMessages()
	if !s.finish(gen, DemoProfile, demo) {
		return ErrScanAbandoned
	}

	s.logger.Info("Demo inbox connected", zap.Int("messages", len(demo)))
	return nil
}

// BeginAuthorization returns the consent URL and waits for a callback
func (s *Scanner) BeginAuthorization(ctx context.Context) (string, error) {
	if s.authorizer == nil {
		return "", ErrMissingClientID
	}
	state := uuid.NewString()
	url, err := s.authorizer.AuthCodeURL(ctx, state)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.status = StatusAuthorizing
	s.errMsg = ""
	s.oauthState = state
	s.mu.Unlock()

	return url, nil
}

// CompleteAuthorization handles the OAuth callback and fetches the inbox
func (s *Scanner) CompleteAuthorization(ctx context.Context, state, code string) error {
	s.mu.Lock()
	expected := s.oauthState
	s.oauthState = ""
	s.mu.Unlock()

	if expected == "" || state != expected {
		return s.HandleToken(ctx, TokenResult{Err: ErrInvalidState})
	}
	if s.authorizer == nil {
		return s.HandleToken(ctx, TokenResult{Err: ErrMissingClientID})
	}
	return s.HandleToken(ctx, s.authorizer.Exchange(ctx, code))
}

// ConnectWithToken accepts a token obtained by the browser
func (s *Scanner) ConnectWithToken(ctx context.Context, token string) error {
	return s.HandleToken(ctx, TokenResult{Token: strings.TrimSpace(token)})
}

// HandleToken finishes an authorization attempt
func (s *Scanner) HandleToken(ctx context.Context, res TokenResult) error {
	if res.Err == nil && res.Token == "" {
		res.Err = errors.New("failed to obtain access token")
	}
	if res.Err != nil {
		s.logger.Warn("Mailbox authorization failed", zap.Error(res.Err))
		s.fail(StatusAuthorizationFailed, MessageConsentFailed)
		return res.Err
	}

	s.mu.Lock()
	s.token = res.Token
	s.mu.Unlock()

	return s.FetchMessages(ctx, res.Token)
}

// FetchMessages loads and labels the most recent messages
func (s *Scanner) FetchMessages(ctx context.Context, token string) error {
	gen, err := s.beginScan(10)
	if err != nil {
		return err
	}

	profile, err := s.provider.Profile(ctx, token)
	if err != nil {
		s.logger.Warn("Could not fetch user profile", zap.Error(err))
	}

	ids, err := s.provider.ListMessageIDs(ctx, token, s.cfg.MaxResults)
	if err != nil {
		s.logger.Error("Failed to list messages", zap.Error(err))
		msg := MessageListFailed
		if errors.Is(err, ErrUnauthorized) {
			msg = MessageAuthFailed
		}
		if !s.failScan(gen, StatusDisconnected, msg) {
			return ErrScanAbandoned
		}
		return err
	}

	if len(ids) == 0 {
		if !s.finish(gen, profile, nil) {
			return ErrScanAbandoned
		}
		return nil
	}

	s.setProgress(gen, 25)
	fetched := make([]Email, 0, len(ids))
	for i, id := range ids {
		email, err := s.provider.GetMessage(ctx, token, id)
		if err != nil {
			s.logger.Warn("Skipping message", zap.String("id", id), zap.Error(err))
		} else {
			fetched = append(fetched, *email)
		}
		if !s.setProgress(gen, 25+(i+1)*50/len(ids)) {
			return ErrScanAbandoned
		}
	}

	s.labelMessages(ctx, fetched)
	if !s.finish(gen, profile, fetched) {
		s.logger.Info("Dropping scan results, inbox was disconnected")
		return ErrScanAbandoned
	}

	s.logger.Info("Inbox scanned", zap.Int("messages", len(fetched)))
	return nil
}

// labelMessages assigns initial labels to the first messages concurrently
func (s *Scanner) labelMessages(ctx context.Context, messages []Email) {
	n := min(s.cfg.LabelCount, len(messages))
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if label, ok := s.Label(gctx, utils.Snippet(messages[i].Body, s.cfg.LabelBodyChars, "")); ok {
				messages[i].InitialRiskLabel = label
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Label analyzes text and maps the score to an inbox label
func (s *Scanner) Label(ctx context.Context, text string) (RiskLabel, bool) {
	result, err := s.analyzer.Analyze(ctx, text, "")
	if err != nil {
		s.logger.Debug("Labeling failed", zap.Error(err))
		return "", false
	}
	return LabelForScore(result.RiskScore), true
}

// finish stores the scan result unless the scan was superseded. Messages
// ingested while the scan ran stay ahead of the fetched ones.
func (s *Scanner) finish(gen uint64, profile string, fetched []Email) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.scanGen {
		return false
	}

	messages := make([]Email, 0, len(s.messages)+len(fetched))
	seen := make(map[string]bool, len(s.messages))
	for _, m := range s.messages {
		seen[m.ID] = true
		messages = append(messages, m)
	}
	for _, m := range fetched {
		if !seen[m.ID] {
			messages = append(messages, m)
		}
	}

	s.status = StatusConnected
	s.progress = 100
	s.messages = messages
	if profile != "" {
		s.profile = profile
	}
	return true
}

// failScan records a scan failure unless the scan was superseded
func (s *Scanner) failScan(gen uint64, status Status, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.scanGen {
		return false
	}
	s.setFailed(status, msg)
	return true
}

func (s *Scanner) fail(status Status, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setFailed(status, msg)
}

func (s *Scanner) setFailed(status Status, msg string) {
	s.status = status
	s.progress = 100
	s.errMsg = msg
	s.token = ""
}

// Disconnect forgets the token and every message and abandons any running scan
func (s *Scanner) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanGen++
	s.status = StatusDisconnected
	s.progress = 0
	s.token = ""
	s.oauthState = ""
	s.profile = ""
	s.errMsg = ""
	s.messages = []Email{}
}

// AnalyzeEmail runs a full analysis of one message
func (s *Scanner) AnalyzeEmail(ctx context.Context, id string) (*core.AnalysisResult, error) {
	s.mu.Lock()
	var found *Email
	for i := range s.messages {
		if s.messages[i].ID == id {
			email := s.messages[i]
			found = &email
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return nil, ErrMessageNotFound
	}

	result, err := s.analyzer.Analyze(ctx, fmt.Sprintf("%s\n\n%s", found.Subject, found.Body), "")
	if err != nil {
		return nil, fmt.Errorf("failed to analyze message %s: %w", id, err)
	}
	return result, nil
}

// Ingest adds a message received outside the provider, newest first
func (s *Scanner) Ingest(email Email) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append([]Email{email}, s.messages...)
}
