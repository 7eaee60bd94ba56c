package core

import (
	"context"
	"sync"
)

type fakeBackend struct {
	mu       sync.Mutex
	response string
	err      error
	requests []*AnalysisRequest
}

func (f *fakeBackend) GenerateReport(_ context.Context, req *AnalysisRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.response, f.err
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type fakeInvestigator struct {
	answer  *GroundedAnswer
	err     error
	prompts []string
}

func (f *fakeInvestigator) Search(_ context.Context, prompt string) (*GroundedAnswer, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

type mapCache map[string]*DomainIntel

func (m mapCache) Get(host string) (*DomainIntel, bool) {
	v, ok := m[host]
	return v, ok
}

func (m mapCache) Set(host string, intel *DomainIntel) {
	m[host] = intel
}

type fakeChat struct {
	reply       string
	err         error
	instruction string
	history     []ChatTurn
	message     string
}

func (f *fakeChat) SendMessage(_ context.Context, instruction string, history []ChatTurn, message string) (string, error) {
	f.instruction = instruction
	f.history = history
	f.message = message
	return f.reply, f.err
}

type fakeSynth struct {
	audio string
	err   error
	text  string
}

func (f *fakeSynth) Synthesize(_ context.Context, text string) (string, error) {
	f.text = text
	return f.audio, f.err
}

const highRiskReport = `{
  "riskScore": 85,
  "riskLevel": "High Risk",
  "confidenceScore": 92.4,
  "scamType": "Phishing",
  "isSafe": false,
  "summary": "Shortened link with account suspension threat.",
  "redFlags": [
    {"title": "Urgency", "description": "Threatens suspension", "severity": "high"},
    {"title": "Shortened URL", "description": "Hides destination", "severity": "medium"}
  ],
  "technicalDetails": {
    "domainAnalysis": "bit.ly shortener",
    "grammarAnalysis": "fine",
    "urgencyAnalysis": "high",
    "senderAnalysis": "unknown"
  },
  "recommendations": ["Do not click the link"]
}`
