package mail

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"
)

const forwardedMessage = "From: Lottery <win@lotto.example>\r\n" +
	"Subject: You won a prize\r\n" +
	"\r\n" +
	"Claim your prize today.\r\n"

func TestIntakeDeliver(t *testing.T) {
	s := NewScanner(testScannerConfig(ModeDemo), nil, nil, &scoringAnalyzer{}, zap.NewNop())
	in := NewIntake(s, IntakeConfig{}, zap.NewNop())

	email, err := in.Deliver(context.Background(), []byte(forwardedMessage))
	if err != nil {
		t.Fatal(err)
	}
	if email.InitialRiskLabel != LabelHighRisk {
		t.Errorf("unexpected label %q", email.InitialRiskLabel)
	}
	msgs := s.Snapshot().Messages
	if len(msgs) != 1 || msgs[0].SenderEmail != "win@lotto.example" {
		t.Fatalf("unexpected inbox %+v", msgs)
	}
}

func TestIntakeTrustedSenderSkipsAnalysis(t *testing.T) {
	analyzer := &scoringAnalyzer{}
	s := NewScanner(testScannerConfig(ModeDemo), nil, nil, analyzer, zap.NewNop())
	in := NewIntake(s, IntakeConfig{TrustedDomains: []string{"lotto.example"}}, zap.NewNop())

	email, err := in.Deliver(context.Background(), []byte(forwardedMessage))
	if err != nil {
		t.Fatal(err)
	}
	if email.InitialRiskLabel != LabelSafe {
		t.Errorf("expected trusted sender to be Safe, got %q", email.InitialRiskLabel)
	}
	if len(analyzer.texts) != 0 {
		t.Errorf("trusted sender must not be analyzed, got %d calls", len(analyzer.texts))
	}
	if got := len(s.Snapshot().Messages); got != 1 {
		t.Errorf("expected message to be stored, got %d", got)
	}
}

func TestIntakeSessionRejectsGarbage(t *testing.T) {
	s := NewScanner(testScannerConfig(ModeDemo), nil, nil, &scoringAnalyzer{}, zap.NewNop())
	in := NewIntake(s, IntakeConfig{}, zap.NewNop())

	session, err := (&smtpBackend{intake: in}).NewSession(nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := session.Data(strings.NewReader("garbage without headers")); err == nil {
		t.Fatal("expected rejection")
	}
	if got := len(s.Snapshot().Messages); got != 0 {
		t.Errorf("rejected message should not be stored, got %d", got)
	}
}

func TestIntakeOverSMTP(t *testing.T) {
	s := NewScanner(testScannerConfig(ModeDemo), nil, nil, &scoringAnalyzer{}, zap.NewNop())
	in := NewIntake(s, IntakeConfig{ListenAddress: "127.0.0.1:0"}, zap.NewNop())
	if err := in.Start(); err != nil {
		t.Fatal(err)
	}
	defer in.Stop()

	c, err := smtp.Dial(in.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SendMail("win@lotto.example", []string{"me@example.com"}, strings.NewReader(forwardedMessage)); err != nil {
		t.Fatal(err)
	}
	if err := c.Quit(); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(s.Snapshot().Messages) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	msgs := s.Snapshot().Messages
	if len(msgs) != 1 || msgs[0].Subject != "You won a prize" {
		t.Fatalf("unexpected inbox %+v", msgs)
	}
}
