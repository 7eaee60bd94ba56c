package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestChatReply(t *testing.T) {
	backend := &fakeChat{reply: "It is phishing."}
	svc := NewChatService(backend, zap.NewNop())
	history := []ChatTurn{{Role: RoleModel, Text: "Hi!"}, {Role: RoleUser, Text: "Is this safe?"}}

	got := svc.Reply(context.Background(), history, "Why?", nil)
	if got != "It is phishing." {
		t.Errorf("Reply = %q", got)
	}
	if backend.instruction != ChatPersona {
		t.Errorf("instruction = %q", backend.instruction)
	}
	if len(backend.history) != 2 || backend.message != "Why?" {
		t.Error("history or message not forwarded")
	}
}

func TestChatReplyEmbedsReport(t *testing.T) {
	backend := &fakeChat{reply: "ok"}
	svc := NewChatService(backend, zap.NewNop())
	report, err := ParseReport(highRiskReport)
	if err != nil {
		t.Fatal(err)
	}

	svc.Reply(context.Background(), nil, "explain", report)

	for _, want := range []string{ChatPersona, "CURRENT ANALYSIS REPORT:", `"riskLevel": "High Risk"`, "Explain technical terms simply."} {
		if !strings.Contains(backend.instruction, want) {
			t.Errorf("instruction missing %q", want)
		}
	}
}

func TestChatReplyFallbacks(t *testing.T) {
	svc := NewChatService(&fakeChat{reply: "  "}, zap.NewNop())
	if got := svc.Reply(context.Background(), nil, "hi", nil); got != ChatEmptyReply {
		t.Errorf("empty reply = %q", got)
	}

	svc = NewChatService(&fakeChat{err: errors.New("boom")}, zap.NewNop())
	if got := svc.Reply(context.Background(), nil, "hi", nil); got != ChatErrorReply {
		t.Errorf("error reply = %q", got)
	}
}
