package whitelist

import (
	"testing"

	"go.uber.org/zap"
)

func TestIsTrusted(t *testing.T) {
	c := NewChecker([]string{" Example.com ", "bank.co.uk.", ""}, zap.NewNop())

	tests := []struct {
		host string
		want bool
	}{
		{"example.com", true},
		{"www.example.com", true},
		{"EXAMPLE.COM.", true},
		{"notexample.com", false},
		{"example.com.evil.net", false},
		{"online.bank.co.uk", true},
		{"bit.ly", false},
	}
	for _, tt := range tests {
		if got := c.IsTrusted(tt.host); got != tt.want {
			t.Errorf("IsTrusted(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestIsTrustedSender(t *testing.T) {
	c := NewChecker([]string{"gmail.com"}, nil)

	if !c.IsTrustedSender("m.jenkins1954@gmail.com") {
		t.Error("expected gmail sender to be trusted")
	}
	if c.IsTrustedSender("support@quick-billing-update.com") {
		t.Error("unexpected trust for unknown domain")
	}
	if c.IsTrustedSender("no-at-sign") || c.IsTrustedSender("trailing@") {
		t.Error("malformed addresses must not be trusted")
	}
}

func TestEmptyChecker(t *testing.T) {
	if NewChecker(nil, nil).IsTrusted("example.com") {
		t.Error("empty checker must trust nothing")
	}
}
