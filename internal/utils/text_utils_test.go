package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestTruncateBytesKeepsRunes(t *testing.T) {
	got := TruncateBytes("héllo", 2)
	if got != "h" {
		t.Errorf("TruncateBytes = %q, want %q", got, "h")
	}
	if TruncateBytes("abc", 0) != "abc" {
		t.Error("zero limit must disable truncation")
	}
}

func TestSnippet(t *testing.T) {
	long := strings.Repeat("a", 60)
	if got := Snippet(long, 50, "..."); got != strings.Repeat("a", 50)+"..." {
		t.Errorf("Snippet = %q", got)
	}
	if got := Snippet("short", 50, "..."); got != "short" {
		t.Errorf("Snippet = %q", got)
	}
	exact := strings.Repeat("é", 50)
	if got := Snippet(exact, 50, "..."); got != exact {
		t.Error("text of exactly n characters must not get a suffix")
	}
}

func TestProcessText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	got := tp.ProcessText("ok\xffthen", 0)
	if got != "okthen" {
		t.Errorf("ProcessText = %q, want okthen", got)
	}

	got = tp.ProcessText(strings.Repeat("x", 20), 10)
	if !strings.HasSuffix(got, TruncationNotice) || !utf8.ValidString(got) {
		t.Errorf("unexpected truncation result %q", got)
	}
}
