package mail

import "testing"

func TestParseSender(t *testing.T) {
	tests := []struct {
		in, name, addr string
	}{
		{`"Alice Smith" <alice@example.com>`, "Alice Smith", "alice@example.com"},
		{`Bob <bob@example.com>`, "Bob", "bob@example.com"},
		{`carol@example.com`, "carol@example.com", "carol@example.com"},
		{`<dave@example.com>`, "dave@example.com", "dave@example.com"},
		{``, "", ""},
	}
	for _, tt := range tests {
		name, addr := ParseSender(tt.in)
		if name != tt.name || addr != tt.addr {
			t.Errorf("ParseSender(%q) = %q, %q; want %q, %q", tt.in, name, addr, tt.name, tt.addr)
		}
	}
}

func TestFormatDate(t *testing.T) {
	if got := FormatDate("Mon, 02 Jan 2006 15:04:05 -0700"); got != "Jan 2" {
		t.Errorf("got %q", got)
	}
	if got := FormatDate("not a date"); got != "not a date" {
		t.Errorf("expected raw header, got %q", got)
	}
}

func TestLabelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLabel
	}{
		{0, LabelSafe},
		{35, LabelSafe},
		{36, LabelSuspicious},
		{75, LabelSuspicious},
		{76, LabelHighRisk},
		{100, LabelHighRisk},
	}
	for _, tt := range tests {
		if got := LabelForScore(tt.score); got != tt.want {
			t.Errorf("LabelForScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
	if (Email{}).DisplayLabel() != LabelPending {
		t.Error("unlabeled message should display as pending")
	}
}
