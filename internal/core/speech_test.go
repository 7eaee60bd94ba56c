package core

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestSynthesizeReport(t *testing.T) {
	synth := &fakeSynth{audio: "AAAA"}
	svc := NewSpeechService(synth, zap.NewNop())
	result := &AnalysisResult{RiskLevel: RiskHigh, Summary: "Looks like phishing", ScamType: "Phishing"}

	audio, ok := svc.SynthesizeReport(context.Background(), result)
	if !ok || audio != "AAAA" {
		t.Fatalf("SynthesizeReport = (%q, %v)", audio, ok)
	}

	want := "Security Analysis Summary: Security Analysis Result: High Risk. Looks like phishing. Detected Scam Type: Phishing."
	if synth.text != want {
		t.Errorf("text = %q, want %q", synth.text, want)
	}
}

func TestSynthesizeFailure(t *testing.T) {
	for _, synth := range []*fakeSynth{{err: errors.New("tts down")}, {audio: ""}} {
		if _, ok := NewSpeechService(synth, zap.NewNop()).Synthesize(context.Background(), "x"); ok {
			t.Error("expected synthesis to report failure")
		}
	}
}
