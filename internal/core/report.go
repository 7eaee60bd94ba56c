package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// reportResponse mirrors the backend schema. Numbers are float64 because the
// schema declares them as NUMBER.
type reportResponse struct {
	RiskScore        *float64         `json:"riskScore"`
	RiskLevel        string           `json:"riskLevel"`
	ConfidenceScore  float64          `json:"confidenceScore"`
	ScamType         string           `json:"scamType"`
	IsSafe           bool             `json:"isSafe"`
	Summary          string           `json:"summary"`
	RedFlags         []RedFlag        `json:"redFlags"`
	TechnicalDetails TechnicalDetails `json:"technicalDetails"`
	Recommendations  []string         `json:"recommendations"`
}

// ParseReport decodes the raw backend reply into an AnalysisResult. Text
// around the outermost JSON object is tolerated.
func ParseReport(raw string) (*AnalysisResult, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	var resp reportResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: no JSON object in response: %v", ErrMalformedReport, err)
		}
		resp = reportResponse{}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &resp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
		}
	}

	if resp.RiskScore == nil {
		return nil, fmt.Errorf("%w: missing riskScore", ErrMalformedReport)
	}
	level := RiskLevel(resp.RiskLevel)
	if !level.Valid() {
		return nil, fmt.Errorf("%w: unknown riskLevel %q", ErrMalformedReport, resp.RiskLevel)
	}

	flags := make([]RedFlag, 0, len(resp.RedFlags))
	for i, f := range resp.RedFlags {
		if !f.Severity.Valid() {
			return nil, fmt.Errorf("%w: red flag %d has unknown severity %q", ErrMalformedReport, i, f.Severity)
		}
		flags = append(flags, f)
	}

	recommendations := resp.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}

	scamType := resp.ScamType
	if scamType == "" {
		scamType = "None"
	}

	return &AnalysisResult{
		RiskScore:        clampScore(*resp.RiskScore),
		RiskLevel:        level,
		ConfidenceScore:  clampScore(resp.ConfidenceScore),
		ScamType:         scamType,
		IsSafe:           resp.IsSafe,
		Summary:          resp.Summary,
		RedFlags:         flags,
		TechnicalDetails: resp.TechnicalDetails,
		Recommendations:  recommendations,
	}, nil
}

func clampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

// expectedLevel maps a score onto the band described in the system instruction
func expectedLevel(score int) RiskLevel {
	switch {
	case score < 10:
		return RiskSafe
	case score < 30:
		return RiskLow
	case score < 70:
		return RiskMedium
	case score < 90:
		return RiskHigh
	default:
		return RiskCritical
	}
}
