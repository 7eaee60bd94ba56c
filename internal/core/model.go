package core

import (
	"fmt"
	"time"
)

// RiskLevel is the categorical risk bucket reported by the analysis backend
type RiskLevel string

const (
	RiskSafe     RiskLevel = "Safe"
	RiskLow      RiskLevel = "Low Risk"
	RiskMedium   RiskLevel = "Medium Risk"
	RiskHigh     RiskLevel = "High Risk"
	RiskCritical RiskLevel = "Critical"
)

// RiskLevels lists every accepted risk level in ascending order
var RiskLevels = []RiskLevel{RiskSafe, RiskLow, RiskMedium, RiskHigh, RiskCritical}

// Valid reports whether the level is one of the known values
func (l RiskLevel) Valid() bool {
	for _, known := range RiskLevels {
		if l == known {
			return true
		}
	}
	return false
}

// Severity grades a single red flag
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Valid reports whether the severity is one of the known values
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// RedFlag is a single suspicious indicator found in the content
type RedFlag struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

// TechnicalDetails holds the per-aspect narrative of the analysis
type TechnicalDetails struct {
	DomainAnalysis  string `json:"domainAnalysis"`
	SSLAnalysis     string `json:"sslAnalysis,omitempty"`
	GrammarAnalysis string `json:"grammarAnalysis"`
	UrgencyAnalysis string `json:"urgencyAnalysis"`
	SenderAnalysis  string `json:"senderAnalysis"`
}

// ExternalReference is a web source cited by the domain intelligence step
type ExternalReference struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// AnalysisResult is the structured fraud report
type AnalysisResult struct {
	RiskScore          int                 `json:"riskScore"`
	RiskLevel          RiskLevel           `json:"riskLevel"`
	ConfidenceScore    int                 `json:"confidenceScore"`
	ScamType           string              `json:"scamType"`
	IsSafe             bool                `json:"isSafe"`
	Summary            string              `json:"summary"`
	RedFlags           []RedFlag           `json:"redFlags"`
	TechnicalDetails   TechnicalDetails    `json:"technicalDetails"`
	Recommendations    []string            `json:"recommendations"`
	ExternalReferences []ExternalReference `json:"externalReferences,omitempty"`
}

// DomainIntel is the outcome of a grounded search about a domain
type DomainIntel struct {
	Summary    string              `json:"summary"`
	References []ExternalReference `json:"references"`
	CheckedAt  time.Time           `json:"checkedAt"`
}

// GroundedAnswer is the raw reply of a search-grounded model call
type GroundedAnswer struct {
	Text      string
	Citations []ExternalReference
}

// Part is one ordered piece of an analysis request
type Part struct {
	Text string

	// Inline image payload, base64 encoded without a data URL prefix
	ImageData string
	MIMEType  string
}

// IsImage reports whether the part carries inline image data
func (p Part) IsImage() bool {
	return p.ImageData != ""
}

// AnalysisRequest is the payload handed to an analysis backend
type AnalysisRequest struct {
	SystemInstruction string
	Parts             []Part
}

// Role identifies the speaker of a chat turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatTurn is a single prior exchange handed to the chat backend
type ChatTurn struct {
	Role Role
	Text string
}

// String renders a short description used in log lines
func (r *AnalysisResult) String() string {
	return fmt.Sprintf("%s (%d/100, %s)", r.RiskLevel, r.RiskScore, r.ScamType)
}
