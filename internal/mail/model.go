package mail

import (
	"errors"
)

// RiskLabel is the coarse inbox label derived from a risk score
type RiskLabel string

const (
	LabelSafe       RiskLabel = "Safe"
	LabelSuspicious RiskLabel = "Suspicious"
	LabelHighRisk   RiskLabel = "High Risk"

	// LabelPending is shown for messages that were never labeled
	LabelPending RiskLabel = "Pending"
)

// LabelForScore maps a risk score onto an inbox label
func LabelForScore(score int) RiskLabel {
	switch {
	case score > 75:
		return LabelHighRisk
	case score > 35:
		return LabelSuspicious
	default:
		return LabelSafe
	}
}

// Email is a message as shown in the inbox
type Email struct {
	ID               string    `json:"id"`
	Sender           string    `json:"sender"`
	SenderEmail      string    `json:"senderEmail"`
	Subject          string    `json:"subject"`
	Body             string    `json:"body"`
	Date             string    `json:"date"`
	IsRead           bool      `json:"isRead"`
	InitialRiskLabel RiskLabel `json:"initialRiskLabel,omitempty"`
}

// DisplayLabel returns the label or Pending when none was assigned
func (e Email) DisplayLabel() RiskLabel {
	if e.InitialRiskLabel == "" {
		return LabelPending
	}
	return e.InitialRiskLabel
}

// Status is the inbox connection state
type Status string

const (
	StatusDisconnected        Status = "disconnected"
	StatusAuthorizing         Status = "authorizing"
	StatusAuthorizationFailed Status = "authorization_failed"
	StatusScanning            Status = "scanning"
	StatusConnected           Status = "connected"
)

// Mode selects the demo data set or a live mailbox
type Mode string

const (
	ModeDemo Mode = "demo"
	ModeLive Mode = "live"
)

// Inbox is a snapshot of the scanner state
type Inbox struct {
	Mode     Mode    `json:"mode"`
	Status   Status  `json:"status"`
	Progress int     `json:"progress"`
	Profile  string  `json:"profile,omitempty"`
	Messages []Email `json:"messages"`
	Error    string  `json:"error,omitempty"`
}

// TokenResult is the outcome of an authorization attempt
type TokenResult struct {
	Token string
	Err   error
}

const (
	// MessageAuthFailed is shown when the provider rejected the token
	MessageAuthFailed = "Authorization failed. Please reconnect."

	// MessageListFailed is shown when the message list could not be fetched
	MessageListFailed = "Failed to list messages."

	// MessageConsentFailed is shown when the consent step did not produce a token
	MessageConsentFailed = "Authorization failed. Please check your Client ID or Origin."

	// NoSubject replaces a missing subject header
	NoSubject = "(No Subject)"
)

var (
	// ErrUnauthorized is returned when the provider rejects the access token
	ErrUnauthorized = errors.New("mail provider rejected the access token")

	// ErrMissingClientID is returned when live mode has no OAuth client id
	ErrMissingClientID = errors.New("oauth client id is not configured")

	// ErrInvalidState is returned when an OAuth callback does not match the pending request
	ErrInvalidState = errors.New("oauth state mismatch")

	// ErrScanInProgress is returned when a scan is already running
	ErrScanInProgress = errors.New("inbox scan already in progress")

	// ErrScanAbandoned is returned when the inbox was disconnected while a scan was running
	ErrScanAbandoned = errors.New("inbox disconnected during scan")

	// ErrMessageNotFound is returned for unknown message ids
	ErrMessageNotFound = errors.New("message not found")

	// ErrNotDemoMode is returned when a demo-only operation is used in live mode
	ErrNotDemoMode = errors.New("inbox is not in demo mode")
)
