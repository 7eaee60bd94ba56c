package core

import (
	"encoding/json"
	"fmt"
)

// SystemInstruction frames every analysis request
const SystemInstruction = `
You are SecureLens, a world-class cybersecurity and fraud detection expert.
Your goal is to analyze user-provided content (emails, SMS, URLs, transcripts) and determine if it is a scam or fraudulent.

Analyze the content for:
1. Urgency tactics ("Act now", "Limited time").
2. Suspicious URLs (shorteners, lookalikes).
3. Requests for PII (SSN, banking).
4. Grammar/Spelling errors.
5. Impersonation of known brands.
6. Too-good-to-be-true offers.
7. Emotional manipulation.
8. Payment requests (crypto, gift cards).

If a scam is detected, classify it into the MOST SPECIFIC category possible from this list:
- Financial & Impersonation (Fake Invoice, Tech Support, CEO Fraud, Government Impersonation)
- Investment & Opportunity (Crypto Scam, Pig Butchering, Job Scam, Lottery, Advanced Fee)
- Personal & Delivery (Package Delivery, Romance Scam, Extortion)
- General (Phishing, Smishing)

You must return the analysis in a strict JSON format.
If the content appears safe, the riskScore should be low (<10) and scamType should be "None".
If the content is ambiguous but suspicious, use a medium score (30-60).
If it is a known scam pattern, use a high score (70+).
`

// ReportFormatInstruction spells out the JSON contract for backends without schema enforcement
const ReportFormatInstruction = `
Respond with a single JSON object and nothing else, using exactly these fields:
{
  "riskScore": number 0-100 where 100 is certain fraud,
  "riskLevel": one of "Safe", "Low Risk", "Medium Risk", "High Risk", "Critical",
  "confidenceScore": number 0-100,
  "scamType": string ("None" when safe),
  "isSafe": boolean,
  "summary": plain language summary of the findings,
  "redFlags": [{"title": string, "description": string, "severity": one of "low", "medium", "high"}],
  "technicalDetails": {"domainAnalysis": string, "sslAnalysis": string, "grammarAnalysis": string, "urgencyAnalysis": string, "senderAnalysis": string},
  "recommendations": [string]
}
`

// ImageInstruction follows an inline image part
const ImageInstruction = "Analyze this image containing a potential scam message. If it contains text, OCR and analyze it."

// ChatPersona is the base system instruction of the assistant
const ChatPersona = "You are SecureLens AI, a helpful cybersecurity assistant."

// SpeechPrefix is prepended to every text sent for synthesis
const SpeechPrefix = "Security Analysis Summary: "

// TextPrompt wraps the submitted text
func TextPrompt(text string) string {
	return "Analyze this text for fraud/scam indicators: \n\"" + text + "\""
}

// DomainContextPrompt carries the domain intelligence summary into the request
func DomainContextPrompt(summary string) string {
	return "\n\n[CONTEXT FROM URL ANALYSIS TOOL]:\nThe following real-time data was gathered about the domain in the text:\n" +
		summary + "\n\nUse this context to inform your risk score and technical details."
}

// DomainQueryPrompt asks a search-grounded model about a domain
func DomainQueryPrompt(domain string) string {
	return fmt.Sprintf(`Perform a security check on the domain: %s.
Use Google Search to find:
1. Domain creation date / Age.
2. WHOIS registrar information.
3. SSL/TLS Certificate details (validity, issuer).
4. Reports of phishing/scam.
5. Verification if it is the official site for a known brand.

Return a concise summary of these findings.`, domain)
}

// ChatInstruction builds the chat system instruction, embedding the report when present
func ChatInstruction(report *AnalysisResult) string {
	if report == nil {
		return ChatPersona
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return ChatPersona
	}
	return ChatPersona + "\n\nCURRENT ANALYSIS REPORT:\n" + string(data) +
		"\n\nAnswer questions based on this report. Explain technical terms simply."
}

// SummaryText renders the sentence read aloud for a report
func SummaryText(result *AnalysisResult) string {
	return fmt.Sprintf("Security Analysis Result: %s. %s. Detected Scam Type: %s.",
		result.RiskLevel, result.Summary, result.ScamType)
}
