package gemini

import "github.com/google/generative-ai-go/genai"

var riskLevelEnum = []string{"Safe", "Low Risk", "Medium Risk", "High Risk", "Critical"}

// reportSchema is the structured output contract for analysis reports
func reportSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"riskScore":       {Type: genai.TypeNumber, Description: "0-100 score where 100 is certain fraud"},
			"riskLevel":       {Type: genai.TypeString, Enum: riskLevelEnum},
			"confidenceScore": {Type: genai.TypeNumber, Description: "Confidence in the assessment 0-100"},
			"scamType":        str(),
			"isSafe":          {Type: genai.TypeBoolean},
			"summary":         {Type: genai.TypeString, Description: "A plain language summary of the findings"},
			"redFlags": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":       str(),
						"description": str(),
						"severity":    {Type: genai.TypeString, Enum: []string{"low", "medium", "high"}},
					},
				},
			},
			"technicalDetails": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"domainAnalysis":  str(),
					"sslAnalysis":     str(),
					"grammarAnalysis": str(),
					"urgencyAnalysis": str(),
					"senderAnalysis":  str(),
				},
			},
			"recommendations": {
				Type:  genai.TypeArray,
				Items: str(),
			},
		},
		Required: []string{"riskScore", "riskLevel", "confidenceScore", "scamType", "isSafe", "summary", "redFlags", "technicalDetails", "recommendations"},
	}
}
