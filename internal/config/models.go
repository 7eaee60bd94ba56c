package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider       string
	SpeechProvider string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	SearchModel string
	TTSModel    string
	TTSVoice    string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	TTSModel    string
	TTSVoice    string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// AnalysisConfig holds the analysis pipeline settings
type AnalysisConfig struct {
	TrustedDomains []string
	RateLimit      float64
	RateBurst      int
	MaxInputSize   int
}

// IntelConfig holds the domain intelligence settings
type IntelConfig struct {
	Enabled          bool
	CacheTTL         time.Duration
	CleanupFrequency time.Duration
}

// MailConfig holds the inbox scanner settings
type MailConfig struct {
	Mode           string
	ClientID       string
	ClientSecret   string
	RedirectURL    string
	MaxResults     int
	LabelCount     int
	LabelBodyChars int
	DemoTick       time.Duration
}

// IntakeConfig holds the SMTP intake settings
type IntakeConfig struct {
	Enabled         bool
	ListenAddress   string
	Domain          string
	MaxMessageBytes int64
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	ListenAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider:       c.GetString("llm.provider"),
		SpeechProvider: c.GetString("speech.provider"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		SearchModel: c.GetString("gemini.search_model"),
		TTSModel:    c.GetString("gemini.tts_model"),
		TTSVoice:    c.GetString("gemini.tts_voice"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		TTSModel:    c.GetString("openai.tts_model"),
		TTSVoice:    c.GetString("openai.tts_voice"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetAnalysis returns the analysis configuration
func (c *Config) GetAnalysis() AnalysisConfig {
	return AnalysisConfig{
		TrustedDomains: c.GetStringSlice("analysis.trusted_domains"),
		RateLimit:      c.GetFloat64("analysis.rate_limit"),
		RateBurst:      c.GetInt("analysis.rate_burst"),
		MaxInputSize:   c.GetInt("analysis.max_input_size"),
	}
}

// GetIntel returns the domain intelligence configuration
func (c *Config) GetIntel() (IntelConfig, error) {
	ttl, err := c.GetDuration("intel.cache_ttl")
	if err != nil {
		return IntelConfig{}, fmt.Errorf("invalid intel cache ttl: %w", err)
	}
	cleanup, err := c.GetDuration("intel.cleanup_frequency")
	if err != nil {
		return IntelConfig{}, fmt.Errorf("invalid intel cleanup frequency: %w", err)
	}
	return IntelConfig{
		Enabled:          c.GetBool("intel.enabled"),
		CacheTTL:         ttl,
		CleanupFrequency: cleanup,
	}, nil
}

// GetMail returns the inbox scanner configuration
func (c *Config) GetMail() (MailConfig, error) {
	tick, err := c.GetDuration("mail.demo_tick")
	if err != nil {
		return MailConfig{}, fmt.Errorf("invalid mail demo tick: %w", err)
	}
	return MailConfig{
		Mode:           c.GetString("mail.mode"),
		ClientID:       c.GetString("mail.client_id"),
		ClientSecret:   c.GetString("mail.client_secret"),
		RedirectURL:    c.GetString("mail.redirect_url"),
		MaxResults:     c.GetInt("mail.max_results"),
		LabelCount:     c.GetInt("mail.label_count"),
		LabelBodyChars: c.GetInt("mail.label_body_chars"),
		DemoTick:       tick,
	}, nil
}

// GetIntake returns the SMTP intake configuration
func (c *Config) GetIntake() IntakeConfig {
	return IntakeConfig{
		Enabled:         c.GetBool("intake.enabled"),
		ListenAddress:   c.GetString("intake.listen_address"),
		Domain:          c.GetString("intake.domain"),
		MaxMessageBytes: int64(c.GetInt("intake.max_message_bytes")),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	read, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server read timeout: %w", err)
	}
	write, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server write timeout: %w", err)
	}
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		ReadTimeout:   read,
		WriteTimeout:  write,
	}, nil
}
