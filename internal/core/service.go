package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/securelens/internal/utils"
	"github.com/mikey/securelens/internal/whitelist"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AnalysisService is the core service for fraud analysis
type AnalysisService struct {
	backend      AnalysisBackend
	intel        *DomainIntelService
	trusted      *whitelist.Checker
	limiter      *rate.Limiter
	text         *utils.TextProcessor
	maxInputSize int
	logger       *zap.Logger
}

// AnalysisOption configures optional parts of the AnalysisService
type AnalysisOption func(*AnalysisService)

// WithDomainIntel enables the deep URL scan
func WithDomainIntel(intel *DomainIntelService) AnalysisOption {
	return func(s *AnalysisService) { s.intel = intel }
}

// WithTrustedDomains skips the deep URL scan for hosts accepted by checker
func WithTrustedDomains(checker *whitelist.Checker) AnalysisOption {
	return func(s *AnalysisService) { s.trusted = checker }
}

// WithRateLimit gates backend calls. A non-positive limit disables it.
func WithRateLimit(perSecond float64, burst int) AnalysisOption {
	return func(s *AnalysisService) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithMaxInputSize bounds the submitted text in bytes
func WithMaxInputSize(n int) AnalysisOption {
	return func(s *AnalysisService) { s.maxInputSize = n }
}

// WithTextProcessor replaces the default text processor
func WithTextProcessor(tp *utils.TextProcessor) AnalysisOption {
	return func(s *AnalysisService) { s.text = tp }
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(backend AnalysisBackend, logger *zap.Logger, opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{
		backend: backend,
		text:    utils.NewTextProcessor(logger),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze produces a fraud report for the submitted text and/or image.
// imageBase64 may be a data URL or bare base64.
func (s *AnalysisService) Analyze(ctx context.Context, text, imageBase64 string) (*AnalysisResult, error) {
	hasText := strings.TrimSpace(text) != ""
	hasImage := strings.TrimSpace(imageBase64) != ""
	if !hasText && !hasImage {
		return nil, ErrNoContent
	}

	if hasText {
		text = s.text.ProcessText(text, s.maxInputSize)
	}

	var intel *DomainIntel
	if hasText && s.intel != nil {
		if u, ok := ExtractURL(text); ok {
			if s.isTrusted(u) {
				s.logger.Info("Skipping deep URL scan for trusted domain",
					zap.String("url", u),
					zap.String("action", "trusted_bypass"))
			} else {
				intel = s.intel.Investigate(ctx, u)
			}
		}
	}

	req := &AnalysisRequest{
		SystemInstruction: SystemInstruction,
		Parts:             buildParts(text, imageBase64, hasText, hasImage, intel),
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("analysis rate limit: %w", err)
		}
	}

	start := time.Now()
	raw, err := s.backend.GenerateReport(ctx, req)
	if err != nil {
		s.logger.Error("Analysis failed", zap.Error(err))
		return nil, fmt.Errorf("analysis backend: %w", err)
	}

	result, err := ParseReport(raw)
	if err != nil {
		s.logger.Error("Analysis failed", zap.Error(err))
		return nil, err
	}

	if intel != nil && len(intel.References) > 0 {
		result.ExternalReferences = intel.References
	}

	if want := expectedLevel(result.RiskScore); want != result.RiskLevel {
		s.logger.Debug("Risk level does not match score band",
			zap.Int("score", result.RiskScore),
			zap.String("level", string(result.RiskLevel)),
			zap.String("band", string(want)))
	}

	s.logger.Info("Analysis completed",
		zap.String("risk_level", string(result.RiskLevel)),
		zap.Int("risk_score", result.RiskScore),
		zap.String("scam_type", result.ScamType),
		zap.Int("red_flags", len(result.RedFlags)),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

func (s *AnalysisService) isTrusted(rawURL string) bool {
	if s.trusted == nil {
		return false
	}
	host, err := Hostname(rawURL)
	if err != nil {
		return false
	}
	return s.trusted.IsTrusted(host)
}

// buildParts orders the request: image, text, then domain context
func buildParts(text, imageBase64 string, hasText, hasImage bool, intel *DomainIntel) []Part {
	parts := make([]Part, 0, 4)
	if hasImage {
		data, mimeType := NormalizeImage(imageBase64)
		parts = append(parts,
			Part{ImageData: data, MIMEType: mimeType},
			Part{Text: ImageInstruction},
		)
	}
	if hasText {
		parts = append(parts, Part{Text: TextPrompt(text)})
	}
	if intel != nil && intel.Summary != "" {
		parts = append(parts, Part{Text: DomainContextPrompt(intel.Summary)})
	}
	return parts
}
