package core

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// IntelUnavailable is the summary of a degraded domain lookup
	IntelUnavailable = "Deep URL scan unavailable."

	// IntelCompleted is the summary used when the search returned no text
	IntelCompleted = "Domain analysis completed."
)

// DomainIntelService gathers web-grounded facts about the domain of a URL
type DomainIntelService struct {
	investigator DomainInvestigator
	cache        IntelCache
	logger       *zap.Logger
}

// NewDomainIntelService creates a new domain intelligence service. cache may be nil.
func NewDomainIntelService(investigator DomainInvestigator, cache IntelCache, logger *zap.Logger) *DomainIntelService {
	return &DomainIntelService{
		investigator: investigator,
		cache:        cache,
		logger:       logger,
	}
}

// Investigate never fails; any problem yields the degraded result
func (s *DomainIntelService) Investigate(ctx context.Context, rawURL string) *DomainIntel {
	host, err := Hostname(rawURL)
	if err != nil {
		s.logger.Warn("Deep URL scan failed", zap.String("url", rawURL), zap.Error(err))
		return degradedIntel()
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(host); ok {
			s.logger.Debug("Domain intel cache hit", zap.String("host", host))
			return cached
		}
	}

	answer, err := s.investigator.Search(ctx, DomainQueryPrompt(host))
	if err != nil {
		s.logger.Warn("Deep URL scan failed", zap.String("host", host), zap.Error(err))
		return degradedIntel()
	}

	refs := make([]ExternalReference, 0, len(answer.Citations))
	for _, c := range answer.Citations {
		if c.Title == "" || c.URI == "" {
			continue
		}
		refs = append(refs, c)
	}

	summary := strings.TrimSpace(answer.Text)
	if summary == "" {
		summary = IntelCompleted
	}

	intel := &DomainIntel{
		Summary:    summary,
		References: refs,
		CheckedAt:  time.Now(),
	}
	if s.cache != nil {
		s.cache.Set(host, intel)
	}

	s.logger.Info("Domain intel gathered",
		zap.String("host", host),
		zap.Int("references", len(refs)))

	return intel
}

func degradedIntel() *DomainIntel {
	return &DomainIntel{
		Summary:    IntelUnavailable,
		References: []ExternalReference{},
		CheckedAt:  time.Now(),
	}
}
