package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/adapters/cache"
	"github.com/mikey/securelens/internal/config"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/metrics"
)

// IntelFactory creates the domain intelligence service
type IntelFactory struct {
	cfg    *config.Config
	logger *zap.Logger
	gemini *GeminiFactory
}

// NewIntelFactory creates a new intel factory
func NewIntelFactory(cfg *config.Config, logger *zap.Logger, gemini *GeminiFactory) *IntelFactory {
	return &IntelFactory{
		cfg:    cfg,
		logger: logger,
		gemini: gemini,
	}
}

// CreateDomainIntelService returns nil when the deep URL scan is disabled or unavailable
func (f *IntelFactory) CreateDomainIntelService() (*core.DomainIntelService, error) {
	intelCfg, err := f.cfg.GetIntel()
	if err != nil {
		return nil, err
	}
	if !intelCfg.Enabled {
		f.logger.Info("Deep URL scan disabled")
		return nil, nil
	}
	if !f.gemini.Configured() {
		f.logger.Warn("Deep URL scan needs a Gemini API key, disabling it")
		return nil, nil
	}

	search, err := f.gemini.CreateSearchClient()
	if err != nil {
		return nil, err
	}

	return core.NewDomainIntelService(
		metrics.NewInstrumentedInvestigator(search, "gemini"),
		cache.NewIntelCache(intelCfg.CacheTTL, intelCfg.CleanupFrequency, f.logger),
		f.logger,
	), nil
}
