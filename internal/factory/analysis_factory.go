package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/config"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/utils"
	"github.com/mikey/securelens/internal/whitelist"
)

// AnalysisFactory assembles the analysis service from configuration
type AnalysisFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewAnalysisFactory creates a new analysis factory
func NewAnalysisFactory(cfg *config.Config, logger *zap.Logger) *AnalysisFactory {
	return &AnalysisFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateAnalysisService wires the backend with the optional pipeline stages. intel may be nil.
func (f *AnalysisFactory) CreateAnalysisService(
	backend core.AnalysisBackend,
	intel *core.DomainIntelService,
	textProcessor *utils.TextProcessor,
) *core.AnalysisService {
	analysisCfg := f.cfg.GetAnalysis()

	opts := []core.AnalysisOption{
		core.WithTextProcessor(textProcessor),
		core.WithMaxInputSize(analysisCfg.MaxInputSize),
		core.WithRateLimit(analysisCfg.RateLimit, analysisCfg.RateBurst),
	}
	if intel != nil {
		opts = append(opts, core.WithDomainIntel(intel))
	}
	if len(analysisCfg.TrustedDomains) > 0 {
		f.logger.Info("Loaded trusted domains", zap.Strings("domains", analysisCfg.TrustedDomains))
		opts = append(opts, core.WithTrustedDomains(whitelist.NewChecker(analysisCfg.TrustedDomains, f.logger)))
	}

	return core.NewAnalysisService(backend, f.logger, opts...)
}
