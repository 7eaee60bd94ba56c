package factory

import (
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/config"
	"github.com/mikey/securelens/internal/utils"
)

// TextProcessorFactory creates the processor that bounds submitted text
type TextProcessorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTextProcessorFactory creates a new TextProcessorFactory
func NewTextProcessorFactory(cfg *config.Config, logger *zap.Logger) *TextProcessorFactory {
	return &TextProcessorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTextProcessor creates a processor logging under the analysis input limit
func (f *TextProcessorFactory) CreateTextProcessor() *utils.TextProcessor {
	limit := f.cfg.GetAnalysis().MaxInputSize
	if limit <= 0 {
		f.logger.Info("Submitted text is not size limited")
	} else {
		f.logger.Debug("Submitted text limit", zap.Int("max_bytes", limit))
	}
	return utils.NewTextProcessor(f.logger.Named("text"))
}
