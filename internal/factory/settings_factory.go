package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/adapters/settings"
	"github.com/mikey/securelens/internal/config"
	"github.com/mikey/securelens/internal/core"
)

// SettingsFactory creates settings repositories based on configuration
type SettingsFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSettingsFactory creates a new settings factory
func NewSettingsFactory(cfg *config.Config, logger *zap.Logger) *SettingsFactory {
	return &SettingsFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSettingsRepository creates a settings repository based on the configuration
func (f *SettingsFactory) CreateSettingsRepository() (core.SettingsRepository, error) {
	storeType := f.cfg.GetString("settings.type")

	switch storeType {
	case "memory":
		return settings.NewMemoryStore(f.logger), nil
	case "sqlite":
		sqlitePath := f.cfg.GetString("settings.sqlite_path")
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(sqlitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return settings.NewSQLiteStore(sqlitePath, f.logger)
	case "mysql":
		return settings.NewMySQLStore(f.cfg.GetString("settings.mysql_dsn"), f.logger)
	default:
		return nil, fmt.Errorf("unsupported settings type: %s", storeType)
	}
}
