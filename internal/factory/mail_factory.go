package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/config"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/mail"
	"github.com/mikey/securelens/internal/ports"
)

// MailFactory creates the inbox scanner and its intake
type MailFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewMailFactory creates a new mail factory
func NewMailFactory(cfg *config.Config, logger *zap.Logger) *MailFactory {
	return &MailFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClientIDStore creates the OAuth client id store
func (f *MailFactory) CreateClientIDStore(repo core.SettingsRepository) *mail.ClientIDStore {
	return mail.NewClientIDStore(repo, f.cfg.GetString("mail.client_id"), f.logger)
}

// CreateScanner creates the inbox scanner for the configured mode
func (f *MailFactory) CreateScanner(analyzer mail.Analyzer, clientIDs *mail.ClientIDStore) (*mail.Scanner, error) {
	mailCfg, err := f.cfg.GetMail()
	if err != nil {
		return nil, err
	}

	mode := mail.Mode(mailCfg.Mode)
	if mode != mail.ModeDemo && mode != mail.ModeLive {
		return nil, fmt.Errorf("unsupported mail mode: %s", mailCfg.Mode)
	}

	return mail.NewScanner(
		mail.ScannerConfig{
			Mode:           mode,
			MaxResults:     mailCfg.MaxResults,
			LabelCount:     mailCfg.LabelCount,
			LabelBodyChars: mailCfg.LabelBodyChars,
			DemoTick:       mailCfg.DemoTick,
		},
		mail.NewGmailProvider("", f.logger),
		mail.NewAuthorizer(clientIDs, mailCfg.ClientSecret, mailCfg.RedirectURL),
		analyzer,
		f.logger,
	), nil
}

// CreateMailIntake returns nil when the SMTP intake is disabled
func (f *MailFactory) CreateMailIntake(scanner *mail.Scanner) ports.MailIntake {
	intakeCfg := f.cfg.GetIntake()
	if !intakeCfg.Enabled {
		return nil
	}
	return mail.NewIntake(scanner, mail.IntakeConfig{
		ListenAddress:   intakeCfg.ListenAddress,
		Domain:          intakeCfg.Domain,
		MaxMessageBytes: intakeCfg.MaxMessageBytes,
		TrustedDomains:  f.cfg.GetAnalysis().TrustedDomains,
	}, f.logger)
}
