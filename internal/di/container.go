package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/securelens/internal/audio"
	"github.com/mikey/securelens/internal/config"
	"github.com/mikey/securelens/internal/core"
	"github.com/mikey/securelens/internal/factory"
	"github.com/mikey/securelens/internal/httpserver"
	"github.com/mikey/securelens/internal/logging"
	"github.com/mikey/securelens/internal/mail"
	"github.com/mikey/securelens/internal/ports"
	"github.com/mikey/securelens/internal/session"
	"github.com/mikey/securelens/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideServices(container); err != nil {
		return nil, err
	}

	// Register session controller
	if err := container.Provide(func(
		analysis *core.AnalysisService,
		chat *core.ChatService,
		logger *zap.Logger,
	) *session.Controller {
		return session.NewController(analysis, chat, logger)
	}); err != nil {
		return nil, err
	}

	// Register settings repository
	if err := container.Provide(func(f *factory.SettingsFactory) (core.SettingsRepository, error) {
		return f.CreateSettingsRepository()
	}); err != nil {
		return nil, err
	}

	// Register inbox scanner and intake
	if err := container.Provide(factory.NewMailFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.MailFactory, repo core.SettingsRepository) *mail.ClientIDStore {
		return f.CreateClientIDStore(repo)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(
		f *factory.MailFactory,
		analysis *core.AnalysisService,
		clientIDs *mail.ClientIDStore,
	) (*mail.Scanner, error) {
		return f.CreateScanner(analysis, clientIDs)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.MailFactory, scanner *mail.Scanner) ports.MailIntake {
		return f.CreateMailIntake(scanner)
	}); err != nil {
		return nil, err
	}

	// Register audio player
	if err := container.Provide(func(f *factory.SpeechFactory) *audio.Player {
		return f.CreatePlayer()
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(func(cfg *config.Config) (config.ServerConfig, error) {
		return cfg.GetServer()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(httpserver.NewRouter); err != nil {
		return nil, err
	}
	if err := container.Provide(httpserver.NewServer); err != nil {
		return nil, err
	}

	return container, nil
}

// provideServices registers the factories and core services shared by the server and the CLI
func provideServices(container *dig.Container) error {
	// Register factories
	for _, constructor := range []interface{}{
		factory.NewGeminiFactory,
		factory.NewOpenAIFactory,
		factory.NewBedrockFactory,
		factory.NewLLMFactory,
		factory.NewSpeechFactory,
		factory.NewIntelFactory,
		factory.NewSettingsFactory,
		factory.NewTextProcessorFactory,
		factory.NewAnalysisFactory,
	} {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Register LLM backends
	if err := container.Provide(func(f *factory.LLMFactory) (core.AnalysisBackend, error) {
		return f.CreateAnalysisBackend()
	}); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.LLMFactory) (core.ChatBackend, error) {
		return f.CreateChatBackend()
	}); err != nil {
		return err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return err
	}

	// Register domain intelligence, nil when disabled
	if err := container.Provide(func(f *factory.IntelFactory) (*core.DomainIntelService, error) {
		return f.CreateDomainIntelService()
	}); err != nil {
		return err
	}

	// Register analysis, chat and speech services
	if err := container.Provide(func(
		f *factory.AnalysisFactory,
		backend core.AnalysisBackend,
		intel *core.DomainIntelService,
		textProcessor *utils.TextProcessor,
	) *core.AnalysisService {
		return f.CreateAnalysisService(backend, intel, textProcessor)
	}); err != nil {
		return err
	}
	if err := container.Provide(core.NewChatService); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.SpeechFactory) (*core.SpeechService, error) {
		return f.CreateSpeechService()
	}); err != nil {
		return err
	}

	return nil
}
