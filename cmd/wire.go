package cmd

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/chat-distiller/internal/adapters/fetch/browser"
	"github.com/bnema/chat-distiller/internal/adapters/fetch/httpfetch"
	"github.com/bnema/chat-distiller/internal/adapters/render/summary"
	"github.com/bnema/chat-distiller/internal/adapters/repo/chatdir"
	"github.com/bnema/chat-distiller/internal/application"
	"github.com/bnema/chat-distiller/internal/config"
	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/logging"
	"github.com/bnema/chat-distiller/internal/ports"
)

type app struct {
	service         *application.Service
	browserService  *application.Service
	logger          *zap.Logger
	logLevel        zap.AtomicLevel
	distillRenderer func(summary.Distill, summary.RenderOptions) (string, error)
	chatsRenderer   func([]domain.ChatRecord, summary.RenderOptions) (string, error)
	now             func() time.Time
}

func wireApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.GetString(config.KeyLogLevel))
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	settings, err := config.FetchSettings(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire fetch settings: %w", err)
	}

	repo, err := chatdir.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire chat repository: %w", err)
	}

	clock := ports.SystemClock{}
	httpFetcher := httpfetch.New(httpfetch.Options{
		Timeout:     settings.Timeout,
		MaxAttempts: settings.MaxAttempts,
		UserAgent:   settings.UserAgent,
		Logger:      logger.Named("httpfetch"),
	})
	browserFetcher := browser.New(browser.Options{
		ControlURL: settings.BrowserControlURL,
		Timeout:    settings.Timeout,
		Logger:     logger.Named("browser"),
	})

	browserService := application.NewService(browserFetcher, repo, clock, logger)
	service := browserService
	if !settings.Browser {
		service = application.NewService(httpFetcher, repo, clock, logger)
	}

	return &app{
		service:         service,
		browserService:  browserService,
		logger:          logger,
		logLevel:        level,
		distillRenderer: summary.RenderDistill,
		chatsRenderer:   summary.RenderChats,
		now:             time.Now,
	}, nil
}

// serviceFor returns the service fetching through a headless browser when
// useBrowser is set, and the configured one otherwise.
func (a *app) serviceFor(useBrowser bool) *application.Service {
	if useBrowser {
		return a.browserService
	}
	return a.service
}
