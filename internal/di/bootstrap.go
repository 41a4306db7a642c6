package di

import (
	"fmt"

	"github.com/myevertour/guide-server-go/internal/capture"
	"github.com/myevertour/guide-server-go/internal/config"
	"github.com/myevertour/guide-server-go/internal/domain/itinerary"
	"github.com/myevertour/guide-server-go/internal/gemini"
	"github.com/myevertour/guide-server-go/internal/guide"
	"github.com/myevertour/guide-server-go/internal/handler"
	"github.com/myevertour/guide-server-go/internal/logging"
	"github.com/myevertour/guide-server-go/internal/metrics"
	"github.com/myevertour/guide-server-go/internal/noisefilter"
	"github.com/myevertour/guide-server-go/internal/server"
	"github.com/myevertour/guide-server-go/internal/usecase/extraction"
)

// InitializeApp 은 애플리케이션 의존성을 초기화하고 App 인스턴스를 반환한다.
func InitializeApp() (*App, error) {
	cfg, err := config.ProvideConfig()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	metricsStore := metrics.NewStore()

	geminiClient, err := gemini.NewClient(cfg, metricsStore, logger)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	filter, err := noisefilter.New(cfg.Notes, logger)
	if err != nil {
		return nil, fmt.Errorf("noise filter: %w", err)
	}
	logger.Debug("noise_filter_loaded", "phrases", len(filter.Phrases()))

	prompts, err := itinerary.LoadPrompts()
	if err != nil {
		return nil, fmt.Errorf("extract prompts: %w", err)
	}

	normalizer := itinerary.NewNormalizer(filter)
	capturer := capture.NewChromeCapturer(cfg.Capture, logger)
	extractionService := extraction.NewService(
		capturer,
		geminiClient,
		normalizer,
		prompts,
		metricsStore,
		logger,
	)

	composer, err := guide.NewComposer()
	if err != nil {
		return nil, fmt.Errorf("guide composer: %w", err)
	}

	itineraryHandler := handler.NewItineraryHandler(cfg, extractionService, metricsStore, logger)
	guideHandler := handler.NewGuideHandler(composer, normalizer, logger)

	router := handler.NewRouter(cfg, logger, itineraryHandler, guideHandler)
	httpServer := server.NewHTTPServer(cfg, router)

	return &App{
		Server:  httpServer,
		Logger:  logger,
		Config:  cfg,
		Metrics: metricsStore,
	}, nil
}
