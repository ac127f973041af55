package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kwhsu/riskprofiler/internal/adapters/classifier"
	httpadapter "github.com/kwhsu/riskprofiler/internal/adapters/http"
	"github.com/kwhsu/riskprofiler/internal/adapters/llm"
	memstore "github.com/kwhsu/riskprofiler/internal/adapters/storage/memory"
	"github.com/kwhsu/riskprofiler/internal/app/analysis"
	"github.com/kwhsu/riskprofiler/internal/app/survey"
	"github.com/kwhsu/riskprofiler/internal/config"
	"github.com/kwhsu/riskprofiler/internal/domain"
	"github.com/kwhsu/riskprofiler/internal/observability"
)

func main() {
	var (
		configPath string
		port       string
	)

	rootCmd := &cobra.Command{
		Use:           "riskprofiler-api",
		Short:         "Adaptive investor-profiling questionnaire API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			return run(cmd.Context(), cfg)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides config)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		observability.Logger().Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log := observability.Logger()

	// Generator availability is decided once, here: mock for development,
	// Gemini when a key exists, otherwise the unavailable generator whose
	// fallback path the engine takes as a regular branch.
	var gen domain.TextGenerator
	switch {
	case cfg.Generator.UseMock:
		log.Info("using mock text generator")
		gen = llm.NewMockGenerator()
	case cfg.Generator.APIKey != "":
		log.Info("using gemini text generator", "model", cfg.Generator.ModelName)
		g, err := llm.NewGeminiClient(ctx, cfg.Generator.APIKey, cfg.Generator.ModelName)
		if err != nil {
			return err
		}
		gen = g
	default:
		log.Warn("no generator credential set, canonical fallback content will be used")
		gen = llm.NewUnavailableGenerator()
	}

	timeout := time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second
	sentiment := classifier.NewHTTPClassifier(cfg.Classifier.URL, cfg.Classifier.Token, timeout)
	secondary := classifier.NewHTTPClassifier(cfg.Classifier.SecondaryURL, cfg.Classifier.Token, timeout)

	if !sentiment.Available() {
		log.Warn("no sentiment classifier configured, answers score zero")
	}

	store := memstore.NewSessionStore(cfg.Survey.TotalQuestions)
	analyzer := analysis.NewAnalyzer(sentiment, secondary, cfg.Survey.ContextAnalysis)

	engine := survey.NewEngine(store, gen, analyzer, survey.Config{
		TotalQuestions:      cfg.Survey.TotalQuestions,
		StreamDelay:         cfg.StreamDelay(),
		QuestionTemperature: cfg.Generator.QuestionTemperature,
		QuestionMaxTokens:   cfg.Generator.QuestionMaxTokens,
		AdviceTemperature:   cfg.Generator.AdviceTemperature,
		AdviceMaxTokens:     cfg.Generator.AdviceMaxTokens,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: httpadapter.NewServer(engine, cfg.Generator.ModelName),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("riskprofiler API listening", "port", cfg.Port, "total_questions", cfg.Survey.TotalQuestions)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
