package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"bizops-backend/internal/analysis"
	"bizops-backend/internal/insights"
	"bizops-backend/internal/llm"
	"bizops-backend/internal/llm/gemini"
	"bizops-backend/internal/llm/openai"
	"bizops-backend/internal/sentiment"
	"bizops-backend/internal/services/health"
	"bizops-backend/internal/shared/config"
	"bizops-backend/internal/shared/server"
	"bizops-backend/internal/shared/server/middleware"
	"bizops-backend/internal/shared/storage/db"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Completer       llm.Completer
	InsightsRepo    insights.Repo
	InsightsService *insights.Service
	AnalysisService *analysis.Service
	AnalysisHandler *analysis.Handler
	InsightsHandler *insights.Handler
	Health          *health.Service
}

// Build prepares dependencies and the router. Dev-like environments fall
// back to in-memory storage when the database is missing or unreachable.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	completer, err := BuildCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Completer: completer,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		InsightsHandler: app.InsightsHandler,
		Health:          app.Health,
		Limiter:         middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// BuildCompleter selects the completion client for cfg.LLMProvider and wraps
// it with instrumentation.
func BuildCompleter(ctx context.Context, cfg config.Config) (llm.Completer, error) {
	llmCfg := cfg.LLMConfig()
	var next llm.Completer
	switch cfg.LLMProvider {
	case llm.ProviderOpenAI:
		client, err := openai.NewClient(llmCfg)
		if err != nil {
			return nil, fmt.Errorf("openai client: %w", err)
		}
		next = client
	case llm.ProviderGemini:
		client, err := gemini.NewClient(ctx, llmCfg)
		if err != nil {
			return nil, err
		}
		next = client
	default:
		log.Printf("bootstrap: LLM provider %q; analyses will return defaults", cfg.LLMProvider)
		next = llm.Disabled{}
	}
	return llm.Instrumented{Next: next, Provider: cfg.LLMProvider, Model: cfg.LLMModel}, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory insight store")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
			err = fmt.Errorf("run migrations: %w", err)
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database unavailable; using in-memory insight store: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildServices(app *App) {
	var repo insights.Repo
	if app.DB != nil {
		repo = &insights.PGRepo{DB: app.DB}
	} else {
		repo = insights.NewMemoryRepo()
	}
	insightSvc := insights.NewService(repo)

	analysisSvc := analysis.NewService(app.Completer, sentiment.New(), analysis.Options{
		HourlyRate: app.Config.HourlyRate,
	})

	app.InsightsRepo = repo
	app.InsightsService = insightSvc
	app.AnalysisService = analysisSvc
	app.AnalysisHandler = analysis.NewHandler(analysisSvc, insightSvc, app.Config.AnalysisTimeout)
	app.InsightsHandler = insights.NewHandler(insightSvc)
	app.Health = health.NewService(app.DB, app.Config.LLMProvider)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
