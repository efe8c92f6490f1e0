package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bond-terminal/analysis"
	"bond-terminal/client"
	appconfig "bond-terminal/config"
	"bond-terminal/internal/api"
	"bond-terminal/internal/app"
	"bond-terminal/market"
	"bond-terminal/observability"
	"bond-terminal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		observability.Info("no .env file found, using environment variables")
	}

	observability.InitLogger(os.Getenv("ENV") == "production")
	observability.InitMetrics()

	cfg, err := appconfig.Load()
	if err != nil {
		observability.Fatal("failed to load configuration", "error", err)
	}

	ctx := context.Background()

	// The generative backend credential is a fatal startup requirement.
	var llm services.LLMService
	switch cfg.LLM.Backend {
	case "bedrock":
		llm, err = services.NewBedrockService(ctx, cfg)
	default:
		llm, err = services.NewOpenAIService(cfg)
	}
	if err != nil {
		observability.Fatal("failed to initialize generative backend", "backend", cfg.LLM.Backend, "error", err)
	}

	gateway := analysis.New(llm, cfg)

	// The coordinator reaches the gateway the same way the dashboard
	// does: through the HTTP analysis client.
	provider := client.New(cfg.HTTP.GatewayBaseURL, time.Duration(cfg.Analysis.TimeoutSeconds)*time.Second)
	coordinator := market.New(provider, cfg)

	application := app.New(cfg, gateway, coordinator)
	handler := api.NewHandler(application, cfg)
	router := api.NewRouter(handler, cfg)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		observability.Info("server starting", "addr", cfg.HTTP.Addr, "site", cfg.Site.Title)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			observability.Fatal("server failed", "error", err)
		}
	}()

	// Start the session simulation once the server is accepting requests.
	coordinator.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	observability.Info("shutting down")

	coordinator.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		observability.Error("forced shutdown", "error", err)
	}

	observability.Info("server stopped")
}
