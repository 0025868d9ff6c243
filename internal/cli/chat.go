package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/harun/stargent/internal/config"
	"github.com/harun/stargent/internal/logger"
	"github.com/harun/stargent/pkg/agent"
	"github.com/harun/stargent/pkg/llm"
	"github.com/harun/stargent/pkg/orchestrator"
	"github.com/harun/stargent/pkg/planner"
	"github.com/harun/stargent/pkg/prompt"
	"github.com/harun/stargent/pkg/session"
	"github.com/harun/stargent/pkg/tools"
	"github.com/harun/stargent/pkg/tools/market"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the agents one question",
	Long: `Send one message through the engine: the manager plans the request
into agent steps, each agent runs with its tools, and the merged answer is
printed. Conversation state persists per session key.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "default", "session key for conversation continuity")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// A missing .env is fine; the environment may carry the key already
	_ = godotenv.Load()

	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return err
	}
	defer lg.Close()

	engine, err := buildEngine(cfg, lg.Zerolog())
	if err != nil {
		return err
	}

	message := strings.Join(args, " ")
	answer, err := engine.Ask(cmd.Context(), chatSession, message)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

// buildEngine wires every component from configuration
func buildEngine(cfg *config.Config, lg zerolog.Logger) (*Engine, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	gateway, err := llm.NewGateway(llm.NewOpenAIClient(apiKey), llm.GatewayConfig{
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     lg,
	})
	if err != nil {
		return nil, err
	}

	settings := agent.ModelSettings{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}

	registry := tools.NewRegistry()
	opts := market.Options{
		Scenarios: market.NewScenarioGenerator(gateway, cfg.Model, lg),
	}
	if cfg.News.ListURL != "" {
		opts.News = market.NewHTTPNewsSource(cfg.News.ListURL, nil)
	}
	if cfg.Market.QuoteURL != "" {
		opts.Quotes = market.NewHTTPQuoteService(cfg.Market.QuoteURL, nil)
	}
	if err := market.RegisterAll(registry, opts); err != nil {
		return nil, err
	}

	store := prompt.NewDirStore(cfg.PromptsDir)

	runners := orchestrator.NewRegistry()
	for _, identity := range agent.WorkerIdentities() {
		runner, err := agent.NewRunner(agent.Config{
			Identity: identity,
			Store:    store,
			Gateway:  gateway,
			Registry: registry,
			Tools:    market.ToolsFor(identity),
			Settings: settings,
			Logger:   lg,
		})
		if err != nil {
			return nil, err
		}
		if err := runners.Register(runner); err != nil {
			return nil, err
		}
	}

	executor, err := orchestrator.NewExecutor(runners, lg)
	if err != nil {
		return nil, err
	}

	plnr, err := planner.NewPlanner(planner.Config{
		Store:    store,
		Gateway:  gateway,
		Settings: settings,
		Logger:   lg,
	})
	if err != nil {
		return nil, err
	}

	sessions, err := session.NewStore(cfg.SessionsDir, lg)
	if err != nil {
		return nil, err
	}

	return NewEngine(plnr, executor, sessions, lg), nil
}
